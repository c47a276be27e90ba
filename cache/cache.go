// Package cache implements a fully-associative cache with pluggable
// replacement policy, multi-port fill/read access, occupancy tracking and
// synchronous-register commit semantics: every operation inside a step reads
// the state committed at the end of the previous step, and mutations become
// visible only after CommitStep.
package cache

import (
	"fmt"

	"github.com/example/cache_channel_sim/core"
	"github.com/example/cache_channel_sim/policy"
)

// ReadResult is the outcome of a read or lookup.
type ReadResult struct {
	Hit  bool
	Data uint64
}

// Cache is the storage contract the channel orchestrator depends on.
// Implementations must follow register semantics: Lookup and Read observe
// the state committed at the start of the current step, and all mutations
// (fills, invalidations) land when CommitStep is called.
type Cache interface {
	// Lookup peeks at the committed state without recency side effects.
	Lookup(address uint64) ReadResult
	// Read returns the committed entry and notifies the replacement
	// policy. With invalidate set, the matched entry's valid bit clears
	// starting the next step; this step's read still reports the hit.
	Read(address uint64, invalidate bool) ReadResult
	// Fill writes address/data, overwriting in place when the address is
	// already resident, otherwise evicting a victim chosen by the policy.
	// The displaced entry, if it was valid, is returned.
	Fill(address uint64, data uint64) (core.EvictedEntry, bool)
	// CommitStep makes this step's mutations visible.
	CommitStep()

	Occupancy() int
	Ways() int
	Full() bool
	Empty() bool
}

// Entry is one way of the cache.
type Entry struct {
	Valid bool
	Tag   uint64
	Data  uint64
}

// PortKind distinguishes fill and read ports.
type PortKind string

const (
	PortFill PortKind = "fill"
	PortRead PortKind = "read"
)

// PortConfig declares one access port. AllowInvalidate is only legal on
// read ports.
type PortConfig struct {
	Kind            PortKind
	AllowInvalidate bool
}

// Config describes an AssociativeCache at construction time.
type Config struct {
	// Ways is the number of entries; must be >= 1.
	Ways int
	// Policy selects eviction victims. nil picks a default for the
	// geometry (tree-PLRU for power-of-two way counts, LRU otherwise).
	Policy policy.ReplacementPolicy
	// Ports declares the staged access ports. May be empty when the
	// cache is driven through direct Fill/Read calls.
	Ports []PortConfig
}

// AssociativeCache holds W entries with no set restriction: any way may
// hold any address, matched by a parallel tag compare (a linear scan at
// this scale).
type AssociativeCache struct {
	ways int
	pol  policy.ReplacementPolicy

	cur  []Entry // committed state, visible to Lookup/Read
	next []Entry // state under construction for the next step

	// filled marks ways written by a fill in the current step so a
	// lower-priority read-invalidate cannot clobber them.
	filled []bool

	occupancy     int // committed
	nextOccupancy int

	fillPorts []*FillPort
	readPorts []*ReadPort
}

// New validates the configuration and builds the cache. Configuration
// errors (zero ways, policy geometry mismatch, invalidate on a fill port)
// surface here, before any step executes.
func New(cfg Config) (*AssociativeCache, error) {
	if cfg.Ways < 1 {
		return nil, fmt.Errorf("cache: ways must be >= 1, got %d", cfg.Ways)
	}
	pol := cfg.Policy
	if pol == nil {
		var err error
		pol, err = policy.New("", cfg.Ways)
		if err != nil {
			return nil, fmt.Errorf("cache: default policy: %w", err)
		}
	}
	if pol.Ways() != cfg.Ways {
		return nil, fmt.Errorf("cache: policy built for %d ways, cache has %d", pol.Ways(), cfg.Ways)
	}

	c := &AssociativeCache{
		ways:   cfg.Ways,
		pol:    pol,
		cur:    make([]Entry, cfg.Ways),
		next:   make([]Entry, cfg.Ways),
		filled: make([]bool, cfg.Ways),
	}
	for i, pc := range cfg.Ports {
		switch pc.Kind {
		case PortFill:
			if pc.AllowInvalidate {
				return nil, fmt.Errorf("cache: port %d: invalidate is only legal on read ports", i)
			}
			c.fillPorts = append(c.fillPorts, &FillPort{cache: c, index: len(c.fillPorts)})
		case PortRead:
			c.readPorts = append(c.readPorts, &ReadPort{
				cache:           c,
				index:           len(c.readPorts),
				allowInvalidate: pc.AllowInvalidate,
			})
		default:
			return nil, fmt.Errorf("cache: port %d: unknown kind %q", i, pc.Kind)
		}
	}
	return c, nil
}

// Ways returns the configured way count.
func (c *AssociativeCache) Ways() int { return c.ways }

// Occupancy returns the number of valid entries in the committed state.
func (c *AssociativeCache) Occupancy() int { return c.occupancy }

// Full reports whether every way holds a valid committed entry.
func (c *AssociativeCache) Full() bool { return c.occupancy == c.ways }

// Empty reports whether no committed entry is valid.
func (c *AssociativeCache) Empty() bool { return c.occupancy == 0 }

// Lookup peeks the committed state. It never touches recency, so admission
// checks can classify hit/miss without perturbing the policy.
func (c *AssociativeCache) Lookup(address uint64) ReadResult {
	if way := findWay(c.cur, address); way >= 0 {
		return ReadResult{Hit: true, Data: c.cur[way].Data}
	}
	return ReadResult{}
}

// Read evaluates against the committed state and notifies the policy on a
// hit. Invalidation is pipelined one step behind the hit: the valid bit
// clears in the next-state image and lands at CommitStep, so this step's
// read still reports the data. A way refilled by a same-step fill is not
// cleared; fills win conflicts.
func (c *AssociativeCache) Read(address uint64, invalidate bool) ReadResult {
	way := findWay(c.cur, address)
	if way < 0 {
		return ReadResult{}
	}
	res := ReadResult{Hit: true, Data: c.cur[way].Data}
	c.pol.NotifyAccess(way)
	if invalidate && !c.filled[way] && c.next[way].Valid && c.next[way].Tag == address {
		c.next[way].Valid = false
		c.nextOccupancy--
	}
	return res
}

// Fill writes address/data into the next-state image. Residency and victim
// selection are computed against the next-state image so that fills applied
// earlier in the same step (lower port index first) win conflicts: a second
// fill to the same address coalesces onto the same way, and a second fill
// needing a victim never picks an already-claimed invalid way.
func (c *AssociativeCache) Fill(address uint64, data uint64) (core.EvictedEntry, bool) {
	if way := findWay(c.next, address); way >= 0 {
		c.next[way].Data = data
		c.filled[way] = true
		c.pol.NotifyAccess(way)
		return core.EvictedEntry{}, false
	}

	valid := make([]bool, c.ways)
	for i := range c.next {
		valid[i] = c.next[i].Valid
	}
	victim := c.pol.SelectVictim(valid)
	if victim < 0 || victim >= c.ways {
		victim = 0
	}

	var evicted core.EvictedEntry
	hadVictim := false
	if c.next[victim].Valid {
		evicted = core.EvictedEntry{Address: c.next[victim].Tag, Data: c.next[victim].Data}
		hadVictim = true
	} else {
		c.nextOccupancy++
	}
	c.next[victim] = Entry{Valid: true, Tag: address, Data: data}
	c.filled[victim] = true
	c.pol.NotifyAccess(victim)
	return evicted, hadVictim
}

// CommitStep publishes the next-state image as the committed state.
func (c *AssociativeCache) CommitStep() {
	copy(c.cur, c.next)
	c.occupancy = c.nextOccupancy
	for i := range c.filled {
		c.filled[i] = false
	}
}

// Entries returns a copy of the committed entries, for diagnostics.
func (c *AssociativeCache) Entries() []Entry {
	out := make([]Entry, c.ways)
	copy(out, c.cur)
	return out
}

func findWay(entries []Entry, address uint64) int {
	for i := range entries {
		if entries[i].Valid && entries[i].Tag == address {
			return i
		}
	}
	return -1
}

var _ Cache = (*AssociativeCache)(nil)
