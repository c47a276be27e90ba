package cache

import (
	"fmt"

	"github.com/example/cache_channel_sim/core"
)

// FillPort stages one fill per step. All staged port operations are
// evaluated by Step in a fixed priority order: fill ports before read
// ports, lower index first.
type FillPort struct {
	cache *AssociativeCache
	index int

	staged  bool
	address uint64
	data    uint64

	evicted    core.EvictedEntry
	hasEvicted bool
}

// Index returns the port's position among the fill ports.
func (p *FillPort) Index() int { return p.index }

// Stage records the fill to evaluate at the next Step. Staging twice in one
// step replaces the earlier request.
func (p *FillPort) Stage(address, data uint64) {
	p.staged = true
	p.address = address
	p.data = data
}

// Evicted returns the entry displaced by the port's last evaluated fill.
func (p *FillPort) Evicted() (core.EvictedEntry, bool) {
	return p.evicted, p.hasEvicted
}

// ReadPort stages one read per step. Invalidate-on-read must have been
// enabled at construction.
type ReadPort struct {
	cache           *AssociativeCache
	index           int
	allowInvalidate bool

	staged     bool
	address    uint64
	invalidate bool

	result ReadResult
}

// Index returns the port's position among the read ports.
func (p *ReadPort) Index() int { return p.index }

// AllowsInvalidate reports whether the port was built with read-with-
// invalidate capability.
func (p *ReadPort) AllowsInvalidate() bool { return p.allowInvalidate }

// Stage records the read to evaluate at the next Step. Requesting
// invalidate on a port built without the capability is a misuse and is
// rejected without staging anything.
func (p *ReadPort) Stage(address uint64, invalidate bool) error {
	if invalidate && !p.allowInvalidate {
		return fmt.Errorf("cache: read port %d: invalidate not enabled", p.index)
	}
	p.staged = true
	p.address = address
	p.invalidate = invalidate
	return nil
}

// Result returns the outcome of the port's last evaluated read.
func (p *ReadPort) Result() ReadResult { return p.result }

// FillPortCount returns the number of fill ports.
func (c *AssociativeCache) FillPortCount() int { return len(c.fillPorts) }

// ReadPortCount returns the number of read ports.
func (c *AssociativeCache) ReadPortCount() int { return len(c.readPorts) }

// FillPort returns the i-th fill port in declaration order.
func (c *AssociativeCache) FillPort(i int) *FillPort {
	if i < 0 || i >= len(c.fillPorts) {
		return nil
	}
	return c.fillPorts[i]
}

// ReadPort returns the i-th read port in declaration order.
func (c *AssociativeCache) ReadPort(i int) *ReadPort {
	if i < 0 || i >= len(c.readPorts) {
		return nil
	}
	return c.readPorts[i]
}

// Step evaluates every staged port operation against the state committed at
// the previous step and then commits. Fill ports run before read ports,
// lower index first; that order is the documented conflict resolution for
// two fills racing for a victim or a fill and a read touching the same
// address.
func (c *AssociativeCache) Step() {
	for _, p := range c.fillPorts {
		if !p.staged {
			continue
		}
		p.evicted, p.hasEvicted = c.Fill(p.address, p.data)
		p.staged = false
	}
	for _, p := range c.readPorts {
		if !p.staged {
			continue
		}
		p.result = c.Read(p.address, p.invalidate)
		p.staged = false
	}
	c.CommitStep()
}
