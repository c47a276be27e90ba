package policy

import "fmt"

// PseudoLRU is a tree-PLRU policy: one recency bit per internal node of a
// perfect binary tree over the ways, O(log W) state. A cleared bit steers
// the victim walk left, so the untouched policy deterministically selects
// way 0.
type PseudoLRU struct {
	ways int
	bits []bool // internal nodes in level order; children of i are 2i+1, 2i+2
}

// NewPseudoLRU creates a tree-PLRU policy. The way count must be a power of
// two so the recency tree is perfect; use NewLRU for other geometries.
func NewPseudoLRU(ways int) (*PseudoLRU, error) {
	if ways < 1 {
		return nil, fmt.Errorf("pseudo-lru: ways must be >= 1, got %d", ways)
	}
	if !isPowerOfTwo(ways) {
		return nil, fmt.Errorf("pseudo-lru: ways must be a power of two, got %d", ways)
	}
	return &PseudoLRU{
		ways: ways,
		bits: make([]bool, ways-1),
	}, nil
}

func (p *PseudoLRU) Ways() int {
	return p.ways
}

// SelectVictim prefers the lowest invalid way, otherwise walks the tree from
// the root following the recency bits away from recently used ways.
func (p *PseudoLRU) SelectVictim(valid []bool) int {
	if way := lowestInvalid(valid, p.ways); way >= 0 {
		return way
	}
	node := 0
	lo, hi := 0, p.ways
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if p.bits[node] {
			node = 2*node + 2
			lo = mid
		} else {
			node = 2*node + 1
			hi = mid
		}
	}
	return lo
}

// NotifyAccess flips the bits along the root-to-leaf path so that the victim
// walk steers away from the accessed way.
func (p *PseudoLRU) NotifyAccess(way int) {
	if way < 0 || way >= p.ways {
		return
	}
	node := 0
	lo, hi := 0, p.ways
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if way < mid {
			p.bits[node] = true // accessed left half; victims go right
			node = 2*node + 1
			hi = mid
		} else {
			p.bits[node] = false // accessed right half; victims go left
			node = 2*node + 2
			lo = mid
		}
	}
}

func (p *PseudoLRU) Reset() {
	for i := range p.bits {
		p.bits[i] = false
	}
}

var _ ReplacementPolicy = (*PseudoLRU)(nil)
