package policy

import (
	"container/list"
	"fmt"
)

// LRU is a true least-recently-used policy backed by an intrusive recency
// list. It supports any way count, at the cost of O(W) state instead of the
// O(log W) bits of PseudoLRU.
type LRU struct {
	ways  int
	order *list.List // front = most recently used; values are way indexes
	elems []*list.Element
}

// NewLRU creates a list-backed LRU policy for the given way count.
func NewLRU(ways int) (*LRU, error) {
	if ways < 1 {
		return nil, fmt.Errorf("lru: ways must be >= 1, got %d", ways)
	}
	l := &LRU{
		ways:  ways,
		order: list.New(),
		elems: make([]*list.Element, ways),
	}
	l.seed()
	return l, nil
}

// seed orders the untouched list so that way 0 is the first victim.
func (l *LRU) seed() {
	for way := 0; way < l.ways; way++ {
		l.elems[way] = l.order.PushFront(way)
	}
}

func (l *LRU) Ways() int {
	return l.ways
}

func (l *LRU) SelectVictim(valid []bool) int {
	if way := lowestInvalid(valid, l.ways); way >= 0 {
		return way
	}
	return l.order.Back().Value.(int)
}

func (l *LRU) NotifyAccess(way int) {
	if way < 0 || way >= l.ways {
		return
	}
	l.order.MoveToFront(l.elems[way])
}

func (l *LRU) Reset() {
	l.order.Init()
	l.seed()
}

var _ ReplacementPolicy = (*LRU)(nil)
