// Package table implements the pending request table: a fixed-capacity
// content-addressable memory of in-flight miss addresses and the upstream
// request ids waiting on each of them.
package table

import "fmt"

type pendingEntry struct {
	valid      bool
	address    uint64
	requestIDs []int64
}

// PendingRequestTable tracks forwarded misses until their downstream
// response returns. Capacity is fixed at construction; a full table refuses
// inserts and the orchestrator turns that refusal into backpressure.
//
// Duplicate in-flight addresses occupy independent slots unless the caller
// opts into merging via Attach. Associative operations resolve ties toward
// the lowest slot index, so behavior is deterministic.
type PendingRequestTable struct {
	slots []pendingEntry
	used  int
}

// New creates a table with the given slot count. A zero or negative capacity
// is a configuration error.
func New(capacity int) (*PendingRequestTable, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("pending request table: capacity must be >= 1, got %d", capacity)
	}
	return &PendingRequestTable{slots: make([]pendingEntry, capacity)}, nil
}

// Capacity returns the fixed slot count.
func (t *PendingRequestTable) Capacity() int {
	return len(t.slots)
}

// Len returns the number of occupied slots.
func (t *PendingRequestTable) Len() int {
	return t.used
}

// IsFull reports whether every slot is occupied.
func (t *PendingRequestTable) IsFull() bool {
	return t.used >= len(t.slots)
}

// FreeSlots returns the number of unoccupied slots.
func (t *PendingRequestTable) FreeSlots() int {
	return len(t.slots) - t.used
}

// TryInsert records an in-flight miss in the lowest free slot. It returns
// false with no side effect when the table is full.
func (t *PendingRequestTable) TryInsert(address uint64, requestID int64) bool {
	for i := range t.slots {
		if t.slots[i].valid {
			continue
		}
		t.slots[i] = pendingEntry{
			valid:      true,
			address:    address,
			requestIDs: []int64{requestID},
		}
		t.used++
		return true
	}
	return false
}

// Attach joins requestID to an already in-flight entry for address without
// consuming a slot. Returns false when no entry matches.
func (t *PendingRequestTable) Attach(address uint64, requestID int64) bool {
	i := t.find(address)
	if i < 0 {
		return false
	}
	t.slots[i].requestIDs = append(t.slots[i].requestIDs, requestID)
	return true
}

// Contains reports whether any slot holds address.
func (t *PendingRequestTable) Contains(address uint64) bool {
	return t.find(address) >= 0
}

// Match returns the request ids waiting on address without removing the
// entry. The returned slice is a copy.
func (t *PendingRequestTable) Match(address uint64) ([]int64, bool) {
	i := t.find(address)
	if i < 0 {
		return nil, false
	}
	ids := make([]int64, len(t.slots[i].requestIDs))
	copy(ids, t.slots[i].requestIDs)
	return ids, true
}

// MatchAndRemove pops the first entry holding address and returns its
// request ids. A miss here means the downstream collaborator responded to
// an address this layer never forwarded; the caller decides how loudly to
// complain.
func (t *PendingRequestTable) MatchAndRemove(address uint64) ([]int64, bool) {
	i := t.find(address)
	if i < 0 {
		return nil, false
	}
	ids := t.slots[i].requestIDs
	t.slots[i] = pendingEntry{}
	t.used--
	return ids, true
}

// Flush clears every slot.
func (t *PendingRequestTable) Flush() {
	for i := range t.slots {
		t.slots[i] = pendingEntry{}
	}
	t.used = 0
}

// Addresses returns the occupied addresses in slot order, for diagnostics
// and visualization.
func (t *PendingRequestTable) Addresses() []uint64 {
	out := make([]uint64, 0, t.used)
	for i := range t.slots {
		if t.slots[i].valid {
			out = append(out, t.slots[i].address)
		}
	}
	return out
}

func (t *PendingRequestTable) find(address uint64) int {
	for i := range t.slots {
		if t.slots[i].valid && t.slots[i].address == address {
			return i
		}
	}
	return -1
}
