package queue

import "testing"

func TestTrackedQueueFIFO(t *testing.T) {
	q := NewTrackedQueue[int]("fifo", 4, nil, Hooks[int]{})
	for i := 0; i < 3; i++ {
		if !q.Enqueue(i, 0) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	if front, ok := q.PeekFront(); !ok || front != 0 {
		t.Fatalf("expected front 0, got %d (ok=%v)", front, ok)
	}
	for want := 0; want < 3; want++ {
		got, ok := q.PopFront(0)
		if !ok || got != want {
			t.Fatalf("pop %d: got %d ok=%v", want, got, ok)
		}
	}
	if _, ok := q.PopFront(0); ok {
		t.Fatalf("pop on empty queue should fail")
	}
}

func TestTrackedQueueCapacityRefusal(t *testing.T) {
	q := NewTrackedQueue[string]("bounded", 2, nil, Hooks[string]{})
	if !q.Enqueue("a", 0) || !q.Enqueue("b", 0) {
		t.Fatalf("expected two enqueues to succeed")
	}
	if q.Enqueue("c", 0) {
		t.Fatalf("enqueue beyond capacity should be refused")
	}
	if !q.Full() {
		t.Fatalf("queue should report full")
	}
	if q.FreeSlots() != 0 {
		t.Fatalf("expected 0 free slots, got %d", q.FreeSlots())
	}
	if q.CanAccept(1) {
		t.Fatalf("full queue should not accept more items")
	}
	q.PopFront(1)
	if q.FreeSlots() != 1 {
		t.Fatalf("expected 1 free slot after pop, got %d", q.FreeSlots())
	}
}

func TestTrackedQueueHooksAndMutate(t *testing.T) {
	var enq, deq, mutations int
	var lastLen int
	q := NewTrackedQueue[int]("hooked", UnlimitedCapacity,
		func(length, capacity int) {
			mutations++
			lastLen = length
		},
		Hooks[int]{
			OnEnqueue: func(item, cycle int) { enq++ },
			OnDequeue: func(item, cycle int) { deq++ },
		})

	q.Enqueue(7, 3)
	q.Enqueue(8, 3)
	q.PopFront(4)
	if enq != 2 || deq != 1 {
		t.Fatalf("hooks fired enq=%d deq=%d", enq, deq)
	}
	// one construction notify plus three mutations
	if mutations != 4 {
		t.Fatalf("expected 4 mutate callbacks, got %d", mutations)
	}
	if lastLen != 1 || q.Len() != 1 {
		t.Fatalf("length bookkeeping mismatch: lastLen=%d len=%d", lastLen, q.Len())
	}
}

func TestTrackedQueueUnlimited(t *testing.T) {
	q := NewTrackedQueue[int]("open", UnlimitedCapacity, nil, Hooks[int]{})
	for i := 0; i < 100; i++ {
		if !q.Enqueue(i, 0) {
			t.Fatalf("unlimited queue refused item %d", i)
		}
	}
	if q.Full() {
		t.Fatalf("unlimited queue must never be full")
	}
	if !q.CanAccept(1 << 20) {
		t.Fatalf("unlimited queue should accept any count")
	}
}
