package queue

// UnlimitedCapacity disables the capacity bound of a TrackedQueue.
const UnlimitedCapacity = -1

// MutateFunc is invoked after queue length or capacity changes, typically to
// feed occupancy into the visualizer or instrumentation.
type MutateFunc func(length int, capacity int)

// Hooks defines callbacks for queue lifecycle events. The cycle argument is
// the simulation step the mutation happened in.
type Hooks[T any] struct {
	OnEnqueue func(item T, cycle int)
	OnDequeue func(item T, cycle int)
}

// TrackedQueue is a bounded FIFO with length/capacity bookkeeping. A full
// queue refuses enqueues instead of dropping, which makes it the building
// block for handshake-based backpressure.
type TrackedQueue[T any] struct {
	name     string
	capacity int
	items    []T
	hooks    Hooks[T]
	mutate   MutateFunc
}

// NewTrackedQueue constructs a tracked queue with optional hooks and mutate
// callback. capacity may be UnlimitedCapacity.
func NewTrackedQueue[T any](name string, capacity int, mutate MutateFunc, hooks Hooks[T]) *TrackedQueue[T] {
	q := &TrackedQueue[T]{
		name:     name,
		capacity: capacity,
		hooks:    hooks,
		mutate:   mutate,
	}
	q.notify()
	return q
}

// Name returns the queue name.
func (q *TrackedQueue[T]) Name() string {
	if q == nil {
		return ""
	}
	return q.name
}

// Capacity returns the capacity (-1 for unlimited).
func (q *TrackedQueue[T]) Capacity() int {
	if q == nil {
		return 0
	}
	return q.capacity
}

// Len returns the number of queued items.
func (q *TrackedQueue[T]) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Full reports whether the queue is at capacity.
func (q *TrackedQueue[T]) Full() bool {
	if q == nil || q.capacity < 0 {
		return false
	}
	return len(q.items) >= q.capacity
}

// FreeSlots returns the remaining capacity. Unbounded queues report a large
// positive count.
func (q *TrackedQueue[T]) FreeSlots() int {
	if q == nil {
		return 0
	}
	if q.capacity < 0 {
		return int(^uint(0) >> 1)
	}
	free := q.capacity - len(q.items)
	if free < 0 {
		return 0
	}
	return free
}

// CanAccept checks whether itemsCount more entries fit.
func (q *TrackedQueue[T]) CanAccept(itemsCount int) bool {
	if q == nil {
		return false
	}
	if q.capacity < 0 {
		return true
	}
	return len(q.items)+itemsCount <= q.capacity
}

// Enqueue appends an item. Returns false when the queue is full; the item is
// not stored and no hook fires.
func (q *TrackedQueue[T]) Enqueue(item T, cycle int) bool {
	if q == nil {
		return false
	}
	if q.capacity >= 0 && len(q.items) >= q.capacity {
		return false
	}
	q.items = append(q.items, item)
	if q.hooks.OnEnqueue != nil {
		q.hooks.OnEnqueue(item, cycle)
	}
	q.notify()
	return true
}

// PeekFront returns the front item without removing it.
func (q *TrackedQueue[T]) PeekFront() (T, bool) {
	var zero T
	if q == nil || len(q.items) == 0 {
		return zero, false
	}
	return q.items[0], true
}

// PopFront removes and returns the front item.
func (q *TrackedQueue[T]) PopFront(cycle int) (T, bool) {
	var zero T
	if q == nil || len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	if q.hooks.OnDequeue != nil {
		q.hooks.OnDequeue(item, cycle)
	}
	q.notify()
	return item, true
}

// Items exposes the underlying slice (read-only operations only).
func (q *TrackedQueue[T]) Items() []T {
	if q == nil {
		return nil
	}
	return q.items
}

func (q *TrackedQueue[T]) notify() {
	if q == nil || q.mutate == nil {
		return
	}
	q.mutate(len(q.items), q.capacity)
}
