package main

// inFlightItem is a payload that is currently in transit on a Link.
type inFlightItem[T any] struct {
	payload      T
	arrivalCycle int
	seq          int
}

// Link is a simple infinite-capacity wire that only models fixed delays.
// Arrivals are consumed in (arrival cycle, send order) order, so a link with
// uniform latency preserves ordering while address-dependent latencies may
// reorder deliveries.
type Link[T any] struct {
	inFlight []*inFlightItem[T]
	nextSeq  int
}

func NewLink[T any]() *Link[T] {
	return &Link[T]{inFlight: make([]*inFlightItem[T], 0)}
}

// Send enqueues a payload that becomes deliverable after the given latency.
func (l *Link[T]) Send(payload T, currentCycle, latency int) {
	l.inFlight = append(l.inFlight, &inFlightItem[T]{
		payload:      payload,
		arrivalCycle: currentCycle + latency,
		seq:          l.nextSeq,
	})
	l.nextSeq++
}

// Peek returns the earliest deliverable payload at the given cycle without
// removing it.
func (l *Link[T]) Peek(cycle int) (T, bool) {
	idx := l.earliest(cycle)
	if idx < 0 {
		var zero T
		return zero, false
	}
	return l.inFlight[idx].payload, true
}

// Pop removes and returns the earliest deliverable payload at the given
// cycle.
func (l *Link[T]) Pop(cycle int) (T, bool) {
	idx := l.earliest(cycle)
	if idx < 0 {
		var zero T
		return zero, false
	}
	item := l.inFlight[idx]
	l.inFlight = append(l.inFlight[:idx], l.inFlight[idx+1:]...)
	return item.payload, true
}

// InFlightCount returns the number of payloads still in transit or waiting
// to be consumed.
func (l *Link[T]) InFlightCount() int { return len(l.inFlight) }

func (l *Link[T]) earliest(cycle int) int {
	best := -1
	for i, item := range l.inFlight {
		if item.arrivalCycle > cycle {
			continue
		}
		if best < 0 ||
			item.arrivalCycle < l.inFlight[best].arrivalCycle ||
			(item.arrivalCycle == l.inFlight[best].arrivalCycle && item.seq < l.inFlight[best].seq) {
			best = i
		}
	}
	return best
}
