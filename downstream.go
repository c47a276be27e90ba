package main

import "github.com/example/cache_channel_sim/core"

// Memory models the downstream provider: a backing store on the far side of
// two delay wires. It answers every forwarded miss exactly once, after the
// request wire latency, its own service rate, and the response wire latency
// (plus an optional address-dependent jitter that makes completions finish
// out of order).
type Memory struct {
	requestLatency  int
	responseLatency int
	processRate     int
	jitter          int

	requests  *Link[core.Request]
	responses *Link[core.Response]
	backing   map[uint64]uint64

	// stats
	Processed    int
	MaxInTransit int
}

func NewMemory(requestLatency, responseLatency, processRate, jitter int) *Memory {
	if processRate < 1 {
		processRate = 1
	}
	return &Memory{
		requestLatency:  requestLatency,
		responseLatency: responseLatency,
		processRate:     processRate,
		jitter:          jitter,
		requests:        NewLink[core.Request](),
		responses:       NewLink[core.Response](),
		backing:         make(map[uint64]uint64),
	}
}

// Store seeds the backing store with explicit data for an address.
func (m *Memory) Store(address, data uint64) {
	m.backing[address] = data
}

// load returns seeded data, or a deterministic address-derived pattern so
// any address resolves.
func (m *Memory) load(address uint64) uint64 {
	if data, ok := m.backing[address]; ok {
		return data
	}
	return address ^ DefaultDataPattern
}

// Offer accepts a forwarded miss onto the request wire. The wire has no
// capacity bound, so the offer always completes.
func (m *Memory) Offer(cycle int, req core.Request) bool {
	m.requests.Send(req, cycle, m.requestLatency)
	if n := m.requests.InFlightCount() + m.responses.InFlightCount(); n > m.MaxInTransit {
		m.MaxInTransit = n
	}
	return true
}

// Tick services up to processRate arrived requests and schedules their
// responses. With jitter enabled the latency depends on the address, so
// responses to different addresses may return out of order.
func (m *Memory) Tick(cycle int) {
	for i := 0; i < m.processRate; i++ {
		req, ok := m.requests.Pop(cycle)
		if !ok {
			return
		}
		latency := m.responseLatency
		if m.jitter > 0 {
			latency += int(req.Address>>3) % m.jitter
		}
		m.responses.Send(core.Response{
			ID:      req.ID,
			Address: req.Address,
			Data:    m.load(req.Address),
		}, cycle, latency)
		m.Processed++
	}
}

// PeekResponse exposes the earliest arrived response without consuming it;
// the channel leaves it here when it cannot take it this step.
func (m *Memory) PeekResponse(cycle int) (core.Response, bool) {
	return m.responses.Peek(cycle)
}

// PopResponse consumes the earliest arrived response.
func (m *Memory) PopResponse(cycle int) {
	m.responses.Pop(cycle)
}

// InTransit returns the number of requests and responses still on the wires.
func (m *Memory) InTransit() int {
	return m.requests.InFlightCount() + m.responses.InFlightCount()
}

// MemoryStats summarizes downstream activity for reporting.
type MemoryStats struct {
	TotalProcessed int
	MaxInTransit   int
}

func (m *Memory) SnapshotStats() *MemoryStats {
	return &MemoryStats{
		TotalProcessed: m.Processed,
		MaxInTransit:   m.MaxInTransit,
	}
}
