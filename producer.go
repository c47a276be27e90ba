package main

import "github.com/example/cache_channel_sim/core"

// Producer is the upstream consumer-side driver: it turns generator output
// into requests, offers at most one per cycle under the handshake, holds a
// refused request stable and re-offers it on later cycles, and collects
// round-trip latency when responses come back.
type Producer struct {
	gen RequestGenerator

	nextID      int64
	nextAddress uint64
	backlog     []core.Request
	offer       *core.Request

	generatedAt map[int64]int
	stopped     bool

	// stats
	TotalRequests  int
	CompletedCount int
	RefusedOffers  int
	TotalDelay     int64
	MaxDelay       int
	MinDelay       int
}

func NewProducer(gen RequestGenerator) *Producer {
	return &Producer{
		gen:         gen,
		nextID:      1,
		nextAddress: DefaultAddressBase,
		generatedAt: make(map[int64]int),
		MinDelay:    int(^uint(0) >> 1), // max int
	}
}

// Tick pulls fresh work from the generator and returns this cycle's offer:
// either the request refused last cycle, offered again, or the oldest
// backlog entry. Nil means nothing to offer.
func (p *Producer) Tick(cycle int) *core.Request {
	if p.stopped {
		return p.reoffer()
	}
	for _, result := range p.gen.Next(cycle) {
		address := result.Address
		if address == 0 {
			address = p.nextAddress
			p.nextAddress += DefaultCacheLineSize
		}
		req := core.Request{ID: p.nextID, Address: address}
		p.nextID++
		p.TotalRequests++
		p.generatedAt[req.ID] = cycle
		p.backlog = append(p.backlog, req)
	}
	return p.reoffer()
}

func (p *Producer) reoffer() *core.Request {
	if p.offer == nil && len(p.backlog) > 0 {
		req := p.backlog[0]
		p.backlog = p.backlog[1:]
		p.offer = &req
	}
	return p.offer
}

// StopGeneration freezes the generator so the drain phase only flushes
// already-issued work.
func (p *Producer) StopGeneration() {
	p.stopped = true
}

// OnOutcome completes the handshake for this cycle's offer.
func (p *Producer) OnOutcome(cycle int, out StepOutput) {
	if p.offer == nil {
		return
	}
	if out.Admitted {
		p.offer = nil
		return
	}
	p.RefusedOffers++
	metrics.RecordRefusal(out.Reason)
}

// OnResponse records the round trip for a delivered response.
func (p *Producer) OnResponse(cycle int, resp core.Response) {
	gen, ok := p.generatedAt[resp.ID]
	if !ok {
		GetLogger().Warnf("response for unknown request id %d", resp.ID)
		return
	}
	delay := cycle - gen
	p.CompletedCount++
	p.TotalDelay += int64(delay)
	if delay > p.MaxDelay {
		p.MaxDelay = delay
	}
	if delay < p.MinDelay {
		p.MinDelay = delay
	}
	delete(p.generatedAt, resp.ID)
}

// Outstanding returns the number of generated requests not yet answered,
// including backlog and the held offer.
func (p *Producer) Outstanding() int {
	return len(p.generatedAt)
}

// ProducerStats summarizes upstream activity for reporting.
type ProducerStats struct {
	TotalRequests     int
	CompletedRequests int
	RefusedOffers     int
	AvgDelay          float64
	MaxDelay          int
	MinDelay          int
}

func (p *Producer) SnapshotStats() *ProducerStats {
	var avg float64
	if p.CompletedCount > 0 {
		avg = float64(p.TotalDelay) / float64(p.CompletedCount)
	}
	min := p.MinDelay
	if p.CompletedCount == 0 {
		min = 0
	}
	return &ProducerStats{
		TotalRequests:     p.TotalRequests,
		CompletedRequests: p.CompletedCount,
		RefusedOffers:     p.RefusedOffers,
		AvgDelay:          avg,
		MaxDelay:          p.MaxDelay,
		MinDelay:          min,
	}
}
