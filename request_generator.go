package main

import "math/rand"

// GenerationResult describes one request the workload wants issued.
// Address 0 means auto-increment from the producer's address counter.
type GenerationResult struct {
	Address uint64
}

// RequestGenerator defines the interface for producing workload requests.
type RequestGenerator interface {
	// Next returns the requests to generate at the given cycle; an empty
	// slice means no generation this cycle.
	Next(cycle int) []GenerationResult

	// Reset restores the generator's initial state (called on simulation
	// reset).
	Reset()
}

// ProbabilityGenerator issues at most one request per cycle with probability
// Rate, drawing addresses uniformly from a bounded span of lines so the
// workload re-references addresses and produces hits.
type ProbabilityGenerator struct {
	Rate float64
	Span int
	Base uint64
	rng  *rand.Rand
}

func NewProbabilityGenerator(rate float64, span int, base uint64, rng *rand.Rand) *ProbabilityGenerator {
	if span < 1 {
		span = 1
	}
	if base == 0 {
		base = DefaultAddressBase
	}
	return &ProbabilityGenerator{Rate: rate, Span: span, Base: base, rng: rng}
}

func (pg *ProbabilityGenerator) Next(cycle int) []GenerationResult {
	if pg.rng.Float64() >= pg.Rate {
		return nil
	}
	address := pg.Base + uint64(pg.rng.Intn(pg.Span))*DefaultCacheLineSize
	return []GenerationResult{{Address: address}}
}

func (pg *ProbabilityGenerator) Reset() {}

// ScheduleItem defines a single request in a deterministic schedule.
type ScheduleItem struct {
	Address uint64 // 0 means auto-increment
}

// ScheduleGenerator replays a fixed cycle -> requests schedule. Multiple
// items in one cycle queue up inside the producer and are offered one per
// cycle under the handshake.
type ScheduleGenerator struct {
	schedule         map[int][]ScheduleItem
	originalSchedule map[int][]ScheduleItem
}

func NewScheduleGenerator(schedule map[int][]ScheduleItem) *ScheduleGenerator {
	return &ScheduleGenerator{
		schedule:         copySchedule(schedule),
		originalSchedule: copySchedule(schedule),
	}
}

func (sg *ScheduleGenerator) Next(cycle int) []GenerationResult {
	items, ok := sg.schedule[cycle]
	if !ok || len(items) == 0 {
		return nil
	}
	results := make([]GenerationResult, 0, len(items))
	for _, item := range items {
		results = append(results, GenerationResult{Address: item.Address})
	}
	delete(sg.schedule, cycle)
	return results
}

func (sg *ScheduleGenerator) Reset() {
	sg.schedule = copySchedule(sg.originalSchedule)
}

func copySchedule(src map[int][]ScheduleItem) map[int][]ScheduleItem {
	dst := make(map[int][]ScheduleItem, len(src))
	for cycle, items := range src {
		itemsCopy := make([]ScheduleItem, len(items))
		copy(itemsCopy, items)
		dst[cycle] = itemsCopy
	}
	return dst
}
