package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/example/cache_channel_sim/cache"
	"github.com/example/cache_channel_sim/hooks"
	"github.com/example/cache_channel_sim/policy"
)

// Simulator wires the producer, cache channel, and backing store into one
// synchronous cycle domain and drives them for a configured number of
// cycles.
type Simulator struct {
	Producer   *Producer
	Channel    *CacheChannel
	Memory     *Memory
	Broker     *hooks.EventBroker
	cfg        *Config
	rng        *rand.Rand
	current    int
	visualizer Visualizer

	isRunning bool
}

func NewSimulator(cfg *Config) (*Simulator, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	pol, err := policy.New(policy.Kind(cfg.PolicyKind), cfg.Ways)
	if err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}

	// The channel performs at most one fill and one read per step through
	// the cache's direct operations, so no staged ports are declared here.
	assoc, err := cache.New(cache.Config{
		Ways:   cfg.Ways,
		Policy: pol,
	})
	if err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}

	mem := NewMemory(cfg.RequestLatency, cfg.ResponseLatency, cfg.DownstreamRate, cfg.DownstreamJitter)
	broker := hooks.NewEventBroker()

	channel, err := NewCacheChannel(ChannelConfig{
		PendingSlots:         cfg.PendingSlots,
		ResponseBufferDepth:  cfg.ResponseBufferDepth,
		MergeDuplicateMisses: cfg.MergeDuplicateMisses,
	}, assoc, mem, broker)
	if err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}

	gen := NewProbabilityGenerator(cfg.RequestRate, cfg.AddressSpan, DefaultAddressBase, rng)

	sim := &Simulator{
		Producer: NewProducer(gen),
		Channel:  channel,
		Memory:   mem,
		Broker:   broker,
		cfg:      cfg,
		rng:      rng,
	}
	sim.visualizer = sim.initVisualizer()
	return sim, nil
}

func (s *Simulator) initVisualizer() Visualizer {
	mode := s.cfg.VisualMode
	if mode == "" {
		mode = "web"
	}
	if s.cfg.Headless || mode == "none" {
		viz := NewNullVisualizer()
		viz.SetHeadless(true)
		return viz
	}
	viz := NewWebVisualizer(s.cfg.WebAddr)
	viz.SetHeadless(false)
	return viz
}

// stepCycle advances every component by one cycle in a fixed order: the
// backing store services and completes first, then the producer's offer is
// presented to the channel, then the handshake outcomes are fed back.
func (s *Simulator) stepCycle(cycle int) {
	s.Memory.Tick(cycle)

	offer := s.Producer.Tick(cycle)
	consumerReady := s.cfg.ConsumerReadyRate >= 1.0 || s.rng.Float64() < s.cfg.ConsumerReadyRate

	out := s.Channel.Step(StepInput{
		Cycle:         cycle,
		Offer:         offer,
		ConsumerReady: consumerReady,
	})

	s.Producer.OnOutcome(cycle, out)
	if out.Delivered != nil {
		s.Producer.OnResponse(cycle, *out.Delivered)
	}
}

// Run executes the configured cycle count, then keeps stepping without new
// traffic until all in-flight work drains or the drain budget runs out.
func (s *Simulator) Run() {
	s.isRunning = true

	for s.current < s.cfg.TotalCycles {
		cycle := s.current
		s.current++

		s.stepCycle(cycle)
		metrics.RecordCycles(1)

		if s.visualizer != nil && !s.visualizer.IsHeadless() {
			s.visualizer.PublishFrame(s.buildFrame(cycle))
			time.Sleep(DefaultVisualizationDelay)
		}
	}

	s.drain()
	s.isRunning = false
}

func (s *Simulator) drain() {
	s.Producer.StopGeneration()
	for i := 0; i < DrainBudget; i++ {
		if s.Producer.Outstanding() == 0 && s.Channel.Idle() && s.Memory.InTransit() == 0 {
			return
		}
		cycle := s.current
		s.current++

		s.Memory.Tick(cycle)
		offer := s.Producer.Tick(cycle)
		out := s.Channel.Step(StepInput{Cycle: cycle, Offer: offer, ConsumerReady: true})
		s.Producer.OnOutcome(cycle, out)
		if out.Delivered != nil {
			s.Producer.OnResponse(cycle, *out.Delivered)
		}
	}
	GetLogger().Warnf("drain budget exhausted with %d requests outstanding", s.Producer.Outstanding())
}

func (s *Simulator) buildFrame(cycle int) *ChannelFrame {
	snap := s.Channel.Snapshot()
	stats := s.Channel.Stats()
	return &ChannelFrame{
		Cycle:             cycle,
		Occupancy:         snap.Occupancy,
		Ways:              snap.Ways,
		BufferLen:         snap.BufferLen,
		BufferCap:         snap.BufferCap,
		TableLen:          snap.TableLen,
		TableCap:          snap.TableCap,
		Hits:              stats.Hits,
		Misses:            stats.Misses,
		RefusedBufferFull: stats.RefusedBufferFull,
		RefusedTableFull:  stats.RefusedTableFull,
		Evictions:         stats.Evictions,
		Deliveries:        stats.Deliveries,
		Outstanding:       s.Producer.Outstanding(),
	}
}

// CollectStats gathers the per-component counters after (or during) a run.
func (s *Simulator) CollectStats() *SimulationStats {
	return &SimulationStats{
		CyclesRun:  s.current,
		Channel:    s.Channel.Stats(),
		Producer:   s.Producer.SnapshotStats(),
		Downstream: s.Memory.SnapshotStats(),
	}
}
