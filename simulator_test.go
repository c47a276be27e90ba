package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headlessConfig() *Config {
	return &Config{
		Ways:                8,
		PolicyKind:          "plru",
		PendingSlots:        4,
		ResponseBufferDepth: 8,
		TotalCycles:         300,
		RequestRate:         0.5,
		AddressSpan:         8,
		Seed:                42,
		RequestLatency:      2,
		ResponseLatency:     2,
		DownstreamRate:      1,
		ConsumerReadyRate:   1.0,
		Headless:            true,
		VisualMode:          "none",
	}
}

func TestNewSimulatorRejectsInvalidConfig(t *testing.T) {
	cfg := headlessConfig()
	cfg.Ways = 0
	_, err := NewSimulator(cfg)
	assert.Error(t, err)
}

// A seeded headless run drains completely: every generated request comes
// back, and every request was classified exactly once.
func TestSimulatorHeadlessRunDrains(t *testing.T) {
	cfg := headlessConfig()
	sim, err := NewSimulator(cfg)
	require.NoError(t, err)

	sim.Run()
	stats := sim.CollectStats()

	require.NotNil(t, stats.Producer)
	assert.Greater(t, stats.Producer.TotalRequests, 0)
	assert.Equal(t, stats.Producer.TotalRequests, stats.Producer.CompletedRequests)
	assert.Equal(t, 0, sim.Producer.Outstanding())
	assert.True(t, sim.Channel.Idle())
	assert.Equal(t, 0, sim.Memory.InTransit())

	c := stats.Channel
	assert.Equal(t, uint64(stats.Producer.TotalRequests), c.Hits+c.Misses)
	assert.Equal(t, uint64(stats.Producer.TotalRequests), c.Deliveries)
	assert.Equal(t, uint64(0), c.ProtocolViolations)
}

// Two runs with the same seed produce identical counters.
func TestSimulatorSeededRunsAreReproducible(t *testing.T) {
	first, err := NewSimulator(headlessConfig())
	require.NoError(t, err)
	first.Run()

	second, err := NewSimulator(headlessConfig())
	require.NoError(t, err)
	second.Run()

	assert.Equal(t, first.Channel.Stats(), second.Channel.Stats())
	assert.Equal(t, first.Producer.SnapshotStats(), second.Producer.SnapshotStats())
}

// A fixed schedule gives an exactly predictable hit/miss breakdown: the
// first touch of a line misses, a later touch after the fill hits.
func TestSimulatorScheduledWorkload(t *testing.T) {
	cfg := headlessConfig()
	cfg.TotalCycles = 40
	sim, err := NewSimulator(cfg)
	require.NoError(t, err)

	sim.Producer = NewProducer(NewScheduleGenerator(map[int][]ScheduleItem{
		0:  {{Address: 0x1000}},
		10: {{Address: 0x1000}},
		20: {{Address: 0x2000}},
	}))

	sim.Run()
	stats := sim.CollectStats()

	assert.Equal(t, 3, stats.Producer.TotalRequests)
	assert.Equal(t, 3, stats.Producer.CompletedRequests)
	assert.Equal(t, uint64(1), stats.Channel.Hits)
	assert.Equal(t, uint64(2), stats.Channel.Misses)
	assert.Equal(t, uint64(0), stats.Channel.Evictions)
}

// Jitter makes completion latency address-dependent, so responses to
// different lines can return out of order; the run must still drain with
// every request answered.
func TestSimulatorOutOfOrderCompletionDrains(t *testing.T) {
	cfg := headlessConfig()
	cfg.DownstreamJitter = 5
	cfg.DownstreamRate = 2
	cfg.AddressSpan = 32
	sim, err := NewSimulator(cfg)
	require.NoError(t, err)

	sim.Run()
	stats := sim.CollectStats()

	assert.Equal(t, stats.Producer.TotalRequests, stats.Producer.CompletedRequests)
	assert.Equal(t, uint64(0), stats.Channel.ProtocolViolations)
}

func TestPredefinedConfigsAreValid(t *testing.T) {
	for _, named := range GetPredefinedConfigs() {
		cfg := named.Config
		if err := ValidateConfig(&cfg); err != nil {
			t.Errorf("config %q invalid: %v", named.Name, err)
		}
	}
}
