package main

import (
	"testing"
	"time"

	"github.com/example/cache_channel_sim/core"
)

func TestMetricsCollectorCountsRefusalsByReason(t *testing.T) {
	m := newMetricsCollector(time.Hour)
	m.RecordRefusal(core.RefuseBufferFull)
	m.RecordRefusal(core.RefuseBufferFull)
	m.RecordRefusal(core.RefuseTableFull)
	m.RecordRefusal(core.RefuseNone)
	m.RecordCycles(3)

	if got := m.refusals[core.RefuseBufferFull]; got != 2 {
		t.Errorf("buffer refusals = %d, want 2", got)
	}
	if got := m.refusals[core.RefuseTableFull]; got != 1 {
		t.Errorf("table refusals = %d, want 1", got)
	}
	if got := m.refusals[core.RefuseNone]; got != 0 {
		t.Errorf("admitted outcomes counted as refusals: %d", got)
	}
	if m.cycleCount != 3 {
		t.Errorf("cycleCount = %d, want 3", m.cycleCount)
	}
}

func TestMetricsCollectorNilReceiver(t *testing.T) {
	var m *metricsCollector
	m.RecordCycles(1)
	m.RecordRefusal(core.RefuseBufferFull)
}
