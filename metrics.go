package main

import (
	"sync"
	"time"

	"github.com/example/cache_channel_sim/core"
)

type metricsCollector struct {
	mu             sync.Mutex
	interval       time.Duration
	cycleCount     int
	refusals       map[core.RefuseReason]int
	lastReportTime time.Time
}

func newMetricsCollector(interval time.Duration) *metricsCollector {
	return &metricsCollector{
		interval:       interval,
		refusals:       make(map[core.RefuseReason]int),
		lastReportTime: time.Now(),
	}
}

func (m *metricsCollector) RecordCycles(count int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.cycleCount += count
	m.emitIfNeeded()
	m.mu.Unlock()
}

func (m *metricsCollector) RecordRefusal(reason core.RefuseReason) {
	if m == nil || reason == core.RefuseNone {
		return
	}
	m.mu.Lock()
	m.refusals[reason]++
	m.emitIfNeeded()
	m.mu.Unlock()
}

func (m *metricsCollector) emitIfNeeded() {
	now := time.Now()
	if now.Sub(m.lastReportTime) < m.interval {
		return
	}
	duration := now.Sub(m.lastReportTime).Seconds()
	throughput := float64(m.cycleCount)
	if duration > 0 {
		throughput = throughput / duration
	}
	GetLogger().Infof("Throughput %.0f cycles/s, refusals buffer=%d table=%d downstream=%d",
		throughput,
		m.refusals[core.RefuseBufferFull],
		m.refusals[core.RefuseTableFull],
		m.refusals[core.RefuseDownstreamBusy])
	m.cycleCount = 0
	m.refusals = make(map[core.RefuseReason]int)
	m.lastReportTime = now
}

var metrics = newMetricsCollector(5 * time.Second)
