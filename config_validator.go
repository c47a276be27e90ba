package main

import (
	"errors"
	"fmt"
)

// ValidateConfig applies structural checks to Config and populates defaults
// where required. Violations of the construction-time contract (zero ways,
// zero table slots, zero buffer depth) are fatal errors, distinct from
// runtime capacity conditions which are always handled by non-admission.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if cfg.Ways <= 0 {
		return fmt.Errorf("Ways must be positive, got %d", cfg.Ways)
	}
	if cfg.PendingSlots <= 0 {
		return fmt.Errorf("PendingSlots must be positive, got %d", cfg.PendingSlots)
	}
	if cfg.ResponseBufferDepth <= 0 {
		return fmt.Errorf("ResponseBufferDepth must be positive, got %d", cfg.ResponseBufferDepth)
	}
	if cfg.TotalCycles <= 0 {
		return fmt.Errorf("TotalCycles must be positive, got %d", cfg.TotalCycles)
	}
	if cfg.RequestRate < 0 || cfg.RequestRate > 1 {
		return fmt.Errorf("RequestRate must be within [0,1], got %.3f", cfg.RequestRate)
	}
	if cfg.ConsumerReadyRate < 0 || cfg.ConsumerReadyRate > 1 {
		return fmt.Errorf("ConsumerReadyRate must be within [0,1], got %.3f", cfg.ConsumerReadyRate)
	}
	if cfg.RequestLatency < 0 || cfg.ResponseLatency < 0 {
		return fmt.Errorf("latencies must be non-negative, got req=%d resp=%d", cfg.RequestLatency, cfg.ResponseLatency)
	}
	if cfg.DownstreamJitter < 0 {
		return fmt.Errorf("DownstreamJitter must be non-negative, got %d", cfg.DownstreamJitter)
	}

	if cfg.AddressSpan <= 0 {
		cfg.AddressSpan = DefaultAddressSpan
	}
	if cfg.RequestLatency == 0 {
		cfg.RequestLatency = DefaultRequestLatency
	}
	if cfg.ResponseLatency == 0 {
		cfg.ResponseLatency = DefaultResponseLatency
	}
	if cfg.DownstreamRate <= 0 {
		cfg.DownstreamRate = DefaultDownstreamRate
	}
	if cfg.ConsumerReadyRate == 0 {
		cfg.ConsumerReadyRate = 1.0
	}
	if cfg.WebAddr == "" {
		cfg.WebAddr = ":8080"
	}
	if cfg.VisualMode == "" {
		cfg.VisualMode = "web"
	}

	return nil
}
