package main

import "time"

// Simulation constants
const (
	// DefaultVisualizationDelay is the delay between visualization updates in web mode
	DefaultVisualizationDelay = 50 * time.Millisecond

	// Cache geometry defaults
	DefaultWays            = 8
	DefaultPendingSlots    = 4
	DefaultResponseDepth   = 8
	DefaultAddressSpan     = 64 // distinct line addresses the generator draws from
	DefaultDownstreamRate  = 1  // requests the backing store starts per cycle
	DefaultRequestLatency  = 2  // channel -> backing store wire latency
	DefaultResponseLatency = 2  // backing store -> channel wire latency

	// Address and data constants
	DefaultAddressBase   = uint64(0x1000) // base line address for generated requests
	DefaultCacheLineSize = 64             // address stride between lines in bytes
	DefaultDataPattern   = uint64(0xD0D0CACA00000000)

	// DrainBudget bounds the extra cycles Run spends flushing in-flight
	// work after the configured cycle count.
	DrainBudget = 10000
)

// Config holds simulation configuration values.
type Config struct {
	// Cache geometry
	Ways       int
	PolicyKind string // "plru", "lru", or empty for geometry default

	// Channel resources
	PendingSlots         int // CAM capacity K
	ResponseBufferDepth  int
	MergeDuplicateMisses bool

	// Workload
	TotalCycles int
	RequestRate float64 // probability of generating a request per cycle
	AddressSpan int     // number of distinct line addresses in the workload
	Seed        int64   // rng seed; 0 means time-based

	// Downstream model
	RequestLatency   int // cycles on the request wire
	ResponseLatency  int // cycles on the response wire
	DownstreamRate   int // requests the backing store starts per cycle
	DownstreamJitter int // extra address-dependent latency skew (out-of-order completion)

	// Upstream consumer
	ConsumerReadyRate float64 // probability the consumer accepts a response per cycle

	// Presentation
	Headless   bool
	VisualMode string // "web" or "none"
	WebAddr    string
}
