package main

// NamedConfig pairs a predefined configuration with the scenario it models.
type NamedConfig struct {
	Name        string
	Description string
	Config      Config
}

// GetPredefinedConfigs returns the built-in scenarios. The first entry is
// the default when no -config flag is given.
func GetPredefinedConfigs() []NamedConfig {
	return []NamedConfig{
		{
			Name:        "baseline",
			Description: "8-way cache, moderate load, hits and misses mixed",
			Config: Config{
				Ways:                8,
				PolicyKind:          "plru",
				PendingSlots:        4,
				ResponseBufferDepth: 8,
				TotalCycles:         2000,
				RequestRate:         0.6,
				AddressSpan:         16,
				RequestLatency:      2,
				ResponseLatency:     2,
				DownstreamRate:      1,
				ConsumerReadyRate:   1.0,
			},
		},
		{
			Name:        "cam_saturation",
			Description: "tiny pending table under heavy miss traffic; exercises table-full refusals",
			Config: Config{
				Ways:                8,
				PolicyKind:          "plru",
				PendingSlots:        2,
				ResponseBufferDepth: 8,
				TotalCycles:         2000,
				RequestRate:         1.0,
				AddressSpan:         256,
				RequestLatency:      4,
				ResponseLatency:     4,
				DownstreamRate:      1,
				ConsumerReadyRate:   1.0,
			},
		},
		{
			Name:        "buffer_pressure",
			Description: "slow consumer fills the response buffer; hits get refused while misses still flow",
			Config: Config{
				Ways:                8,
				PolicyKind:          "plru",
				PendingSlots:        8,
				ResponseBufferDepth: 4,
				TotalCycles:         2000,
				RequestRate:         0.9,
				AddressSpan:         8,
				RequestLatency:      1,
				ResponseLatency:     1,
				DownstreamRate:      2,
				ConsumerReadyRate:   0.3,
			},
		},
		{
			Name:        "merge_duplicates",
			Description: "duplicate in-flight misses share one downstream request",
			Config: Config{
				Ways:                 4,
				PolicyKind:           "lru",
				PendingSlots:         4,
				ResponseBufferDepth:  8,
				MergeDuplicateMisses: true,
				TotalCycles:          2000,
				RequestRate:          1.0,
				AddressSpan:          4,
				RequestLatency:       6,
				ResponseLatency:      6,
				DownstreamRate:       1,
				ConsumerReadyRate:    1.0,
			},
		},
		{
			Name:        "out_of_order",
			Description: "downstream completes out of order; correlation restores correctness",
			Config: Config{
				Ways:                8,
				PolicyKind:          "plru",
				PendingSlots:        8,
				ResponseBufferDepth: 8,
				TotalCycles:         2000,
				RequestRate:         0.8,
				AddressSpan:         64,
				RequestLatency:      2,
				ResponseLatency:     2,
				DownstreamRate:      2,
				DownstreamJitter:    5,
				ConsumerReadyRate:   1.0,
			},
		},
	}
}

// GetConfigByName returns a copy of the named predefined configuration, or
// nil when the name is unknown.
func GetConfigByName(name string) *Config {
	for _, nc := range GetPredefinedConfigs() {
		if nc.Name == name {
			cfg := nc.Config
			return &cfg
		}
	}
	return nil
}
