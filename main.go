package main

import (
	"flag"
	"fmt"
	"time"
)

func main() {
	var headless = flag.Bool("headless", false, "Run in headless mode (no web UI)")
	var configName = flag.String("config", "", "Predefined configuration name (e.g., 'baseline', 'cam_saturation')")
	var cycles = flag.Int("cycles", 0, "Override total cycle count")
	var addr = flag.String("addr", "", "Web UI listen address (default :8080)")
	flag.Parse()

	configs := GetPredefinedConfigs()
	var cfg *Config

	selectedConfigName := *configName
	if selectedConfigName == "" && len(configs) > 0 {
		selectedConfigName = configs[0].Name
	}

	if selectedConfigName != "" {
		cfg = GetConfigByName(selectedConfigName)
		if cfg == nil {
			fmt.Printf("Warning: Configuration '%s' not found, using default\n", selectedConfigName)
		}
	}

	if cfg == nil {
		cfg = &Config{
			Ways:                DefaultWays,
			PendingSlots:        DefaultPendingSlots,
			ResponseBufferDepth: DefaultResponseDepth,
			TotalCycles:         1000,
			RequestRate:         0.6,
			ConsumerReadyRate:   1.0,
		}
	}

	cfg.Headless = *headless
	if cfg.VisualMode == "" {
		cfg.VisualMode = "web"
	}
	if *cycles > 0 {
		cfg.TotalCycles = *cycles
	}
	if *addr != "" {
		cfg.WebAddr = *addr
	}

	sim, err := NewSimulator(cfg)
	if err != nil {
		GetLogger().Errorf("invalid configuration: %v", err)
		return
	}

	if *headless {
		sim.Run()
		PrintStats(sim.CollectStats())
	} else {
		go sim.Run()

		// Keep main alive to serve the web UI.
		for {
			time.Sleep(1 * time.Second)
		}
	}
}
