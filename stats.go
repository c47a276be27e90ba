package main

import "fmt"

// SimulationStats aggregates the per-component counters of one run.
type SimulationStats struct {
	CyclesRun  int
	Channel    ChannelStats
	Producer   *ProducerStats
	Downstream *MemoryStats
}

func PrintStats(stats *SimulationStats) {
	if stats == nil {
		fmt.Println("No stats available")
		return
	}
	c := stats.Channel
	fmt.Println("=== Channel Statistics ===")
	fmt.Printf("Cycles Run: %d\n", stats.CyclesRun)
	fmt.Printf("Hits: %d\n", c.Hits)
	fmt.Printf("Misses: %d\n", c.Misses)
	if c.Hits+c.Misses > 0 {
		fmt.Printf("Hit Rate: %.2f%%\n", 100*float64(c.Hits)/float64(c.Hits+c.Misses))
	}
	fmt.Printf("Refused (buffer full): %d\n", c.RefusedBufferFull)
	fmt.Printf("Refused (table full): %d\n", c.RefusedTableFull)
	fmt.Printf("Refused (downstream busy): %d\n", c.RefusedDownstream)
	fmt.Printf("Merged Duplicate Misses: %d\n", c.MergedDuplicates)
	fmt.Printf("Evictions: %d\n", c.Evictions)
	fmt.Printf("Downstream Merges: %d\n", c.Merges)
	fmt.Printf("Deliveries: %d\n", c.Deliveries)
	if c.ProtocolViolations > 0 {
		fmt.Printf("Protocol Violations: %d\n", c.ProtocolViolations)
	}

	if p := stats.Producer; p != nil {
		fmt.Println()
		fmt.Println("=== Producer Statistics ===")
		fmt.Printf("Total Requests: %d\n", p.TotalRequests)
		fmt.Printf("Completed Requests: %d\n", p.CompletedRequests)
		fmt.Printf("Refused Offers: %d\n", p.RefusedOffers)
		fmt.Printf("Average Round Trip: %.2f cycles\n", p.AvgDelay)
		fmt.Printf("Max Round Trip: %d cycles\n", p.MaxDelay)
		fmt.Printf("Min Round Trip: %d cycles\n", p.MinDelay)
	}

	if m := stats.Downstream; m != nil {
		fmt.Println()
		fmt.Println("=== Downstream Statistics ===")
		fmt.Printf("Total Processed: %d\n", m.TotalProcessed)
		fmt.Printf("Max In Transit: %d\n", m.MaxInTransit)
	}
}
