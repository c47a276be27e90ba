package hooks

import (
	"errors"
	"testing"

	"github.com/example/cache_channel_sim/core"
)

func TestBrokerEmitsInRegistrationOrder(t *testing.T) {
	b := NewEventBroker()
	var order []int
	b.RegisterAdmission(func(ctx *AdmissionContext) error {
		order = append(order, 1)
		return nil
	})
	b.RegisterAdmission(func(ctx *AdmissionContext) error {
		order = append(order, 2)
		return nil
	})

	err := b.EmitAdmission(&AdmissionContext{Cycle: 3, Request: core.Request{ID: 1, Address: 0x42}, Admitted: true, Hit: true})
	if err != nil {
		t.Fatalf("emit admission: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("hooks ran out of order: %v", order)
	}
}

func TestBrokerStopsOnError(t *testing.T) {
	b := NewEventBroker()
	sentinel := errors.New("stop")
	ran := 0
	b.RegisterEviction(func(ctx *EvictionContext) error {
		ran++
		return sentinel
	})
	b.RegisterEviction(func(ctx *EvictionContext) error {
		ran++
		return nil
	})

	err := b.EmitEviction(&EvictionContext{Cycle: 1, Evicted: core.EvictedEntry{Address: 0x10}})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if ran != 1 {
		t.Fatalf("second hook must not run after an error, ran=%d", ran)
	}
}

func TestBrokerNilSafety(t *testing.T) {
	var b *EventBroker
	b.RegisterMerge(func(ctx *MergeContext) error { return nil })
	if err := b.EmitMerge(&MergeContext{}); err != nil {
		t.Fatalf("nil broker emit should be a no-op, got %v", err)
	}
	if b.ObserverCount() != 0 {
		t.Fatalf("nil broker should report zero observers")
	}

	real := NewEventBroker()
	if err := real.EmitEgress(nil); err != nil {
		t.Fatalf("nil context emit should be a no-op, got %v", err)
	}
}

func TestObserverCatalog(t *testing.T) {
	b := NewEventBroker()
	b.RegisterObserverMetadata(ObserverDescriptor{
		Name:        "eviction-logger",
		Category:    CategoryInstrumentation,
		Description: "logs displaced entries",
	})
	b.RegisterObserverMetadata(ObserverDescriptor{
		Name:     "web-frames",
		Category: CategoryVisualization,
	})
	// Re-registering under a new category moves the descriptor.
	b.RegisterObserverMetadata(ObserverDescriptor{
		Name:     "eviction-logger",
		Category: CategoryPolicy,
	})

	if b.ObserverCount() != 2 {
		t.Fatalf("expected 2 observers, got %d", b.ObserverCount())
	}
	if got := b.ObserversByCategory(CategoryInstrumentation); len(got) != 0 {
		t.Fatalf("expected instrumentation category to be empty, got %v", got)
	}
	if got := b.ObserversByCategory(CategoryPolicy); len(got) != 1 || got[0].Name != "eviction-logger" {
		t.Fatalf("expected moved descriptor, got %v", got)
	}
}
