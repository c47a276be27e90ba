// Package hooks provides the instrumentation bus for the cache channel:
// observers register callbacks for admission, eviction, merge and egress
// events without the orchestrator knowing who is listening.
package hooks

import (
	"sync"

	"github.com/example/cache_channel_sim/core"
)

// ObserverCategory represents the high-level role of an observer.
type ObserverCategory string

const (
	// CategoryInstrumentation covers metrics, tracing, and diagnostics.
	CategoryInstrumentation ObserverCategory = "instrumentation"
	// CategoryVisualization covers UI and monitoring observers.
	CategoryVisualization ObserverCategory = "visualization"
	// CategoryPolicy covers admission or eviction policy extensions.
	CategoryPolicy ObserverCategory = "policy"
)

// ObserverDescriptor describes an observer registered with the broker.
type ObserverDescriptor struct {
	Name        string
	Category    ObserverCategory
	Description string
}

// AdmissionContext carries the outcome of one admission decision.
type AdmissionContext struct {
	Cycle    int
	Request  core.Request
	Admitted bool
	Hit      bool
	Reason   core.RefuseReason
}

// EvictionContext reports a valid entry displaced by a fill.
type EvictionContext struct {
	Cycle      int
	Evicted    core.EvictedEntry
	ForAddress uint64 // the address whose fill displaced the entry
}

// MergeContext reports a downstream response folded back into the cache.
type MergeContext struct {
	Cycle      int
	Address    uint64
	Data       uint64
	RequestIDs []int64
}

// EgressContext reports a response delivered to the upstream consumer.
type EgressContext struct {
	Cycle    int
	Response core.Response
}

type AdmissionHook func(ctx *AdmissionContext) error
type EvictionHook func(ctx *EvictionContext) error
type MergeHook func(ctx *MergeContext) error
type EgressHook func(ctx *EgressContext) error

// EventBroker coordinates hook registration and triggering. All methods are
// safe on a nil receiver so instrumentation stays optional.
type EventBroker struct {
	mu sync.RWMutex

	admissionHooks []AdmissionHook
	evictionHooks  []EvictionHook
	mergeHooks     []MergeHook
	egressHooks    []EgressHook

	observerCatalog map[ObserverCategory][]ObserverDescriptor
	observerIndex   map[string]ObserverDescriptor
}

// NewEventBroker creates an empty broker instance.
func NewEventBroker() *EventBroker {
	return &EventBroker{
		observerCatalog: make(map[ObserverCategory][]ObserverDescriptor),
		observerIndex:   make(map[string]ObserverDescriptor),
	}
}

// RegisterObserverMetadata records an observer in the catalog. Duplicate
// names update the existing record.
func (b *EventBroker) RegisterObserverMetadata(desc ObserverDescriptor) {
	if b == nil || desc.Name == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if old, ok := b.observerIndex[desc.Name]; ok {
		list := b.observerCatalog[old.Category]
		for i := range list {
			if list[i].Name == desc.Name {
				b.observerCatalog[old.Category] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
	b.observerIndex[desc.Name] = desc
	b.observerCatalog[desc.Category] = append(b.observerCatalog[desc.Category], desc)
}

// ObserversByCategory lists registered observers in one category.
func (b *EventBroker) ObserversByCategory(cat ObserverCategory) []ObserverDescriptor {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	list := b.observerCatalog[cat]
	out := make([]ObserverDescriptor, len(list))
	copy(out, list)
	return out
}

// ObserverCount returns the number of registered observers.
func (b *EventBroker) ObserverCount() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.observerIndex)
}

// RegisterAdmission adds a hook executed on every admission decision.
func (b *EventBroker) RegisterAdmission(h AdmissionHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.admissionHooks = append(b.admissionHooks, h)
}

// RegisterEviction adds a hook executed when a fill displaces a valid entry.
func (b *EventBroker) RegisterEviction(h EvictionHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.evictionHooks = append(b.evictionHooks, h)
}

// RegisterMerge adds a hook executed when a downstream response merges back.
func (b *EventBroker) RegisterMerge(h MergeHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mergeHooks = append(b.mergeHooks, h)
}

// RegisterEgress adds a hook executed when a response leaves for the
// upstream consumer.
func (b *EventBroker) RegisterEgress(h EgressHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.egressHooks = append(b.egressHooks, h)
}

// EmitAdmission triggers admission hooks; the first error stops the chain.
func (b *EventBroker) EmitAdmission(ctx *AdmissionContext) error {
	if b == nil || ctx == nil {
		return nil
	}
	b.mu.RLock()
	handlers := make([]AdmissionHook, len(b.admissionHooks))
	copy(handlers, b.admissionHooks)
	b.mu.RUnlock()
	for _, handler := range handlers {
		if err := handler(ctx); err != nil {
			return err
		}
	}
	return nil
}

// EmitEviction triggers eviction hooks.
func (b *EventBroker) EmitEviction(ctx *EvictionContext) error {
	if b == nil || ctx == nil {
		return nil
	}
	b.mu.RLock()
	handlers := make([]EvictionHook, len(b.evictionHooks))
	copy(handlers, b.evictionHooks)
	b.mu.RUnlock()
	for _, handler := range handlers {
		if err := handler(ctx); err != nil {
			return err
		}
	}
	return nil
}

// EmitMerge triggers merge hooks.
func (b *EventBroker) EmitMerge(ctx *MergeContext) error {
	if b == nil || ctx == nil {
		return nil
	}
	b.mu.RLock()
	handlers := make([]MergeHook, len(b.mergeHooks))
	copy(handlers, b.mergeHooks)
	b.mu.RUnlock()
	for _, handler := range handlers {
		if err := handler(ctx); err != nil {
			return err
		}
	}
	return nil
}

// EmitEgress triggers egress hooks.
func (b *EventBroker) EmitEgress(ctx *EgressContext) error {
	if b == nil || ctx == nil {
		return nil
	}
	b.mu.RLock()
	handlers := make([]EgressHook, len(b.egressHooks))
	copy(handlers, b.egressHooks)
	b.mu.RUnlock()
	for _, handler := range handlers {
		if err := handler(ctx); err != nil {
			return err
		}
	}
	return nil
}
