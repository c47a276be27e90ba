package main

import (
	"errors"
	"fmt"

	"github.com/example/cache_channel_sim/cache"
	"github.com/example/cache_channel_sim/core"
	"github.com/example/cache_channel_sim/hooks"
	"github.com/example/cache_channel_sim/queue"
	"github.com/example/cache_channel_sim/table"
)

// DownstreamPort is the request/response contract with the next level
// (backing store or another cache channel). Offer forwards one miss; the
// response side follows the same handshake: the channel peeks the earliest
// arrived response and pops it only when it can take it this step.
type DownstreamPort interface {
	Offer(cycle int, req core.Request) bool
	PeekResponse(cycle int) (core.Response, bool)
	PopResponse(cycle int)
}

// ChannelConfig sizes the orchestrator's two finite resources.
type ChannelConfig struct {
	// PendingSlots is the pending request table capacity K.
	PendingSlots int
	// ResponseBufferDepth bounds the response buffer.
	ResponseBufferDepth int
	// MergeDuplicateMisses folds a second in-flight miss to the same
	// address into the existing table entry instead of consuming another
	// slot and another downstream request.
	MergeDuplicateMisses bool
}

// StepInput is everything the channel sees in one step: at most one offered
// upstream request and the consumer's readiness to take a response.
type StepInput struct {
	Cycle         int
	Offer         *core.Request
	ConsumerReady bool
}

// StepOutput completes the step's handshakes: the admission decision for
// the offered request and at most one delivered response.
type StepOutput struct {
	Admitted  bool
	Hit       bool
	Reason    core.RefuseReason
	Delivered *core.Response
}

// ChannelStats counts channel activity since construction.
type ChannelStats struct {
	Hits               uint64
	Misses             uint64
	RefusedBufferFull  uint64
	RefusedTableFull   uint64
	RefusedDownstream  uint64
	MergedDuplicates   uint64
	Evictions          uint64
	Merges             uint64
	Deliveries         uint64
	ProtocolViolations uint64
}

// CacheChannel composes the associative cache, the pending request table and
// the response buffer into a request/response caching layer.
//
// Every step follows a fixed order: classification of the arrived response
// and the offered request against the state committed at the start of the
// step, admission, response consumption, cache mutations in priority order
// (fill before read), register commit, buffer arbitration (merge-path
// response before hit-path response), then at most one egress. Capacity
// exhaustion is never an error; it only withholds admission.
type CacheChannel struct {
	cfg        ChannelConfig
	cache      cache.Cache
	pending    *table.PendingRequestTable
	respBuf    *queue.TrackedQueue[core.Response]
	downstream DownstreamPort
	broker     *hooks.EventBroker

	nextCorrelation int64
	stats           ChannelStats
}

// NewCacheChannel validates the configuration and wires the channel. The
// broker may be nil to run without instrumentation.
func NewCacheChannel(cfg ChannelConfig, c cache.Cache, downstream DownstreamPort, broker *hooks.EventBroker) (*CacheChannel, error) {
	if c == nil {
		return nil, errors.New("cache channel: cache is required")
	}
	if downstream == nil {
		return nil, errors.New("cache channel: downstream port is required")
	}
	pending, err := table.New(cfg.PendingSlots)
	if err != nil {
		return nil, fmt.Errorf("cache channel: %w", err)
	}
	if cfg.ResponseBufferDepth < 1 {
		return nil, fmt.Errorf("cache channel: response buffer depth must be >= 1, got %d", cfg.ResponseBufferDepth)
	}
	return &CacheChannel{
		cfg:             cfg,
		cache:           c,
		pending:         pending,
		respBuf:         queue.NewTrackedQueue[core.Response]("response_buffer", cfg.ResponseBufferDepth, nil, queue.Hooks[core.Response]{}),
		downstream:      downstream,
		broker:          broker,
		nextCorrelation: 1,
	}, nil
}

// Step evaluates one synchronous step. All classification happens against
// the cache, table, and buffer state committed at the start of the step;
// mutations land for the next step via the cache's CommitStep and ordinary
// queue updates that later phases of this step deliberately do not re-read.
// In particular, a merged response frees its table slot for the following
// step's admission, never for this step's.
func (ch *CacheChannel) Step(in StepInput) StepOutput {
	var out StepOutput
	cycle := in.Cycle
	bufferFree := ch.respBuf.FreeSlots()
	tableFull := ch.pending.IsFull()

	// Phase 1: classify the arrived downstream response, if any, against
	// the committed table state. Nothing is consumed yet.
	var mergeIDs []int64
	var mergeResp core.Response
	mergeMatched := false
	if resp, ok := ch.downstream.PeekResponse(cycle); ok {
		ids, found := ch.pending.Match(resp.Address)
		if !found {
			// A response this layer never asked for: a misbehaving
			// downstream. Discard so the port does not wedge.
			ch.stats.ProtocolViolations++
			ch.downstream.PopResponse(cycle)
			GetLogger().Errorf("cycle %d: downstream response for address %#x matches no pending entry", cycle, resp.Address)
		} else {
			mergeIDs = ids
			mergeResp = resp
			mergeMatched = true
		}
	}

	// Phase 2: classify the offered request against committed state. A
	// duplicate miss folding onto the in-flight entry of the arrived
	// response adds one more reply to that response's buffer demand.
	var hitLookup cache.ReadResult
	attach := false
	if in.Offer != nil {
		hitLookup = ch.cache.Lookup(in.Offer.Address)
		if !hitLookup.Hit && ch.cfg.MergeDuplicateMisses && ch.pending.Contains(in.Offer.Address) {
			attach = true
		}
	}
	mergeTakes := 0
	if mergeMatched {
		mergeTakes = len(mergeIDs)
		if attach && in.Offer.Address == mergeResp.Address {
			mergeTakes++
		}
	}
	// The response is taken only when the buffer can absorb a reply for
	// every requester. While it waits, its slots stay reserved against
	// hit admission so hit traffic cannot starve it.
	mergeAccepted := mergeMatched && mergeTakes <= bufferFree

	// Phase 3: admission. A hit needs a buffer slot beyond the merge's
	// reservation; a miss needs a table slot as committed at the start of
	// the step and is independent of buffer occupancy.
	if in.Offer != nil {
		req := *in.Offer
		if hitLookup.Hit {
			if bufferFree-mergeTakes >= 1 {
				out.Admitted = true
				out.Hit = true
				ch.stats.Hits++
			} else {
				out.Reason = core.RefuseBufferFull
				ch.stats.RefusedBufferFull++
			}
		} else {
			out.Reason = ch.admitMiss(cycle, req, attach, tableFull)
			out.Admitted = out.Reason == core.RefuseNone
		}
		ch.emitAdmission(cycle, req, out)
	}

	// Phase 4: consume the accepted response. The removal runs after the
	// admission mutations so a same-step attach rides along.
	if mergeAccepted {
		if ids, ok := ch.pending.MatchAndRemove(mergeResp.Address); ok {
			mergeIDs = ids
		}
		ch.downstream.PopResponse(cycle)
	}

	// Phase 5: cache mutations in priority order, fill before read.
	if mergeAccepted {
		if evicted, ok := ch.cache.Fill(mergeResp.Address, mergeResp.Data); ok {
			ch.stats.Evictions++
			ch.broker.EmitEviction(&hooks.EvictionContext{
				Cycle:      cycle,
				Evicted:    evicted,
				ForAddress: mergeResp.Address,
			})
			GetLogger().Debugf("cycle %d: fill %#x evicted %#x", cycle, mergeResp.Address, evicted.Address)
		}
	}
	if out.Admitted && out.Hit {
		// The read returns the committed data (same as the admission
		// lookup) and notifies the replacement policy of the access.
		ch.cache.Read(in.Offer.Address, false)
	}

	// Phase 6: commit register state for the next step.
	ch.cache.CommitStep()

	// Phase 7: buffer arbitration. The merge-path response is enqueued
	// first so in-flight transactions are never starved by hit traffic.
	if mergeAccepted {
		for _, id := range mergeIDs {
			ch.respBuf.Enqueue(core.Response{ID: id, Address: mergeResp.Address, Data: mergeResp.Data}, cycle)
		}
		ch.stats.Merges++
		ch.broker.EmitMerge(&hooks.MergeContext{
			Cycle:      cycle,
			Address:    mergeResp.Address,
			Data:       mergeResp.Data,
			RequestIDs: mergeIDs,
		})
	}
	if out.Admitted && out.Hit {
		ch.respBuf.Enqueue(core.Response{ID: in.Offer.ID, Address: in.Offer.Address, Data: hitLookup.Data}, cycle)
	}

	// Phase 8: egress, at most one response per step.
	if in.ConsumerReady {
		if resp, ok := ch.respBuf.PopFront(cycle); ok {
			out.Delivered = &resp
			ch.stats.Deliveries++
			ch.broker.EmitEgress(&hooks.EgressContext{Cycle: cycle, Response: resp})
		}
	}

	return out
}

// admitMiss decides a miss's admission: record it in the pending table and
// forward it downstream, or refuse with the blocking resource. Attach and
// table-full classification come from the committed state snapshot taken at
// the start of the step.
func (ch *CacheChannel) admitMiss(cycle int, req core.Request, attach, tableFull bool) core.RefuseReason {
	if attach {
		ch.pending.Attach(req.Address, req.ID)
		ch.stats.Misses++
		ch.stats.MergedDuplicates++
		GetLogger().Debugf("cycle %d: miss %#x merged into in-flight entry", cycle, req.Address)
		return core.RefuseNone
	}
	if tableFull {
		ch.stats.RefusedTableFull++
		return core.RefuseTableFull
	}
	correlation := ch.nextCorrelation
	if !ch.downstream.Offer(cycle, core.Request{ID: correlation, Address: req.Address}) {
		ch.stats.RefusedDownstream++
		return core.RefuseDownstreamBusy
	}
	ch.nextCorrelation++
	ch.pending.TryInsert(req.Address, req.ID)
	ch.stats.Misses++
	GetLogger().Debugf("cycle %d: miss %#x forwarded downstream as %d", cycle, req.Address, correlation)
	return core.RefuseNone
}

func (ch *CacheChannel) emitAdmission(cycle int, req core.Request, out StepOutput) {
	ch.broker.EmitAdmission(&hooks.AdmissionContext{
		Cycle:    cycle,
		Request:  req,
		Admitted: out.Admitted,
		Hit:      out.Hit,
		Reason:   out.Reason,
	})
}

// Stats returns a copy of the channel counters.
func (ch *CacheChannel) Stats() ChannelStats {
	return ch.stats
}

// ChannelSnapshot captures resource occupancy for visualization.
type ChannelSnapshot struct {
	Occupancy int
	Ways      int
	BufferLen int
	BufferCap int
	TableLen  int
	TableCap  int
}

// Snapshot reads the committed occupancy of all three resources.
func (ch *CacheChannel) Snapshot() ChannelSnapshot {
	return ChannelSnapshot{
		Occupancy: ch.cache.Occupancy(),
		Ways:      ch.cache.Ways(),
		BufferLen: ch.respBuf.Len(),
		BufferCap: ch.respBuf.Capacity(),
		TableLen:  ch.pending.Len(),
		TableCap:  ch.pending.Capacity(),
	}
}

// PendingLen returns the occupied pending table slots.
func (ch *CacheChannel) PendingLen() int { return ch.pending.Len() }

// BufferLen returns the buffered response count.
func (ch *CacheChannel) BufferLen() int { return ch.respBuf.Len() }

// Idle reports whether the channel holds no in-flight state.
func (ch *CacheChannel) Idle() bool {
	return ch.pending.Len() == 0 && ch.respBuf.Len() == 0
}
