package core

// Request is a read request keyed by address. The same shape travels on the
// upstream (producer -> channel) and downstream (channel -> backing store)
// legs; on the downstream leg the ID is an opaque correlation id minted by
// the channel rather than the producer's request id.
type Request struct {
	ID      int64  // unique request id
	Address uint64 // line address
}

// Response carries the data for one completed request. Address is populated
// on the downstream leg so the channel can correlate it against the pending
// request table; the upstream consumer correlates by ID alone.
type Response struct {
	ID      int64
	Address uint64
	Data    uint64
}

// EvictedEntry reports a valid cache entry displaced by a fill. It is
// returned to the caller as a conditional side channel so collaborators
// (eviction logging, writeback modeling) can observe replacements.
type EvictedEntry struct {
	Address uint64
	Data    uint64
}

// RefuseReason explains why an offered request was not admitted this step.
type RefuseReason string

const (
	// RefuseNone means the request was admitted.
	RefuseNone RefuseReason = ""
	// RefuseBufferFull: the request would hit but the response buffer has
	// no free slot this step.
	RefuseBufferFull RefuseReason = "buffer_full"
	// RefuseTableFull: the request would miss but the pending request
	// table has no free slot.
	RefuseTableFull RefuseReason = "table_full"
	// RefuseDownstreamBusy: the downstream port did not accept the
	// forwarded miss this step.
	RefuseDownstreamBusy RefuseReason = "downstream_busy"
)
