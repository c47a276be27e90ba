package main

// ChannelFrame is one cycle's snapshot published to visualization clients.
type ChannelFrame struct {
	Cycle             int    `json:"cycle"`
	Occupancy         int    `json:"occupancy"`
	Ways              int    `json:"ways"`
	BufferLen         int    `json:"bufferLen"`
	BufferCap         int    `json:"bufferCap"`
	TableLen          int    `json:"tableLen"`
	TableCap          int    `json:"tableCap"`
	Hits              uint64 `json:"hits"`
	Misses            uint64 `json:"misses"`
	RefusedBufferFull uint64 `json:"refusedBufferFull"`
	RefusedTableFull  uint64 `json:"refusedTableFull"`
	Evictions         uint64 `json:"evictions"`
	Deliveries        uint64 `json:"deliveries"`
	Outstanding       int    `json:"outstanding"`
}

// Visualizer is the interface for visualization implementations.
type Visualizer interface {
	PublishFrame(frame *ChannelFrame)
	SetHeadless(headless bool)
	IsHeadless() bool
}

// NullVisualizer discards frames; used for headless runs and tests.
type NullVisualizer struct {
	headless bool
}

func NewNullVisualizer() *NullVisualizer {
	return &NullVisualizer{headless: true}
}

func (v *NullVisualizer) PublishFrame(frame *ChannelFrame) {}

func (v *NullVisualizer) SetHeadless(headless bool) { v.headless = headless }

func (v *NullVisualizer) IsHeadless() bool { return v.headless }

// WebVisualizer forwards frames to the embedded web server, which broadcasts
// them to WebSocket clients.
type WebVisualizer struct {
	server   *WebServer
	headless bool
}

func NewWebVisualizer(addr string) *WebVisualizer {
	server := NewWebServer(addr)
	server.Start()
	return &WebVisualizer{server: server}
}

func (v *WebVisualizer) PublishFrame(frame *ChannelFrame) {
	if v.headless || frame == nil {
		return
	}
	v.server.UpdateFrame(frame)
}

func (v *WebVisualizer) SetHeadless(headless bool) { v.headless = headless }

func (v *WebVisualizer) IsHeadless() bool { return v.headless }
