package main

import (
	"encoding/json"
	"net/http"
	"sync"
)

// WebServer exposes the live channel state: a WebSocket frame stream on
// /ws, the latest frame on /api/frame, and a minimal dashboard page on /.
type WebServer struct {
	addr string
	hub  *wsHub

	mu          sync.RWMutex
	latestFrame *ChannelFrame
}

func NewWebServer(addr string) *WebServer {
	return &WebServer{
		addr: addr,
		hub:  newHub(),
	}
}

// Start serves in a background goroutine; the simulation loop never blocks
// on HTTP.
func (ws *WebServer) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/", ws.handleIndex)
	mux.HandleFunc("/api/frame", ws.handleFrame)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.hub.handle(ws, w, r)
	})

	go func() {
		GetLogger().Infof("web visualizer listening on %s", ws.addr)
		if err := http.ListenAndServe(ws.addr, mux); err != nil {
			GetLogger().Errorf("web server stopped: %v", err)
		}
	}()
}

// UpdateFrame stores the latest frame and broadcasts it to clients.
func (ws *WebServer) UpdateFrame(frame *ChannelFrame) {
	ws.mu.Lock()
	ws.latestFrame = frame
	ws.mu.Unlock()
	ws.hub.broadcastFrame(frame)
}

func (ws *WebServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	ws.mu.RLock()
	frame := ws.latestFrame
	ws.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if frame == nil {
		w.Write([]byte("{}"))
		return
	}
	if err := json.NewEncoder(w).Encode(frame); err != nil {
		GetLogger().Warnf("failed to encode frame: %v", err)
	}
}

func (ws *WebServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPage))
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Cache Channel</title>
<style>
body { font-family: monospace; margin: 2em; }
td { padding: 0.2em 1em; }
</style></head>
<body>
<h2>Cache Channel</h2>
<table id="frame"></table>
<script>
const rows = [
  ["cycle", "Cycle"], ["occupancy", "Cache occupancy"], ["ways", "Ways"],
  ["bufferLen", "Response buffer"], ["bufferCap", "Buffer depth"],
  ["tableLen", "Pending table"], ["tableCap", "Table slots"],
  ["hits", "Hits"], ["misses", "Misses"],
  ["refusedBufferFull", "Refused (buffer)"], ["refusedTableFull", "Refused (table)"],
  ["evictions", "Evictions"], ["deliveries", "Deliveries"],
  ["outstanding", "Outstanding"]
];
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (ev) => {
  const f = JSON.parse(ev.data);
  document.getElementById("frame").innerHTML =
    rows.map(([k, label]) => "<tr><td>" + label + "</td><td>" + f[k] + "</td></tr>").join("");
};
</script>
</body>
</html>`
