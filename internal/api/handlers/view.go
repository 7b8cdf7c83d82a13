package handlers

import (
	"log"
	"net/http"
	"time"

	"route-visualizer/internal/adapters/scene"
	"route-visualizer/internal/platform/obs"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 20 * time.Second
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// ViewHandler exposes what the visualizer currently shows.
type ViewHandler struct {
	Scene *scene.Scene
}

func (h *ViewHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusOK, h.Scene.Snapshot())
}

// GeoJSON returns the map layers as a FeatureCollection.
func (h *ViewHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	fc, err := h.Scene.Snapshot().FeatureCollection()
	if err != nil {
		log.Printf("req_id=%s geojson export: %v", obs.RequestID(r.Context()), err)
		WriteError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	b, err := fc.MarshalJSON()
	if err != nil {
		log.Printf("req_id=%s geojson marshal: %v", obs.RequestID(r.Context()), err)
		WriteError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// Stream upgrades to a WebSocket and pushes a snapshot after every change,
// starting with the current one. Client messages are ignored.
func (h *ViewHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("req_id=%s stream upgrade: %v", obs.RequestID(r.Context()), err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch := h.Scene.Subscribe()
	defer h.Scene.Unsubscribe(ch)

	// The read loop only serves control frames and notices a closed peer.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(1 << 10)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongWait)) })
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
