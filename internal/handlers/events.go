package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// The server binds on a trusted home network and the UI may be opened from
// any local host, so cross-origin upgrades are allowed. Revisit CheckOrigin
// before exposing the API beyond the LAN.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type changeEvent struct {
	Type string `json:"type"`
}

// Events upgrades the connection to a websocket and pushes a message every
// time the favorites collection changes, so the UI can refresh its lists.
func (h *APIHandler) Events(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Websocket upgrade failed:", err)
		return
	}
	defer conn.Close()

	changes, cancel := h.system.SubscribeChanges()
	defer cancel()

	// Reads are discarded, but the read loop detects the peer going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-changes:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(changeEvent{Type: "favorites_changed"}); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
