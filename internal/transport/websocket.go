// SPDX-License-Identifier: MIT
package transport

import (
	"net/http"
	"sync"

	applog "github.com/TheAnsarya/ableton-snes-spc/internal/log"

	"github.com/gorilla/websocket"
)

// WebSocketTransport broadcasts spectrum frames as JSON to every connected
// client. The HTTP server and client lifecycle run in their own goroutines;
// Send only walks the client map under the mutex.
type WebSocketTransport struct {
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	upgrader  websocket.Upgrader
	server    *http.Server
}

// NewWebSocketTransport creates the transport and starts an HTTP server on
// addr serving WebSocket upgrades at /spectrum.
func NewWebSocketTransport(addr string) *WebSocketTransport {
	t := &WebSocketTransport{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Local visualizers connect from file:// pages.
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/spectrum", t.handleWebSocket)
	t.server = &http.Server{Addr: addr, Handler: mux}

	go func() {
		applog.Infof("WebSocket: listening on %s", addr)
		if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			applog.Errorf("WebSocket: server error: %v", err)
		}
	}()

	return t
}

func (t *WebSocketTransport) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		applog.Errorf("WebSocket: upgrade failed: %v", err)
		return
	}

	t.clientsMu.Lock()
	t.clients[conn] = true
	count := len(t.clients)
	t.clientsMu.Unlock()
	applog.Infof("WebSocket: client connected (%d total)", count)

	// Drain the read side so close frames and pings are processed; frames
	// only flow outward.
	go func() {
		defer t.dropClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (t *WebSocketTransport) dropClient(conn *websocket.Conn) {
	t.clientsMu.Lock()
	if t.clients[conn] {
		delete(t.clients, conn)
		conn.Close()
	}
	t.clientsMu.Unlock()
}

// Send broadcasts the frame to all connected clients. Clients whose write
// fails are dropped; a send with no clients is a successful no-op.
func (t *WebSocketTransport) Send(data any) error {
	t.clientsMu.Lock()
	defer t.clientsMu.Unlock()

	for conn := range t.clients {
		if err := conn.WriteJSON(data); err != nil {
			applog.Warnf("WebSocket: dropping client after write error: %v", err)
			delete(t.clients, conn)
			conn.Close()
		}
	}
	return nil
}

// Close disconnects all clients and shuts the server down.
func (t *WebSocketTransport) Close() error {
	t.clientsMu.Lock()
	for conn := range t.clients {
		conn.Close()
		delete(t.clients, conn)
	}
	t.clientsMu.Unlock()

	return t.server.Close()
}
