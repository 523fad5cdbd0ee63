package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zappabad/bullrun/internal/metrics"
)

// wsHub fans session events out to every WebSocket client watching one
// session. Each session gets its own hub. All connection writes happen on
// the run goroutine: gorilla conns allow at most one concurrent writer.
type wsHub struct {
	log          *slog.Logger
	clients      map[*websocket.Conn]bool
	broadcast    chan []byte
	register     chan *websocket.Conn
	unregister   chan *websocket.Conn
	done         chan struct{}
	stopOnce     sync.Once
	pingInterval time.Duration
	mu           sync.RWMutex
}

func newWSHub(log *slog.Logger) *wsHub {
	return &wsHub{
		log:          log,
		clients:      make(map[*websocket.Conn]bool),
		broadcast:    make(chan []byte, 256),
		register:     make(chan *websocket.Conn),
		unregister:   make(chan *websocket.Conn),
		done:         make(chan struct{}),
		pingInterval: 30 * time.Second,
	}
}

// run is the hub's main loop. Must be called in a goroutine.
func (h *wsHub) run() {
	pings := time.NewTicker(h.pingInterval)
	defer pings.Stop()

	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
				metrics.WebSocketClients.Dec()
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketClients.Inc()
			h.log.Info("ws client connected", "total", total)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				metrics.WebSocketClients.Dec()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.writeAll(websocket.TextMessage, msg)

		case <-pings.C:
			h.writeAll(websocket.PingMessage, nil)
		}
	}
}

// writeAll writes one frame to every client, dropping clients whose
// connection errors.
func (h *wsHub) writeAll(messageType int, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(messageType, data); err != nil {
			conn.Close()
			delete(h.clients, conn)
			metrics.WebSocketClients.Dec()
		}
	}
}

// stop disconnects every client and terminates the loop.
func (h *wsHub) stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// send marshals and broadcasts a message, dropping it when the buffer is
// full so a slow hub never blocks the session pump.
func (h *wsHub) send(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// handleWS upgrades the request and attaches the client to the hub.
func (h *wsHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws upgrade failed", "err", err)
		return
	}

	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	// Read pump: keep connection alive and detect disconnects. Pings come
	// from the hub loop; pongs extend the deadline here.
	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
		}()
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}
