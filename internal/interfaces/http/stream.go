package http

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/retailscan/retailscan/internal/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// sendBuffer bounds how far a subscriber may lag before it is dropped.
const sendBuffer = 16

// subscriber owns one connection. All writes go through the send channel so
// only a single goroutine ever writes to the conn.
type subscriber struct {
	conn *websocket.Conn
	send chan []engine.Alert
}

// Hub fans generated alerts out to websocket subscribers. Broadcasts never
// block: a subscriber whose buffer is full is dropped.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// HandleStream upgrades the connection and keeps it registered until the
// peer goes away.
func (h *Hub) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []engine.Alert, sendBuffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	go h.writePump(sub)

	// Reads only serve to detect the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(sub)
				return
			}
		}
	}()
}

// writePump is the sole writer for one connection; it drains the send
// channel until the subscriber is dropped.
func (h *Hub) writePump(sub *subscriber) {
	defer sub.conn.Close()
	for alerts := range sub.send {
		if err := sub.conn.WriteJSON(alerts); err != nil {
			log.Debug().Err(err).Msg("dropping broken stream subscriber")
			h.drop(sub)
			return
		}
	}
}

// Broadcast queues each alert batch to every subscriber without blocking.
func (h *Hub) Broadcast(alerts []engine.Alert) {
	if len(alerts) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.send <- alerts:
		default:
			log.Debug().Msg("dropping stalled stream subscriber")
			h.removeLocked(sub)
		}
	}
}

// drop unregisters a subscriber; closing its send channel ends the write
// pump, which closes the conn. Safe to call more than once.
func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	h.removeLocked(sub)
	h.mu.Unlock()
}

// removeLocked requires h.mu. The membership check guards the close: sends
// and close both happen under the lock, so a send never hits a closed
// channel.
func (h *Hub) removeLocked(sub *subscriber) {
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.send)
}

// Subscribers reports the current connection count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
