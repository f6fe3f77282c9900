package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// EntryEvent is what goes over the websocket feed when a row is stored.
type EntryEvent struct {
	Kind  string `json:"kind"` // "meal" | "workout"
	Entry any    `json:"entry"`
}

// WSClient wraps a connection with a write mutex: the broadcast path and the
// keep-alive pinger run on different goroutines, and gorilla/websocket only
// allows one concurrent writer per connection.
type WSClient struct {
	Conn *websocket.Conn

	writeMu sync.Mutex
}

// WriteMessage serializes all writes to the underlying connection.
func (c *WSClient) WriteMessage(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *RealtimeHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastEntry pushes a stored entry to every connected browser.
func (h *RealtimeHub) BroadcastEntry(kind string, entry any) {
	msg, _ := json.Marshal(EntryEvent{Kind: kind, Entry: entry})
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		_ = c.WriteMessage(websocket.TextMessage, msg)
	}
}
