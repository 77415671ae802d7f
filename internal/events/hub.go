// internal/events/hub.go
package events

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

// Hub fans broadcast messages out to connected websocket clients. A client
// whose write fails or stalls past writeWait is dropped.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mutex     sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 256),
	}
}

// Run delivers messages until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg []byte) {
	h.mutex.RLock()
	var failed []*websocket.Conn
	for client := range h.clients {
		client.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.WriteMessage(websocket.TextMessage, msg); err != nil {
			failed = append(failed, client)
		}
	}
	h.mutex.RUnlock()

	for _, client := range failed {
		h.RemoveClient(client)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}

func (h *Hub) AddClient(conn *websocket.Conn) {
	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()
}

func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mutex.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mutex.Unlock()
}

// BroadcastMessage queues message for delivery, dropping it if the queue is full.
func (h *Hub) BroadcastMessage(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		logrus.Warn("Websocket broadcast queue full, dropping message")
	}
}

func (h *Hub) GetClientsCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Publish lets the hub act as an event Publisher for live list views.
func (h *Hub) Publish(_ context.Context, event Event) {
	msg, err := event.Marshal()
	if err != nil {
		logrus.WithError(err).Error("Failed to encode event for websocket clients")
		return
	}
	h.BroadcastMessage(msg)
}
