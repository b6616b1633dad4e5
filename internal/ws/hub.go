package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Event is pushed to every connected workspace client after a successful pricing write,
// so other open views of the project know to reload the comparison.
type Event struct {
	Type      string `json:"type"`
	Action    string `json:"action"`
	ProjectID string `json:"project_id"`
	Category  string `json:"category,omitempty"`
	Rows      int64  `json:"rows"`
	Version   int64  `json:"version"`
	UserID    string `json:"user_id,omitempty"`
	UserName  string `json:"user_name,omitempty"`
	Message   string `json:"message"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run serves the hub until ctx is cancelled. After it returns, Add and Remove no longer block.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug("websocket client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.log.Debug("dropping websocket client", zap.Error(err))
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Add registers a connection. It reports false once the hub has stopped; the caller should
// then close the connection itself.
func (h *Hub) Add(conn *websocket.Conn) bool {
	select {
	case h.Register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// Remove unregisters a connection, or returns straight away when the hub has stopped.
func (h *Hub) Remove(conn *websocket.Conn) {
	select {
	case h.Unregister <- conn:
	case <-h.done:
	}
}

// Publish queues an event for broadcast. It never blocks the caller; a nil hub drops the event.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Warn("marshal websocket event", zap.Error(err))
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		h.log.Warn("websocket broadcast queue full, event dropped", zap.String("action", ev.Action))
	}
}
