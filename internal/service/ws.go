package service

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/model"

	"github.com/gofiber/contrib/websocket"
)

// WSClient is one live websocket connection. ID is assigned at upgrade and
// doubles as the user's identity for the lifetime of the connection.
type WSClient struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	admin bool // guarded by WSHub.mu
}

func NewWSClient(id string, conn *websocket.Conn) *WSClient {
	return &WSClient{ID: id, Conn: conn, Send: make(chan []byte, 256)}
}

type broadcastMsg struct {
	data       []byte
	adminsOnly bool
}

type WSHub struct {
	clients   map[string]*WSClient
	broadcast chan broadcastMsg
	mu        sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
}

func NewWSHub() *WSHub {
	return &WSHub{
		clients:   make(map[string]*WSClient),
		broadcast: make(chan broadcastMsg, 256),
		done:      make(chan struct{}),
	}
}

// Run fans broadcasts out to connected clients until Shutdown.
func (h *WSHub) Run() {
	for {
		select {
		case msg := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				if msg.adminsOnly && !client.admin {
					continue
				}
				select {
				case client.Send <- msg.data:
				default:
					log.Printf("[WS] %s send buffer full, dropping connection", id)
					close(client.Send)
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

func (h *WSHub) Shutdown() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *WSHub) Register(client *WSClient) {
	h.mu.Lock()
	h.clients[client.ID] = client
	total := len(h.clients)
	h.mu.Unlock()
	log.Printf("[WS] %s connected (total: %d)", client.ID, total)
}

// Unregister removes the client and closes its send channel. Calling it for a
// client that was already dropped is a no-op.
func (h *WSHub) Unregister(client *WSClient) {
	h.mu.Lock()
	if current, ok := h.clients[client.ID]; ok && current == client {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	log.Printf("[WS] %s disconnected (total: %d)", client.ID, total)
}

// MarkAdmin flags the client as an admin listener. Idempotent.
func (h *WSHub) MarkAdmin(client *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.admin = true
}

func (h *WSHub) IsAdmin(client *WSClient) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return client.admin
}

// Broadcast queues event for every connected client.
func (h *WSHub) Broadcast(event *model.WSEvent) {
	h.enqueue(event, false)
}

// BroadcastToAdmins queues event for clients that joined as admin.
func (h *WSHub) BroadcastToAdmins(event *model.WSEvent) {
	h.enqueue(event, true)
}

func (h *WSHub) enqueue(event *model.WSEvent, adminsOnly bool) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- broadcastMsg{data: data, adminsOnly: adminsOnly}:
	case <-h.done:
	}
}

// SendTo delivers event to the client with the given id. It reports false if
// no such client is connected or its buffer is full.
func (h *WSHub) SendTo(clientID string, event *model.WSEvent) bool {
	h.mu.RLock()
	client, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return h.Send(client, event)
}

// Send delivers event to client if it is still registered.
func (h *WSHub) Send(client *WSClient, event *model.WSEvent) bool {
	data, err := json.Marshal(event)
	if err != nil {
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if current, ok := h.clients[client.ID]; !ok || current != client {
		return false
	}
	select {
	case client.Send <- data:
		return true
	default:
		return false
	}
}

func (h *WSHub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *WSHub) AdminCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		if c.admin {
			n++
		}
	}
	return n
}
