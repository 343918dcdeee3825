package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// envelope is the wire frame every event is delivered in.
type envelope struct {
	Event     string `json:"event"`
	Data      Event  `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// Hub is the process-wide fan-out point for change events. It holds only the
// live connection set, never persisted state: a late joiner fetches current
// state over HTTP and then merges events. The hub is constructed explicitly
// and handed to the services and the websocket handler at startup; there is
// no package-level instance, so tests can run several hubs side by side.
type Hub struct {
	clients map[*Client]bool
	admins  map[*Client]bool

	register   chan *Client
	unregister chan *Client
	promote    chan *Client

	broadcast      chan []byte
	adminBroadcast chan []byte

	done chan struct{}
	once sync.Once
}

// NewHub creates a hub. Run must be started in its own goroutine before the
// first publish.
func NewHub() *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		admins:         make(map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		promote:        make(chan *Client),
		broadcast:      make(chan []byte, 256),
		adminBroadcast: make(chan []byte, 256),
		done:           make(chan struct{}),
	}
}

// Run owns the connection maps; all membership changes and fan-outs are
// serialized through this loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				delete(h.admins, client)
				close(client.send)
			}
		case client := <-h.promote:
			// only reachable through verified credentials; see Client.readPump
			if _, ok := h.clients[client]; ok {
				h.admins[client] = true
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				h.deliver(client, message)
			}
		case message := <-h.adminBroadcast:
			for client := range h.admins {
				h.deliver(client, message)
			}
		case <-h.done:
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*Client]bool)
			h.admins = make(map[*Client]bool)
			return
		}
	}
}

// deliver hands the message to one client without ever blocking the loop:
// a connection that cannot keep up is dropped rather than stalling the rest.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		delete(h.clients, client)
		delete(h.admins, client)
		close(client.send)
	}
}

// Stop shuts the hub down and disconnects all clients.
func (h *Hub) Stop() {
	h.once.Do(func() { close(h.done) })
}

// Publish delivers the event to every currently connected client, at most
// once per connection. Delivery is fire-and-forget; a full event channel is
// logged and the event dropped rather than blocking the caller's mutation.
func (h *Hub) Publish(event Event) {
	encoded, ok := h.encode(event)
	if !ok {
		return
	}
	select {
	case h.broadcast <- encoded:
	default:
		log.Printf("realtime: dropping %s event, broadcast channel full", event.EventName())
	}
}

// PublishAdmin delivers the event to connections in the admin group only.
func (h *Hub) PublishAdmin(event Event) {
	encoded, ok := h.encode(event)
	if !ok {
		return
	}
	select {
	case h.adminBroadcast <- encoded:
	default:
		log.Printf("realtime: dropping %s admin event, broadcast channel full", event.EventName())
	}
}

func (h *Hub) encode(event Event) ([]byte, bool) {
	encoded, err := json.Marshal(envelope{
		Event:     event.EventName(),
		Data:      event,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		log.Printf("realtime: failed to marshal %s event: %v", event.EventName(), err)
		return nil, false
	}
	return encoded, true
}
