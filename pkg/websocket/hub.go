package websocket

import (
	"encoding/json"
	"sync"
	"time"
)

// Hub fans planner snapshots out to subscribed rendering clients. Each trip
// has a room; a client subscribes to exactly one trip and only ever
// receives state, never sends intents over the socket.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan roomMessage
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mutex      sync.RWMutex
}

type roomMessage struct {
	room string
	data []byte
}

type Message struct {
	Type      string      `json:"type"`
	TripID    string      `json:"trip_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan roomMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToRoom(message.room, message.data)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true
	room := h.rooms[client.TripID]
	if room == nil {
		room = make(map[*Client]bool)
		h.rooms[client.TripID] = room
	}
	room[client] = true
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	if room, ok := h.rooms[client.TripID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.TripID)
		}
	}
}

func (h *Hub) broadcastToRoom(room string, data []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.rooms[room] {
		select {
		case client.send <- data:
		default:
			// Slow consumer; drop the frame rather than stall the hub.
		}
	}
}

// BroadcastSnapshot pushes a planner snapshot to every client watching the
// trip.
func (h *Hub) BroadcastSnapshot(tripID string, snapshot interface{}) {
	msg := Message{
		Type:      "snapshot",
		TripID:    tripID,
		Timestamp: time.Now().Unix(),
		Data:      snapshot,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.broadcast <- roomMessage{room: tripID, data: data}
}

// RoomSize reports how many clients watch a trip, for diagnostics.
func (h *Hub) RoomSize(tripID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[tripID])
}
