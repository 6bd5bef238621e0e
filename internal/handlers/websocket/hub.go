package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"stockgame/internal/types"
)

type subscription struct {
	client   *Client
	roomCode string
}

type roomMessage struct {
	roomCode string
	payload  []byte
}

// Hub maintains active clients and their room subscriptions, and
// broadcasts messages globally or per room
type Hub struct {
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	broadcast     chan []byte
	roomBroadcast chan roomMessage
	register      chan *Client
	unregister    chan *Client
	subscribe     chan subscription
	unsubscribe   chan subscription

	mutex sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		rooms:         make(map[string]map[*Client]bool),
		broadcast:     make(chan []byte),
		roomBroadcast: make(chan roomMessage),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscribe:     make(chan subscription),
		unsubscribe:   make(chan subscription),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %s connected. Total clients: %d", client.ID, len(h.clients))

			statusMsg := types.WebSocketMessage{
				Type: types.MessageTypeConnectionStatus,
				Data: types.ConnectionStatusData{
					Status:    "connected",
					Message:   "Successfully connected to WebSocket",
					Timestamp: GetCurrentTimestamp(),
				},
			}
			if data, err := json.Marshal(statusMsg); err == nil {
				select {
				case client.Send <- data:
				default:
					close(client.Send)
					h.mutex.Lock()
					h.removeClient(client)
					h.mutex.Unlock()
				}
			}

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				h.removeClient(client)
				close(client.Send)
				log.Printf("Client %s disconnected. Total clients: %d", client.ID, len(h.clients))
			}
			h.mutex.Unlock()

		case sub := <-h.subscribe:
			h.mutex.Lock()
			h.removeFromRoom(sub.client)
			if h.rooms[sub.roomCode] == nil {
				h.rooms[sub.roomCode] = make(map[*Client]bool)
			}
			h.rooms[sub.roomCode][sub.client] = true
			sub.client.RoomCode = sub.roomCode
			h.mutex.Unlock()
			log.Printf("Client %s subscribed to room %s", sub.client.ID, sub.roomCode)

		case sub := <-h.unsubscribe:
			h.mutex.Lock()
			h.removeFromRoom(sub.client)
			h.mutex.Unlock()
			log.Printf("Client %s unsubscribed from room %s", sub.client.ID, sub.roomCode)

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				h.deliver(client, message)
			}
			h.mutex.RUnlock()

		case message := <-h.roomBroadcast:
			h.mutex.RLock()
			for client := range h.rooms[message.roomCode] {
				h.deliver(client, message.payload)
			}
			h.mutex.RUnlock()
		}
	}
}

func (h *Hub) deliver(client *Client, payload []byte) {
	select {
	case client.Send <- payload:
	default:
		log.Printf("Client %s send channel full, dropping message", client.ID)
	}
}

// removeClient drops a client from the client set and its room.
// Caller holds the write lock.
func (h *Hub) removeClient(client *Client) {
	h.removeFromRoom(client)
	delete(h.clients, client)
}

// removeFromRoom detaches a client from its current room, deleting the
// room set when it empties. Caller holds the write lock.
func (h *Hub) removeFromRoom(client *Client) {
	if client.RoomCode == "" {
		return
	}
	if members, ok := h.rooms[client.RoomCode]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, client.RoomCode)
		}
	}
	client.RoomCode = ""
}

// BroadcastMessage broadcasts a message to all connected clients
func (h *Hub) BroadcastMessage(msgType types.MessageType, data interface{}) {
	jsonData, err := marshalMessage(msgType, data)
	if err != nil {
		return
	}
	h.broadcast <- jsonData
}

// BroadcastToRoom broadcasts a message to the clients subscribed to a
// room. Implements services.RoomBroadcaster.
func (h *Hub) BroadcastToRoom(roomCode string, msgType types.MessageType, data interface{}) {
	jsonData, err := marshalMessage(msgType, data)
	if err != nil {
		return
	}
	h.roomBroadcast <- roomMessage{roomCode: roomCode, payload: jsonData}
}

func marshalMessage(msgType types.MessageType, data interface{}) ([]byte, error) {
	message := types.WebSocketMessage{
		Type: msgType,
		Data: data,
	}
	jsonData, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling WebSocket message: %v", err)
	}
	return jsonData, err
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// RegisterClient registers a new client
func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient unregisters a client
func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

// Subscribe attaches a client to a room channel
func (h *Hub) Subscribe(client *Client, roomCode string) {
	h.subscribe <- subscription{client: client, roomCode: roomCode}
}

// Unsubscribe detaches a client from its room channel
func (h *Hub) Unsubscribe(client *Client, roomCode string) {
	h.unsubscribe <- subscription{client: client, roomCode: roomCode}
}
