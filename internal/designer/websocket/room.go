package websocket

import (
	"sync"

	"github.com/rs/zerolog"
)

// Room groups the clients editing one document
type Room struct {
	DocumentID string
	Clients    map[string]*Client
	mu         sync.RWMutex
	Logger     zerolog.Logger
}

func NewRoom(documentID string, logger zerolog.Logger) *Room {
	return &Room{
		DocumentID: documentID,
		Clients:    make(map[string]*Client),
		Logger:     logger,
	}
}

// AddClient adds a client to the room and notifies everyone in it
func (r *Room) AddClient(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Clients[client.ID] = client
	r.Logger.Info().
		Str("documentId", r.DocumentID).
		Str("clientId", client.ID).
		Int("totalClients", len(r.Clients)).
		Msg("Client joined room")

	r.send(newPresenceMessage(MessageTypeClientJoin, r.DocumentID, client.ID, len(r.Clients)))
}

// RemoveClient removes a client from the room
func (r *Room) RemoveClient(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.Clients[client.ID]; !exists {
		return
	}
	delete(r.Clients, client.ID)
	r.Logger.Info().
		Str("documentId", r.DocumentID).
		Str("clientId", client.ID).
		Int("remainingClients", len(r.Clients)).
		Msg("Client left room")

	r.send(newPresenceMessage(MessageTypeClientLeave, r.DocumentID, client.ID, len(r.Clients)))
}

// Broadcast sends a message to all clients in the room
func (r *Room) Broadcast(message Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.send(message)
}

// send must be called with the lock held.
func (r *Room) send(message Message) {
	for _, client := range r.Clients {
		select {
		case client.Send <- message:
		default:
			r.Logger.Warn().
				Str("clientId", client.ID).
				Msg("Client send buffer full, message dropped")
		}
	}
}

func (r *Room) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Clients) == 0
}

func (r *Room) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Clients)
}
