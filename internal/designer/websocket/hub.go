package websocket

import (
	"context"
	"sync"
	"time"

	"studio/internal/designer/service"

	"github.com/rs/zerolog"
)

// Hub maintains the document rooms and broadcasts synchronization messages
// to the clients editing those documents.
type Hub struct {
	// Rooms indexed by document ID
	Rooms map[string]*Room

	Register   chan *Client
	Unregister chan *Client

	// Broadcast messages to clients in a specific room
	Broadcast chan Message

	mu     sync.RWMutex
	Logger zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		Rooms:      make(map[string]*Room),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan Message, 256),
		Logger:     logger,
	}
}

// Run starts the hub's main event loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	cleanupTicker := time.NewTicker(5 * time.Minute)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case message := <-h.Broadcast:
			h.broadcastMessage(message)

		case <-cleanupTicker.C:
			h.cleanupEmptyRooms()
		}
	}
}

// DocumentsSynchronized queues one message per touched document. It never
// blocks the synchronization service: when the queue is full the message is
// dropped.
func (h *Hub) DocumentsSynchronized(event service.SyncEvent) {
	data := SynchronizedData{
		Action: string(event.Action),
		Kind:   event.Kind,
		Name:   event.Name,
	}
	for _, documentID := range event.DocumentIDs {
		select {
		case h.Broadcast <- NewSynchronizedMessage(documentID, data):
		default:
			h.Logger.Warn().
				Str("documentId", documentID).
				Str("action", data.Action).
				Msg("Broadcast queue full, synchronization message dropped")
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, exists := h.Rooms[client.DocumentID]
	if !exists {
		room = NewRoom(client.DocumentID, h.Logger)
		h.Rooms[client.DocumentID] = room
		h.Logger.Info().Str("documentId", client.DocumentID).Msg("Created new room")
	}
	room.AddClient(client)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, exists := h.Rooms[client.DocumentID]
	if !exists {
		return
	}

	room.RemoveClient(client)
	close(client.Send)

	if room.IsEmpty() {
		delete(h.Rooms, client.DocumentID)
		h.Logger.Info().Str("documentId", client.DocumentID).Msg("Removed empty room")
	}
}

func (h *Hub) broadcastMessage(message Message) {
	h.mu.RLock()
	room, exists := h.Rooms[message.DocumentID]
	h.mu.RUnlock()

	if !exists {
		h.Logger.Debug().
			Str("documentId", message.DocumentID).
			Str("type", string(message.Type)).
			Msg("No room for broadcast")
		return
	}

	room.Broadcast(message)

	h.Logger.Debug().
		Str("type", string(message.Type)).
		Str("documentId", message.DocumentID).
		Msg("Broadcasted message")
}

func (h *Hub) cleanupEmptyRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	cleaned := 0
	for documentID, room := range h.Rooms {
		if room.IsEmpty() {
			delete(h.Rooms, documentID)
			cleaned++
		}
	}

	if cleaned > 0 {
		h.Logger.Info().
			Int("cleanedRooms", cleaned).
			Int("activeRooms", len(h.Rooms)).
			Msg("Room cleanup completed")
	}
}

// GetRoomStats returns the number of clients per document
func (h *Hub) GetRoomStats() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := make(map[string]int, len(h.Rooms))
	for documentID, room := range h.Rooms {
		stats[documentID] = room.ClientCount()
	}
	return stats
}
