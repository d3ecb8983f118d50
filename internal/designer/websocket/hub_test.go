package websocket

import (
	"context"
	"testing"
	"time"

	"studio/internal/designer/models"
	"studio/internal/designer/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, id, documentID string) *Client {
	return NewClient(id, documentID, hub, nil, zerolog.Nop())
}

func drain(client *Client) []Message {
	var messages []Message
	for {
		select {
		case msg := <-client.Send:
			messages = append(messages, msg)
		default:
			return messages
		}
	}
}

func TestHub_RegisterCreatesRoom(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	a := newTestClient(hub, "a", "doc-1")
	b := newTestClient(hub, "b", "doc-1")

	hub.registerClient(a)
	hub.registerClient(b)

	assert.Equal(t, map[string]int{"doc-1": 2}, hub.GetRoomStats())

	joins := drain(a)
	require.Len(t, joins, 2, "a sees its own join and b's")
	assert.Equal(t, MessageTypeClientJoin, joins[1].Type)
	assert.Equal(t, "b", joins[1].ClientID)
}

func TestHub_UnregisterRemovesEmptyRoom(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	a := newTestClient(hub, "a", "doc-1")
	hub.registerClient(a)

	hub.unregisterClient(a)

	assert.Empty(t, hub.GetRoomStats())
	_, open := <-a.Send
	for open {
		_, open = <-a.Send
	}
	assert.False(t, open, "send channel is closed")
}

func TestHub_DocumentsSynchronizedReachesRooms(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	onDoc1 := newTestClient(hub, "a", "doc-1")
	onDoc2 := newTestClient(hub, "b", "doc-2")
	elsewhere := newTestClient(hub, "c", "doc-3")
	hub.registerClient(onDoc1)
	hub.registerClient(onDoc2)
	hub.registerClient(elsewhere)
	drain(onDoc1)
	drain(onDoc2)
	drain(elsewhere)

	hub.DocumentsSynchronized(service.SyncEvent{
		Action:      service.SyncActionUpdate,
		Kind:        models.KindConnection,
		Name:        "DEV",
		DocumentIDs: []string{"doc-1", "doc-2"},
	})
	require.Len(t, hub.Broadcast, 2)
	for len(hub.Broadcast) > 0 {
		hub.broadcastMessage(<-hub.Broadcast)
	}

	for _, client := range []*Client{onDoc1, onDoc2} {
		messages := drain(client)
		require.Len(t, messages, 1)
		assert.Equal(t, MessageTypeDocumentSynchronized, messages[0].Type)
		assert.Equal(t, client.DocumentID, messages[0].DocumentID)
		assert.Equal(t, SynchronizedData{Action: "update", Kind: models.KindConnection, Name: "DEV"}, messages[0].Data)
	}
	assert.Empty(t, drain(elsewhere))
}

func TestHub_DocumentsSynchronizedNeverBlocks(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ids := make([]string, cap(hub.Broadcast)+10)
	for i := range ids {
		ids[i] = "doc"
	}

	done := make(chan struct{})
	go func() {
		hub.DocumentsSynchronized(service.SyncEvent{Action: service.SyncActionReload, DocumentIDs: ids})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("DocumentsSynchronized blocked on a full queue")
	}
	assert.Len(t, hub.Broadcast, cap(hub.Broadcast))
}

func TestHub_RunStopsWithContext(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := newTestClient(hub, "a", "doc-1")
	hub.Register <- client
	hub.Broadcast <- NewSynchronizedMessage("doc-1", SynchronizedData{Action: "reload"})

	require.Eventually(t, func() bool {
		return len(client.Send) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
}

func TestRoom_FullClientIsSkipped(t *testing.T) {
	room := NewRoom("doc-1", zerolog.Nop())
	slow := &Client{ID: "slow", DocumentID: "doc-1", Send: make(chan Message)}
	fast := &Client{ID: "fast", DocumentID: "doc-1", Send: make(chan Message, 4)}
	room.AddClient(slow)
	room.AddClient(fast)
	drain(fast)

	room.Broadcast(NewErrorMessage("doc-1", "boom"))

	messages := drain(fast)
	require.Len(t, messages, 1)
	assert.Equal(t, ErrorData{Message: "boom"}, messages[0].Data)
	assert.Equal(t, 2, room.ClientCount())
}
