package websocket

import (
	"time"

	"studio/internal/designer/models"
)

type MessageType string

const (
	MessageTypeDocumentSynchronized MessageType = "document.synchronized"
	MessageTypeClientJoin           MessageType = "client.join"
	MessageTypeClientLeave          MessageType = "client.leave"
	MessageTypeError                MessageType = "error"
)

// Message is the envelope sent to editor clients.
// Data field uses 'any' to allow different payloads through channels
type Message struct {
	Type       MessageType `json:"type"`
	DocumentID string      `json:"documentId"`
	ClientID   string      `json:"clientId,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       any         `json:"data,omitempty"`
}

// SynchronizedData tells a client which shared object changed in its
// document. The client is expected to refresh the document.
type SynchronizedData struct {
	Action string                  `json:"action"`
	Kind   models.SharedObjectKind `json:"kind,omitempty"`
	Name   string                  `json:"name,omitempty"`
}

type ClientInfo struct {
	ClientID string `json:"clientId"`
	Clients  int    `json:"clients"`
}

type ErrorData struct {
	Message string `json:"message"`
}

func NewSynchronizedMessage(documentID string, data SynchronizedData) Message {
	return Message{
		Type:       MessageTypeDocumentSynchronized,
		DocumentID: documentID,
		Timestamp:  time.Now(),
		Data:       data,
	}
}

func NewErrorMessage(documentID string, errorText string) Message {
	return Message{
		Type:       MessageTypeError,
		DocumentID: documentID,
		Timestamp:  time.Now(),
		Data:       ErrorData{Message: errorText},
	}
}

func newPresenceMessage(msgType MessageType, documentID, clientID string, clients int) Message {
	return Message{
		Type:       msgType,
		DocumentID: documentID,
		ClientID:   clientID,
		Timestamp:  time.Now(),
		Data:       ClientInfo{ClientID: clientID, Clients: clients},
	}
}
