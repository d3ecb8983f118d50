package endpoints

import (
	"net/http"

	"studio"
	"studio/internal/designer/handler/response"
	"studio/internal/designer/service"
	designerws "studio/internal/designer/websocket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type websocketHandler struct {
	hub       *designerws.Hub
	documents *service.DocumentService
	logger    zerolog.Logger
}

func newWebSocketHandler(hub *designerws.Hub, documents *service.DocumentService) *websocketHandler {
	return &websocketHandler{
		hub:       hub,
		documents: documents,
		logger:    studio.Logger,
	}
}

// WebSocketHandler sets up the routes notifying editors of synchronized documents
func WebSocketHandler(router gin.IRouter, hub *designerws.Hub, documents *service.DocumentService) {
	h := newWebSocketHandler(hub, documents)

	wsRoutes := router.Group("/api/v1/ws")
	{
		wsRoutes.GET("/documents/:documentId", h.handleWebSocket)
		wsRoutes.GET("/stats", h.getRoomStats)
	}
}

// handleWebSocket subscribes the connection to one document's room
func (slf *websocketHandler) handleWebSocket(c *gin.Context) {
	documentID := c.Param("documentId")
	if _, err := slf.documents.Find(documentID); err != nil {
		c.JSON(http.StatusNotFound, response.APIError{Message: "Document not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to upgrade to WebSocket")
		return
	}

	clientID := uuid.New().String()
	client := designerws.NewClient(clientID, documentID, slf.hub, conn, slf.logger)
	slf.hub.Register <- client

	slf.logger.Info().
		Str("clientId", clientID).
		Str("documentId", documentID).
		Msg("WebSocket connection established")

	go client.WritePump()
	go client.ReadPump()
}

func (slf *websocketHandler) getRoomStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rooms": slf.hub.GetRoomStats(),
	})
}
