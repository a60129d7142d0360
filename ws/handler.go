package ws

import (
	"net/http"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/middleware"
	"workhub_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler апгрейдит HTTP-соединение до вебсокета.
// Маршрут должен стоять за RequireAuth.
type Handler struct {
	manager     *Manager
	chatService services.ChatService
}

func NewHandler(manager *Manager, chat services.ChatService) *Handler {
	return &Handler{
		manager:     manager,
		chatService: chat,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws", middleware.RequireAuth(), h.Serve)
}

func (h *Handler) Serve(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Warn("ws upgrade failed", "user_id", userID)
		return
	}

	client := newClient(userID, conn, h.manager, h.chatService)
	h.manager.register <- client

	go client.readPump()
	go client.writePump()
}
