package handlers

import (
	"workhub_backend/internal/middleware"
	"workhub_backend/internal/models"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	messages := r.Group("/messages")
	messages.Use(middleware.RequireAuth())
	{
		messages.GET("/conversation/:u1/:u2/:jobId", h.GetConversation)
		messages.GET("/conversations/:userId", h.GetConversationPreviews)
		messages.GET("/convo/:userId", h.GetMessagesInvolving)
		messages.GET("/:id", h.GetMessage)
		messages.POST("/create", h.CreateMessage)
		messages.PUT("/update/:id", h.UpdateMessage)
		messages.PUT("/conversation/:u1/:u2/:jobId/read", h.MarkConversationRead)
	}
}

// GetConversation возвращает сообщения одной переписки, новые сверху.
// Порядок :u1/:u2 не важен, идентификатор переписки от него не зависит.
func (h *ChatHandler) GetConversation(c *gin.Context) {
	u1, ok := h.ParseParamUint(c, "u1")
	if !ok {
		return
	}
	u2, ok := h.ParseParamUint(c, "u2")
	if !ok {
		return
	}
	jobID, ok := h.ParseParamUint(c, "jobId")
	if !ok {
		return
	}
	if !h.requireParticipant(c, u1, u2) {
		return
	}

	msgs, err := h.chatService.GetConversation(c.Request.Context(), u1, u2, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, msgs)
}

func (h *ChatHandler) GetConversationPreviews(c *gin.Context) {
	userID, ok := h.requireSelf(c, "userId")
	if !ok {
		return
	}

	previews, err := h.chatService.GetConversationPreviews(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, previews)
}

func (h *ChatHandler) GetMessagesInvolving(c *gin.Context) {
	userID, ok := h.requireSelf(c, "userId")
	if !ok {
		return
	}

	msgs, err := h.chatService.GetMessagesInvolving(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, msgs)
}

func (h *ChatHandler) GetMessage(c *gin.Context) {
	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	msg, err := h.chatService.GetMessage(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, msg)
}

func (h *ChatHandler) CreateMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.chatService.CreateMessage(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondCreated(c, msg)
}

// UpdateMessage принимает {"message": {"is_read": true}} и меняет только
// флаг прочтения.
func (h *ChatHandler) UpdateMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.chatService.UpdateReadStatus(c.Request.Context(), userID, id, *req.Message.IsRead)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, msg)
}

func (h *ChatHandler) MarkConversationRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	u1, ok := h.ParseParamUint(c, "u1")
	if !ok {
		return
	}
	u2, ok := h.ParseParamUint(c, "u2")
	if !ok {
		return
	}
	jobID, ok := h.ParseParamUint(c, "jobId")
	if !ok {
		return
	}

	if userID != u1 && userID != u2 {
		h.HandleServiceError(c, apperrors.NewForbidden(apperrors.DomainChat, "only participants can mark a conversation read"))
		return
	}

	other := u1
	if other == userID {
		other = u2
	}

	marked, err := h.chatService.MarkConversationRead(c.Request.Context(), userID, other, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"marked_read": marked})
}

// requireParticipant допускает к переписке только ее участников и админа.
func (h *ChatHandler) requireParticipant(c *gin.Context, u1, u2 uint) bool {
	callerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return false
	}

	if callerID != u1 && callerID != u2 && middleware.GetRole(c) != models.UserRoleAdmin {
		h.HandleServiceError(c, apperrors.NewForbidden(apperrors.DomainChat, "cannot read another user's messages"))
		return false
	}

	return true
}

// requireSelf парсит userId из пути и сверяет его с владельцем токена.
func (h *ChatHandler) requireSelf(c *gin.Context, param string) (uint, bool) {
	callerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return 0, false
	}

	userID, ok := h.ParseParamUint(c, param)
	if !ok {
		return 0, false
	}

	if userID != callerID && middleware.GetRole(c) != models.UserRoleAdmin {
		h.HandleServiceError(c, apperrors.NewForbidden(apperrors.DomainChat, "cannot read another user's messages"))
		return 0, false
	}

	return userID, true
}
