package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolhub_backend/internal/middleware"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/services"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{BaseHandler: base, chatService: chatService}
}

func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	chats := r.Group("/chats")
	chats.Use(middleware.AuthMiddleware())
	{
		chats.POST("", h.CreateChat)
		chats.GET("", h.GetChats)
		chats.GET("/:chatId", h.GetChat)

		chats.POST("/:chatId/messages", h.SendMessage)
		chats.POST("/:chatId/files", h.UploadFile)
		chats.GET("/:chatId/messages", h.GetMessages)
		chats.GET("/:chatId/unread-count", h.UnreadCount)

		chats.GET("/:chatId/participants", h.GetParticipants)
		chats.POST("/:chatId/participants", h.AddParticipant)
		chats.DELETE("/:chatId/participants/:userId", h.RemoveParticipant)
		chats.PUT("/:chatId/participants/:userId/role", h.UpdateParticipantRole)
		chats.POST("/:chatId/leave", h.LeaveChat)
		chats.DELETE("/:chatId", h.DeactivateChat)
	}

	admin := r.Group("/chats")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.POST("/class", h.CreateClassChat)
	}
}

func (h *ChatHandler) CreateClassChat(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateClassChatRequest
	if !h.BindJSON(c, &req) {
		return
	}

	chat, err := h.chatService.CreateClassChat(userID, middleware.GetSchoolID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, chat)
}

func (h *ChatHandler) CreateChat(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateChatRequest
	if !h.BindJSON(c, &req) {
		return
	}

	chat, err := h.chatService.CreateChat(userID, middleware.GetSchoolID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, chat)
}

func (h *ChatHandler) GetChats(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	chats, err := h.chatService.GetChats(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chats)
}

func (h *ChatHandler) GetChat(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	chat, err := h.chatService.GetChat(c.Param("chatId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chat)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	message, err := h.chatService.SendMessage(c.Param("chatId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *ChatHandler) UploadFile(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing file in multipart form"))
		return
	}

	message, err := h.chatService.UploadFile(c.Request.Context(), c.Param("chatId"), userID, header)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	page := ParseQueryInt(c, "page", 1)
	limit := ParseQueryInt(c, "limit", 50)

	messages, total, err := h.chatService.GetMessages(c.Param("chatId"), userID, page, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"total":    total,
		"page":     page,
	})
}

func (h *ChatHandler) UnreadCount(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	count, err := h.chatService.UnreadCount(c.Param("chatId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *ChatHandler) GetParticipants(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	participants, err := h.chatService.GetParticipants(c.Param("chatId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, participants)
}

func (h *ChatHandler) AddParticipant(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.AddParticipantRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.chatService.AddParticipant(c.Param("chatId"), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Participant added"})
}

func (h *ChatHandler) RemoveParticipant(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.chatService.RemoveParticipant(c.Param("chatId"), userID, c.Param("userId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Participant removed"})
}

func (h *ChatHandler) UpdateParticipantRole(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateParticipantRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.chatService.UpdateParticipantRole(c.Param("chatId"), userID, c.Param("userId"), req.Role); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

func (h *ChatHandler) LeaveChat(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.chatService.LeaveChat(c.Param("chatId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left chat"})
}

func (h *ChatHandler) DeactivateChat(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.chatService.DeactivateChat(c.Param("chatId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat deactivated"})
}
