package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolhub_backend/internal/middleware"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/repositories"
	"schoolhub_backend/internal/services"
	"schoolhub_backend/internal/services/dto"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{BaseHandler: base, notificationService: notificationService}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.GET("/stats", h.Stats)
		notifications.PUT("/read-all", h.MarkAllAsRead)
		notifications.POST("/bulk", h.BulkOperation)
		notifications.PUT("/:notificationId/read", h.MarkAsRead)
		notifications.PUT("/:notificationId/unread", h.MarkAsUnread)
		notifications.PUT("/:notificationId/archive", h.Archive)
		notifications.PUT("/:notificationId/unarchive", h.Unarchive)
	}

	staff := r.Group("/notifications")
	staff.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleTeacher))
	{
		staff.POST("", h.Create)
		staff.POST("/bulk-send", h.CreateBulk)
	}
}

func (h *NotificationHandler) Create(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateNotificationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	notification, err := h.notificationService.Create(&userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, notification)
}

func (h *NotificationHandler) CreateBulk(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBulkNotificationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.notificationService.CreateBulk(&userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"created": created})
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var criteria repositories.NotificationCriteria
	if !h.BindQuery(c, &criteria) {
		return
	}

	page, err := h.notificationService.List(userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	h.flagOp(c, h.notificationService.MarkAsRead, "Notification marked as read")
}

func (h *NotificationHandler) MarkAsUnread(c *gin.Context) {
	h.flagOp(c, h.notificationService.MarkAsUnread, "Notification marked as unread")
}

func (h *NotificationHandler) Archive(c *gin.Context) {
	h.flagOp(c, h.notificationService.Archive, "Notification archived")
}

func (h *NotificationHandler) Unarchive(c *gin.Context) {
	h.flagOp(c, h.notificationService.Unarchive, "Notification unarchived")
}

func (h *NotificationHandler) flagOp(c *gin.Context, op func(recipientID, id string) error, message string) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	if err := op(userID, c.Param("notificationId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllAsRead(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *NotificationHandler) BulkOperation(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.BulkOperationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.notificationService.BulkOperation(userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bulk operation applied"})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *NotificationHandler) Stats(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	stats, err := h.notificationService.Stats(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
