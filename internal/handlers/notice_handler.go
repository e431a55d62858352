package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolhub_backend/internal/middleware"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/services"
	"schoolhub_backend/internal/services/dto"
)

type NoticeHandler struct {
	*BaseHandler
	noticeService services.NoticeService
}

func NewNoticeHandler(base *BaseHandler, noticeService services.NoticeService) *NoticeHandler {
	return &NoticeHandler{BaseHandler: base, noticeService: noticeService}
}

func (h *NoticeHandler) RegisterRoutes(r *gin.RouterGroup) {
	notices := r.Group("/notices")
	notices.Use(middleware.AuthMiddleware())
	{
		notices.GET("", h.ListNotices)
		notices.GET("/:noticeId", h.GetNotice)
	}

	admin := r.Group("/notices")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.POST("", h.CreateNotice)
		admin.DELETE("/:noticeId", h.DeleteNotice)
	}
}

func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateNoticeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	notice, err := h.noticeService.CreateNotice(userID, middleware.GetSchoolID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, notice)
}

func (h *NoticeHandler) GetNotice(c *gin.Context) {
	notice, err := h.noticeService.GetNotice(c.Param("noticeId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notice)
}

func (h *NoticeHandler) ListNotices(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	notices, err := h.noticeService.ListNotices(middleware.GetSchoolID(c), middleware.GetUserRole(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notices)
}

func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	if err := h.noticeService.DeleteNotice(c.Param("noticeId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notice deleted"})
}
