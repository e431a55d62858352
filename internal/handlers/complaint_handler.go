package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolhub_backend/internal/middleware"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/services"
	"schoolhub_backend/internal/services/dto"
)

type ComplaintHandler struct {
	*BaseHandler
	complaintService services.ComplaintService
}

func NewComplaintHandler(base *BaseHandler, complaintService services.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{BaseHandler: base, complaintService: complaintService}
}

func (h *ComplaintHandler) RegisterRoutes(r *gin.RouterGroup) {
	complaints := r.Group("/complaints")
	complaints.Use(middleware.AuthMiddleware())
	{
		complaints.POST("", h.CreateComplaint)
		complaints.GET("/mine", h.ListMine)
		complaints.GET("/:complaintId", h.GetComplaint)
	}

	admin := r.Group("/complaints")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("", h.ListBySchool)
		admin.PUT("/:complaintId/resolve", h.Resolve)
	}
}

func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateComplaintRequest
	if !h.BindJSON(c, &req) {
		return
	}

	complaint, err := h.complaintService.CreateComplaint(userID, middleware.GetUserRole(c), middleware.GetSchoolID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, complaint)
}

func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	complaint, err := h.complaintService.GetComplaint(c.Param("complaintId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}

func (h *ComplaintHandler) ListMine(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)

	complaints, err := h.complaintService.ListByAuthor(userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaints)
}

func (h *ComplaintHandler) ListBySchool(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	status := models.ComplaintStatus(c.Query("status"))

	complaints, err := h.complaintService.ListBySchool(middleware.GetSchoolID(c), status, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaints)
}

func (h *ComplaintHandler) Resolve(c *gin.Context) {
	if err := h.complaintService.Resolve(c.Param("complaintId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Complaint resolved"})
}
