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

type AssignmentHandler struct {
	*BaseHandler
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(base *BaseHandler, assignmentService services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{BaseHandler: base, assignmentService: assignmentService}
}

func (h *AssignmentHandler) RegisterRoutes(r *gin.RouterGroup) {
	assignments := r.Group("/assignments")
	assignments.Use(middleware.AuthMiddleware())
	{
		assignments.GET("/:assignmentId", h.GetAssignment)
		assignments.GET("/class/:classId", h.ListByClass)
	}

	staff := r.Group("/assignments")
	staff.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleTeacher))
	{
		staff.POST("", h.CreateAssignment)
		staff.GET("/teacher/:teacherId", h.ListByTeacher)
		staff.DELETE("/:assignmentId", h.DeleteAssignment)
	}
}

func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(userID, middleware.GetSchoolID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	assignment, err := h.assignmentService.GetAssignment(c.Param("assignmentId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) ListByClass(c *gin.Context) {
	var criteria repositories.AssignmentCriteria
	if !h.BindQuery(c, &criteria) {
		return
	}

	assignments, err := h.assignmentService.ListByClass(c.Param("classId"), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) ListByTeacher(c *gin.Context) {
	var criteria repositories.AssignmentCriteria
	if !h.BindQuery(c, &criteria) {
		return
	}

	assignments, err := h.assignmentService.ListByTeacher(c.Param("teacherId"), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	if err := h.assignmentService.DeleteAssignment(c.Param("assignmentId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted"})
}
