package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolhub_backend/internal/middleware"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/services"
	"schoolhub_backend/internal/services/dto"
)

type SubjectHandler struct {
	*BaseHandler
	subjectService services.SubjectService
}

func NewSubjectHandler(base *BaseHandler, subjectService services.SubjectService) *SubjectHandler {
	return &SubjectHandler{BaseHandler: base, subjectService: subjectService}
}

func (h *SubjectHandler) RegisterRoutes(r *gin.RouterGroup) {
	subjects := r.Group("/subjects")
	subjects.Use(middleware.AuthMiddleware())
	{
		subjects.GET("", h.ListSubjects)
		subjects.GET("/:subjectId", h.GetSubject)
		subjects.GET("/class/:classId", h.ListByClass)
		subjects.GET("/teacher/:teacherId", h.ListByTeacher)
	}

	admin := r.Group("/subjects")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.POST("", h.CreateSubject)
		admin.PUT("/:subjectId/teacher", h.AssignTeacher)
		admin.DELETE("/:subjectId", h.DeleteSubject)
		admin.GET("/assignment-counts", h.AssignmentCounts)
	}
}

func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	subject, err := h.subjectService.CreateSubject(middleware.GetSchoolID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

func (h *SubjectHandler) GetSubject(c *gin.Context) {
	subject, err := h.subjectService.GetSubject(c.Param("subjectId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	subjects, err := h.subjectService.ListSubjects(middleware.GetSchoolID(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

func (h *SubjectHandler) ListByClass(c *gin.Context) {
	subjects, err := h.subjectService.ListByClass(c.Param("classId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

func (h *SubjectHandler) ListByTeacher(c *gin.Context) {
	subjects, err := h.subjectService.ListByTeacher(c.Param("teacherId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

func (h *SubjectHandler) AssignTeacher(c *gin.Context) {
	var req struct {
		TeacherID string `json:"teacher_id" binding:"required,uuid"`
	}
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.subjectService.AssignTeacher(c.Param("subjectId"), req.TeacherID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Teacher assigned"})
}

func (h *SubjectHandler) DeleteSubject(c *gin.Context) {
	if err := h.subjectService.DeleteSubject(c.Param("subjectId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subject deleted"})
}

func (h *SubjectHandler) AssignmentCounts(c *gin.Context) {
	counts, err := h.subjectService.AssignmentCounts(middleware.GetSchoolID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, counts)
}
