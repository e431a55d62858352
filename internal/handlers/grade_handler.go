package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolhub_backend/internal/middleware"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/repositories"
	"schoolhub_backend/internal/services"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

type GradeHandler struct {
	*BaseHandler
	gradeService services.GradeService
}

func NewGradeHandler(base *BaseHandler, gradeService services.GradeService) *GradeHandler {
	return &GradeHandler{BaseHandler: base, gradeService: gradeService}
}

func (h *GradeHandler) RegisterRoutes(r *gin.RouterGroup) {
	grades := r.Group("/grades")
	grades.Use(middleware.AuthMiddleware())
	{
		grades.GET("/:gradeId", h.GetGrade)
		grades.GET("/student/:studentId", h.ListByStudent)
	}

	staff := r.Group("/grades")
	staff.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleTeacher))
	{
		staff.POST("", h.CreateGrade)
		staff.GET("/subject/:subjectId", h.ListBySubject)
		staff.DELETE("/:gradeId", h.DeleteGrade)
	}
}

func (h *GradeHandler) CreateGrade(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateGradeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	grade, err := h.gradeService.CreateGrade(userID, middleware.GetSchoolID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, grade)
}

func (h *GradeHandler) GetGrade(c *gin.Context) {
	grade, err := h.gradeService.GetGrade(c.Param("gradeId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grade)
}

func (h *GradeHandler) ListByStudent(c *gin.Context) {
	studentID := c.Param("studentId")

	// Students may only read their own grades.
	if middleware.GetUserRole(c) == models.UserRoleStudent && middleware.GetUserID(c) != studentID {
		apperrors.HandleError(c, apperrors.NewForbiddenError("Students can only view their own grades"))
		return
	}

	var criteria repositories.GradeCriteria
	if !h.BindQuery(c, &criteria) {
		return
	}

	grades, err := h.gradeService.ListByStudent(studentID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grades)
}

func (h *GradeHandler) ListBySubject(c *gin.Context) {
	var criteria repositories.GradeCriteria
	if !h.BindQuery(c, &criteria) {
		return
	}

	grades, err := h.gradeService.ListBySubject(c.Param("subjectId"), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grades)
}

func (h *GradeHandler) DeleteGrade(c *gin.Context) {
	if err := h.gradeService.DeleteGrade(c.Param("gradeId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Grade deleted"})
}
