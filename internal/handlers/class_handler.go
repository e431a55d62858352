package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolhub_backend/internal/middleware"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/services"
	"schoolhub_backend/internal/services/dto"
)

type ClassHandler struct {
	*BaseHandler
	classService services.ClassService
}

func NewClassHandler(base *BaseHandler, classService services.ClassService) *ClassHandler {
	return &ClassHandler{BaseHandler: base, classService: classService}
}

func (h *ClassHandler) RegisterRoutes(r *gin.RouterGroup) {
	classes := r.Group("/classes")
	classes.Use(middleware.AuthMiddleware())
	{
		classes.GET("", h.ListClasses)
		classes.GET("/:classId", h.GetClass)
		classes.GET("/:classId/students", h.GetRoster)
		classes.GET("/:classId/averages", h.GradeAverages)
	}

	admin := r.Group("/classes")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.POST("", h.CreateClass)
		admin.PUT("/:classId", h.UpdateClass)
		admin.DELETE("/:classId", h.DeleteClass)
	}
}

func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req dto.CreateClassRequest
	if !h.BindJSON(c, &req) {
		return
	}

	class, err := h.classService.CreateClass(middleware.GetSchoolID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, class)
}

func (h *ClassHandler) GetClass(c *gin.Context) {
	class, err := h.classService.GetClass(c.Param("classId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, class)
}

func (h *ClassHandler) ListClasses(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	classes, err := h.classService.ListClasses(middleware.GetSchoolID(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, classes)
}

func (h *ClassHandler) UpdateClass(c *gin.Context) {
	var req dto.UpdateClassRequest
	if !h.BindJSON(c, &req) {
		return
	}

	class, err := h.classService.UpdateClass(c.Param("classId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, class)
}

func (h *ClassHandler) DeleteClass(c *gin.Context) {
	if err := h.classService.DeleteClass(c.Param("classId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Class deleted"})
}

func (h *ClassHandler) GetRoster(c *gin.Context) {
	students, err := h.classService.GetRoster(c.Param("classId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

func (h *ClassHandler) GradeAverages(c *gin.Context) {
	averages, err := h.classService.GradeAverages(c.Param("classId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, averages)
}
