package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolhub_backend/internal/middleware"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/services"
	"schoolhub_backend/internal/services/dto"
)

type SchoolHandler struct {
	*BaseHandler
	schoolService services.SchoolService
}

func NewSchoolHandler(base *BaseHandler, schoolService services.SchoolService) *SchoolHandler {
	return &SchoolHandler{BaseHandler: base, schoolService: schoolService}
}

func (h *SchoolHandler) RegisterRoutes(r *gin.RouterGroup) {
	schools := r.Group("/schools")
	{
		schools.GET("", h.ListSchools)
		schools.GET("/:schoolId", h.GetSchool)
	}

	admin := r.Group("/schools")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.POST("", h.CreateSchool)
		admin.DELETE("/:schoolId", h.DeactivateSchool)
	}
}

func (h *SchoolHandler) CreateSchool(c *gin.Context) {
	var req dto.CreateSchoolRequest
	if !h.BindJSON(c, &req) {
		return
	}

	school, err := h.schoolService.CreateSchool(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, school)
}

func (h *SchoolHandler) GetSchool(c *gin.Context) {
	school, err := h.schoolService.GetSchool(c.Param("schoolId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, school)
}

func (h *SchoolHandler) ListSchools(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	schools, err := h.schoolService.ListSchools(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, schools)
}

func (h *SchoolHandler) DeactivateSchool(c *gin.Context) {
	if err := h.schoolService.DeactivateSchool(c.Param("schoolId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "School deactivated"})
}
