package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolhub_backend/internal/middleware"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/services"
	"schoolhub_backend/internal/services/dto"
)

// RegistrationHandler serves the public application endpoints and the admin
// decision endpoints for teacher requests and student registrations.
type RegistrationHandler struct {
	*BaseHandler
	registrationService services.RegistrationService
	submitLimit         gin.HandlerFunc
}

func NewRegistrationHandler(base *BaseHandler, registrationService services.RegistrationService, submitLimit gin.HandlerFunc) *RegistrationHandler {
	return &RegistrationHandler{
		BaseHandler:         base,
		registrationService: registrationService,
		submitLimit:         submitLimit,
	}
}

func (h *RegistrationHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public application endpoints, rate limited.
	public := r.Group("")
	{
		public.POST("/teacher-requests", h.submitLimit, h.SubmitTeacherRequest)
		public.POST("/student-registrations", h.submitLimit, h.SubmitStudentRegistration)
	}

	admin := r.Group("")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/teacher-requests", h.ListTeacherRequests)
		admin.PUT("/teacher-requests/:requestId/decide", h.DecideTeacherRequest)
		admin.GET("/student-registrations", h.ListStudentRegistrations)
		admin.PUT("/student-registrations/:registrationId/decide", h.DecideStudentRegistration)
	}
}

func (h *RegistrationHandler) SubmitTeacherRequest(c *gin.Context) {
	var req dto.SubmitTeacherRequest
	if !h.BindJSON(c, &req) {
		return
	}

	request, err := h.registrationService.SubmitTeacherRequest(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *RegistrationHandler) ListTeacherRequests(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	status := models.RequestStatus(c.Query("status"))

	requests, err := h.registrationService.ListTeacherRequests(middleware.GetSchoolID(c), status, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *RegistrationHandler) DecideTeacherRequest(c *gin.Context) {
	adminID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var decision dto.DecideRequest
	if !h.BindJSON(c, &decision) {
		return
	}

	if err := h.registrationService.DecideTeacherRequest(adminID, c.Param("requestId"), &decision); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request decided"})
}

func (h *RegistrationHandler) SubmitStudentRegistration(c *gin.Context) {
	var req dto.SubmitStudentRegistration
	if !h.BindJSON(c, &req) {
		return
	}

	registration, err := h.registrationService.SubmitStudentRegistration(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, registration)
}

func (h *RegistrationHandler) ListStudentRegistrations(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	status := models.RequestStatus(c.Query("status"))

	registrations, err := h.registrationService.ListStudentRegistrations(middleware.GetSchoolID(c), status, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registrations)
}

func (h *RegistrationHandler) DecideStudentRegistration(c *gin.Context) {
	adminID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var decision dto.DecideRequest
	if !h.BindJSON(c, &decision) {
		return
	}

	if err := h.registrationService.DecideStudentRegistration(adminID, c.Param("registrationId"), &decision); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registration decided"})
}
