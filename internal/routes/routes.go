package routes

import (
	"github.com/gin-gonic/gin"

	"schoolhub_backend/internal/handlers"
	"schoolhub_backend/internal/metrics"
	"schoolhub_backend/internal/middleware"
	"schoolhub_backend/ws"
)

// RegisterRoutes wires every HTTP and WebSocket route onto the engine.
func RegisterRoutes(
	router *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.Handler,
) {
	api := router.Group("/api/v1")
	{
		appHandlers.HealthHandler.RegisterRoutes(api)
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.SchoolHandler.RegisterRoutes(api)
		appHandlers.ClassHandler.RegisterRoutes(api)
		appHandlers.SubjectHandler.RegisterRoutes(api)
		appHandlers.GradeHandler.RegisterRoutes(api)
		appHandlers.AssignmentHandler.RegisterRoutes(api)
		appHandlers.NoticeHandler.RegisterRoutes(api)
		appHandlers.ComplaintHandler.RegisterRoutes(api)
		appHandlers.RegistrationHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
		appHandlers.ChatHandler.RegisterRoutes(api)
	}

	wsGroup := router.Group("/ws")
	wsGroup.Use(middleware.AuthMiddleware())
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}

	router.GET("/metrics", metrics.Handler())
}
