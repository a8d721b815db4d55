package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/toklytics/toklytics-live/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authenticator *middleware.Authenticator) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes, creator access token required
	v1 := router.Group("/api/v1", middleware.Auth(authenticator))
	{
		v1.POST("/live/start", handler.StartLiveTracking)
		v1.POST("/live/stop", handler.StopLiveTracking)
		v1.GET("/live/status", handler.GetLiveTrackingStatus)
	}
}
