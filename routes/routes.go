// File: routes/routes.go
package routes

import (
	"net/http"
	"time"

	"concierge/config"
	"concierge/handlers"
	"concierge/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAssistantRoutes registers the conversational endpoints.
func RegisterAssistantRoutes(r *gin.Engine) {
	api := r.Group("/api/assistant")
	{
		api.POST("/chat", handlers.ChatHandler)
	}
}

// RegisterScheduleRoutes registers the calendar and booking endpoints.
func RegisterScheduleRoutes(r *gin.Engine) {
	api := r.Group("/api/schedule")
	{
		api.GET("/availability/:date", handlers.GetAvailabilityHandler)
		api.GET("/bookings", handlers.ListBookingsHandler)
		api.DELETE("/bookings/:id", handlers.CancelBookingHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Concierge"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	RegisterAssistantRoutes(r)
	RegisterScheduleRoutes(r)
	RegisterHealthRoute(r)
}
