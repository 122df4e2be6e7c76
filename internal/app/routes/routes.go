package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/techhub/server/internal/app/controllers"
	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/middleware"
	"github.com/techhub/server/internal/pkg/metrics"
)

// Handlers groups everything SetupRouter mounts.
type Handlers struct {
	Auth           *controllers.AuthController
	Events         *controllers.EventController
	Health         *controllers.HealthController
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers) {
	router.GET("/health", h.Health.Health)
	router.GET("/ready", h.Health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	requireAuth := h.AuthMiddleware.JWTAuth()

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)

		account := auth.Group("", requireAuth)
		account.GET("/me", h.Auth.GetMe)
		account.PUT("/profile", h.Auth.UpdateProfile)
		account.PUT("/change-password", h.Auth.ChangePassword)
		account.PUT("/deactivate", h.Auth.Deactivate)
	}

	events := api.Group("/events")
	{
		events.GET("", h.Events.List)
		events.GET("/:id", h.AuthMiddleware.OptionalAuth(), h.Events.Get)

		authed := events.Group("", requireAuth)
		authed.POST("", h.AuthMiddleware.RoleRequired(models.RoleChapterLeader, models.RoleAdmin), h.Events.Create)
		authed.PUT("/:id", h.Events.Update)
		authed.PATCH("/:id/status", h.Events.UpdateStatus)
		authed.POST("/:id/register", h.Events.Register)
		authed.DELETE("/:id/register", h.Events.Withdraw)
		authed.GET("/:id/attendees", h.Events.Roster)
		authed.PUT("/:id/attendees/:userId/attendance", h.Events.MarkAttendance)
		authed.POST("/:id/waitlist/promote", h.Events.PromoteWaitlist)
	}

	users := api.Group("/users", requireAuth)
	users.GET("/me/events", h.Events.ListMine)

	router.NoRoute(middleware.NotFound())
}
