package main

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/hack2025/volunteer-hub/internal/middleware"
	"github.com/hack2025/volunteer-hub/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(svc.cfg.Server.AllowedOrigins))

	// Per-user limiter for chat posts
	chatLimiter := middleware.NewKeyedRateLimiter(svc.cfg.Chat.RatePerSecond, svc.cfg.Chat.Burst, middleware.ByUser)
	// Per-IP limiter for identity-provider lookups
	usersLimiter := middleware.NewRateLimiter(svc.cfg.Identity.RatePerSecond, svc.cfg.Identity.Burst)

	// Health check and metrics
	r.GET("/health", svc.healthHandler.CheckHealth)
	r.GET("/metrics", svc.metricsHandler.Metrics)

	api := r.Group("/api")
	{
		// Public routes
		public := api.Group("", middleware.OptionalAuth())
		{
			public.GET("/events", svc.eventHandler.List)
			public.GET("/events/categories", svc.eventHandler.Categories)
			public.GET("/events/:id", svc.eventHandler.Get)
			public.GET("/event/:id", svc.eventHandler.Get)
			public.POST("/users/info", usersLimiter.Middleware(), svc.userHandler.Info)
		}

		// Authenticated routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Chat
			protected.POST("/chat", chatLimiter.Middleware(), svc.chatHandler.Send)
			protected.GET("/chat/messages", svc.chatHandler.Messages)
			protected.PUT("/chat", svc.chatHandler.Edit)
			protected.DELETE("/chat", svc.chatHandler.Remove)
			protected.PUT("/chat/:id", svc.chatHandler.EditByID)
			protected.DELETE("/chat/:id", svc.chatHandler.RemoveByID)
			protected.GET("/events/:id/messages", svc.chatHandler.EventMessages)
			protected.POST("/events/:id/messages", chatLimiter.Middleware(), svc.chatHandler.PostEventMessage)

			// Membership
			protected.POST("/events/:id/join", svc.eventHandler.Join)
			protected.POST("/events/:id/leave", svc.eventHandler.Leave)
			protected.GET("/me/events", svc.eventHandler.MyEvents)
			protected.GET("/me/chats", svc.chatHandler.MyChats)

			// Calendar
			protected.POST("/google-calendar", svc.calendarHandler.Sync)
		}

		// Admin only routes
		admin := api.Group("/admin")
		admin.Use(
			middleware.AuthRequired(),
			middleware.AdminRequired(svc.cfg.JWT.AdminRole),
			middleware.AuditLog(svc.systemLogService),
		)
		{
			// Events
			admin.POST("/events", svc.eventHandler.Create)
			admin.PUT("/events/:id", svc.eventHandler.Update)
			admin.DELETE("/events/:id", svc.eventHandler.Delete)

			// Volunteers
			admin.GET("/events/:id/volunteers", svc.eventHandler.Volunteers)
			admin.DELETE("/events/:id/volunteers/:userId", svc.eventHandler.RemoveVolunteer)

			// Chats
			admin.GET("/events/:id/chats", svc.chatHandler.EventChats)
			admin.DELETE("/chats/:id", svc.chatHandler.AdminRemove)
			admin.GET("/users/:id/chats", svc.chatHandler.UserChats)

			// Dashboard
			admin.GET("/dashboard", svc.dashboardHandler.GetStats)

			// System Logs
			admin.GET("/system-logs", svc.systemLogHandler.List)
			admin.GET("/system-logs/modules", svc.systemLogHandler.GetModules)
			admin.POST("/system-logs/cleanup", svc.systemLogHandler.Cleanup)
		}
	}
}
