package main

import (
	"github.com/hack2025/volunteer-hub/internal/config"
	"github.com/hack2025/volunteer-hub/internal/handlers"
	"github.com/hack2025/volunteer-hub/internal/identity"
	"github.com/hack2025/volunteer-hub/internal/models"
	"github.com/hack2025/volunteer-hub/internal/services"
	"github.com/hack2025/volunteer-hub/internal/utils"
	"github.com/hack2025/volunteer-hub/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg              *config.Config
	db               *gorm.DB
	systemLogService *services.SystemLogService
	cleanup          *cron.Cron

	healthHandler    *handlers.HealthHandler
	eventHandler     *handlers.EventHandler
	chatHandler      *handlers.ChatHandler
	userHandler      *handlers.UserHandler
	calendarHandler  *handlers.CalendarHandler
	dashboardHandler *handlers.DashboardHandler
	systemLogHandler *handlers.SystemLogHandler
	metricsHandler   *handlers.MetricsHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	db, err := models.InitDB(&cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	userService := services.NewUserService(db)
	eventService := services.NewEventService(db)
	membershipService := services.NewMembershipService(db, userService)
	chatService := services.NewChatService(db)
	systemLogService := services.NewSystemLogService(db)
	dashboardService := services.NewDashboardService(db)

	// Start system log cleanup scheduler
	cleanup, err := services.StartLogCleanupScheduler(systemLogService, services.NewSchedulerLocker(db), cfg.SystemLog.CleanupSpec, cfg.SystemLog.RetentionDays)
	if err != nil {
		logger.Warn().Err(err).Msg("System log cleanup disabled")
	}

	if cfg.Identity.SecretKey == "" {
		logger.Warn().Msg("Identity provider secret not set, /api/users/info will fail")
	}

	return &appServices{
		cfg:              cfg,
		db:               db,
		systemLogService: systemLogService,
		cleanup:          cleanup,

		healthHandler:    handlers.NewHealthHandler(db),
		eventHandler:     handlers.NewEventHandler(eventService, membershipService),
		chatHandler:      handlers.NewChatHandler(chatService, userService, eventService),
		userHandler:      handlers.NewUserHandler(identity.NewClient(cfg.Identity)),
		calendarHandler:  handlers.NewCalendarHandler(services.NewCalendarService()),
		dashboardHandler: handlers.NewDashboardHandler(dashboardService),
		systemLogHandler: handlers.NewSystemLogHandler(systemLogService, cfg.SystemLog.RetentionDays),
		metricsHandler:   handlers.NewMetricsHandler(db, dashboardService),
	}
}

// shutdown stops schedulers and closes the database.
func (s *appServices) shutdown() {
	if s.cleanup != nil {
		<-s.cleanup.Stop().Done()
	}
	logger.Info().Msg("All schedulers stopped")

	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close database")
		}
	}
}
