package services

import (
	"context"
	"fmt"

	"github.com/hack2025/volunteer-hub/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStatsRequest struct {
	TopLimit int `form:"topLimit"`
}

type DashboardStats struct {
	TotalEvents      int64 `json:"totalEvents"`
	UpcomingEvents   int64 `json:"upcomingEvents"`
	TotalUsers       int64 `json:"totalUsers"`
	TotalMemberships int64 `json:"totalMemberships"`
	TotalChats       int64 `json:"totalChats"`
}

type TopEvent struct {
	EventID        string `json:"eventId"`
	Name           string `json:"name"`
	VolunteerLimit int    `json:"volunteerLimit"`
	VolunteerCount int64  `json:"volunteerCount"`
}

type DashboardResponse struct {
	Stats     DashboardStats `json:"stats"`
	TopEvents []TopEvent     `json:"topEvents"`
}

// GetStats gathers the admin overview. The counts run concurrently.
func (s *DashboardService) GetStats(ctx context.Context, req *DashboardStatsRequest) (*DashboardResponse, error) {
	limit := req.TopLimit
	if limit <= 0 || limit > MaxPageSize {
		limit = 5
	}

	var stats DashboardStats
	var top []TopEvent

	g, gctx := errgroup.WithContext(ctx)
	count := func(model interface{}, dst *int64, scopes ...func(*gorm.DB) *gorm.DB) {
		g.Go(func() error {
			return s.db.WithContext(gctx).Model(model).Scopes(scopes...).Count(dst).Error
		})
	}

	count(&models.Event{}, &stats.TotalEvents)
	count(&models.Event{}, &stats.UpcomingEvents, func(db *gorm.DB) *gorm.DB {
		return db.Where("start_date >= ?", models.Now())
	})
	count(&models.User{}, &stats.TotalUsers)
	count(&models.UserEvent{}, &stats.TotalMemberships)
	count(&models.Chat{}, &stats.TotalChats)

	g.Go(func() error {
		events := models.TableOf(s.db, &models.Event{})
		members := models.TableOf(s.db, &models.UserEvent{})
		return s.db.WithContext(gctx).Table(events).
			Select(events + ".id AS event_id, " + events + ".name, " + events + ".volunteer_limit, COUNT(" + members + ".user_id) AS volunteer_count").
			Joins("LEFT JOIN " + members + " ON " + members + ".event_id = " + events + ".id").
			Group(events + ".id, " + events + ".name, " + events + ".volunteer_limit").
			Order("volunteer_count DESC").
			Order(events + ".name ASC").
			Limit(limit).
			Scan(&top).Error
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	if top == nil {
		top = []TopEvent{}
	}

	return &DashboardResponse{Stats: stats, TopEvents: top}, nil
}
