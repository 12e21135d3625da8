package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hack2025/volunteer-hub/internal/models"
	"github.com/hack2025/volunteer-hub/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Log levels stored in the audit trail.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

type SystemLogService struct {
	db *gorm.DB
}

func NewSystemLogService(db *gorm.DB) *SystemLogService {
	return &SystemLogService{db: db}
}

// LogEntry describes one audited operation.
type LogEntry struct {
	Module    string
	Action    string
	Message   string
	UserID    string
	IP        string
	UserAgent string
	Extra     interface{}
}

func (s *SystemLogService) LogInfo(ctx context.Context, e LogEntry) {
	s.write(ctx, LevelInfo, e)
}

func (s *SystemLogService) LogWarning(ctx context.Context, e LogEntry) {
	s.write(ctx, LevelWarning, e)
}

func (s *SystemLogService) LogError(ctx context.Context, e LogEntry) {
	s.write(ctx, LevelError, e)
}

// write never fails the caller; a lost audit row is only reported in the
// process log.
func (s *SystemLogService) write(ctx context.Context, level string, e LogEntry) {
	entry := &models.SystemLog{
		Level:     level,
		Module:    e.Module,
		Action:    e.Action,
		Message:   e.Message,
		IP:        e.IP,
		UserAgent: e.UserAgent,
	}
	if e.UserID != "" {
		uid := e.UserID
		entry.UserID = &uid
	}
	if e.Extra != nil {
		if b, err := json.Marshal(e.Extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Warn().Err(err).Str("module", e.Module).Str("action", e.Action).Msg("failed to write system log")
	}
}

type SystemLogListRequest struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
	Level     string `form:"level"`
	Module    string `form:"module"`
	Action    string `form:"action"`
	UserID    string `form:"userId"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Search    string `form:"search"`
}

type SystemLogListResponse struct {
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
	Items    []models.SystemLog `json:"items"`
}

func (s *SystemLogService) List(ctx context.Context, req *SystemLogListRequest) (*SystemLogListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > MaxPageSize {
		req.PageSize = 20
	}

	var where predicates
	if req.Level != "" {
		where.add("level = ?", req.Level)
	}
	if req.Module != "" {
		where.add("module = ?", req.Module)
	}
	if req.Action != "" {
		where.add("action LIKE ?", containsPattern(req.Action))
	}
	if req.UserID != "" {
		where.add("user_id = ?", req.UserID)
	}
	if t, err := time.Parse("2006-01-02", req.StartDate); err == nil {
		where.add("created_at >= ?", t.UTC())
	}
	if t, err := time.Parse("2006-01-02", req.EndDate); err == nil {
		where.add("created_at < ?", t.UTC().AddDate(0, 0, 1))
	}
	if req.Search != "" {
		where.add("LOWER(message) LIKE LOWER(?)", containsPattern(req.Search))
	}

	query := where.apply(s.db.WithContext(ctx).Model(&models.SystemLog{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	logs := make([]models.SystemLog, 0)
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Order("id DESC").Find(&logs).Error; err != nil {
		return nil, err
	}

	return &SystemLogListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    logs,
	}, nil
}

func (s *SystemLogService) GetModules(ctx context.Context) ([]string, error) {
	modules := make([]string, 0)
	if err := s.db.WithContext(ctx).Model(&models.SystemLog{}).Distinct("module").Order("module").Pluck("module", &modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

// CleanupOldLogs deletes logs older than retentionDays and returns how many
// went. A non-positive retention keeps everything.
func (s *SystemLogService) CleanupOldLogs(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := models.Now().AddDate(0, 0, -retentionDays)
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// cleanupLockName guards the daily cleanup when several instances share a database.
const cleanupLockName = "system_log_cleanup"

// StartLogCleanupScheduler runs CleanupOldLogs on the cron spec. The
// returned scheduler must be stopped on shutdown.
func StartLogCleanupScheduler(svc *SystemLogService, locker *SchedulerLocker, spec string, retentionDays int) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		runCleanup(context.Background(), svc, locker, retentionDays)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", spec, err)
	}
	c.Start()
	logger.Infof("[SystemLog] cleanup scheduled (%s, keep %d days)", spec, retentionDays)
	return c, nil
}

func runCleanup(ctx context.Context, svc *SystemLogService, locker *SchedulerLocker, retentionDays int) {
	if retentionDays <= 0 {
		logger.Info().Msg("[SystemLog] log cleanup disabled (retention_days <= 0)")
		return
	}

	if locker != nil {
		key := models.Now().Format("2006-01-02T15")
		acquired, err := locker.TryAcquire(ctx, cleanupLockName, key, time.Hour)
		if err != nil {
			logger.Error().Err(err).Msg("[SystemLog] failed to acquire cleanup lock")
			return
		}
		if !acquired {
			logger.Debug().Str("key", key).Msg("[SystemLog] cleanup already claimed by another instance")
			return
		}
	}

	deleted, err := svc.CleanupOldLogs(ctx, retentionDays)
	if err != nil {
		logger.Error().Err(err).Msg("[SystemLog] failed to cleanup old logs")
		return
	}
	if deleted > 0 {
		logger.Infof("[SystemLog] cleaned up %d logs older than %d days", deleted, retentionDays)
	}
}
