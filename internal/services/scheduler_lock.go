package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hack2025/volunteer-hub/internal/models"
	"gorm.io/gorm"
)

// SchedulerLocker lets several server instances share one database without
// running the same scheduled job twice.
type SchedulerLocker struct {
	db    *gorm.DB
	owner string
}

func NewSchedulerLocker(db *gorm.DB) *SchedulerLocker {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return &SchedulerLocker{db: db, owner: host + ":" + strconv.Itoa(os.Getpid())}
}

// TryAcquire claims (name, key) for ttl. It returns false when another
// owner holds an unexpired claim. Expired claims are taken over.
func (l *SchedulerLocker) TryAcquire(ctx context.Context, name, key string, ttl time.Duration) (bool, error) {
	now := models.Now()
	lock := models.SchedulerLock{
		LockName:  name,
		LockKey:   key,
		LockedBy:  l.owner,
		LockedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	db := l.db.WithContext(ctx)
	err := db.Create(&lock).Error
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, fmt.Errorf("acquire %s/%s: %w", name, key, err)
	}

	result := db.Model(&models.SchedulerLock{}).
		Where("lock_name = ? AND lock_key = ? AND expires_at < ?", name, key, now).
		Updates(map[string]interface{}{
			"locked_by":  l.owner,
			"locked_at":  now,
			"expires_at": now.Add(ttl),
		})
	if result.Error != nil {
		return false, fmt.Errorf("take over %s/%s: %w", name, key, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Release drops a claim held by this owner.
func (l *SchedulerLocker) Release(ctx context.Context, name, key string) error {
	return l.db.WithContext(ctx).
		Where("lock_name = ? AND lock_key = ? AND locked_by = ?", name, key, l.owner).
		Delete(&models.SchedulerLock{}).Error
}
