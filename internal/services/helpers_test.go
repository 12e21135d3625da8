package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hack2025/volunteer-hub/internal/config"
	"github.com/hack2025/volunteer-hub/internal/models"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := models.InitDB(&config.DatabaseConfig{
		Driver:      "sqlite",
		DSN:         "file:" + name + "?mode=memory&cache=shared",
		TablePrefix: "hack2025_",
	})
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustCreateEvent(t *testing.T, svc *EventService, name, start string) *models.Event {
	t.Helper()
	startDate := date(start)
	event, err := svc.CreateEvent(context.Background(), &NewEvent{
		Name:      name,
		Category:  models.CategoryOutdoor,
		Location:  "Town square",
		StartDate: startDate,
		EndDate:   startDate.Add(3 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateEvent(%q) error = %v", name, err)
	}
	return event
}

func mustCreateUser(t *testing.T, svc *UserService, id string) {
	t.Helper()
	if _, err := svc.CreateUser(context.Background(), id); err != nil {
		t.Fatalf("CreateUser(%q) error = %v", id, err)
	}
}
