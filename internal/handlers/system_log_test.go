package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/hack2025/volunteer-hub/internal/models"
	"github.com/hack2025/volunteer-hub/internal/services"
)

func TestSystemLogHandler_ListAndModules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.logs.LogInfo(ctx, services.LogEntry{Module: "Events", Action: "Create", Message: "created"})
	env.logs.LogWarning(ctx, services.LogEntry{Module: "Chats", Action: "Delete", Message: "missing"})

	w := env.do(t, http.MethodGet, "/api/admin/system-logs?level=warning", "admin_1", adminRole, nil)
	expectStatus(t, w, http.StatusOK)

	var list services.SystemLogListResponse
	decode(t, w, &list)
	if list.Total != 1 || list.Items[0].Module != "Chats" {
		t.Errorf("list = %+v", list)
	}

	w = env.do(t, http.MethodGet, "/api/admin/system-logs/modules", "admin_1", adminRole, nil)
	expectStatus(t, w, http.StatusOK)

	var modules struct {
		Modules []string `json:"modules"`
	}
	decode(t, w, &modules)
	if len(modules.Modules) != 2 {
		t.Errorf("modules = %v", modules.Modules)
	}
}

func TestSystemLogHandler_Cleanup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	old := models.SystemLog{Level: services.LevelInfo, Module: "Events", Action: "Create", Message: "old"}
	if err := env.db.Create(&old).Error; err != nil {
		t.Fatalf("create log: %v", err)
	}
	stale := time.Now().AddDate(0, 0, -45)
	if err := env.db.Model(&old).Update("created_at", stale).Error; err != nil {
		t.Fatalf("age log: %v", err)
	}
	env.logs.LogInfo(ctx, services.LogEntry{Module: "Events", Action: "Update", Message: "fresh"})

	w := env.do(t, http.MethodPost, "/api/admin/system-logs/cleanup", "admin_1", adminRole, nil)
	expectStatus(t, w, http.StatusOK)

	var result struct {
		Deleted       int64 `json:"deleted"`
		RetentionDays int   `json:"retentionDays"`
	}
	decode(t, w, &result)
	if result.Deleted != 1 || result.RetentionDays != 30 {
		t.Errorf("result = %+v, want 1 deleted with 30 days", result)
	}

	w = env.do(t, http.MethodPost, "/api/admin/system-logs/cleanup", "admin_1", adminRole, map[string]int{"retentionDays": 0})
	expectStatus(t, w, http.StatusBadRequest)
}
