package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hack2025/volunteer-hub/internal/config"
	"github.com/hack2025/volunteer-hub/internal/models"
	"github.com/hack2025/volunteer-hub/internal/services"
)

func TestParseRouteInfo(t *testing.T) {
	tests := []struct {
		path, method       string
		wantModule, wantAc string
	}{
		{"/api/admin/events", "POST", "Events", "Create"},
		{"/api/admin/events/:id", "PUT", "Events", "Update"},
		{"/api/admin/events/:id/volunteers/:userId", "DELETE", "Events", "Volunteers Delete"},
		{"/api/admin/system-logs/cleanup", "POST", "System Logs", "Cleanup Create"},
		{"/api/chat", "POST", "Chat", "Create"},
		{"", "PATCH", "Unknown", "PATCH"},
	}

	for _, tt := range tests {
		module, action := parseRouteInfo(tt.path, tt.method)
		if module != tt.wantModule || action != tt.wantAc {
			t.Errorf("parseRouteInfo(%q, %q) = (%q, %q), expected (%q, %q)", tt.path, tt.method, module, action, tt.wantModule, tt.wantAc)
		}
	}
}

func TestMaskSensitiveFields(t *testing.T) {
	body := `{"name":"Beach","token":"abc123"}`
	got := maskSensitiveFields(body)
	if strings.Contains(got, "abc123") {
		t.Errorf("token not masked: %s", got)
	}
	if !strings.Contains(got, `"name":"Beach"`) {
		t.Errorf("other fields changed: %s", got)
	}
}

func TestFormatAuditMessage(t *testing.T) {
	if msg := formatAuditMessage("user_1", "DELETE", "/api/admin/events/e1", 200); msg != "[Audit] user_1 DELETE /api/admin/events/e1 → OK" {
		t.Errorf("message = %q", msg)
	}
	if msg := formatAuditMessage("user_1", "POST", "/api/admin/events", 400); !strings.HasSuffix(msg, "Failed") {
		t.Errorf("message = %q, expected Failed suffix", msg)
	}
}

func TestAuditLog_RecordsWrites(t *testing.T) {
	db, err := models.InitDB(&config.DatabaseConfig{
		Driver:      "sqlite",
		DSN:         "file:audit_test?mode=memory&cache=shared",
		TablePrefix: "hack2025_",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatal(err)
	}
	logs := services.NewSystemLogService(db)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserID, "user_admin")
		c.Next()
	})
	router.Use(AuditLog(logs))
	router.GET("/api/admin/events", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/api/admin/events", func(c *gin.Context) { c.Status(http.StatusCreated) })
	router.DELETE("/api/admin/events/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, r := range []struct{ method, path string }{
		{"GET", "/api/admin/events"},
		{"POST", "/api/admin/events"},
		{"DELETE", "/api/admin/events/missing"},
	} {
		req, _ := http.NewRequest(r.method, r.path, strings.NewReader(`{"name":"Beach"}`))
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	resp, err := logs.List(context.Background(), &services.SystemLogListRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Fatalf("audited %d requests, expected 2 writes", resp.Total)
	}
	levels := map[string]string{}
	for _, item := range resp.Items {
		levels[item.Action] = item.Level
		if item.UserID == nil || *item.UserID != "user_admin" {
			t.Errorf("UserID = %v, expected user_admin", item.UserID)
		}
	}
	if levels["Create"] != services.LevelInfo {
		t.Errorf("create level = %q, expected info", levels["Create"])
	}
	if levels["Delete"] != services.LevelWarning {
		t.Errorf("failed delete level = %q, expected warning", levels["Delete"])
	}
}
