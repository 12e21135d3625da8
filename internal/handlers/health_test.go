package handlers

import (
	"net/http"
	"testing"
)

func TestHealthHandler_CheckHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", "", nil)
	expectStatus(t, w, http.StatusOK)

	var body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	decode(t, w, &body)
	if body.Status != "healthy" || body.Components["database"] != "ok" {
		t.Errorf("body = %+v", body)
	}
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	env := newTestEnv(t)
	sqlDB, err := env.db.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	sqlDB.Close()

	w := env.do(t, http.MethodGet, "/health", "", "", nil)
	expectStatus(t, w, http.StatusServiceUnavailable)
}
