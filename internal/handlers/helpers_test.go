package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hack2025/volunteer-hub/internal/config"
	"github.com/hack2025/volunteer-hub/internal/identity"
	"github.com/hack2025/volunteer-hub/internal/middleware"
	"github.com/hack2025/volunteer-hub/internal/models"
	"github.com/hack2025/volunteer-hub/internal/services"
	"github.com/hack2025/volunteer-hub/internal/utils"
	"gorm.io/gorm"
)

const adminRole = "org:admin"

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("handlers-test-secret")
}

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	events   *services.EventService
	users    *services.UserService
	members  *services.MembershipService
	chats    *services.ChatService
	logs     *services.SystemLogService
	provider *fakeProvider
}

type fakeProvider struct {
	profiles map[string]identity.Profile
	err      error
	calls    [][]string
}

func (p *fakeProvider) GetProfiles(ctx context.Context, ids []string) (map[string]identity.Profile, error) {
	p.calls = append(p.calls, ids)
	if p.err != nil {
		return nil, p.err
	}
	out := make(map[string]identity.Profile, len(ids))
	for _, id := range ids {
		if profile, ok := p.profiles[id]; ok {
			out[id] = profile
		}
	}
	return out, nil
}

// newTestEnv wires the handlers onto a router with the production route
// layout and a private in-memory database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := models.InitDB(&config.DatabaseConfig{
		Driver:      "sqlite",
		DSN:         "file:handlers_" + name + "?mode=memory&cache=shared",
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

	env := &testEnv{
		db:       db,
		events:   services.NewEventService(db),
		users:    services.NewUserService(db),
		chats:    services.NewChatService(db),
		logs:     services.NewSystemLogService(db),
		provider: &fakeProvider{profiles: map[string]identity.Profile{}},
	}
	env.members = services.NewMembershipService(db, env.users)

	eventHandler := NewEventHandler(env.events, env.members)
	chatHandler := NewChatHandler(env.chats, env.users, env.events)
	userHandler := NewUserHandler(env.provider)
	calendarHandler := NewCalendarHandler(services.NewCalendarService())
	dashboardHandler := NewDashboardHandler(services.NewDashboardService(db))
	systemLogHandler := NewSystemLogHandler(env.logs, 30)
	healthHandler := NewHealthHandler(db)

	r := gin.New()
	r.GET("/health", healthHandler.CheckHealth)
	api := r.Group("/api")

	public := api.Group("", middleware.OptionalAuth())
	public.GET("/events", eventHandler.List)
	public.GET("/events/categories", eventHandler.Categories)
	public.GET("/events/:id", eventHandler.Get)
	public.GET("/event/:id", eventHandler.Get)
	public.POST("/users/info", userHandler.Info)

	protected := api.Group("", middleware.AuthRequired())
	protected.POST("/chat", chatHandler.Send)
	protected.GET("/chat/messages", chatHandler.Messages)
	protected.PUT("/chat", chatHandler.Edit)
	protected.DELETE("/chat", chatHandler.Remove)
	protected.PUT("/chat/:id", chatHandler.EditByID)
	protected.DELETE("/chat/:id", chatHandler.RemoveByID)
	protected.GET("/events/:id/messages", chatHandler.EventMessages)
	protected.POST("/events/:id/messages", chatHandler.PostEventMessage)
	protected.POST("/events/:id/join", eventHandler.Join)
	protected.POST("/events/:id/leave", eventHandler.Leave)
	protected.GET("/me/events", eventHandler.MyEvents)
	protected.GET("/me/chats", chatHandler.MyChats)
	protected.POST("/google-calendar", calendarHandler.Sync)

	admin := api.Group("/admin", middleware.AuthRequired(), middleware.AdminRequired(adminRole), middleware.AuditLog(env.logs))
	admin.POST("/events", eventHandler.Create)
	admin.PUT("/events/:id", eventHandler.Update)
	admin.DELETE("/events/:id", eventHandler.Delete)
	admin.GET("/events/:id/volunteers", eventHandler.Volunteers)
	admin.DELETE("/events/:id/volunteers/:userId", eventHandler.RemoveVolunteer)
	admin.GET("/events/:id/chats", chatHandler.EventChats)
	admin.DELETE("/chats/:id", chatHandler.AdminRemove)
	admin.GET("/users/:id/chats", chatHandler.UserChats)
	admin.GET("/dashboard", dashboardHandler.GetStats)
	admin.GET("/system-logs", systemLogHandler.List)
	admin.GET("/system-logs/modules", systemLogHandler.GetModules)
	admin.POST("/system-logs/cleanup", systemLogHandler.Cleanup)

	env.router = r
	return env
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(userID, role, 1)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return tok
}

// do sends a request as userID (anonymous when empty) and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, userID, role string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	reader := bytes.NewReader(nil)
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, userID, role))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}

func (e *testEnv) mustCreateEvent(t *testing.T, name string, start time.Time) *models.Event {
	t.Helper()
	event, err := e.events.CreateEvent(context.Background(), &services.NewEvent{
		Name:      name,
		Category:  models.CategoryWorkshop,
		Location:  "Library",
		StartDate: start,
		EndDate:   start.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateEvent(%q) error = %v", name, err)
	}
	return event
}
