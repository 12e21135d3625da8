package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/hack2025/volunteer-hub/internal/services"
)

func TestDashboardHandler_GetStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	past := env.mustCreateEvent(t, "Last year's cleanup", time.Now().AddDate(-1, 0, 0))
	future := env.mustCreateEvent(t, "Next cleanup", time.Now().Add(72*time.Hour))
	for _, id := range []string{"user_a", "user_b"} {
		if _, err := env.members.JoinEventAsUser(ctx, id, future.ID); err != nil {
			t.Fatalf("JoinEventAsUser() error = %v", err)
		}
	}
	if _, err := env.members.JoinEventAsUser(ctx, "user_a", past.ID); err != nil {
		t.Fatalf("JoinEventAsUser() error = %v", err)
	}
	if _, err := env.chats.SendChatMessage(ctx, "user_a", future.ID, "hi"); err != nil {
		t.Fatalf("SendChatMessage() error = %v", err)
	}

	w := env.do(t, http.MethodGet, "/api/admin/dashboard?topLimit=1", "admin_1", adminRole, nil)
	expectStatus(t, w, http.StatusOK)

	var resp services.DashboardResponse
	decode(t, w, &resp)

	want := services.DashboardStats{
		TotalEvents:      2,
		UpcomingEvents:   1,
		TotalUsers:       2,
		TotalMemberships: 3,
		TotalChats:       1,
	}
	if resp.Stats != want {
		t.Errorf("stats = %+v, want %+v", resp.Stats, want)
	}
	if len(resp.TopEvents) != 1 || resp.TopEvents[0].EventID != future.ID || resp.TopEvents[0].VolunteerCount != 2 {
		t.Errorf("topEvents = %+v", resp.TopEvents)
	}
}

func TestDashboardHandler_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/admin/dashboard", "user_a", "", nil)
	expectStatus(t, w, http.StatusForbidden)
}
