package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hack2025/volunteer-hub/internal/models"
	"gorm.io/gorm"
)

type chatFixture struct {
	db      *gorm.DB
	chats   *ChatService
	eventID string
	otherID string
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	db := newTestDB(t)
	events := NewEventService(db)
	users := NewUserService(db)

	event := mustCreateEvent(t, events, "Community Garden", "2025-06-01T09:00:00Z")
	other := mustCreateEvent(t, events, "Repair Cafe", "2025-06-02T09:00:00Z")
	mustCreateUser(t, users, "user_a")
	mustCreateUser(t, users, "user_b")

	return &chatFixture{db: db, chats: NewChatService(db), eventID: event.ID, otherID: other.ID}
}

// seed inserts a message at a fixed time so ordering is deterministic.
func (f *chatFixture) seed(t *testing.T, eventID, userID, at, message string) *models.Chat {
	t.Helper()
	chat := &models.Chat{EventID: eventID, UserID: userID, DateTime: date(at), Message: message}
	if err := f.db.Create(chat).Error; err != nil {
		t.Fatalf("seed chat: %v", err)
	}
	return chat
}

func TestSendChatMessage(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	before := models.Now()
	chat, err := f.chats.SendChatMessage(ctx, "user_a", f.eventID, "Who brings shovels?")
	if err != nil {
		t.Fatalf("SendChatMessage() error = %v", err)
	}
	if chat.ID == "" {
		t.Error("chat id should be generated")
	}
	if chat.DateTime.Before(before) {
		t.Errorf("DateTime = %v, expected server time after %v", chat.DateTime, before)
	}

	if _, err := f.chats.SendChatMessage(ctx, "user_a", "missing", "hi"); !errors.Is(err, ErrChatReference) {
		t.Errorf("SendChatMessage(unknown event) error = %v, expected ErrChatReference", err)
	}
	if _, err := f.chats.SendChatMessage(ctx, "ghost", f.eventID, "hi"); !errors.Is(err, ErrChatReference) {
		t.Errorf("SendChatMessage(unknown user) error = %v, expected ErrChatReference", err)
	}
	if _, err := f.chats.SendChatMessage(ctx, "user_a", f.eventID, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("SendChatMessage(blank) error = %v, expected ErrEmptyMessage", err)
	}
}

func TestGetEventChats_Ordering(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	f.seed(t, f.eventID, "user_a", "2025-06-01T10:02:00Z", "third")
	f.seed(t, f.eventID, "user_b", "2025-06-01T10:00:00Z", "first")
	f.seed(t, f.eventID, "user_a", "2025-06-01T10:01:00Z", "second")
	f.seed(t, f.otherID, "user_a", "2025-06-01T09:00:00Z", "elsewhere")

	asc, err := f.chats.GetEventChats(ctx, f.eventID, ChatSearchParams{OrderDirection: OrderAsc})
	if err != nil {
		t.Fatalf("GetEventChats() error = %v", err)
	}
	if len(asc) != 3 {
		t.Fatalf("GetEventChats() returned %d messages, expected 3", len(asc))
	}
	for i := 1; i < len(asc); i++ {
		if asc[i].DateTime.Before(asc[i-1].DateTime) {
			t.Errorf("ascending chats out of order at %d: %v before %v", i, asc[i].DateTime, asc[i-1].DateTime)
		}
	}

	desc, err := f.chats.GetEventChats(ctx, f.eventID, ChatSearchParams{})
	if err != nil {
		t.Fatal(err)
	}
	if desc[0].Message != "third" {
		t.Errorf("default order should be newest first, got %q", desc[0].Message)
	}
}

func TestGetEventChats_Filters(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	f.seed(t, f.eventID, "user_a", "2025-06-01T10:00:00Z", "Bring GLOVES")
	f.seed(t, f.eventID, "user_b", "2025-06-01T11:00:00Z", "gloves are in the shed")
	f.seed(t, f.eventID, "user_a", "2025-06-01T12:00:00Z", "see you")

	from := date("2025-06-01T10:30:00Z")
	to := date("2025-06-01T11:00:00Z")

	tests := []struct {
		name   string
		params ChatSearchParams
		want   int
	}{
		{"message case-insensitive", ChatSearchParams{Message: "gloves"}, 2},
		{"from only", ChatSearchParams{FromDate: &from}, 2},
		{"to only", ChatSearchParams{ToDate: &to}, 2},
		{"between inclusive", ChatSearchParams{FromDate: &from, ToDate: &to}, 1},
		{"message and range", ChatSearchParams{Message: "see", ToDate: &to}, 0},
		{"page size", ChatSearchParams{PaginationParams: PaginationParams{PageSize: 1}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.chats.GetEventChats(ctx, f.eventID, tt.params)
			if err != nil {
				t.Fatalf("GetEventChats() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("GetEventChats() returned %d messages, expected %d", len(got), tt.want)
			}
		})
	}
}

func TestGetUserChats_IncludesEventName(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	f.seed(t, f.eventID, "user_a", "2025-06-01T10:00:00Z", "garden")
	f.seed(t, f.otherID, "user_a", "2025-06-02T10:00:00Z", "cafe")
	f.seed(t, f.otherID, "user_b", "2025-06-02T11:00:00Z", "not mine")

	got, err := f.chats.GetUserChats(ctx, "user_a", ChatSearchParams{})
	if err != nil {
		t.Fatalf("GetUserChats() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetUserChats() returned %d messages, expected 2", len(got))
	}
	if got[0].Message != "cafe" || got[0].EventName != "Repair Cafe" {
		t.Errorf("GetUserChats()[0] = %+v, expected cafe in Repair Cafe", got[0])
	}
	if got[1].EventName != "Community Garden" {
		t.Errorf("GetUserChats()[1].EventName = %q", got[1].EventName)
	}
	if got[0].DateTime.IsZero() || got[0].ID == "" {
		t.Errorf("GetUserChats()[0] missing fields: %+v", got[0])
	}
}

func TestGetEventChatsSince(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	f.seed(t, f.eventID, "user_a", "2025-06-01T10:00:00Z", "one")
	cursor := f.seed(t, f.eventID, "user_b", "2025-06-01T10:01:00Z", "two")
	f.seed(t, f.eventID, "user_a", "2025-06-01T10:02:00Z", "three")

	all, err := f.chats.GetEventChatsSince(ctx, f.eventID, nil, 0)
	if err != nil {
		t.Fatalf("GetEventChatsSince() error = %v", err)
	}
	if len(all) != 3 || all[0].Message != "one" {
		t.Errorf("GetEventChatsSince(nil) = %v", all)
	}

	newer, err := f.chats.GetEventChatsSince(ctx, f.eventID, &cursor.DateTime, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(newer) != 1 || newer[0].Message != "three" {
		t.Errorf("GetEventChatsSince(cursor) = %v, expected only three", newer)
	}
}

func TestUpdateChatMessage_NaturalKey(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	sent, err := f.chats.SendChatMessage(ctx, "user_a", f.eventID, "typo")
	if err != nil {
		t.Fatal(err)
	}

	updated, err := f.chats.UpdateChatMessage(ctx, f.eventID, "user_a", sent.DateTime, "fixed")
	if err != nil {
		t.Fatalf("UpdateChatMessage() error = %v", err)
	}
	if updated.Message != "fixed" || updated.ID != sent.ID {
		t.Errorf("UpdateChatMessage() = %+v", updated)
	}
	if updated.UpdatedAt == nil {
		t.Error("UpdatedAt should be set")
	}
	if !updated.DateTime.Equal(sent.DateTime) {
		t.Error("editing must not move the message in time")
	}

	_, err = f.chats.UpdateChatMessage(ctx, f.eventID, "user_b", sent.DateTime, "hijack")
	if !errors.Is(err, ErrChatNotFound) {
		t.Errorf("UpdateChatMessage(wrong user) error = %v, expected ErrChatNotFound", err)
	}
}

func TestUpdateChatMessageByID(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	chat := f.seed(t, f.eventID, "user_a", "2025-06-01T10:00:00Z", "before")

	updated, err := f.chats.UpdateChatMessageByID(ctx, chat.ID, "after")
	if err != nil {
		t.Fatalf("UpdateChatMessageByID() error = %v", err)
	}
	if updated.Message != "after" {
		t.Errorf("Message = %q, expected after", updated.Message)
	}
	if _, err := f.chats.UpdateChatMessageByID(ctx, "missing", "x"); !errors.Is(err, ErrChatNotFound) {
		t.Errorf("UpdateChatMessageByID(missing) error = %v, expected ErrChatNotFound", err)
	}
}

func TestDeleteChatMessage(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	first := f.seed(t, f.eventID, "user_a", "2025-06-01T10:00:00Z", "delete me")
	second := f.seed(t, f.eventID, "user_a", "2025-06-01T10:05:00Z", "delete me by id")

	deleted, err := f.chats.DeleteChatMessage(ctx, f.eventID, "user_a", first.DateTime)
	if err != nil {
		t.Fatalf("DeleteChatMessage() error = %v", err)
	}
	if !deleted {
		t.Error("DeleteChatMessage() should report a matched row")
	}

	deleted, err = f.chats.DeleteChatMessageByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("DeleteChatMessageByID() error = %v", err)
	}
	if !deleted {
		t.Error("DeleteChatMessageByID() should report a matched row")
	}

	deleted, err = f.chats.DeleteChatMessage(ctx, f.eventID, "user_a", first.DateTime.Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Error("DeleteChatMessage() with no match should report false")
	}

	left, err := f.chats.GetEventChats(ctx, f.eventID, ChatSearchParams{})
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("%d messages left, expected 0", len(left))
	}
}
