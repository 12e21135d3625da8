package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hack2025/volunteer-hub/internal/models"
	"gorm.io/gorm"
)

// ChatService stores the per-event chat. Clients poll for new messages.
type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// ChatSearchParams filters a chat listing. With both bounds the date range
// is inclusive on each end.
type ChatSearchParams struct {
	FromDate       *time.Time `form:"-"`
	ToDate         *time.Time `form:"-"`
	Message        string     `form:"message"`
	OrderDirection string     `form:"orderDirection"`
	PaginationParams
}

// UserChat is a chat message together with the name of its event.
type UserChat struct {
	ID        string     `json:"id"`
	EventID   string     `json:"eventId"`
	UserID    string     `json:"userId"`
	DateTime  time.Time  `json:"dateTime"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	EventName string     `json:"eventName"`
}

// SendChatMessage stores message with a server-assigned timestamp.
func (s *ChatService) SendChatMessage(ctx context.Context, userID, eventID, message string) (*models.Chat, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	chat := models.Chat{
		EventID:  eventID,
		UserID:   userID,
		DateTime: models.Now(),
		Message:  message,
	}
	if err := s.db.WithContext(ctx).Create(&chat).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrChatReference
		}
		return nil, fmt.Errorf("send chat message: %w", err)
	}
	return &chat, nil
}

// GetEventChats lists one event's messages, newest first unless asked
// otherwise.
func (s *ChatService) GetEventChats(ctx context.Context, eventID string, params ChatSearchParams) ([]models.Chat, error) {
	chats := models.TableOf(s.db, &models.Chat{})

	where := chatFilters(chats, params)
	where.add(chats+".event_id = ?", eventID)

	q := where.apply(s.db.WithContext(ctx).Model(&models.Chat{}))
	q = q.Order(chats + ".date_time " + direction(params.OrderDirection, OrderDesc)).
		Order(chats + ".id ASC")

	result := make([]models.Chat, 0)
	if err := params.PaginationParams.apply(q, DefaultChatPageSize).Find(&result).Error; err != nil {
		return nil, fmt.Errorf("get event chats: %w", err)
	}
	return result, nil
}

// GetUserChats lists one user's messages across events with each event's name.
func (s *ChatService) GetUserChats(ctx context.Context, userID string, params ChatSearchParams) ([]UserChat, error) {
	chats := models.TableOf(s.db, &models.Chat{})
	events := models.TableOf(s.db, &models.Event{})

	where := chatFilters(chats, params)
	where.add(chats+".user_id = ?", userID)

	q := s.db.WithContext(ctx).Table(chats).
		Select(chats + ".id, " + chats + ".event_id, " + chats + ".user_id, " + chats + ".date_time, " +
			chats + ".message, " + chats + ".created_at, " + chats + ".updated_at, " + events + ".name AS event_name").
		Joins("INNER JOIN " + events + " ON " + events + ".id = " + chats + ".event_id")
	q = where.apply(q).
		Order(chats + ".date_time " + direction(params.OrderDirection, OrderDesc)).
		Order(chats + ".id ASC")

	result := make([]UserChat, 0)
	if err := params.PaginationParams.apply(q, DefaultChatPageSize).Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("get user chats: %w", err)
	}
	return result, nil
}

func chatFilters(table string, params ChatSearchParams) predicates {
	var where predicates
	switch {
	case params.FromDate != nil && params.ToDate != nil:
		where.add(table+".date_time BETWEEN ? AND ?", params.FromDate.UTC(), params.ToDate.UTC())
	case params.FromDate != nil:
		where.add(table+".date_time >= ?", params.FromDate.UTC())
	case params.ToDate != nil:
		where.add(table+".date_time <= ?", params.ToDate.UTC())
	}
	if params.Message != "" {
		where.add("LOWER("+table+".message) LIKE LOWER(?)", containsPattern(params.Message))
	}
	return where
}

// GetEventChatsSince returns up to limit messages posted strictly after
// since, oldest first. A nil since starts from the beginning.
func (s *ChatService) GetEventChatsSince(ctx context.Context, eventID string, since *time.Time, limit int) ([]models.Chat, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	q := s.db.WithContext(ctx).Where("event_id = ?", eventID)
	if since != nil {
		q = q.Where("date_time > ?", since.UTC())
	}

	result := make([]models.Chat, 0)
	err := q.Order("date_time ASC").Order("id ASC").Limit(limit).Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("get chats since: %w", err)
	}
	return result, nil
}

// GetChatByID returns ErrChatNotFound when id is unknown.
func (s *ChatService) GetChatByID(ctx context.Context, id string) (*models.Chat, error) {
	var chat models.Chat
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&chat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// UpdateChatMessage rewrites the message addressed by its natural key.
// Authorship is not checked here.
func (s *ChatService) UpdateChatMessage(ctx context.Context, eventID, userID string, dateTime time.Time, message string) (*models.Chat, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	db := s.db.WithContext(ctx)
	key := db.Where("event_id = ? AND user_id = ? AND date_time = ?", eventID, userID, dateTime.UTC())
	result := key.Model(&models.Chat{}).Updates(map[string]interface{}{
		"message":    message,
		"updated_at": models.Now(),
	})
	if result.Error != nil {
		return nil, fmt.Errorf("update chat message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrChatNotFound
	}

	var chat models.Chat
	err := db.Where("event_id = ? AND user_id = ? AND date_time = ?", eventID, userID, dateTime.UTC()).
		First(&chat).Error
	if err != nil {
		return nil, fmt.Errorf("reload chat message: %w", err)
	}
	return &chat, nil
}

// UpdateChatMessageByID rewrites the message with the given id.
func (s *ChatService) UpdateChatMessageByID(ctx context.Context, id, message string) (*models.Chat, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	result := s.db.WithContext(ctx).Model(&models.Chat{}).Where("id = ?", id).Updates(map[string]interface{}{
		"message":    message,
		"updated_at": models.Now(),
	})
	if result.Error != nil {
		return nil, fmt.Errorf("update chat message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrChatNotFound
	}
	return s.GetChatByID(ctx, id)
}

// DeleteChatMessage removes the message addressed by its natural key. The
// bool reports whether a row matched.
func (s *ChatService) DeleteChatMessage(ctx context.Context, eventID, userID string, dateTime time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ? AND date_time = ?", eventID, userID, dateTime.UTC()).
		Delete(&models.Chat{})
	if result.Error != nil {
		return false, fmt.Errorf("delete chat message: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *ChatService) DeleteChatMessageByID(ctx context.Context, id string) (bool, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Chat{})
	if result.Error != nil {
		return false, fmt.Errorf("delete chat message: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
