package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hack2025/volunteer-hub/internal/models"
	"gorm.io/gorm"
)

// MembershipService joins users to events. A membership row existing is
// the only record of a user having joined.
type MembershipService struct {
	db    *gorm.DB
	users *UserService
}

func NewMembershipService(db *gorm.DB, users *UserService) *MembershipService {
	return &MembershipService{db: db, users: users}
}

// VolunteerSearchParams pages through an event's volunteers.
type VolunteerSearchParams struct {
	OrderDirection string `form:"orderDirection"`
	PaginationParams
}

// Volunteer is one membership of an event.
type Volunteer struct {
	UserID   string    `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

// JoinEvent inserts the membership row. Joining twice fails with
// ErrAlreadyJoined. The event's volunteer limit is not checked.
func (s *MembershipService) JoinEvent(ctx context.Context, userID, eventID string) (*models.UserEvent, error) {
	membership := models.UserEvent{UserID: userID, EventID: eventID}
	if err := s.db.WithContext(ctx).Create(&membership).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrAlreadyJoined
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return nil, s.missingReference(ctx, userID, eventID)
		}
		return nil, fmt.Errorf("join event: %w", err)
	}
	return &membership, nil
}

// JoinEventAsUser makes sure the user row exists, then joins. The two
// statements do not share a transaction.
func (s *MembershipService) JoinEventAsUser(ctx context.Context, userID, eventID string) (*models.UserEvent, error) {
	if err := s.users.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.JoinEvent(ctx, userID, eventID)
}

func (s *MembershipService) missingReference(ctx context.Context, userID, eventID string) error {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", eventID).Count(&n).Error
	if err != nil {
		return fmt.Errorf("resolve missing reference: %w", err)
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return ErrUserNotFound
}

// RemoveVolunteerFromEvent deletes the membership row. The bool reports
// whether a row matched.
func (s *MembershipService) RemoveVolunteerFromEvent(ctx context.Context, userID, eventID string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&models.UserEvent{})
	if result.Error != nil {
		return false, fmt.Errorf("remove volunteer: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// IsJoined reports whether userID has a membership row for eventID.
func (s *MembershipService) IsJoined(ctx context.Context, userID, eventID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.UserEvent{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetUserEvents returns the events userID joined, soonest first.
func (s *MembershipService) GetUserEvents(ctx context.Context, userID string, params PaginationParams) ([]models.Event, error) {
	events := models.TableOf(s.db, &models.Event{})
	members := models.TableOf(s.db, &models.UserEvent{})

	q := s.db.WithContext(ctx).
		Select(events+".*").
		Joins("INNER JOIN "+members+" ON "+members+".event_id = "+events+".id").
		Where(members+".user_id = ?", userID).
		Order(events + ".start_date ASC").
		Order(events + ".id ASC")

	result := make([]models.Event, 0)
	if err := params.apply(q, DefaultEventPageSize).Find(&result).Error; err != nil {
		return nil, fmt.Errorf("get user events: %w", err)
	}
	return result, nil
}

// GetEventVolunteers lists an event's memberships ordered by join time.
func (s *MembershipService) GetEventVolunteers(ctx context.Context, eventID string, params VolunteerSearchParams) ([]Volunteer, error) {
	dir := direction(params.OrderDirection, OrderAsc)
	q := s.db.WithContext(ctx).Model(&models.UserEvent{}).
		Select("user_id, created_at AS joined_at").
		Where("event_id = ?", eventID).
		Order("created_at " + dir).
		Order("user_id ASC")

	result := make([]Volunteer, 0)
	if err := params.PaginationParams.apply(q, DefaultVolunteerPageSize).Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("get event volunteers: %w", err)
	}
	return result, nil
}

// CountVolunteers returns the number of membership rows for eventID.
func (s *MembershipService) CountVolunteers(ctx context.Context, eventID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.UserEvent{}).Where("event_id = ?", eventID).Count(&n).Error
	return n, err
}
