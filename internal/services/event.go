package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hack2025/volunteer-hub/internal/models"
	"github.com/hack2025/volunteer-hub/pkg/validator"
	"gorm.io/gorm"
)

// Event orderings accepted by SearchEvents.
const (
	OrderByName           = "name"
	OrderByStartDate      = "startDate"
	OrderByVolunteerCount = "volunteerCount"
)

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// NewEvent holds the fields of an event to insert.
type NewEvent struct {
	Name           string    `json:"name" validate:"required,max=256"`
	Description    *string   `json:"description"`
	Category       string    `json:"category" validate:"required,oneof=outdoor workshop gardening other"`
	Location       string    `json:"location" validate:"required"`
	Photo          *string   `json:"photo" validate:"omitempty,max=512"`
	StartDate      time.Time `json:"startDate" validate:"required"`
	EndDate        time.Time `json:"endDate" validate:"required"`
	VolunteerLimit int       `json:"volunteerLimit" validate:"gte=0"`
}

// UpdateEventRequest is a partial update; nil fields are left untouched.
type UpdateEventRequest struct {
	Name           *string    `json:"name" validate:"omitempty,min=1,max=256"`
	Description    *string    `json:"description"`
	Category       *string    `json:"category" validate:"omitempty,oneof=outdoor workshop gardening other"`
	Location       *string    `json:"location" validate:"omitempty,min=1"`
	Photo          *string    `json:"photo" validate:"omitempty,max=512"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	VolunteerLimit *int       `json:"volunteerLimit" validate:"omitempty,gte=0"`
}

// EventSearchParams lists every filter and ordering SearchEvents supports.
type EventSearchParams struct {
	Name                  string     `form:"name"`
	FromDate              *time.Time `form:"-"`
	ToDate                *time.Time `form:"-"`
	OrderBy               string     `form:"orderBy"`
	OrderDirection        string     `form:"orderDirection"`
	IncludeVolunteerCount bool       `form:"includeVolunteerCount"`
	PaginationParams
}

// EventWithCount is an event optionally annotated with its number of
// membership rows. VolunteerCount is nil when the count was not requested.
type EventWithCount struct {
	models.Event
	VolunteerCount *int64 `json:"volunteerCount,omitempty"`
}

// CreateEvent inserts an event and returns the stored row.
func (s *EventService) CreateEvent(ctx context.Context, in *NewEvent) (*models.Event, error) {
	if err := validator.Validate(ctx, in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, validator.FieldErrors{"endDate": "must not be before startDate"})
	}

	event := models.Event{
		Name:           in.Name,
		Description:    in.Description,
		Category:       in.Category,
		Location:       in.Location,
		Photo:          in.Photo,
		StartDate:      in.StartDate.UTC(),
		EndDate:        in.EndDate.UTC(),
		VolunteerLimit: in.VolunteerLimit,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &event, nil
}

// GetEventByID returns ErrEventNotFound when no event has id.
func (s *EventService) GetEventByID(ctx context.Context, id string, includeVolunteerCount bool) (*EventWithCount, error) {
	var rows []EventWithCount
	q := s.baseQuery(ctx, includeVolunteerCount).
		Where(models.TableOf(s.db, &models.Event{})+".id = ?", id).
		Limit(1)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEventNotFound
	}
	return &rows[0], nil
}

// SearchEvents returns one page of events matching params.
func (s *EventService) SearchEvents(ctx context.Context, params EventSearchParams) ([]EventWithCount, error) {
	events := models.TableOf(s.db, &models.Event{})

	var where predicates
	if params.Name != "" {
		where.add("LOWER("+events+".name) LIKE LOWER(?)", containsPattern(params.Name))
	}
	if params.FromDate != nil {
		where.add(events+".start_date >= ?", params.FromDate.UTC())
	}
	if params.ToDate != nil {
		where.add(events+".end_date <= ?", params.ToDate.UTC())
	}

	q := where.apply(s.baseQuery(ctx, params.IncludeVolunteerCount))
	q = params.PaginationParams.apply(q, DefaultEventPageSize)

	dir := direction(params.OrderDirection, OrderAsc)
	switch {
	case params.OrderBy == OrderByName:
		q = q.Order(events + ".name " + dir)
	case params.OrderBy == OrderByVolunteerCount && params.IncludeVolunteerCount:
		q = q.Order("volunteer_count " + dir)
	default:
		q = q.Order(events + ".start_date " + dir)
	}
	q = q.Order(events + ".id ASC")

	rows := make([]EventWithCount, 0)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return rows, nil
}

// baseQuery selects events, left joining memberships when a count is wanted.
func (s *EventService) baseQuery(ctx context.Context, withCount bool) *gorm.DB {
	events := models.TableOf(s.db, &models.Event{})
	q := s.db.WithContext(ctx).Table(events)
	if !withCount {
		return q.Select(events + ".*")
	}
	members := models.TableOf(s.db, &models.UserEvent{})
	return q.
		Select(events + ".*, COUNT(" + members + ".user_id) AS volunteer_count").
		Joins("LEFT JOIN " + members + " ON " + members + ".event_id = " + events + ".id").
		Group(events + ".id")
}

// UpdateEvent applies the non-nil fields of req and stamps updated_at.
func (s *EventService) UpdateEvent(ctx context.Context, id string, req *UpdateEventRequest) (*models.Event, error) {
	if err := validator.Validate(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if req.StartDate != nil || req.EndDate != nil {
		if err := s.checkDateRange(ctx, id, req.StartDate, req.EndDate); err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Photo != nil {
		updates["photo"] = *req.Photo
	}
	if req.StartDate != nil {
		updates["start_date"] = req.StartDate.UTC()
	}
	if req.EndDate != nil {
		updates["end_date"] = req.EndDate.UTC()
	}
	if req.VolunteerLimit != nil {
		updates["volunteer_limit"] = *req.VolunteerLimit
	}

	db := s.db.WithContext(ctx)
	if len(updates) > 0 {
		updates["updated_at"] = models.Now()
		result := db.Model(&models.Event{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("update event: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrEventNotFound
		}
	}

	var event models.Event
	if err := db.Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("reload event: %w", err)
	}
	return &event, nil
}

// checkDateRange merges the requested dates over the stored ones and rejects
// an end before the start.
func (s *EventService) checkDateRange(ctx context.Context, id string, start, end *time.Time) error {
	var current models.Event
	err := s.db.WithContext(ctx).Select("start_date", "end_date").Where("id = ?", id).First(&current).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("load event dates: %w", err)
	}
	if start != nil {
		current.StartDate = start.UTC()
	}
	if end != nil {
		current.EndDate = end.UTC()
	}
	if current.EndDate.Before(current.StartDate) {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, validator.FieldErrors{"endDate": "must not be before startDate"})
	}
	return nil
}

// DeleteEvent removes the event; memberships and chats go with it through
// the foreign key cascades. The bool reports whether a row matched.
func (s *EventService) DeleteEvent(ctx context.Context, id string) (bool, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Event{})
	if result.Error != nil {
		return false, fmt.Errorf("delete event: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
