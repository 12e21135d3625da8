package services

import (
	"context"
	"errors"
)

const (
	CalendarActionAdd    = "add"
	CalendarActionRemove = "remove"
)

var ErrInvalidCalendarAction = errors.New("invalid action")

// CalendarAck is the acknowledgement returned for a calendar request.
type CalendarAck struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	EventID string `json:"eventId,omitempty"`
}

// CalendarService acknowledges calendar requests without calling any
// external calendar.
type CalendarService struct{}

func NewCalendarService() *CalendarService {
	return &CalendarService{}
}

func (s *CalendarService) Sync(ctx context.Context, eventID, action string) (*CalendarAck, error) {
	switch action {
	case CalendarActionAdd:
		return &CalendarAck{Success: true, Message: "Event added to Google Calendar", EventID: eventID}, nil
	case CalendarActionRemove:
		return &CalendarAck{Success: true, Message: "Event removed from Google Calendar", EventID: eventID}, nil
	}
	return nil, ErrInvalidCalendarAction
}
