package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hack2025/volunteer-hub/internal/services"
	"github.com/hack2025/volunteer-hub/pkg/response"
	"github.com/hack2025/volunteer-hub/pkg/validator"
)

const invalidRequest = "Invalid request"

// serviceError maps service sentinels to HTTP errors. Anything unknown
// becomes a 500 carrying fallback as its public message.
func serviceError(err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		return response.NewNotFound("Event not found")
	case errors.Is(err, services.ErrChatNotFound):
		return response.NewNotFound("Message not found")
	case errors.Is(err, services.ErrUserNotFound):
		return response.NewNotFound("User not found")
	case errors.Is(err, services.ErrChatReference):
		return response.NewNotFound("Event not found")
	case errors.Is(err, services.ErrAlreadyJoined):
		return response.NewConflict("Already joined this event")
	case errors.Is(err, services.ErrUserExists):
		return response.NewConflict("User already exists")
	case errors.Is(err, services.ErrInvalidEvent):
		details, _ := validator.Details(err)
		return response.NewValidation(invalidRequest, details)
	case errors.Is(err, services.ErrEmptyMessage):
		return response.NewValidation(invalidRequest, validator.FieldErrors{"message": validator.ErrFieldRequired})
	case errors.Is(err, services.ErrInvalidCalendarAction):
		return response.NewBadRequest("Invalid action")
	}
	return response.NewServerError(fallback, err)
}

// bindJSON decodes the body into req and runs its validate tags. On failure
// the 400 response has already been written.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, response.NewValidation(invalidRequest, gin.H{"body": err.Error()}))
		return false
	}
	return validate(c, req)
}

func validate(c *gin.Context, req interface{}) bool {
	if err := validator.Validate(c.Request.Context(), req); err != nil {
		if details, ok := validator.Details(err); ok {
			response.Error(c, response.NewValidation(invalidRequest, details))
		} else {
			response.Error(c, response.NewValidation(invalidRequest, gin.H{"body": err.Error()}))
		}
		return false
	}
	return true
}

// parseTimeParam accepts RFC 3339 timestamps and plain dates. A plain date
// used as an upper bound covers the whole day.
func parseTimeParam(c *gin.Context, name string, upper bool) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		if upper {
			t = t.Add(24*time.Hour - time.Microsecond)
		}
		return &t, true
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t, true
	}
	response.Error(c, response.NewValidation(invalidRequest, validator.FieldErrors{name: validator.ErrInvalidFormat}))
	return nil, false
}

// bindQuery binds the query string into req, writing a 400 on failure.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.Error(c, response.NewValidation(invalidRequest, gin.H{"query": err.Error()}))
		return false
	}
	return true
}
