package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/hack2025/volunteer-hub/internal/services"
	"github.com/hack2025/volunteer-hub/pkg/response"
)

type CalendarHandler struct {
	calendarService *services.CalendarService
}

func NewCalendarHandler(calendar *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendar}
}

type CalendarRequest struct {
	EventID string `json:"eventId"`
	Action  string `json:"action"`
}

// Sync acknowledges adding or removing an event in the caller's calendar
// POST /api/google-calendar
func (h *CalendarHandler) Sync(c *gin.Context) {
	var req CalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ServerError(c, "Failed to process Google Calendar request", err)
		return
	}

	ack, err := h.calendarService.Sync(c.Request.Context(), req.EventID, req.Action)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to process Google Calendar request"))
		return
	}

	response.Success(c, ack)
}
