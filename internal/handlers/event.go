package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/hack2025/volunteer-hub/internal/middleware"
	"github.com/hack2025/volunteer-hub/internal/models"
	"github.com/hack2025/volunteer-hub/internal/services"
	"github.com/hack2025/volunteer-hub/pkg/response"
)

type EventHandler struct {
	eventService      *services.EventService
	membershipService *services.MembershipService
}

func NewEventHandler(events *services.EventService, members *services.MembershipService) *EventHandler {
	return &EventHandler{
		eventService:      events,
		membershipService: members,
	}
}

// EventDetail is the event page payload.
type EventDetail struct {
	Event        *services.EventWithCount `json:"event"`
	Participants []services.Volunteer     `json:"participants"`
	Joined       *bool                    `json:"joined,omitempty"`
}

// List returns a page of events
// GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	var params services.EventSearchParams
	if !bindQuery(c, &params) {
		return
	}
	var ok bool
	if params.FromDate, ok = parseTimeParam(c, "fromDate", false); !ok {
		return
	}
	if params.ToDate, ok = parseTimeParam(c, "toDate", true); !ok {
		return
	}

	events, err := h.eventService.SearchEvents(c.Request.Context(), params)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to fetch events"))
		return
	}

	response.Success(c, events)
}

// Get returns an event with its participants
// GET /api/event/:id
func (h *EventHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	event, err := h.eventService.GetEventByID(ctx, id, true)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to fetch event"))
		return
	}

	var params services.VolunteerSearchParams
	if !bindQuery(c, &params) {
		return
	}
	participants, err := h.membershipService.GetEventVolunteers(ctx, id, params)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to fetch event"))
		return
	}

	detail := EventDetail{Event: event, Participants: participants}
	if userID := middleware.GetUserID(c); userID != "" {
		joined, err := h.membershipService.IsJoined(ctx, userID, id)
		if err != nil {
			response.Error(c, serviceError(err, "Failed to fetch event"))
			return
		}
		detail.Joined = &joined
	}

	response.Success(c, detail)
}

// Create creates a new event
// POST /api/admin/events
func (h *EventHandler) Create(c *gin.Context) {
	var req services.NewEvent
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.NewValidation(invalidRequest, gin.H{"body": err.Error()}))
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to create event"))
		return
	}

	response.Created(c, event)
}

// Update applies a partial update
// PUT /api/admin/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	var req services.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.NewValidation(invalidRequest, gin.H{"body": err.Error()}))
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to update event"))
		return
	}

	response.Success(c, event)
}

// Delete deletes an event with its memberships and messages
// DELETE /api/admin/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	deleted, err := h.eventService.DeleteEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, serviceError(err, "Failed to delete event"))
		return
	}
	if !deleted {
		response.NotFound(c, "Event not found")
		return
	}

	response.Success(c, gin.H{"success": true})
}

// Join adds the caller to the event's volunteers
// POST /api/events/:id/join
func (h *EventHandler) Join(c *gin.Context) {
	membership, err := h.membershipService.JoinEventAsUser(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, serviceError(err, "Failed to join event"))
		return
	}

	response.Created(c, membership)
}

// Leave removes the caller from the event's volunteers
// POST /api/events/:id/leave
func (h *EventHandler) Leave(c *gin.Context) {
	removed, err := h.membershipService.RemoveVolunteerFromEvent(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, serviceError(err, "Failed to leave event"))
		return
	}

	response.Success(c, gin.H{"success": true, "removed": removed})
}

// MyEvents lists the events the caller joined
// GET /api/me/events
func (h *EventHandler) MyEvents(c *gin.Context) {
	var params services.PaginationParams
	if !bindQuery(c, &params) {
		return
	}

	events, err := h.membershipService.GetUserEvents(c.Request.Context(), middleware.GetUserID(c), params)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to fetch events"))
		return
	}

	response.Success(c, events)
}

// Volunteers lists an event's memberships
// GET /api/admin/events/:id/volunteers
func (h *EventHandler) Volunteers(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.eventService.GetEventByID(ctx, id, false); err != nil {
		response.Error(c, serviceError(err, "Failed to fetch volunteers"))
		return
	}

	var params services.VolunteerSearchParams
	if !bindQuery(c, &params) {
		return
	}
	volunteers, err := h.membershipService.GetEventVolunteers(ctx, id, params)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to fetch volunteers"))
		return
	}

	response.Success(c, volunteers)
}

// RemoveVolunteer removes a user from an event
// DELETE /api/admin/events/:id/volunteers/:userId
func (h *EventHandler) RemoveVolunteer(c *gin.Context) {
	removed, err := h.membershipService.RemoveVolunteerFromEvent(c.Request.Context(), c.Param("userId"), c.Param("id"))
	if err != nil {
		response.Error(c, serviceError(err, "Failed to remove volunteer"))
		return
	}
	if !removed {
		response.NotFound(c, "Volunteer not found")
		return
	}

	response.Success(c, gin.H{"success": true})
}

// Categories lists the accepted event categories
// GET /api/events/categories
func (h *EventHandler) Categories(c *gin.Context) {
	response.Success(c, models.Categories)
}
