package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hack2025/volunteer-hub/internal/middleware"
	"github.com/hack2025/volunteer-hub/internal/models"
	"github.com/hack2025/volunteer-hub/internal/services"
	"github.com/hack2025/volunteer-hub/pkg/response"
)

// messagesPageSize is the default page of GET /api/chat/messages.
const messagesPageSize = 50

type ChatHandler struct {
	chatService  *services.ChatService
	userService  *services.UserService
	eventService *services.EventService
}

func NewChatHandler(chats *services.ChatService, users *services.UserService, events *services.EventService) *ChatHandler {
	return &ChatHandler{
		chatService:  chats,
		userService:  users,
		eventService: events,
	}
}

type SendMessageRequest struct {
	EventID string `json:"eventId" validate:"required,uuid"`
	Message string `json:"message" validate:"required,min=1"`
}

type EventMessageRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type EditMessageRequest struct {
	EventID  string    `json:"eventId" validate:"required"`
	DateTime time.Time `json:"dateTime" validate:"required"`
	Message  string    `json:"message" validate:"required"`
}

type DeleteMessageRequest struct {
	EventID  string    `json:"eventId" validate:"required"`
	DateTime time.Time `json:"dateTime" validate:"required"`
}

type EditMessageByIDRequest struct {
	Message string `json:"message" validate:"required"`
}

type MessagesQuery struct {
	EventID  string `form:"eventId" json:"eventId" validate:"required,uuid"`
	Page     *int   `form:"page" json:"page" validate:"omitnil,gte=1"`
	PageSize *int   `form:"pageSize" json:"pageSize" validate:"omitnil,gte=1"`
}

// pagination fills absent values with page 1 and the default page size.
func (q MessagesQuery) pagination() services.PaginationParams {
	p := services.PaginationParams{Page: 1, PageSize: messagesPageSize}
	if q.Page != nil {
		p.Page = *q.Page
	}
	if q.PageSize != nil {
		p.PageSize = *q.PageSize
	}
	return p
}

// MessageUser is the partial author record; clients resolve the profile
// through /api/users/info.
type MessageUser struct {
	ID string `json:"id"`
}

// Message is one entry of the chronological chat feed.
type Message struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	EventID   string      `json:"eventId"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"createdAt"`
	User      MessageUser `json:"user"`
}

// Send posts a message to an event's chat
// POST /api/chat
func (h *ChatHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	h.send(c, middleware.GetUserID(c), req.EventID, req.Message, true)
}

func (h *ChatHandler) send(c *gin.Context, userID, eventID, message string, created bool) {
	ctx := c.Request.Context()
	if err := h.userService.EnsureUser(ctx, userID); err != nil {
		response.Error(c, serviceError(err, "Failed to post message"))
		return
	}

	chat, err := h.chatService.SendChatMessage(ctx, userID, eventID, message)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to post message"))
		return
	}

	if created {
		response.Created(c, chat)
		return
	}
	response.Success(c, chat)
}

// Messages returns an event's chat in chronological order
// GET /api/chat/messages
func (h *ChatHandler) Messages(c *gin.Context) {
	var q MessagesQuery
	if !bindQuery(c, &q) || !validate(c, &q) {
		return
	}

	chats, err := h.chatService.GetEventChats(c.Request.Context(), q.EventID, services.ChatSearchParams{
		OrderDirection:   services.OrderAsc,
		PaginationParams: q.pagination(),
	})
	if err != nil {
		response.Error(c, serviceError(err, "Internal server error"))
		return
	}

	messages := make([]Message, len(chats))
	for i, chat := range chats {
		messages[i] = Message{
			ID:        chat.ID,
			UserID:    chat.UserID,
			EventID:   chat.EventID,
			Message:   chat.Message,
			CreatedAt: chat.DateTime,
			User:      MessageUser{ID: chat.UserID},
		}
	}

	response.Success(c, messages)
}

// EventMessages polls an event's chat for messages newer than ?since=
// GET /api/events/:id/messages
func (h *ChatHandler) EventMessages(c *gin.Context) {
	since, ok := parseTimeParam(c, "since", false)
	if !ok {
		return
	}

	chats, err := h.chatService.GetEventChatsSince(c.Request.Context(), c.Param("id"), since, services.MaxPageSize)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to fetch messages"))
		return
	}

	response.Success(c, chats)
}

// PostEventMessage posts a message on behalf of the caller, who must match
// the userId in the body
// POST /api/events/:id/messages
func (h *ChatHandler) PostEventMessage(c *gin.Context) {
	var req EventMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.UserID != middleware.GetUserID(c) {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	h.send(c, req.UserID, c.Param("id"), req.Message, false)
}

// MyChats lists the caller's messages across events
// GET /api/me/chats
func (h *ChatHandler) MyChats(c *gin.Context) {
	h.listUserChats(c, middleware.GetUserID(c))
}

// UserChats lists any user's messages
// GET /api/admin/users/:id/chats
func (h *ChatHandler) UserChats(c *gin.Context) {
	h.listUserChats(c, c.Param("id"))
}

func (h *ChatHandler) listUserChats(c *gin.Context, userID string) {
	params, ok := chatSearchParams(c)
	if !ok {
		return
	}

	chats, err := h.chatService.GetUserChats(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to fetch messages"))
		return
	}

	response.Success(c, chats)
}

// EventChats lists an event's messages with filters
// GET /api/admin/events/:id/chats
func (h *ChatHandler) EventChats(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.eventService.GetEventByID(ctx, id, false); err != nil {
		response.Error(c, serviceError(err, "Failed to fetch messages"))
		return
	}

	params, ok := chatSearchParams(c)
	if !ok {
		return
	}
	chats, err := h.chatService.GetEventChats(ctx, id, params)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to fetch messages"))
		return
	}

	response.Success(c, chats)
}

func chatSearchParams(c *gin.Context) (services.ChatSearchParams, bool) {
	var params services.ChatSearchParams
	if !bindQuery(c, &params) {
		return params, false
	}
	var ok bool
	if params.FromDate, ok = parseTimeParam(c, "fromDate", false); !ok {
		return params, false
	}
	if params.ToDate, ok = parseTimeParam(c, "toDate", true); !ok {
		return params, false
	}
	return params, true
}

// Edit rewrites one of the caller's messages addressed by event and time
// PUT /api/chat
func (h *ChatHandler) Edit(c *gin.Context) {
	var req EditMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	chat, err := h.chatService.UpdateChatMessage(c.Request.Context(), req.EventID, middleware.GetUserID(c), req.DateTime, req.Message)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to update message"))
		return
	}

	response.Success(c, chat)
}

// Remove deletes one of the caller's messages addressed by event and time
// DELETE /api/chat
func (h *ChatHandler) Remove(c *gin.Context) {
	var req DeleteMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	deleted, err := h.chatService.DeleteChatMessage(c.Request.Context(), req.EventID, middleware.GetUserID(c), req.DateTime)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to delete message"))
		return
	}
	if !deleted {
		response.NotFound(c, "Message not found")
		return
	}

	response.Success(c, gin.H{"success": true})
}

// EditByID rewrites one of the caller's messages
// PUT /api/chat/:id
func (h *ChatHandler) EditByID(c *gin.Context) {
	var req EditMessageByIDRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, ok := h.ownMessage(c); !ok {
		return
	}

	chat, err := h.chatService.UpdateChatMessageByID(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to update message"))
		return
	}

	response.Success(c, chat)
}

// RemoveByID deletes one of the caller's messages
// DELETE /api/chat/:id
func (h *ChatHandler) RemoveByID(c *gin.Context) {
	chat, ok := h.ownMessage(c)
	if !ok {
		return
	}
	h.deleteByID(c, chat)
}

// AdminRemove deletes any message
// DELETE /api/admin/chats/:id
func (h *ChatHandler) AdminRemove(c *gin.Context) {
	chat, err := h.chatService.GetChatByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, serviceError(err, "Failed to load message"))
		return
	}
	h.deleteByID(c, chat)
}

func (h *ChatHandler) deleteByID(c *gin.Context, chat *models.Chat) {
	deleted, err := h.chatService.DeleteChatMessageByID(c.Request.Context(), chat.ID)
	if err != nil {
		response.Error(c, serviceError(err, "Failed to delete message"))
		return
	}
	if !deleted {
		response.NotFound(c, "Message not found")
		return
	}

	response.Success(c, gin.H{"success": true})
}

// ownMessage loads the :id message and checks the caller wrote it.
func (h *ChatHandler) ownMessage(c *gin.Context) (*models.Chat, bool) {
	chat, err := h.chatService.GetChatByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, serviceError(err, "Failed to load message"))
		return nil, false
	}
	if chat.UserID != middleware.GetUserID(c) {
		response.Forbidden(c, "only the author can change this message")
		return nil, false
	}
	return chat, true
}
