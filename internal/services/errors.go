package services

import "errors"

var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidEvent  = errors.New("invalid event")
	ErrUserExists    = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrAlreadyJoined = errors.New("user already joined this event")
	ErrNotJoined     = errors.New("user has not joined this event")
	ErrChatNotFound  = errors.New("chat message not found")
	ErrChatReference = errors.New("chat message references an unknown event or user")
	ErrEmptyMessage  = errors.New("message must not be empty")
)
