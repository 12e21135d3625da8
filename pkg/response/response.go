package response

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/hack2025/volunteer-hub/pkg/logger"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Code    int         `json:"code"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// AppError represents a structured application error with HTTP status.
type AppError struct {
	HTTPStatus int         // HTTP status code (e.g. 400, 404, 500)
	Message    string      // Human-readable error message
	Details    interface{} // Optional field-level details
	Err        error       // Underlying cause, logged but never sent
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg}
}

func NewValidation(msg string, details interface{}) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg, Details: details}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusConflict, Message: msg}
}

func NewTooManyRequests(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusTooManyRequests, Message: msg}
}

// NewServerError hides err from the client behind msg.
func NewServerError(msg string, err error) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Message: msg, Err: err}
}

// Success sends a 200 OK response with data as the body.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 Created response with data as the body.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error sends an error response. If err is an *AppError, its status and
// message are used; anything else becomes a generic 500. Server errors are
// logged and reported to Sentry when a hub is attached to the request.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewServerError("internal server error", err)
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		cause := appErr.Err
		if cause == nil {
			cause = appErr
		}
		logger.Error().Err(cause).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg(appErr.Message)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(cause)
		} else if sentry.CurrentHub().Client() != nil {
			sentry.CaptureException(cause)
		}
		_ = c.Error(cause)
	}

	c.AbortWithStatusJSON(appErr.HTTPStatus, ErrorBody{
		Code:    appErr.HTTPStatus,
		Error:   appErr.Message,
		Details: appErr.Details,
	})
}

func BadRequest(c *gin.Context, msg string) {
	Error(c, NewBadRequest(msg))
}

func Unauthorized(c *gin.Context, msg string) {
	Error(c, NewUnauthorized(msg))
}

func Forbidden(c *gin.Context, msg string) {
	Error(c, NewForbidden(msg))
}

func NotFound(c *gin.Context, msg string) {
	Error(c, NewNotFound(msg))
}

func ServerError(c *gin.Context, msg string, err error) {
	Error(c, NewServerError(msg, err))
}
