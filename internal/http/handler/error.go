package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"weshare/internal/http/middleware"
	"weshare/internal/model"
	"weshare/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ARGUMENT", "SCHEDULE_NOT_FOUND")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

type errorMapping struct {
	target error
	status int
	code   string
}

var serviceErrors = []errorMapping{
	{service.ErrEmailDuplicate, fiber.StatusConflict, "EMAIL_DUPLICATE"},
	{service.ErrUsernameDuplicate, fiber.StatusConflict, "USERNAME_DUPLICATE"},
	{service.ErrAlreadyLiked, fiber.StatusConflict, "ALREADY_LIKED"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{service.ErrInvalidToken, fiber.StatusUnauthorized, "INVALID_TOKEN"},
	{service.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{service.ErrTokenNotFound, fiber.StatusNotFound, "TOKEN_NOT_FOUND"},
	{service.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{service.ErrScheduleNotFound, fiber.StatusNotFound, "SCHEDULE_NOT_FOUND"},
	{service.ErrCommentNotFound, fiber.StatusNotFound, "COMMENT_NOT_FOUND"},
	{service.ErrLikeNotFound, fiber.StatusNotFound, "LIKE_NOT_FOUND"},
	{service.ErrStatisticsNotFound, fiber.StatusNotFound, "STATISTICS_NOT_FOUND"},
	{service.ErrInvalidPage, fiber.StatusBadRequest, "INVALID_PAGE"},
	{service.ErrStorageUnavailable, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
	{service.ErrOAuthAPI, fiber.StatusBadRequest, "OAUTH_API_ERROR"},
	{service.ErrUnsupportedProvider, fiber.StatusBadRequest, "UNSUPPORTED_PROVIDER"},
}

// serviceError translates a service error into the response envelope.
// Sentinel messages are safe to expose; anything unknown becomes a 500 and is logged.
func serviceError(c *fiber.Ctx, err error) error {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			return writeError(c, m.status, m.code, m.target.Error())
		}
	}
	if errors.Is(err, model.ErrInvalidArgument) {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	}

	slog.ErrorContext(c.UserContext(), "request failed",
		"request_id", requestIDFromCtx(c),
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "TOO_MANY_REQUESTS", "too many requests")
		default:
			slog.ErrorContext(c.UserContext(), "unhandled error", "request_id", requestIDFromCtx(c), "error", err)
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
