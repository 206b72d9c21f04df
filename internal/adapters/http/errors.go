package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/oiangu/trenbide/internal/core/domain"
)

// ErrorEnvelope is the error shape for any 4xx/5xx response, per spec §6.
type ErrorEnvelope struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func newError(c *fiber.Ctx, status int, message, detail string) error {
	return c.Status(status).JSON(ErrorEnvelope{Error: message, Detail: detail})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// writeAppError maps a domain.AppError's Kind onto the HTTP status taxonomy
// of spec §7, falling back to 500 for anything else.
func writeAppError(c *fiber.Ctx, err error) error {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		return errInternal(c, err.Error())
	}

	switch appErr.Kind {
	case domain.ErrBadRequest:
		return newError(c, fiber.StatusBadRequest, "bad_request", appErr.Message)
	case domain.ErrUnknownStation:
		return newError(c, fiber.StatusNotFound, "unknown_station", appErr.Message)
	case domain.ErrDataNotLoaded:
		return newError(c, fiber.StatusServiceUnavailable, "data_not_loaded", appErr.Message)
	case domain.ErrTimeout:
		return newError(c, fiber.StatusRequestTimeout, "timeout", appErr.Message)
	default:
		return newError(c, fiber.StatusInternalServerError, "internal_error", appErr.Message)
	}
}
