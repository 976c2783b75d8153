// Package handler exposes the HTTP surface over Fiber. Handlers decode and
// validate requests, call the services, and translate sentinel errors into
// statuses in one place.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/iwork-app/iwork-backend/internal/port"
)

// fail translates a service error into the matching HTTP response. Unmatched
// errors become a generic 500 so internals never leak to clients.
func fail(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, port.ErrValidation):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, port.ErrEmailTaken),
		errors.Is(err, port.ErrUsernameTaken),
		errors.Is(err, port.ErrCompanyNameTaken):
		status, msg = fiber.StatusConflict, err.Error()
	case errors.Is(err, port.ErrInvalidCredentials),
		errors.Is(err, port.ErrUnauthorized),
		errors.Is(err, port.ErrTokenInvalid),
		errors.Is(err, port.ErrTokenExpired):
		status, msg = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, port.ErrForbidden):
		status, msg = fiber.StatusForbidden, err.Error()
	case errors.Is(err, port.ErrUserNotFound),
		errors.Is(err, port.ErrCompanyNotFound),
		errors.Is(err, port.ErrReviewNotFound),
		errors.Is(err, port.ErrSalaryNotFound):
		status, msg = fiber.StatusNotFound, err.Error()
	}

	return c.Status(status).JSON(fiber.Map{"error": msg})
}
