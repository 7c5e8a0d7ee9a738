package controllers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/lib"
	"github.com/theleywin/Backend-Skill-Barter/src/services"
)

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrAlreadyDecided),
		errors.Is(err, services.ErrNotAccepted):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrDuplicateRequest),
		errors.Is(err, services.ErrInvalidAction),
		errors.Is(err, services.ErrInsufficientCredits),
		errors.Is(err, services.ErrSelfRequest),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes err as a {"message": ...} response, logging anything unexpected
func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request failed",
			"method", c.Method(), "path", c.Path(), "error", err)
	}

	body := lib.MessageResponse(services.PublicMessage(err))
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		body["errors"] = verr.FieldErrors
	}
	return c.Status(status).JSON(body)
}

// paramID parses a positive numeric route parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
