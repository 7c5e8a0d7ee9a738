package controllers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/services"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: no token provided", services.ErrUnauthenticated), fiber.StatusUnauthorized},
		{services.ErrNotFound, fiber.StatusNotFound},
		{services.ErrForbidden, fiber.StatusForbidden},
		{services.ErrAlreadyDecided, fiber.StatusConflict},
		{services.ErrNotAccepted, fiber.StatusConflict},
		{services.ErrInsufficientCredits, fiber.StatusBadRequest},
		{&services.ValidationError{}, fiber.StatusBadRequest},
		{errors.New("disk on fire"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
