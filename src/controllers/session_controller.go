package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/lib"
	"github.com/theleywin/Backend-Skill-Barter/src/middleware"
	"github.com/theleywin/Backend-Skill-Barter/src/services"
)

// CompleteSession pays one credit from the authenticated user to the other party of a request
func CompleteSession(settlement *services.SettlementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			RequestID uint `json:"requestId"`
			Rating    *int `json:"rating"`
		}
		if err := c.BodyParser(&body); err != nil || body.RequestID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
		}

		user := middleware.CurrentUser(c)

		result, err := settlement.CompleteSession(c.UserContext(), body.RequestID, user.ID, body.Rating)
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message":  "Session completed",
			"credits":  result.PayerCredits,
			"transfer": result.Transfer,
		})
	}
}

// GetCredits returns the authenticated user's balance and transfer history
func GetCredits(settlement *services.SettlementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := middleware.CurrentUser(c)

		overview, err := settlement.Overview(c.UserContext(), user.ID)
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusOK).JSON(overview)
	}
}
