package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/lib"
	"github.com/theleywin/Backend-Skill-Barter/src/middleware"
	"github.com/theleywin/Backend-Skill-Barter/src/models"
	"github.com/theleywin/Backend-Skill-Barter/src/services"
)

// GetPublicProfile returns a user's public profile, average rating and accepted connections
func GetPublicProfile(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := paramID(c, "id")
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID format"))
		}

		user, err := users.GetByID(c.UserContext(), userID)
		if err != nil {
			return fail(c, err)
		}

		connections, err := users.Connections(c.UserContext(), userID)
		if err != nil {
			return fail(c, err)
		}

		return c.JSON(fiber.Map{
			"user":          user,
			"averageRating": user.AverageRating(),
			"connections":   connections,
		})
	}
}

// UpdateProfile updates the authenticated user's bio and skills
func UpdateProfile(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Bio    *string        `json:"bio"`
			Skills []models.Skill `json:"skills"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
		}

		user := middleware.CurrentUser(c)

		updated, err := users.UpdateProfile(c.UserContext(), user.ID, body.Bio, body.Skills)
		if err != nil {
			return fail(c, err)
		}

		return c.JSON(updated)
	}
}
