package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/lib"
	"github.com/theleywin/Backend-Skill-Barter/src/middleware"
	"github.com/theleywin/Backend-Skill-Barter/src/services"
)

// Signup registers a user with the initial credit allowance and returns a token
func Signup(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input services.SignupInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
		}

		result, err := users.Signup(c.UserContext(), input)
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(result)
	}
}

// Signin authenticates by email and password and returns a token
func Signin(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var loginData struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&loginData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
		}

		if loginData.Email == "" || loginData.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Email and password are required"))
		}

		result, err := users.Login(c.UserContext(), loginData.Email, loginData.Password)
		if err != nil {
			return fail(c, err)
		}

		return c.JSON(result)
	}
}

// GetCurrentUser returns the currently authenticated user with ratings
func GetCurrentUser(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := middleware.CurrentUser(c)

		full, err := users.GetByID(c.UserContext(), user.ID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(full)
	}
}
