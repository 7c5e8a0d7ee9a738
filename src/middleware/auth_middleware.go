package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/lib"
	"github.com/theleywin/Backend-Skill-Barter/src/models"
	"github.com/theleywin/Backend-Skill-Barter/src/realtime"
	"github.com/theleywin/Backend-Skill-Barter/src/services"
)

// LocalUser is the fiber.Ctx local holding the authenticated models.User
const LocalUser = "user"

// ProtectRoute checks for a valid JWT bearer token, loads the user and attaches it to the request context
func ProtectRoute(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Obtener token del header Authorization
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Unauthorized - no token provided"))
		}

		// Extraer el token (formato esperado: "Bearer <token>")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Unauthorized - invalid token format"))
		}

		user, err := users.Authenticate(c.UserContext(), token)
		if err != nil {
			return rejectAuth(c, err)
		}

		c.Locals(LocalUser, *user)
		return c.Next()
	}
}

// ProtectSocket accepts only WebSocket upgrades carrying a valid ?token= and hands
// the user id to the socket handler
func ProtectSocket(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		userID, err := users.Identify(c.Query("token"))
		if err != nil {
			return rejectAuth(c, err)
		}

		c.Locals(realtime.LocalUserID, userID)
		return c.Next()
	}
}

// CurrentUser returns the user stored by ProtectRoute
func CurrentUser(c *fiber.Ctx) models.User {
	user, _ := c.Locals(LocalUser).(models.User)
	return user
}

func rejectAuth(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrUnauthenticated) {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Unauthorized - invalid token"))
	}
	slog.ErrorContext(c.UserContext(), "authentication failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Server error"))
}
