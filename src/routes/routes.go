package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/realtime"
	"github.com/theleywin/Backend-Skill-Barter/src/services"
	"gorm.io/gorm"
)

// Dependencies is everything the HTTP surface needs
type Dependencies struct {
	DB            *gorm.DB
	Logger        *slog.Logger
	Users         *services.UserService
	Connections   *services.ConnectionService
	Chat          *services.ChatService
	Settlement    *services.SettlementService
	Notifications *services.NotificationService
	Hub           realtime.Hub
}

// Register mounts every route group on app
func Register(app *fiber.App, d Dependencies) {
	AuthRoutes(app, d)
	UserRoutes(app, d)
	ChatRoutes(app, d)
	SessionRoutes(app, d)
	NotificationRoutes(app, d)
	if d.Hub != nil {
		SocketRoutes(app, d)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{"status": "ok", "database": "ok"}
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		return c.JSON(status)
	})
}
