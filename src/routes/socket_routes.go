package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/middleware"
	"github.com/theleywin/Backend-Skill-Barter/src/realtime"
	"github.com/theleywin/Backend-Skill-Barter/src/services"
)

// SocketRoutes mounts the real-time endpoint: GET /ws?token=<jwt>
func SocketRoutes(app *fiber.App, d Dependencies) {
	handler := &realtime.SocketHandler{
		Hub:           d.Hub,
		Sender:        d.Chat,
		Logger:        d.Logger,
		DescribeError: services.PublicMessage,
	}
	app.Get("/ws", middleware.ProtectSocket(d.Users), websocket.New(handler.Handle))
}
