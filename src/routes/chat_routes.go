package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/controllers"
	"github.com/theleywin/Backend-Skill-Barter/src/middleware"
)

// ChatRoutes sets up connection request, conversation and message history routes
func ChatRoutes(app *fiber.App, d Dependencies) {
	chat := app.Group("/api/v1/chat", middleware.ProtectRoute(d.Users))

	chat.Post("/request", controllers.SendConnectionRequest(d.Connections))
	chat.Get("/requests", controllers.GetConnectionRequests(d.Connections))
	chat.Post("/request/:id/:action", controllers.RespondToRequest(d.Connections))
	chat.Get("/conversations", controllers.GetConversations(d.Connections))
	chat.Get("/status/:userId", controllers.GetConnectionStatus(d.Connections))
	chat.Post("/messages", controllers.SendMessage(d.Chat))
	// Debe ir al final: captura cualquier otro segmento como userId
	chat.Get("/:userId", controllers.GetChatHistory(d.Chat))
}
