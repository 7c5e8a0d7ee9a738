package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/controllers"
	"github.com/theleywin/Backend-Skill-Barter/src/middleware"
)

// SessionRoutes sets up session settlement and credit balance routes
func SessionRoutes(app *fiber.App, d Dependencies) {
	protect := middleware.ProtectRoute(d.Users)

	app.Post("/api/v1/sessions/complete-session", protect, controllers.CompleteSession(d.Settlement))
	app.Get("/api/v1/credits", protect, controllers.GetCredits(d.Settlement))
}
