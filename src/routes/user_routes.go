package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/controllers"
	"github.com/theleywin/Backend-Skill-Barter/src/middleware"
)

// UserRoutes sets up public profile and profile update routes
func UserRoutes(app *fiber.App, d Dependencies) {
	user := app.Group("/api/v1/users", middleware.ProtectRoute(d.Users))

	user.Put("/profile", controllers.UpdateProfile(d.Users))
	user.Get("/:id", controllers.GetPublicProfile(d.Users))
}
