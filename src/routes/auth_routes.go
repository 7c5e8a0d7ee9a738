package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/controllers"
	"github.com/theleywin/Backend-Skill-Barter/src/middleware"
)

// AuthRoutes sets up signup, signin and current-user routes
func AuthRoutes(app *fiber.App, d Dependencies) {
	auth := app.Group("/api/v1/auth")

	auth.Post("/signup", controllers.Signup(d.Users))
	auth.Post("/signin", controllers.Signin(d.Users))
	auth.Get("/me", middleware.ProtectRoute(d.Users), controllers.GetCurrentUser(d.Users))
}
