package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/controllers"
	"github.com/theleywin/Backend-Skill-Barter/src/middleware"
)

// NotificationRoutes sets up notification-related routes for listing, marking as read, and deleting notifications
func NotificationRoutes(app *fiber.App, d Dependencies) {
	notification := app.Group("/api/v1/notifications", middleware.ProtectRoute(d.Users))

	notification.Get("/", controllers.GetUserNotifications(d.Notifications))
	notification.Put("/:id/read", controllers.MarkNotificationAsRead(d.Notifications))
	notification.Delete("/:id", controllers.DeleteNotification(d.Notifications))
}
