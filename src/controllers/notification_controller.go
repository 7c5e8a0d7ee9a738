package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/lib"
	"github.com/theleywin/Backend-Skill-Barter/src/middleware"
	"github.com/theleywin/Backend-Skill-Barter/src/services"
)

// GetUserNotifications returns all notifications for the authenticated user
func GetUserNotifications(notifications *services.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := middleware.CurrentUser(c)

		list, err := notifications.List(c.UserContext(), user.ID)
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusOK).JSON(list)
	}
}

// MarkNotificationAsRead marks a notification as read for the authenticated user
func MarkNotificationAsRead(notifications *services.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Obtener ID de la notificación desde los parámetros
		notificationID, ok := paramID(c, "id")
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid notification ID format"))
		}

		user := middleware.CurrentUser(c)

		notification, err := notifications.MarkRead(c.UserContext(), user.ID, notificationID)
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusOK).JSON(notification)
	}
}

// DeleteNotification deletes a notification for the authenticated user
func DeleteNotification(notifications *services.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notificationID, ok := paramID(c, "id")
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid notification ID format"))
		}

		user := middleware.CurrentUser(c)

		if err := notifications.Delete(c.UserContext(), user.ID, notificationID); err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Notification deleted successfully"))
	}
}
