package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Skill-Barter/src/lib"
	"github.com/theleywin/Backend-Skill-Barter/src/middleware"
	"github.com/theleywin/Backend-Skill-Barter/src/services"
)

// SendConnectionRequest creates a pending request from the authenticated user
func SendConnectionRequest(connections *services.ConnectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			RecipientID   uint       `json:"recipientId"`
			Note          string     `json:"note"`
			ScheduledTime *time.Time `json:"scheduledTime"`
		}
		if err := c.BodyParser(&body); err != nil || body.RecipientID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
		}

		// Obtener usuario autenticado del middleware
		user := middleware.CurrentUser(c)

		request, err := connections.CreateRequest(c.UserContext(), user.ID, body.RecipientID, body.Note, body.ScheduledTime)
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(request)
	}
}

// GetConnectionRequests returns the pending requests addressed to the authenticated user
func GetConnectionRequests(connections *services.ConnectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := middleware.CurrentUser(c)

		requests, err := connections.ListPendingForRecipient(c.UserContext(), user.ID)
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusOK).JSON(requests)
	}
}

// RespondToRequest accepts or rejects a pending request addressed to the authenticated user
func RespondToRequest(connections *services.ConnectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID, ok := paramID(c, "id")
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request ID format"))
		}

		user := middleware.CurrentUser(c)

		request, err := connections.Respond(c.UserContext(), requestID, user.ID, c.Params("action"))
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusOK).JSON(request)
	}
}

// GetConversations returns every accepted connection of the authenticated user
func GetConversations(connections *services.ConnectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := middleware.CurrentUser(c)

		conversations, err := connections.ListAcceptedConversations(c.UserContext(), user.ID)
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusOK).JSON(conversations)
	}
}

// GetConnectionStatus returns how the authenticated user relates to another user
func GetConnectionStatus(connections *services.ConnectionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		targetUserID, ok := paramID(c, "userId")
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID format"))
		}

		user := middleware.CurrentUser(c)

		state, requestID, err := connections.Status(c.UserContext(), user.ID, targetUserID)
		if err != nil {
			return fail(c, err)
		}

		response := fiber.Map{"status": state}
		if state == services.ConnectionStateReceived {
			response["requestId"] = requestID
		}
		return c.Status(fiber.StatusOK).JSON(response)
	}
}

// SendMessage stores a message over HTTP; it reaches live sockets the same way as send_message
func SendMessage(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			RecipientID uint   `json:"recipient"`
			Content     string `json:"content"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
		}

		user := middleware.CurrentUser(c)

		msg, err := chat.Send(c.UserContext(), user.ID, body.RecipientID, body.Content)
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(msg)
	}
}

// GetChatHistory returns the messages exchanged with a connected partner, oldest first
func GetChatHistory(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		partnerID, ok := paramID(c, "userId")
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID format"))
		}

		user := middleware.CurrentUser(c)

		messages, err := chat.GetHistory(c.UserContext(), user.ID, partnerID)
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusOK).JSON(messages)
	}
}
