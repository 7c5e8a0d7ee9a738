package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/theleywin/Backend-Skill-Barter/src/models"
	"github.com/theleywin/Backend-Skill-Barter/src/realtime"
	"github.com/theleywin/Backend-Skill-Barter/src/store"
)

// ChatService gates message history behind an accepted connection and fans new
// messages out to both participants.
type ChatService struct {
	Connections *ConnectionService
	Messages    store.MessageStore
	Hub         realtime.Hub
	Logger      *slog.Logger
	// EnforceSendConnection makes Send require an accepted connection, the same
	// check GetHistory applies. Off by default: sending only needs two user ids.
	EnforceSendConnection bool
}

// GetHistory returns every message between userID and partnerID, oldest first
func (s *ChatService) GetHistory(ctx context.Context, userID, partnerID uint) ([]models.Message, error) {
	connected, err := s.Connections.HasAcceptedConnection(ctx, userID, partnerID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, ErrForbidden
	}
	return s.Messages.Between(ctx, userID, partnerID)
}

// Send persists a message and, only once it is stored, publishes it to the
// sender's and the recipient's channels
func (s *ChatService) Send(ctx context.Context, senderID, recipientID uint, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		verr := &ValidationError{}
		verr.add("content", "content is required")
		return nil, verr
	}
	if recipientID == 0 {
		verr := &ValidationError{}
		verr.add("recipient", "recipient is required")
		return nil, verr
	}

	if s.EnforceSendConnection {
		connected, err := s.Connections.HasAcceptedConnection(ctx, senderID, recipientID)
		if err != nil {
			return nil, err
		}
		if !connected {
			return nil, ErrForbidden
		}
	}

	msg := &models.Message{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.Messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.broadcast(ctx, msg)
	return msg, nil
}

func (s *ChatService) broadcast(ctx context.Context, msg *models.Message) {
	if s.Hub == nil {
		return
	}
	env, err := realtime.NewEnvelope(realtime.EventReceiveMessage, msg)
	if err != nil {
		loggerOrDefault(s.Logger).ErrorContext(ctx, "failed to encode message", "error", err)
		return
	}

	targets := []uint{msg.RecipientID}
	if msg.SenderID != msg.RecipientID {
		targets = append(targets, msg.SenderID)
	}
	for _, userID := range targets {
		if err := s.Hub.Publish(ctx, userID, env); err != nil {
			// Entrega como máximo una vez: el mensaje ya está guardado
			loggerOrDefault(s.Logger).WarnContext(ctx, "failed to publish message",
				"user", userID, "message", msg.ID, "error", fmt.Errorf("publish: %w", err))
		}
	}
}
