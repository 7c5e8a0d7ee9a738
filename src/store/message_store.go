package store

import (
	"context"

	"github.com/theleywin/Backend-Skill-Barter/src/models"
)

// MessageStore persists chat messages. Messages are append-only.
type MessageStore interface {
	// Create stores msg. ID and Timestamp must already be set.
	Create(ctx context.Context, msg *models.Message) error
	// Between returns every message exchanged by a and b, oldest first.
	Between(ctx context.Context, a, b uint) ([]models.Message, error)
}
