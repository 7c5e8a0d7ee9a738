package store

import (
	"context"
	"fmt"

	"github.com/theleywin/Backend-Skill-Barter/src/models"
	"gorm.io/gorm"
)

// GormMessageStore keeps messages in the main SQL database.
type GormMessageStore struct {
	DB *gorm.DB
}

func (s *GormMessageStore) Create(ctx context.Context, msg *models.Message) error {
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func (s *GormMessageStore) Between(ctx context.Context, a, b uint) ([]models.Message, error) {
	messages := []models.Message{}
	err := s.DB.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("timestamp ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}
