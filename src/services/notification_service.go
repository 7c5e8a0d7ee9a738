package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/theleywin/Backend-Skill-Barter/src/models"
	"gorm.io/gorm"
)

type NotificationService struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

// Notify stores a notification. Failures are logged and swallowed: a notification
// never decides the outcome of the operation that produced it.
func (s *NotificationService) Notify(ctx context.Context, recipientID uint, kind models.NotificationType, relatedUserID, relatedRequestID uint) {
	if s == nil {
		return
	}
	notification := models.Notification{
		RecipientID:      recipientID,
		Type:             kind,
		RelatedUserID:    relatedUserID,
		RelatedRequestID: relatedRequestID,
	}
	if err := s.DB.WithContext(ctx).Create(&notification).Error; err != nil {
		loggerOrDefault(s.Logger).WarnContext(ctx, "failed to create notification",
			"recipient", recipientID, "type", kind, "error", err)
	}
}

// List returns the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := s.DB.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) (*models.Notification, error) {
	var notification models.Notification
	// Solo permitir actualizar notificaciones del usuario autenticado
	err := s.DB.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", notificationID, userID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find notification: %w", err)
	}

	notification.Read = true
	if err := s.DB.WithContext(ctx).Save(&notification).Error; err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return &notification, nil
}

// Delete removes one of the user's notifications
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID uint) error {
	result := s.DB.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return fmt.Errorf("delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
