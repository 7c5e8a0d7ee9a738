package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/theleywin/Backend-Skill-Barter/src/models"
	"gorm.io/gorm"
)

// ConnectionService owns the lifecycle of connection requests.
type ConnectionService struct {
	DB            *gorm.DB
	Notifications *NotificationService
	Logger        *slog.Logger
}

// ConnectionState is the relation between two users as seen by one of them
type ConnectionState string

const (
	ConnectionStateConnected    ConnectionState = "connected"
	ConnectionStatePending      ConnectionState = "pending"
	ConnectionStateReceived     ConnectionState = "received"
	ConnectionStateNotConnected ConnectionState = "not_connected"
)

// CreateRequest opens a pending request from senderID to recipientID.
//
// Only the exact ordered pair is checked for duplicates, in any status: B may
// still send its own request to A after A has asked B.
func (s *ConnectionService) CreateRequest(ctx context.Context, senderID, recipientID uint, note string, scheduledTime *time.Time) (*models.ConnectionRequest, error) {
	if senderID == recipientID {
		return nil, ErrSelfRequest
	}

	request := models.ConnectionRequest{
		SenderID:      senderID,
		RecipientID:   recipientID,
		Status:        models.ConnectionStatusPending,
		Note:          note,
		ScheduledTime: scheduledTime,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipientCount int64
		if err := tx.Model(&models.User{}).Where("id = ?", recipientID).Count(&recipientCount).Error; err != nil {
			return fmt.Errorf("find recipient: %w", err)
		}
		if recipientCount == 0 {
			return ErrNotFound
		}

		var existing int64
		if err := tx.Model(&models.ConnectionRequest{}).
			Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check existing request: %w", err)
		}
		if existing > 0 {
			return ErrDuplicateRequest
		}

		if err := tx.Create(&request).Error; err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	loggerOrDefault(s.Logger).InfoContext(ctx, "connection request created",
		"request", request.ID, "sender", senderID, "recipient", recipientID)
	s.Notifications.Notify(ctx, recipientID, models.NotificationTypeConnectionRequested, senderID, request.ID)
	return &request, nil
}

// ListPendingForRecipient returns the pending requests addressed to userID, each joined
// with the sender's public profile, in insertion order
func (s *ConnectionService) ListPendingForRecipient(ctx context.Context, userID uint) ([]models.ConnectionRequestDto, error) {
	var requests []models.ConnectionRequest
	err := s.DB.WithContext(ctx).Preload("Sender").
		Where("recipient_id = ? AND status = ?", userID, models.ConnectionStatusPending).
		Order("id ASC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}

	response := make([]models.ConnectionRequestDto, 0, len(requests))
	for _, req := range requests {
		response = append(response, models.ConnectionRequestDto{
			ID:            req.ID,
			Sender:        models.NewUserDto(req.Sender),
			Recipient:     req.RecipientID,
			Status:        req.Status,
			Note:          req.Note,
			ScheduledTime: req.ScheduledTime,
			CreatedAt:     req.CreatedAt,
		})
	}
	return response, nil
}

// Respond lets the recipient accept or reject a pending request. A request is decided
// exactly once; later attempts fail with ErrAlreadyDecided.
func (s *ConnectionService) Respond(ctx context.Context, requestID, actingUserID uint, action string) (*models.ConnectionRequest, error) {
	request, err := s.findRequest(ctx, s.DB, requestID)
	if err != nil {
		return nil, err
	}

	if request.RecipientID != actingUserID {
		return nil, ErrForbidden
	}

	next, err := nextStatus(request.Status, models.RequestAction(action))
	if err != nil {
		return nil, err
	}

	// Actualización condicional: solo gana quien encuentra la solicitud todavía pendiente
	result := s.DB.WithContext(ctx).Model(&models.ConnectionRequest{}).
		Where("id = ? AND status = ?", request.ID, models.ConnectionStatusPending).
		Update("status", next)
	if result.Error != nil {
		return nil, fmt.Errorf("update request status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyDecided
	}
	request.Status = next
	loggerOrDefault(s.Logger).InfoContext(ctx, "connection request decided",
		"request", request.ID, "status", next)

	if next == models.ConnectionStatusAccepted {
		s.Notifications.Notify(ctx, request.SenderID, models.NotificationTypeConnectionAccepted, actingUserID, request.ID)
	}
	return request, nil
}

// nextStatus is the request state machine: pending moves to accepted or rejected,
// every other state is final
func nextStatus(current models.ConnectionStatus, action models.RequestAction) (models.ConnectionStatus, error) {
	var next models.ConnectionStatus
	switch action {
	case models.RequestActionAccept:
		next = models.ConnectionStatusAccepted
	case models.RequestActionReject:
		next = models.ConnectionStatusRejected
	default:
		return "", ErrInvalidAction
	}

	if current != models.ConnectionStatusPending {
		return "", ErrAlreadyDecided
	}
	return next, nil
}

// ListAcceptedConversations returns one descriptor per accepted request involving userID
func (s *ConnectionService) ListAcceptedConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var requests []models.ConnectionRequest
	err := s.DB.WithContext(ctx).Preload("Sender").Preload("Recipient").
		Where("(sender_id = ? OR recipient_id = ?) AND status = ?",
			userID, userID, models.ConnectionStatusAccepted).
		Order("id ASC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	conversations := make([]models.Conversation, 0, len(requests))
	for _, req := range requests {
		partner := req.Sender
		isSender := req.SenderID == userID
		if isSender {
			partner = req.Recipient
		}
		conversations = append(conversations, models.Conversation{
			RequestID:   req.ID,
			Partner:     models.NewUserDto(partner),
			IsSender:    isSender,
			IsCompleted: req.IsCompleted,
		})
	}
	return conversations, nil
}

// HasAcceptedConnection reports whether an accepted request exists between a and b in either direction
func (s *ConnectionService) HasAcceptedConnection(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.ConnectionRequest{}).
		Where("((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)) AND status = ?",
			a, b, b, a, models.ConnectionStatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check connection: %w", err)
	}
	return count > 0, nil
}

// Status returns how userID relates to otherID, plus the request id when otherID is waiting on userID
func (s *ConnectionService) Status(ctx context.Context, userID, otherID uint) (ConnectionState, uint, error) {
	if userID == otherID {
		return "", 0, ErrSelfRequest
	}

	connected, err := s.HasAcceptedConnection(ctx, userID, otherID)
	if err != nil {
		return "", 0, err
	}
	if connected {
		return ConnectionStateConnected, 0, nil
	}

	var pending models.ConnectionRequest
	err = s.DB.WithContext(ctx).
		Where("((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)) AND status = ?",
			userID, otherID, otherID, userID, models.ConnectionStatusPending).
		Order("id ASC").
		First(&pending).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ConnectionStateNotConnected, 0, nil
		}
		return "", 0, fmt.Errorf("check pending request: %w", err)
	}

	if pending.SenderID == userID {
		return ConnectionStatePending, 0, nil
	}
	return ConnectionStateReceived, pending.ID, nil
}

func (s *ConnectionService) findRequest(ctx context.Context, db *gorm.DB, requestID uint) (*models.ConnectionRequest, error) {
	var request models.ConnectionRequest
	if err := db.WithContext(ctx).First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return &request, nil
}
