package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/theleywin/Backend-Skill-Barter/src/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sessionPrice is what one tutoring session costs the payer
const sessionPrice = 1

// SettlementService moves credits between the two parties of an accepted request.
type SettlementService struct {
	DB            *gorm.DB
	Connections   *ConnectionService
	Notifications *NotificationService
	Logger        *slog.Logger
}

// SettlementResult is what CompleteSession reports back to the payer
type SettlementResult struct {
	PayerCredits int                   `json:"credits"`
	Transfer     models.CreditTransfer `json:"transfer"`
}

// CreditsOverview is a user's balance and every transfer they took part in
type CreditsOverview struct {
	Credits   int                     `json:"credits"`
	Transfers []models.CreditTransfer `json:"transfers"`
}

// CompleteSession settles one session on requestID. The acting user pays one
// credit to the other endpoint of the request and may rate them.
//
// Debit, credit, rating and ledger row commit together or not at all. Both
// accounts are locked in ascending id order before either is touched, and the
// debit is conditional on credits >= 1, so concurrent settlements against the
// same payer cannot push the balance below zero.
func (s *SettlementService) CompleteSession(ctx context.Context, requestID, actingUserID uint, rating *int) (*SettlementResult, error) {
	var result SettlementResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, err := s.Connections.findRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}

		if !request.Involves(actingUserID) {
			return ErrForbidden
		}
		if rating != nil && (*rating < 1 || *rating > 5) {
			return ErrInvalidRating
		}
		if request.Status != models.ConnectionStatusAccepted {
			return ErrNotAccepted
		}

		payerID := actingUserID
		payeeID := request.PartnerOf(actingUserID)

		if err := lockAccounts(tx, payerID, payeeID); err != nil {
			return err
		}

		// Débito condicional del pagador
		debit := tx.Model(&models.User{}).
			Where("id = ? AND credits >= ?", payerID, sessionPrice).
			UpdateColumn("credits", gorm.Expr("credits - ?", sessionPrice))
		if debit.Error != nil {
			return fmt.Errorf("debit payer: %w", debit.Error)
		}
		if debit.RowsAffected == 0 {
			return ErrInsufficientCredits
		}

		credit := tx.Model(&models.User{}).
			Where("id = ?", payeeID).
			UpdateColumn("credits", gorm.Expr("credits + ?", sessionPrice))
		if credit.Error != nil {
			return fmt.Errorf("credit payee: %w", credit.Error)
		}
		if credit.RowsAffected == 0 {
			return ErrNotFound
		}

		if rating != nil {
			entry := models.Rating{
				UserID:     payeeID,
				ReviewerID: payerID,
				RequestID:  request.ID,
				Star:       *rating,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("append rating: %w", err)
			}
		}

		result.Transfer = models.CreditTransfer{
			PayerID:   payerID,
			PayeeID:   payeeID,
			RequestID: request.ID,
			Amount:    sessionPrice,
			Rating:    rating,
		}
		if err := tx.Create(&result.Transfer).Error; err != nil {
			return fmt.Errorf("record transfer: %w", err)
		}

		var payer models.User
		if err := tx.Select("credits").First(&payer, payerID).Error; err != nil {
			return fmt.Errorf("reload payer: %w", err)
		}
		result.PayerCredits = payer.Credits
		return nil
	})
	if err != nil {
		return nil, err
	}

	loggerOrDefault(s.Logger).InfoContext(ctx, "session settled",
		"request", requestID, "payer", result.Transfer.PayerID, "payee", result.Transfer.PayeeID)
	s.Notifications.Notify(ctx, result.Transfer.PayeeID, models.NotificationTypeSessionCompleted, result.Transfer.PayerID, requestID)
	return &result, nil
}

// lockAccounts takes row locks on both users, lowest id first, so settlements
// between the same pair in opposite directions queue instead of deadlocking.
// SQLite ignores the locking clause; its transactions already hold the write lock.
func lockAccounts(tx *gorm.DB, a, b uint) error {
	ids := []uint{a, b}
	if b < a {
		ids = []uint{b, a}
	}

	var locked []models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id IN ?", ids).
		Order("id").
		Find(&locked).Error
	if err != nil {
		return fmt.Errorf("lock accounts: %w", err)
	}
	if len(locked) != len(ids) {
		return ErrNotFound
	}
	return nil
}

// Overview returns the user's balance and transfer history, newest first
func (s *SettlementService) Overview(ctx context.Context, userID uint) (*CreditsOverview, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Select("id", "credits").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	transfers := []models.CreditTransfer{}
	err := s.DB.WithContext(ctx).
		Where("payer_id = ? OR payee_id = ?", userID, userID).
		Order("id DESC").
		Find(&transfers).Error
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}

	return &CreditsOverview{Credits: user.Credits, Transfers: transfers}, nil
}
