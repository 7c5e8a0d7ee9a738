package models

import (
	"time"
)

// CreditTransfer records one settled session. Rows are only ever inserted.
type CreditTransfer struct {
	ID        uint      `json:"_id" gorm:"primaryKey"`
	PayerID   uint      `json:"payer" gorm:"index"`
	PayeeID   uint      `json:"payee" gorm:"index"`
	RequestID uint      `json:"requestId" gorm:"index"`
	Amount    int       `json:"amount"`
	Rating    *int      `json:"rating,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
