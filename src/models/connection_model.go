package models

import (
	"time"

	"gorm.io/gorm"
)

// ConnectionRequest is a directed proposal from Sender to Recipient that gates chat and sessions
type ConnectionRequest struct {
	gorm.Model
	SenderID      uint             `json:"sender" gorm:"index"`
	RecipientID   uint             `json:"recipient" gorm:"index"`
	Status        ConnectionStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	Note          string           `json:"note,omitempty"`
	ScheduledTime *time.Time       `json:"scheduledTime,omitempty"`
	IsCompleted   bool             `json:"isCompleted"`
	Sender        User             `json:"-" gorm:"foreignKey:SenderID"`
	Recipient     User             `json:"-" gorm:"foreignKey:RecipientID"`
}

// PartnerOf returns the endpoint that is not userID
func (r *ConnectionRequest) PartnerOf(userID uint) uint {
	if r.SenderID == userID {
		return r.RecipientID
	}
	return r.SenderID
}

// Involves reports whether userID is the sender or the recipient
func (r *ConnectionRequest) Involves(userID uint) bool {
	return r.SenderID == userID || r.RecipientID == userID
}

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

type RequestAction string

const (
	RequestActionAccept RequestAction = "accept"
	RequestActionReject RequestAction = "reject"
)

// ConnectionRequestDto is a pending request joined with its sender's public profile
type ConnectionRequestDto struct {
	ID            uint             `json:"_id"`
	Sender        UserDto          `json:"sender"`
	Recipient     uint             `json:"recipient"`
	Status        ConnectionStatus `json:"status"`
	Note          string           `json:"note,omitempty"`
	ScheduledTime *time.Time       `json:"scheduledTime,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// Conversation describes an accepted request from the point of view of one participant
type Conversation struct {
	RequestID   uint    `json:"requestId"`
	Partner     UserDto `json:"partner"`
	IsSender    bool    `json:"isSender"`
	IsCompleted bool    `json:"isCompleted"`
}
