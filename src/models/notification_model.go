package models

import (
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model
	RecipientID      uint             `json:"recipient" gorm:"index"`
	Type             NotificationType `json:"type" gorm:"type:varchar(32)"`
	RelatedUserID    uint             `json:"relatedUser,omitempty"`
	RelatedRequestID uint             `json:"relatedRequest,omitempty"`
	Read             bool             `json:"read"`
}

type NotificationType string

const (
	NotificationTypeConnectionRequested NotificationType = "connectionRequested"
	NotificationTypeConnectionAccepted  NotificationType = "connectionAccepted"
	NotificationTypeSessionCompleted    NotificationType = "sessionCompleted"
)
