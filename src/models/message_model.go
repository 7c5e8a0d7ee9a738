package models

import "time"

// Message is immutable once stored. The ID is a UUID so the same value works as
// a SQL primary key and a Mongo _id.
type Message struct {
	ID          string    `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	SenderID    uint      `json:"sender" bson:"sender" gorm:"index"`
	RecipientID uint      `json:"recipient" bson:"recipient" gorm:"index"`
	Content     string    `json:"content" bson:"content" gorm:"type:text;not null"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp" gorm:"index"`
}
