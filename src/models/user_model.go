package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username  string    `json:"username"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Password  string    `json:"-"`
	Bio       string    `json:"bio"`
	Skills    []Skill   `json:"skills" gorm:"serializer:json"`
	Embedding []float64 `json:"-" gorm:"serializer:json"` // Lo mantiene el servicio de matching, no este backend
	Credits   int       `json:"credits" gorm:"not null"`
	Ratings   []Rating  `json:"ratings" gorm:"foreignKey:UserID"`
}

// MarshalJSON exposes the primary key as _id, the shape the web client reads
func (u User) MarshalJSON() ([]byte, error) {
	type Alias User
	return json.Marshal(&struct {
		ID uint `json:"_id"`
		*Alias
	}{
		ID:    u.ID,
		Alias: (*Alias)(&u),
	})
}

// AverageRating returns the mean star value, or 0 when the user has no ratings
func (u *User) AverageRating() float64 {
	if len(u.Ratings) == 0 {
		return 0
	}
	total := 0
	for _, r := range u.Ratings {
		total += r.Star
	}
	return float64(total) / float64(len(u.Ratings))
}

// GetConnections obtiene los IDs de todos los usuarios con una solicitud aceptada
func (u *User) GetConnections(db *gorm.DB) ([]uint, error) {
	var requests []ConnectionRequest
	err := db.Where("(sender_id = ? OR recipient_id = ?) AND status = ?",
		u.ID, u.ID, ConnectionStatusAccepted).
		Order("id ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	connectionIDs := make([]uint, 0, len(requests))
	for _, req := range requests {
		connectionIDs = append(connectionIDs, req.PartnerOf(u.ID))
	}
	return connectionIDs, nil
}

type SkillKind string

const (
	SkillKindTeach SkillKind = "teach"
	SkillKindLearn SkillKind = "learn"
)

type Skill struct {
	Name  string    `json:"name"`
	Kind  SkillKind `json:"type"`
	Level int       `json:"level"`
}

// Rating is one entry of a user's append-only review log
type Rating struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	UserID     uint      `json:"-" gorm:"index"`
	ReviewerID uint      `json:"reviewer"`
	RequestID  uint      `json:"requestId"`
	Star       int       `json:"star"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserDto is the public part of a profile used in joins (requests, conversations)
type UserDto struct {
	ID       uint   `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func NewUserDto(u User) UserDto {
	return UserDto{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
