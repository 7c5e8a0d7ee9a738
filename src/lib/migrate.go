package lib

import (
	"github.com/theleywin/Backend-Skill-Barter/src/models"
	"gorm.io/gorm"
)

// AutoMigrate runs all database migrations
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Rating{},
		&models.ConnectionRequest{},
		&models.Message{},
		&models.Notification{},
		&models.CreditTransfer{},
	)
}
