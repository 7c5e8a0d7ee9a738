package testfixtures

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/theleywin/Backend-Skill-Barter/src/lib"
	"github.com/theleywin/Backend-Skill-Barter/src/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewDB opens a migrated SQLite database in a temporary directory. The pool is
// limited to one connection so tests see writes in order; the handle is closed
// when the test ends.
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	return openDB(tb, 1)
}

// NewPooledDB is NewDB without the connection cap, for tests where several
// transactions must be in flight at once.
func NewPooledDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	return openDB(tb, 0)
}

func openDB(tb testing.TB, maxOpen int) *gorm.DB {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "skillbarter.db")
	db, err := gorm.Open(sqlite.Open(lib.SQLiteDSN(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := lib.AutoMigrate(db); err != nil {
		tb.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given credit balance. The email is derived
// from the username.
func CreateUser(tb testing.TB, db *gorm.DB, username string, credits int) models.User {
	tb.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-hash",
		Credits:  credits,
	}
	if err := db.Create(&user).Error; err != nil {
		tb.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// Credits reads a user's current balance straight from the table.
func Credits(tb testing.TB, db *gorm.DB, userID uint) int {
	tb.Helper()

	var user models.User
	if err := db.Select("credits").First(&user, userID).Error; err != nil {
		tb.Fatalf("failed to read credits for %d: %v", userID, err)
	}
	return user.Credits
}

// CreateRequest inserts a connection request in the given status without going
// through the service.
func CreateRequest(tb testing.TB, db *gorm.DB, senderID, recipientID uint, status models.ConnectionStatus) models.ConnectionRequest {
	tb.Helper()

	request := models.ConnectionRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      status,
	}
	if err := db.Create(&request).Error; err != nil {
		tb.Fatalf("failed to create request %d->%d: %v", senderID, recipientID, err)
	}
	return request
}
