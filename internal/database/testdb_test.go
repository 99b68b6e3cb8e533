package database

import (
	"testing"
	"time"

	"github.com/thereayou/agora/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB открывает чистую in-memory sqlite базу со схемой проекта.
func newTestDB(t *testing.T) *Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// In-memory база живёт в одном соединении
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	d := NewDatabase(db)
	if err := d.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

func mustCreateUser(t *testing.T, d *Database, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
		Status:       models.StatusActive,
		CreatedAt:    time.Now(),
	}
	if err := d.SaveUser(user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}
