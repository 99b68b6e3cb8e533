package services

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thereayou/agora/internal/database"
	"github.com/thereayou/agora/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// captureBroker запоминает публикации вместо рассылки.
type captureBroker struct {
	mu       sync.Mutex
	topics   []string
	payloads [][]byte
}

func (b *captureBroker) Publish(topic string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics = append(b.topics, topic)
	b.payloads = append(b.payloads, payload)
}

func (b *captureBroker) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics)
}

func newTestDB(t *testing.T) *database.Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	d := database.NewDatabase(db)
	if err := d.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

func mustCreateUser(t *testing.T, d *database.Database, username, status string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
		Status:       status,
		CreatedAt:    time.Now(),
	}
	if err := d.SaveUser(user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func identityOf(user *models.User) *models.Identity {
	return &models.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
