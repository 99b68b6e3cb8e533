package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Роли пользователя
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Статусы аккаунта. Вместо удаления строки переводим аккаунт в inactive.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null;default:'USER'"`
	Status       string    `gorm:"not null;default:'active';check:status IN ('active','inactive')"`
	Provider     string    // google, kakao, naver; пусто для обычной регистрации
	ProviderID   string
	AvatarURL    string
	LastSeenAt   time.Time
	CreatedAt    time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
