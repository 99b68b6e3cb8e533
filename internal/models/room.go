package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room — личная (direct) комната между двумя пользователями.
// PairKey — каноничный ключ неупорядоченной пары, уникален:
// повторный createRoom и гонка при первом контакте дают одну комнату.
type Room struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type      string    `gorm:"not null;default:'direct';check:type IN ('direct')"`
	PairKey   string    `gorm:"uniqueIndex;not null"`
	CreatedBy uuid.UUID
	CreatedAt time.Time

	// Связи
	Members  []User    `gorm:"many2many:room_members"`
	Messages []Message `gorm:"foreignKey:RoomID"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// HasMember проверяет членство по id участника.
func (r *Room) HasMember(userID uuid.UUID) bool {
	for _, m := range r.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// DirectPairKey строит ключ пары, не зависящий от порядка аргументов.
func DirectPairKey(a, b uuid.UUID) string {
	ids := []string{a.String(), b.String()}
	if ids[0] > ids[1] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	return strings.Join(ids, ":")
}
