package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message неизменяемо после создания. Seq выдаёт БД: порядок вставки
// восстанавливается даже при совпадении created_at.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int64     `gorm:"autoIncrement;uniqueIndex"`
	RoomID    uuid.UUID `gorm:"not null;index"`
	SenderID  uuid.UUID `gorm:"not null"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time

	// Связи
	Sender User `gorm:"foreignKey:SenderID"`
	Room   Room `gorm:"foreignKey:RoomID"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
