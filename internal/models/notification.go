package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotifyComment    NotificationType = "COMMENT"
	NotifyLike       NotificationType = "LIKE"
	NotifyFollow     NotificationType = "FOLLOW"
	NotifyReport     NotificationType = "REPORT"
	NotifyMention    NotificationType = "MENTION"
	NotifyAttendance NotificationType = "ATTENDANCE"
	NotifySystem     NotificationType = "SYSTEM"
)

// Notification мутирует только флаг IsRead.
type Notification struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ReceiverID uuid.UUID        `gorm:"not null;index"`
	Type       NotificationType `gorm:"size:30;not null"`
	Message    string           `gorm:"not null"`
	Link       string
	IsRead     bool `gorm:"not null;default:false;index"`
	CreatedAt  time.Time
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
