package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/thereayou/agora/internal/models"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

func (d *Database) SaveNotification(n *models.Notification) error {
	return d.db.Create(n).Error
}

func (d *Database) GetNotification(id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	if err := d.db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

// GetUserNotifications — страница уведомлений получателя, новые первыми.
func (d *Database) GetUserNotifications(receiverID uuid.UUID, page, size int) ([]models.Notification, error) {
	var notifications []models.Notification

	err := d.db.
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&notifications).Error

	return notifications, err
}

func (d *Database) CountUnreadNotifications(receiverID uuid.UUID) (int64, error) {
	var count int64
	err := d.db.Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&count).Error
	return count, err
}

func (d *Database) MarkNotificationRead(id uuid.UUID) error {
	return d.db.Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}

// MarkAllNotificationsRead обновляет только непрочитанные строки получателя.
func (d *Database) MarkAllNotificationsRead(receiverID uuid.UUID) error {
	return d.db.Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Update("is_read", true).Error
}
