package database

import (
	"github.com/thereayou/agora/internal/models"
)

func (d *Database) SaveMessage(message *models.Message) error {
	return d.db.Create(message).Error
}

// GetRoomMessages возвращает историю комнаты от старых к новым.
// Вторичная сортировка по seq держит порядок вставки при равных created_at.
func (d *Database) GetRoomMessages(roomID string) ([]models.Message, error) {
	var messages []models.Message

	err := d.db.
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Order("seq ASC").
		Preload("Sender").
		Find(&messages).Error

	if err != nil {
		return nil, err
	}

	return messages, nil
}
