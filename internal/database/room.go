package database

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/agora/internal/models"
	"gorm.io/gorm"
)

var ErrRoomNotFound = errors.New("room not found")

func (d *Database) GetRoom(id string) (*models.Room, error) {
	var room models.Room
	if err := d.db.Preload("Members").First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// IsParticipant перечитывает состав комнаты при каждой проверке.
// Кэша нет: direct-комнаты маленькие, два участника.
func (d *Database) IsParticipant(roomID, userID uuid.UUID) (bool, error) {
	room, err := d.GetRoom(roomID.String())
	if err != nil {
		return false, err
	}
	return room.HasMember(userID), nil
}

func (d *Database) GetUserRooms(userID string) ([]models.Room, error) {
	var rooms []models.Room
	err := d.db.
		Joins("JOIN room_members rm ON rm.room_id = rooms.id").
		Where("rm.user_id = ?", userID).
		Preload("Members").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetOrCreateDirectRoom возвращает единственную direct-комнату пары
// и флаг, что комната создана этим вызовом. Порядок аргументов не
// важен. Гонку lookup-then-create двух первых сообщений разрешает
// уникальный индекс по pair_key: словив ErrDuplicatedKey,
// перечитываем уже созданную комнату.
func (d *Database) GetOrCreateDirectRoom(user1ID, user2ID uuid.UUID) (*models.Room, bool, error) {
	pairKey := models.DirectPairKey(user1ID, user2ID)

	room, err := d.findDirectRoom(pairKey)
	if err == nil {
		return room, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	created := &models.Room{
		Type:      "direct",
		PairKey:   pairKey,
		CreatedBy: user1ID,
		CreatedAt: time.Now(),
	}

	err = d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(created).Error; err != nil {
			return err
		}

		var members []models.User
		if err := tx.Find(&members, "id IN ?", []uuid.UUID{user1ID, user2ID}).Error; err != nil {
			return err
		}
		return tx.Model(created).Association("Members").Append(&members)
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Комнату успел создать второй участник
		room, err := d.findDirectRoom(pairKey)
		return room, false, err
	}
	if err != nil {
		return nil, false, err
	}

	if err := d.db.Model(created).Association("Members").Find(&created.Members); err != nil {
		return nil, false, err
	}

	return created, true, nil
}

func (d *Database) findDirectRoom(pairKey string) (*models.Room, error) {
	var room models.Room
	err := d.db.Preload("Members").Where("pair_key = ?", pairKey).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}
