package database

import (
	"time"

	"github.com/thereayou/agora/internal/models"
)

func (d *Database) SaveUser(user *models.User) error {
	return d.db.Create(user).Error
}

func (d *Database) UpdateUser(user *models.User) error {
	return d.db.Save(user).Error
}

func (d *Database) GetUser(id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByProvider(provider, providerID string) (*models.User, error) {
	user := models.User{}
	err := d.db.Where("provider = ? AND provider_id = ?", provider, providerID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) SearchUsersByUsername(query string) ([]models.User, error) {
	var users []models.User
	err := d.db.
		Where("username ILIKE ? AND status = ?", "%"+query+"%", models.StatusActive).
		Limit(20).
		Find(&users).Error
	return users, err
}

func (d *Database) UpdateLastSeen(id string) error {
	return d.db.Model(&models.User{}).Where("id = ?", id).Update("last_seen_at", time.Now()).Error
}

// SetUserStatus переводит аккаунт между active и inactive.
func (d *Database) SetUserStatus(id string, status string) error {
	return d.db.Model(&models.User{}).Where("id = ?", id).Update("status", status).Error
}
