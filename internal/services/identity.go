package services

import (
	"errors"

	"github.com/thereayou/agora/internal/database"
	"github.com/thereayou/agora/internal/models"
	"gorm.io/gorm"
)

// IdentityResolver превращает subject проверенного токена в личность
// живого пользователя. Валидный токен деактивированного аккаунта
// отклоняется здесь.
type IdentityResolver struct {
	db *database.Database
}

func NewIdentityResolver(db *database.Database) *IdentityResolver {
	return &IdentityResolver{db: db}
}

func (r *IdentityResolver) Resolve(subject string) (*models.Identity, error) {
	user, err := r.db.FindUserByEmail(subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsActive() {
		return nil, ErrInactiveUser
	}

	return &models.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}
