package models

import "github.com/google/uuid"

// Identity — разрешённая личность соединения или запроса.
// Живёт только в памяти: привязывается после аутентификации,
// передаётся явно и исчезает при разрыве соединения.
type Identity struct {
	UserID   uuid.UUID
	Email    string
	Username string
	Role     string
}
