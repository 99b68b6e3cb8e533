package services

import "errors"

// Таксономия ошибок gateway-слоя. Сопоставление через errors.Is:
// обработчики (REST и WS) переводят их в статусы/фреймы сами.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInactiveUser    = errors.New("user is inactive")
	ErrAccessDenied    = errors.New("access denied")
	ErrInvalidArgument = errors.New("invalid argument")
)
