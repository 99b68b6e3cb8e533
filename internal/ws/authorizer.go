package ws

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/thereayou/agora/internal/models"
	"github.com/thereayou/agora/internal/services"
)

// ParticipantChecker — проверка членства в комнате по её полному составу.
type ParticipantChecker interface {
	IsParticipant(roomID, userID uuid.UUID) (bool, error)
}

// FrameAuthorizer проверяет каждый subscribe/send уже
// аутентифицированного соединения.
type FrameAuthorizer struct {
	rooms ParticipantChecker
}

func NewFrameAuthorizer(rooms ParticipantChecker) *FrameAuthorizer {
	return &FrameAuthorizer{rooms: rooms}
}

// AuthorizeSubscribe решает, может ли соединение подписаться на destination.
// Топик комнаты — только участникам; личный топик уведомлений — только на
// свой собственный id. Прочие destination пропускаются как есть.
func (a *FrameAuthorizer) AuthorizeSubscribe(identity *models.Identity, destination string) error {
	if identity == nil {
		return ErrNotAuthenticated
	}

	if roomID, ok := services.ParseChatRoomTopic(destination); ok {
		return a.checkParticipant(roomID, identity.UserID)
	}

	if userID, ok := services.ParseNotificationTopic(destination); ok {
		if userID != identity.UserID {
			return services.ErrAccessDenied
		}
		return nil
	}

	return nil
}

// AuthorizeSend валидирует публикацию и достаёт из тела комнату и текст.
// Неразборчивое тело или отсутствующий roomId — отказ, а не пропуск:
// единственный публикуемый destination всегда привязан к комнате.
func (a *FrameAuthorizer) AuthorizeSend(identity *models.Identity, destination string, body []byte) (uuid.UUID, string, error) {
	if identity == nil {
		return uuid.Nil, "", ErrNotAuthenticated
	}

	if destination != services.ChatPublishDestination {
		return uuid.Nil, "", ErrUnknownDestination
	}

	var payload SendBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return uuid.Nil, "", services.ErrInvalidArgument
	}

	roomID, err := uuid.Parse(payload.RoomID)
	if err != nil {
		return uuid.Nil, "", services.ErrInvalidArgument
	}
	if payload.Message == "" {
		return uuid.Nil, "", services.ErrInvalidArgument
	}

	if err := a.checkParticipant(roomID, identity.UserID); err != nil {
		return uuid.Nil, "", err
	}

	return roomID, payload.Message, nil
}

func (a *FrameAuthorizer) checkParticipant(roomID, userID uuid.UUID) error {
	ok, err := a.rooms.IsParticipant(roomID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return services.ErrAccessDenied
	}
	return nil
}
