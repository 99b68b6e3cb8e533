package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/thereayou/agora/internal/database"
	"github.com/thereayou/agora/internal/models"
)

// Broadcaster — порт рассылки в топик. Доставка best-effort:
// подписчиков может не быть, повторов нет.
type Broadcaster interface {
	Publish(topic string, payload []byte)
}

// MessageEvent — то, что уходит подписчикам комнаты после сохранения.
type MessageEvent struct {
	ID         uuid.UUID `json:"id"`
	RoomID     uuid.UUID `json:"room_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notifier — побочная доставка уведомлений о доменных событиях.
type Notifier interface {
	Notify(receiverID uuid.UUID, typ models.NotificationType, message, link string) (*models.Notification, error)
}

type ChatService struct {
	db       *database.Database
	broker   Broadcaster
	notifier Notifier
	log      zerolog.Logger
}

func NewChatService(db *database.Database, broker Broadcaster, notifier Notifier, log zerolog.Logger) *ChatService {
	return &ChatService{
		db:       db,
		broker:   broker,
		notifier: notifier,
		log:      log.With().Str("component", "chat").Logger(),
	}
}

// CreateDirectRoom находит или создаёт комнату пары. Идемпотентна:
// повторный вызов в любом порядке участников даёт ту же комнату.
// Собеседник узнаёт о новой комнате уведомлением.
func (s *ChatService) CreateDirectRoom(identity *models.Identity, targetID uuid.UUID) (*models.Room, error) {
	if identity == nil {
		return nil, ErrAccessDenied
	}
	if identity.UserID == targetID {
		return nil, ErrInvalidArgument
	}

	target, err := s.db.GetUser(targetID.String())
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !target.IsActive() {
		return nil, ErrInactiveUser
	}

	room, created, err := s.db.GetOrCreateDirectRoom(identity.UserID, targetID)
	if err != nil {
		return nil, err
	}

	if created && s.notifier != nil {
		link := "/chat/rooms/" + room.ID.String()
		if _, err := s.notifier.Notify(targetID, models.NotifySystem, identity.Username+" started a chat with you", link); err != nil {
			s.log.Warn().Err(err).Str("room", room.ID.String()).Msg("notify new room")
		}
	}

	return room, nil
}

// SendMessage сохраняет сообщение и рассылает его в топик комнаты.
// Отправитель берётся из личности соединения, а не из тела запроса.
func (s *ChatService) SendMessage(identity *models.Identity, roomID uuid.UUID, text string) (*models.Message, error) {
	if identity == nil {
		return nil, ErrAccessDenied
	}
	if text == "" {
		return nil, ErrInvalidArgument
	}

	ok, err := s.db.IsParticipant(roomID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccessDenied
	}

	message := &models.Message{
		RoomID:    roomID,
		SenderID:  identity.UserID,
		Content:   text,
		CreatedAt: time.Now(),
	}

	if err := s.db.SaveMessage(message); err != nil {
		return nil, err
	}

	event := MessageEvent{
		ID:         message.ID,
		RoomID:     message.RoomID,
		SenderID:   identity.UserID,
		SenderName: identity.Username,
		Content:    message.Content,
		CreatedAt:  message.CreatedAt,
	}

	if payload, err := json.Marshal(event); err == nil {
		s.broker.Publish(ChatRoomTopic(roomID), payload)
	} else {
		s.log.Error().Err(err).Str("room", roomID.String()).Msg("marshal message event")
	}

	go s.db.UpdateLastSeen(identity.UserID.String())

	return message, nil
}

// GetMessages возвращает историю комнаты участнику, от старых к новым.
func (s *ChatService) GetMessages(identity *models.Identity, roomID uuid.UUID) ([]models.Message, error) {
	if identity == nil {
		return nil, ErrAccessDenied
	}

	ok, err := s.db.IsParticipant(roomID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccessDenied
	}

	return s.db.GetRoomMessages(roomID.String())
}

// IsParticipant отдаёт проверку членства слою авторизации фреймов.
func (s *ChatService) IsParticipant(roomID, userID uuid.UUID) (bool, error) {
	return s.db.IsParticipant(roomID, userID)
}

// GetUserRooms — комнаты пользователя для REST-списка.
func (s *ChatService) GetUserRooms(identity *models.Identity) ([]models.Room, error) {
	if identity == nil {
		return nil, ErrAccessDenied
	}
	return s.db.GetUserRooms(identity.UserID.String())
}
