package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/thereayou/agora/internal/database"
	"github.com/thereayou/agora/internal/models"
)

// NotificationEvent уходит в личный топик получателя.
type NotificationEvent struct {
	ID        uuid.UUID               `json:"id"`
	Type      models.NotificationType `json:"type"`
	Message   string                  `json:"message"`
	Link      string                  `json:"link,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

// NotificationService вызывается доменными сервисами (комментарий, лайк,
// подписка, жалоба, посещаемость) как побочный эффект их операций.
type NotificationService struct {
	db     *database.Database
	broker Broadcaster
	log    zerolog.Logger
}

func NewNotificationService(db *database.Database, broker Broadcaster, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		db:     db,
		broker: broker,
		log:    log.With().Str("component", "notifications").Logger(),
	}
}

// Notify сначала сохраняет уведомление, потом пытается доставить его
// в личный топик. Push best-effort: офлайн-получатель прочитает
// сохранённую строку через список уведомлений.
func (s *NotificationService) Notify(receiverID uuid.UUID, typ models.NotificationType, message, link string) (*models.Notification, error) {
	n := &models.Notification{
		ReceiverID: receiverID,
		Type:       typ,
		Message:    message,
		Link:       link,
		CreatedAt:  time.Now(),
	}

	if err := s.db.SaveNotification(n); err != nil {
		return nil, err
	}

	event := NotificationEvent{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		Link:      n.Link,
		CreatedAt: n.CreatedAt,
	}

	if payload, err := json.Marshal(event); err == nil {
		s.broker.Publish(NotificationTopic(receiverID), payload)
	} else {
		s.log.Error().Err(err).Str("receiver", receiverID.String()).Msg("marshal notification event")
	}

	return n, nil
}

// List — страница уведомлений вызывающего, новые первыми.
func (s *NotificationService) List(identity *models.Identity, page, size int) ([]models.Notification, error) {
	if identity == nil {
		return nil, ErrAccessDenied
	}
	if page < 0 || size <= 0 || size > 100 {
		return nil, ErrInvalidArgument
	}
	return s.db.GetUserNotifications(identity.UserID, page, size)
}

func (s *NotificationService) CountUnread(identity *models.Identity) (int64, error) {
	if identity == nil {
		return 0, ErrAccessDenied
	}
	return s.db.CountUnreadNotifications(identity.UserID)
}

// MarkRead помечает одно уведомление. Чужое уведомление не трогаем.
func (s *NotificationService) MarkRead(identity *models.Identity, id uuid.UUID) error {
	if identity == nil {
		return ErrAccessDenied
	}

	n, err := s.db.GetNotification(id)
	if err != nil {
		return err
	}

	if n.ReceiverID != identity.UserID {
		return ErrAccessDenied
	}

	return s.db.MarkNotificationRead(id)
}

// MarkAllRead помечает все непрочитанные уведомления вызывающего.
func (s *NotificationService) MarkAllRead(identity *models.Identity) error {
	if identity == nil {
		return ErrAccessDenied
	}
	return s.db.MarkAllNotificationsRead(identity.UserID)
}
