package services

import (
	"strings"

	"github.com/google/uuid"
)

// Адресация каналов. /sub/... — подписки клиентов,
// /pub/... — единственная точка публикации от клиента.
const (
	ChatRoomTopicPrefix     = "/sub/chat/room/"
	NotificationTopicPrefix = "/sub/notifications/"
	ChatPublishDestination  = "/pub/chat/message"
)

func ChatRoomTopic(roomID uuid.UUID) string {
	return ChatRoomTopicPrefix + roomID.String()
}

func NotificationTopic(userID uuid.UUID) string {
	return NotificationTopicPrefix + userID.String()
}

// ParseChatRoomTopic извлекает id комнаты из destination подписки.
func ParseChatRoomTopic(destination string) (uuid.UUID, bool) {
	return parseTopicID(destination, ChatRoomTopicPrefix)
}

// ParseNotificationTopic извлекает id получателя из личного топика.
func ParseNotificationTopic(destination string) (uuid.UUID, bool) {
	return parseTopicID(destination, NotificationTopicPrefix)
}

func parseTopicID(destination, prefix string) (uuid.UUID, bool) {
	if !strings.HasPrefix(destination, prefix) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimPrefix(destination, prefix))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
