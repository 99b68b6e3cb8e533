package services

import (
	"testing"

	"github.com/google/uuid"
)

func TestChatRoomTopicRoundtrip(t *testing.T) {
	roomID := uuid.New()

	parsed, ok := ParseChatRoomTopic(ChatRoomTopic(roomID))
	if !ok || parsed != roomID {
		t.Errorf("roundtrip: got %s, %v", parsed, ok)
	}
}

func TestNotificationTopicRoundtrip(t *testing.T) {
	userID := uuid.New()

	parsed, ok := ParseNotificationTopic(NotificationTopic(userID))
	if !ok || parsed != userID {
		t.Errorf("roundtrip: got %s, %v", parsed, ok)
	}
}

func TestParseRejectsForeignDestinations(t *testing.T) {
	destinations := []string{
		"",
		"/sub/chat/room/",
		"/sub/chat/room/not-a-uuid",
		"/sub/notifications/" + uuid.NewString() + "/extra",
		"/pub/chat/message",
		"/sub/presence/global",
	}

	for _, d := range destinations {
		if _, ok := ParseChatRoomTopic(d); ok {
			t.Errorf("ParseChatRoomTopic(%q) accepted", d)
		}
	}

	if _, ok := ParseNotificationTopic("/sub/chat/room/" + uuid.NewString()); ok {
		t.Error("chat topic parsed as notification topic")
	}
}
