package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/thereayou/agora/internal/database"
	"github.com/thereayou/agora/internal/models"
)

func newNotificationEnv(t *testing.T) (*NotificationService, *database.Database, *captureBroker) {
	t.Helper()
	db := newTestDB(t)
	broker := &captureBroker{}
	return NewNotificationService(db, broker, testLogger()), db, broker
}

func TestNotifyPersistsThenPushes(t *testing.T) {
	svc, db, broker := newNotificationEnv(t)
	alice := mustCreateUser(t, db, "alice", models.StatusActive)

	n, err := svc.Notify(alice.ID, models.NotifyLike, "bob liked your post", "/posts/42")
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	if n.IsRead {
		t.Error("new notification must be unread")
	}

	// Строка сохранена и видна в списке независимо от подписчиков
	list, err := svc.List(identityOf(alice), 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != n.ID {
		t.Errorf("list = %+v, want the persisted notification", list)
	}

	if broker.count() != 1 {
		t.Fatalf("pushes = %d, want 1", broker.count())
	}
	if broker.topics[0] != NotificationTopic(alice.ID) {
		t.Errorf("topic = %q, want %q", broker.topics[0], NotificationTopic(alice.ID))
	}

	var event NotificationEvent
	if err := json.Unmarshal(broker.payloads[0], &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.ID != n.ID || event.Type != models.NotifyLike || event.Link != "/posts/42" {
		t.Errorf("event = %+v", event)
	}
}

func TestMarkReadOwnership(t *testing.T) {
	svc, db, _ := newNotificationEnv(t)
	alice := mustCreateUser(t, db, "alice", models.StatusActive)
	bob := mustCreateUser(t, db, "bob", models.StatusActive)

	n, err := svc.Notify(alice.ID, models.NotifyFollow, "bob followed you", "")
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	// Чужое уведомление: отказ, флаг не тронут
	if err := svc.MarkRead(identityOf(bob), n.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("foreign mark read: err = %v, want ErrAccessDenied", err)
	}
	got, _ := db.GetNotification(n.ID)
	if got.IsRead {
		t.Error("read flag must stay false after denied mark")
	}

	if err := svc.MarkRead(identityOf(alice), n.ID); err != nil {
		t.Fatalf("own mark read: %v", err)
	}
	got, _ = db.GetNotification(n.ID)
	if !got.IsRead {
		t.Error("read flag must be set for the owner")
	}
}

func TestMarkReadMissing(t *testing.T) {
	svc, db, _ := newNotificationEnv(t)
	alice := mustCreateUser(t, db, "alice", models.StatusActive)

	err := svc.MarkRead(identityOf(alice), uuid.New())
	if !errors.Is(err, database.ErrNotificationNotFound) {
		t.Errorf("err = %v, want ErrNotificationNotFound", err)
	}
}

func TestMarkAllReadScoped(t *testing.T) {
	svc, db, _ := newNotificationEnv(t)
	alice := mustCreateUser(t, db, "alice", models.StatusActive)
	bob := mustCreateUser(t, db, "bob", models.StatusActive)

	svc.Notify(alice.ID, models.NotifyComment, "c1", "")
	svc.Notify(alice.ID, models.NotifyComment, "c2", "")
	svc.Notify(bob.ID, models.NotifyComment, "c3", "")

	if err := svc.MarkAllRead(identityOf(alice)); err != nil {
		t.Fatalf("mark all: %v", err)
	}

	aliceUnread, _ := svc.CountUnread(identityOf(alice))
	if aliceUnread != 0 {
		t.Errorf("alice unread = %d, want 0", aliceUnread)
	}
	bobUnread, _ := svc.CountUnread(identityOf(bob))
	if bobUnread != 1 {
		t.Errorf("bob unread = %d, want 1", bobUnread)
	}
}

func TestListValidation(t *testing.T) {
	svc, db, _ := newNotificationEnv(t)
	alice := mustCreateUser(t, db, "alice", models.StatusActive)

	if _, err := svc.List(nil, 0, 10); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("nil identity: err = %v, want ErrAccessDenied", err)
	}
	if _, err := svc.List(identityOf(alice), -1, 10); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative page: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := svc.List(identityOf(alice), 0, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero size: err = %v, want ErrInvalidArgument", err)
	}
}
