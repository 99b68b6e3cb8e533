package database

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/agora/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGetOrCreateDirectRoomIdempotent(t *testing.T) {
	d := newTestDB(t)
	alice := mustCreateUser(t, d, "alice")
	bob := mustCreateUser(t, d, "bob")

	first, created, err := d.GetOrCreateDirectRoom(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if !created {
		t.Error("first call must report creation")
	}

	if len(first.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(first.Members))
	}
	if !first.HasMember(alice.ID) || !first.HasMember(bob.ID) {
		t.Error("room must contain both participants")
	}

	// Повторный вызов в обратном порядке — та же комната
	second, created, err := d.GetOrCreateDirectRoom(bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if created {
		t.Error("second call must not report creation")
	}
	if second.ID != first.ID {
		t.Errorf("room id %s != %s for the same pair", second.ID, first.ID)
	}
}

func TestGetOrCreateDirectRoomDistinctPairs(t *testing.T) {
	d := newTestDB(t)
	alice := mustCreateUser(t, d, "alice")
	bob := mustCreateUser(t, d, "bob")
	carol := mustCreateUser(t, d, "carol")

	ab, _, err := d.GetOrCreateDirectRoom(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create ab: %v", err)
	}
	ac, _, err := d.GetOrCreateDirectRoom(alice.ID, carol.ID)
	if err != nil {
		t.Fatalf("create ac: %v", err)
	}

	if ab.ID == ac.ID {
		t.Error("different pairs must get different rooms")
	}
}

// Гонка первого контакта: между lookup и create соперник успевает
// закоммитить ту же пару. Проигравшая сторона ловит ErrDuplicatedKey
// и перечитывает чужую комнату вместо ошибки.
func TestGetOrCreateDirectRoomDuplicateKeyRace(t *testing.T) {
	// Именованная in-memory база с shared cache видна обоим соединениям
	dsn := "file:roomrace?mode=memory&cache=shared"
	open := func() *gorm.DB {
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			t.Fatalf("sql.DB: %v", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return db
	}

	conn := open()
	rival := open()

	d := NewDatabase(conn)
	if err := d.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	alice := mustCreateUser(t, d, "alice")
	bob := mustCreateUser(t, d, "bob")
	pairKey := models.DirectPairKey(alice.ID, bob.ID)

	// Соперник вставляет ту же пару ровно перед нашим INSERT
	var rivalRoom models.Room
	injected := false
	err := conn.Callback().Create().Before("gorm:create").Register("competing_pair_insert", func(tx *gorm.DB) {
		room, ok := tx.Statement.Dest.(*models.Room)
		if !ok || room.PairKey != pairKey || injected {
			return
		}
		injected = true

		rivalRoom = models.Room{
			Type:      "direct",
			PairKey:   pairKey,
			CreatedBy: bob.ID,
			CreatedAt: time.Now(),
		}
		if err := rival.Create(&rivalRoom).Error; err != nil {
			t.Fatalf("rival create: %v", err)
		}
		var members []models.User
		if err := rival.Find(&members, "id IN ?", []uuid.UUID{alice.ID, bob.ID}).Error; err != nil {
			t.Fatalf("rival members lookup: %v", err)
		}
		if err := rival.Model(&rivalRoom).Association("Members").Append(&members); err != nil {
			t.Fatalf("rival members append: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	room, created, err := d.GetOrCreateDirectRoom(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("GetOrCreateDirectRoom: %v", err)
	}
	if !injected {
		t.Fatal("competing insert never ran")
	}
	if created {
		t.Error("losing side must not report creation")
	}
	if room.ID != rivalRoom.ID {
		t.Errorf("room id %s, want rival's %s", room.ID, rivalRoom.ID)
	}
	if !room.HasMember(alice.ID) || !room.HasMember(bob.ID) {
		t.Error("re-fetched room must contain both participants")
	}
}

func TestIsParticipant(t *testing.T) {
	d := newTestDB(t)
	alice := mustCreateUser(t, d, "alice")
	bob := mustCreateUser(t, d, "bob")
	carol := mustCreateUser(t, d, "carol")

	room, _, err := d.GetOrCreateDirectRoom(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	for _, tt := range []struct {
		name string
		user uuid.UUID
		want bool
	}{
		{"member alice", alice.ID, true},
		{"member bob", bob.ID, true},
		{"outsider carol", carol.ID, false},
	} {
		got, err := d.IsParticipant(room.ID, tt.user)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: IsParticipant = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsParticipantMissingRoom(t *testing.T) {
	d := newTestDB(t)
	alice := mustCreateUser(t, d, "alice")

	_, err := d.IsParticipant(uuid.New(), alice.ID)
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestGetUserRooms(t *testing.T) {
	d := newTestDB(t)
	alice := mustCreateUser(t, d, "alice")
	bob := mustCreateUser(t, d, "bob")
	carol := mustCreateUser(t, d, "carol")

	if _, _, err := d.GetOrCreateDirectRoom(alice.ID, bob.ID); err != nil {
		t.Fatalf("create ab: %v", err)
	}
	if _, _, err := d.GetOrCreateDirectRoom(alice.ID, carol.ID); err != nil {
		t.Fatalf("create ac: %v", err)
	}

	rooms, err := d.GetUserRooms(alice.ID.String())
	if err != nil {
		t.Fatalf("GetUserRooms: %v", err)
	}
	if len(rooms) != 2 {
		t.Errorf("alice rooms = %d, want 2", len(rooms))
	}

	rooms, err = d.GetUserRooms(bob.ID.String())
	if err != nil {
		t.Fatalf("GetUserRooms: %v", err)
	}
	if len(rooms) != 1 {
		t.Errorf("bob rooms = %d, want 1", len(rooms))
	}
}
