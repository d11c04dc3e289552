package chat_test

import (
	"path/filepath"
	"testing"

	"github.com/blockconnect/backend/internal/apps/chat"
	"github.com/blockconnect/backend/internal/realtime"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "chat.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE chat_rooms (
			id text PRIMARY KEY, block_space_id text NOT NULL, type text NOT NULL,
			name text, created_at datetime, deleted_at datetime)`,
		`CREATE TABLE chat_participants (
			id text PRIMARY KEY, room_id text NOT NULL, user_id text NOT NULL,
			created_at datetime, UNIQUE (room_id, user_id))`,
		`CREATE TABLE chat_messages (
			id text PRIMARY KEY, room_id text NOT NULL, sender_id text NOT NULL,
			content text NOT NULL, is_read integer DEFAULT 0,
			created_at datetime, updated_at datetime, deleted_at datetime)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newService(db *gorm.DB) *chat.ChatService {
	return chat.NewChatService(db, realtime.NewBroker(nil, realtime.NewHub()))
}

func roomMembers(t *testing.T, db *gorm.DB, roomID uuid.UUID) []uuid.UUID {
	t.Helper()
	var ids []uuid.UUID
	require.NoError(t, db.Model(&chat.ChatParticipant{}).
		Where("room_id = ?", roomID).
		Pluck("user_id", &ids).Error)
	return ids
}

func TestCreateGroupRoomDedupesParticipants(t *testing.T) {
	db := openTestDB(t)
	svc := newService(db)

	spaceID := uuid.New()
	creator := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	name := "Floor 3"
	// Clients routinely repeat ids and include the caller; the unique
	// (room, user) index must never see the duplicates.
	room, err := svc.CreateRoom(spaceID, creator, chat.RoomTypeGroup, &name,
		[]uuid.UUID{alice, creator, bob, alice, bob})
	require.NoError(t, err)

	members := roomMembers(t, db, room.ID)
	require.Len(t, members, 3)
	require.ElementsMatch(t, []uuid.UUID{creator, alice, bob}, members)
}

func TestCreateGroupRoomRequiresOtherParticipants(t *testing.T) {
	db := openTestDB(t)
	svc := newService(db)

	creator := uuid.New()
	name := "Just me"
	// A list containing only the creator collapses to nobody.
	_, err := svc.CreateRoom(uuid.New(), creator, chat.RoomTypeGroup, &name,
		[]uuid.UUID{creator, creator})
	require.Error(t, err)
}

func TestCreateDirectRoomReusesExisting(t *testing.T) {
	db := openTestDB(t)
	svc := newService(db)

	spaceID := uuid.New()
	creator := uuid.New()
	other := uuid.New()

	first, err := svc.CreateRoom(spaceID, creator, chat.RoomTypeDirect, nil,
		[]uuid.UUID{other})
	require.NoError(t, err)

	// Reopening from either side, even with a sloppy participant list,
	// lands in the same room.
	again, err := svc.CreateRoom(spaceID, other, chat.RoomTypeDirect, nil,
		[]uuid.UUID{creator, other})
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)

	var count int64
	db.Model(&chat.ChatRoom{}).Where("type = ?", chat.RoomTypeDirect).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestCreateDirectRoomRequiresExactlyOneOther(t *testing.T) {
	db := openTestDB(t)
	svc := newService(db)

	creator := uuid.New()

	_, err := svc.CreateRoom(uuid.New(), creator, chat.RoomTypeDirect, nil,
		[]uuid.UUID{creator})
	require.Error(t, err)

	_, err = svc.CreateRoom(uuid.New(), creator, chat.RoomTypeDirect, nil,
		[]uuid.UUID{uuid.New(), uuid.New()})
	require.Error(t, err)
}
