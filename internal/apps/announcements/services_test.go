package announcements_test

import (
	"path/filepath"
	"testing"

	"github.com/blockconnect/backend/internal/apps/announcements"
	"github.com/blockconnect/backend/internal/models"
	"github.com/blockconnect/backend/internal/notify"
	"github.com/blockconnect/backend/internal/realtime"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ann.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE users (
			id text PRIMARY KEY, email text NOT NULL UNIQUE, password text NOT NULL,
			full_name text, phone text, role text, block_space_id text, avatar_url text,
			created_at datetime, updated_at datetime, deleted_at datetime)`,
		`CREATE TABLE block_spaces (
			id text PRIMARY KEY, name text, description text, image_url text,
			address text, total_flats integer, total_floors integer, status text,
			admin_ids text, created_at datetime, updated_at datetime, deleted_at datetime)`,
		`CREATE TABLE announcements (
			id text PRIMARY KEY, block_space_id text NOT NULL, author_id text NOT NULL,
			title text NOT NULL, content text NOT NULL, status text,
			is_pinned integer DEFAULT 0, like_count integer DEFAULT 0,
			comment_count integer DEFAULT 0,
			created_at datetime, updated_at datetime, deleted_at datetime)`,
		`CREATE TABLE announcement_interactions (
			id text PRIMARY KEY, announcement_id text NOT NULL, user_id text NOT NULL,
			type text NOT NULL, content text, created_at datetime)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newService(db *gorm.DB) *announcements.AnnouncementService {
	return announcements.NewAnnouncementService(db,
		realtime.NewBroker(nil, realtime.NewHub()), notify.NopMailer{})
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "irrelevant",
		FullName: "Test Resident",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedSpace(t *testing.T, db *gorm.DB, adminIDs ...uuid.UUID) *models.BlockSpace {
	t.Helper()
	space := &models.BlockSpace{
		ID:          uuid.New(),
		Name:        "Maple Court",
		Address:     "1 Maple St",
		TotalFlats:  24,
		TotalFloors: 6,
		Status:      models.BlockSpaceStatusActive,
		AdminIDs:    models.AdminIDList(adminIDs...),
	}
	require.NoError(t, db.Create(space).Error)
	return space
}

func TestCreateBySpaceAdminIsApproved(t *testing.T) {
	db := openTestDB(t)
	svc := newService(db)

	admin := seedUser(t, db, "owner@example.com", models.RoleOwner)
	space := seedSpace(t, db, admin.ID)

	ann, err := svc.Create(space.ID, admin.ID, "Water outage", "The water will be off on Tuesday morning.")
	require.NoError(t, err)
	require.Equal(t, announcements.StatusApproved, ann.Status)
}

func TestCreateByMemberWaitsForApproval(t *testing.T) {
	db := openTestDB(t)
	svc := newService(db)

	member := seedUser(t, db, "tenant@example.com", models.RoleTenant)
	space := seedSpace(t, db)

	ann, err := svc.Create(space.ID, member.ID, "Lost keys", "Found a set of keys by the mailboxes.")
	require.NoError(t, err)
	require.Equal(t, announcements.StatusPending, ann.Status)
}

func TestListPendingSpansSpacesAndSkipsApproved(t *testing.T) {
	db := openTestDB(t)
	svc := newService(db)

	admin := seedUser(t, db, "owner@example.com", models.RoleOwner)
	memberA := seedUser(t, db, "a@example.com", models.RoleTenant)
	memberB := seedUser(t, db, "b@example.com", models.RoleTenant)
	spaceA := seedSpace(t, db, admin.ID)
	spaceB := seedSpace(t, db)

	approved, err := svc.Create(spaceA.ID, admin.ID, "Water outage", "The water will be off on Tuesday morning.")
	require.NoError(t, err)

	first, err := svc.Create(spaceA.ID, memberA.ID, "Lost keys", "Found a set of keys by the mailboxes.")
	require.NoError(t, err)
	second, err := svc.Create(spaceB.ID, memberB.ID, "Parking", "Please keep the ramp clear on Thursdays.")
	require.NoError(t, err)

	pending, total, err := svc.ListPending(1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, pending, 2)

	ids := []uuid.UUID{pending[0].ID, pending[1].ID}
	require.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, ids)
	require.NotContains(t, ids, approved.ID)
}
