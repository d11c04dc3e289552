package services_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/blockconnect/backend/internal/config"
	"github.com/blockconnect/backend/internal/dto"
	"github.com/blockconnect/backend/internal/models"
	"github.com/blockconnect/backend/internal/notify"
	"github.com/blockconnect/backend/internal/realtime"
	"github.com/blockconnect/backend/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The production schema carries Postgres defaults (gen_random_uuid,
// jsonb), so the sqlite fixture declares the tables itself; services
// assign their own UUIDs and never rely on column defaults.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "app.db")), &gorm.Config{
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
		`CREATE TABLE block_space_applications (
			id text PRIMARY KEY, user_id text, block_space_id text, status text,
			notes text, reviewer_id text, reviewed_at datetime,
			created_at datetime, updated_at datetime, deleted_at datetime)`,
		`CREATE TABLE refresh_tokens (
			id text PRIMARY KEY, user_id text, token_hash text, expires_at datetime,
			revoked integer, created_at datetime)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func testBroker() *realtime.Broker {
	return realtime.NewBroker(nil, realtime.NewHub())
}

func seedUser(t *testing.T, db *gorm.DB, email, role string, blockSpaceID *uuid.UUID) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Password:     "irrelevant",
		FullName:     "Test Resident",
		Role:         role,
		BlockSpaceID: blockSpaceID,
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

func membershipService(db *gorm.DB) *services.MembershipService {
	return services.NewMembershipService(db, testBroker(), notify.NopMailer{})
}

// --- registration ---

func TestRegisterDefaultsToTenant(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewAuthService(db, &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	})

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "new@example.com",
		Password: "longenough",
		FullName: "New Resident",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleTenant, resp.User.Role)
}

func TestRegisterRefusesAdminRole(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewAuthService(db, &config.Config{
		JWTSecret:       "test-secret",
		JWTAccessExpiry: 15 * time.Minute,
	})

	_, err := svc.Register(&dto.RegisterRequest{
		Email:    "sneaky@example.com",
		Password: "longenough",
		FullName: "Sneaky",
		Role:     models.RoleAdmin,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "admin role cannot be self-assigned")

	var count int64
	db.Model(&models.User{}).Count(&count)
	require.Zero(t, count)
}

// --- application workflow ---

func TestApplyThenListIncludesPending(t *testing.T) {
	db := openTestDB(t)
	svc := membershipService(db)

	space := seedSpace(t, db)
	applicant := seedUser(t, db, "applicant@example.com", models.RoleTenant, nil)

	app, err := svc.Apply(applicant.ID, space.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusPending, app.Status)

	apps, total, err := svc.ListForSpace(space.ID, "", 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, app.ID, apps[0].ID)

	mine, err := svc.ListMine(applicant.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestApplyRefusesDuplicatePending(t *testing.T) {
	db := openTestDB(t)
	svc := membershipService(db)

	space := seedSpace(t, db)
	applicant := seedUser(t, db, "applicant@example.com", models.RoleTenant, nil)

	_, err := svc.Apply(applicant.ID, space.ID)
	require.NoError(t, err)

	_, err = svc.Apply(applicant.ID, space.ID)
	require.ErrorIs(t, err, services.ErrDuplicateApplication)
}

func TestApplyRefusesExistingMember(t *testing.T) {
	db := openTestDB(t)
	svc := membershipService(db)

	space := seedSpace(t, db)
	member := seedUser(t, db, "member@example.com", models.RoleTenant, &space.ID)

	_, err := svc.Apply(member.ID, space.ID)
	require.ErrorIs(t, err, services.ErrAlreadyMember)
}

func TestReviewApprovalLinksUser(t *testing.T) {
	db := openTestDB(t)
	svc := membershipService(db)

	reviewer := seedUser(t, db, "owner@example.com", models.RoleOwner, nil)
	space := seedSpace(t, db, reviewer.ID)
	applicant := seedUser(t, db, "applicant@example.com", models.RoleTenant, nil)

	app, err := svc.Apply(applicant.ID, space.ID)
	require.NoError(t, err)

	reviewed, err := svc.Review(app.ID, reviewer.ID, false, &dto.ReviewApplicationRequest{
		Status: models.ApplicationStatusApproved,
	})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewerID)
	require.Equal(t, reviewer.ID, *reviewed.ReviewerID)
	require.NotNil(t, reviewed.ReviewedAt)

	var linked models.User
	require.NoError(t, db.First(&linked, "id = ?", applicant.ID).Error)
	require.NotNil(t, linked.BlockSpaceID)
	require.Equal(t, space.ID, *linked.BlockSpaceID)
}

func TestReviewRejectionLeavesUserUnlinked(t *testing.T) {
	db := openTestDB(t)
	svc := membershipService(db)

	reviewer := seedUser(t, db, "owner@example.com", models.RoleOwner, nil)
	space := seedSpace(t, db, reviewer.ID)
	applicant := seedUser(t, db, "applicant@example.com", models.RoleTenant, nil)

	app, err := svc.Apply(applicant.ID, space.ID)
	require.NoError(t, err)

	reviewed, err := svc.Review(app.ID, reviewer.ID, false, &dto.ReviewApplicationRequest{
		Status: models.ApplicationStatusRejected,
	})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusRejected, reviewed.Status)

	var applicantRow models.User
	require.NoError(t, db.First(&applicantRow, "id = ?", applicant.ID).Error)
	require.Nil(t, applicantRow.BlockSpaceID)
}

func TestReviewRefusedAtTerminalState(t *testing.T) {
	db := openTestDB(t)
	svc := membershipService(db)

	reviewer := seedUser(t, db, "owner@example.com", models.RoleOwner, nil)
	space := seedSpace(t, db, reviewer.ID)
	applicant := seedUser(t, db, "applicant@example.com", models.RoleTenant, nil)

	app, err := svc.Apply(applicant.ID, space.ID)
	require.NoError(t, err)

	_, err = svc.Review(app.ID, reviewer.ID, false, &dto.ReviewApplicationRequest{
		Status: models.ApplicationStatusApproved,
	})
	require.NoError(t, err)

	// The losing side of a review race sees the same refusal.
	_, err = svc.Review(app.ID, reviewer.ID, false, &dto.ReviewApplicationRequest{
		Status: models.ApplicationStatusRejected,
	})
	require.ErrorIs(t, err, services.ErrApplicationResolved)

	current, err := svc.GetByID(app.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusApproved, current.Status)
}

func TestReviewRequiresSpaceAdmin(t *testing.T) {
	db := openTestDB(t)
	svc := membershipService(db)

	space := seedSpace(t, db)
	applicant := seedUser(t, db, "applicant@example.com", models.RoleTenant, nil)
	outsider := seedUser(t, db, "outsider@example.com", models.RoleTenant, nil)

	app, err := svc.Apply(applicant.ID, space.ID)
	require.NoError(t, err)

	_, err = svc.Review(app.ID, outsider.ID, false, &dto.ReviewApplicationRequest{
		Status: models.ApplicationStatusApproved,
	})
	require.ErrorIs(t, err, services.ErrForbidden)
}

// --- block space lifecycle ---

func TestCreateBlockSpacePromotesOwner(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewBlockSpaceService(db, testBroker())

	creator := seedUser(t, db, "creator@example.com", models.RoleTenant, nil)

	space, err := svc.Create(&dto.CreateBlockSpaceRequest{
		Name:        "Elm Heights",
		Address:     "2 Elm Ave",
		TotalFlats:  12,
		TotalFloors: 4,
	}, creator.ID)
	require.NoError(t, err)

	require.Equal(t, models.BlockSpaceStatusPending, space.Status)
	require.Equal(t, []uuid.UUID{creator.ID}, space.Admins())

	var creatorRow models.User
	require.NoError(t, db.First(&creatorRow, "id = ?", creator.ID).Error)
	require.Equal(t, models.RoleOwner, creatorRow.Role)
	require.NotNil(t, creatorRow.BlockSpaceID)
	require.Equal(t, space.ID, *creatorRow.BlockSpaceID)
}

func TestUpdateBlockSpacePrecondition(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewBlockSpaceService(db, testBroker())

	admin := seedUser(t, db, "owner@example.com", models.RoleOwner, nil)
	space := seedSpace(t, db, admin.ID)

	newName := "Renamed Court"
	stale := space.UpdatedAt.Add(-time.Hour)
	_, err := svc.Update(space.ID, admin.ID, false, &dto.UpdateBlockSpaceRequest{
		Name:      &newName,
		UpdatedAt: &stale,
	})
	require.ErrorIs(t, err, services.ErrConflict)

	updated, err := svc.Update(space.ID, admin.ID, false, &dto.UpdateBlockSpaceRequest{
		Name:      &newName,
		UpdatedAt: &space.UpdatedAt,
	})
	require.NoError(t, err)
	require.Equal(t, newName, updated.Name)
}
