package models_test

import (
	"testing"

	"github.com/blockconnect/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestValidRole(t *testing.T) {
	require.True(t, models.ValidRole(models.RoleAdmin))
	require.True(t, models.ValidRole(models.RoleOwner))
	require.True(t, models.ValidRole(models.RoleTenant))
	require.False(t, models.ValidRole("superuser"))
	require.False(t, models.ValidRole(""))
}

func TestValidReviewStatus(t *testing.T) {
	require.True(t, models.ValidReviewStatus(models.ApplicationStatusApproved))
	require.True(t, models.ValidReviewStatus(models.ApplicationStatusRejected))
	// Pending is the initial state, not a review outcome.
	require.False(t, models.ValidReviewStatus(models.ApplicationStatusPending))
	require.False(t, models.ValidReviewStatus("maybe"))
}

func TestUserIsAdmin(t *testing.T) {
	require.True(t, (&models.User{Role: models.RoleAdmin}).IsAdmin())
	require.False(t, (&models.User{Role: models.RoleOwner}).IsAdmin())
	require.False(t, (&models.User{Role: models.RoleTenant}).IsAdmin())
}

func TestBlockSpaceAdmins(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	stranger := uuid.New()

	space := models.BlockSpace{AdminIDs: models.AdminIDList(first, second)}

	require.ElementsMatch(t, []uuid.UUID{first, second}, space.Admins())
	require.True(t, space.HasAdmin(first))
	require.True(t, space.HasAdmin(second))
	require.False(t, space.HasAdmin(stranger))
}

func TestBlockSpaceAdminsEmpty(t *testing.T) {
	space := models.BlockSpace{}
	require.Empty(t, space.Admins())
	require.False(t, space.HasAdmin(uuid.New()))

	space.AdminIDs = []byte("not json")
	require.Empty(t, space.Admins())
}
