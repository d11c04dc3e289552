package validation_test

import (
	"testing"

	"github.com/blockconnect/backend/internal/dto"
	"github.com/blockconnect/backend/internal/validation"
	"github.com/stretchr/testify/require"
)

func TestStructValid(t *testing.T) {
	req := dto.RegisterRequest{
		Email:    "resident@example.com",
		Password: "longenough",
		FullName: "Ayse Yilmaz",
	}
	require.NoError(t, validation.Struct(&req))
}

func TestStructReportsEveryFailedField(t *testing.T) {
	req := dto.RegisterRequest{
		Email:    "not-an-email",
		Password: "short",
	}
	err := validation.Struct(&req)
	require.Error(t, err)
	require.Contains(t, err.Error(), "email must be a valid email address")
	require.Contains(t, err.Error(), "password must be at least 8 characters")
	require.Contains(t, err.Error(), "fullname is required")
}

func TestStructRejectsUnknownRole(t *testing.T) {
	req := dto.RegisterRequest{
		Email:    "resident@example.com",
		Password: "longenough",
		FullName: "Ayse Yilmaz",
		Role:     "landlord",
	}
	err := validation.Struct(&req)
	require.Error(t, err)
	require.Contains(t, err.Error(), "role must be one of")
}

func TestStructRejectsSelfAssignedAdmin(t *testing.T) {
	req := dto.RegisterRequest{
		Email:    "resident@example.com",
		Password: "longenough",
		FullName: "Ayse Yilmaz",
		Role:     "admin",
	}
	err := validation.Struct(&req)
	require.Error(t, err)
	require.Contains(t, err.Error(), "role must be one of")
}

func TestReviewRequestStatus(t *testing.T) {
	require.NoError(t, validation.Struct(&dto.ReviewApplicationRequest{Status: "approved"}))
	require.NoError(t, validation.Struct(&dto.ReviewApplicationRequest{Status: "rejected"}))
	require.Error(t, validation.Struct(&dto.ReviewApplicationRequest{Status: "pending"}))
	require.Error(t, validation.Struct(&dto.ReviewApplicationRequest{}))
}
