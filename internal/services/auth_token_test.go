package services_test

import (
	"testing"
	"time"

	"github.com/blockconnect/backend/internal/config"
	"github.com/blockconnect/backend/internal/models"
	"github.com/blockconnect/backend/internal/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func tokenConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		JWTAccessExpiry: 15 * time.Minute,
	}
}

func parseClaims(t *testing.T, raw, secret string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(raw, func(tk *jwt.Token) (interface{}, error) {
		require.IsType(t, &jwt.SigningMethodHMAC{}, tk.Method)
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestGenerateAccessTokenClaims(t *testing.T) {
	cfg := tokenConfig()
	svc := services.NewAuthService(nil, cfg)

	spaceID := uuid.New()
	user := &models.User{
		ID:           uuid.New(),
		Email:        "resident@example.com",
		Role:         models.RoleOwner,
		BlockSpaceID: &spaceID,
	}

	raw, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims := parseClaims(t, raw, cfg.JWTSecret)
	require.Equal(t, user.ID.String(), claims["sub"])
	require.Equal(t, "resident@example.com", claims["email"])
	require.Equal(t, models.RoleOwner, claims["role"])
	require.Equal(t, spaceID.String(), claims["block_space_id"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(cfg.JWTAccessExpiry), exp.Time, time.Minute)
}

func TestGenerateAccessTokenWithoutBlockSpace(t *testing.T) {
	cfg := tokenConfig()
	svc := services.NewAuthService(nil, cfg)

	user := &models.User{
		ID:    uuid.New(),
		Email: "applicant@example.com",
		Role:  models.RoleTenant,
	}

	raw, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims := parseClaims(t, raw, cfg.JWTSecret)
	require.Equal(t, "", claims["block_space_id"])
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	svc := services.NewAuthService(nil, tokenConfig())

	raw, err := svc.GenerateAccessToken(&models.User{ID: uuid.New(), Role: models.RoleTenant})
	require.NoError(t, err)

	_, err = jwt.Parse(raw, func(tk *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	require.Error(t, err)
}
