package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/blockconnect/backend/internal/config"
	"github.com/blockconnect/backend/internal/dto"
	"github.com/blockconnect/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	user, err := s.createUser(s.db, req, nil)
	if err != nil {
		return nil, err
	}

	return s.generateTokenPair(user)
}

// RegisterWithBlockSpace registers an owner and creates their block
// space atomically: either both rows commit or neither does, so a
// failed space creation cannot orphan the user record.
func (s *AuthService) RegisterWithBlockSpace(req *dto.RegisterWithBlockSpaceRequest) (*dto.AuthResponse, *models.BlockSpace, error) {
	var existing models.User
	if err := s.db.Where("email = ?", req.User.Email).First(&existing).Error; err == nil {
		return nil, nil, ErrEmailTaken
	}

	var user *models.User
	var space *models.BlockSpace

	err := s.db.Transaction(func(tx *gorm.DB) error {
		userReq := req.User
		if userReq.Role == "" {
			userReq.Role = models.RoleOwner
		}

		var err error
		user, err = s.createUser(tx, &userReq, nil)
		if err != nil {
			return err
		}

		space = &models.BlockSpace{
			ID:          uuid.New(),
			Name:        req.BlockSpace.Name,
			Description: req.BlockSpace.Description,
			ImageURL:    req.BlockSpace.ImageURL,
			Address:     req.BlockSpace.Address,
			TotalFlats:  req.BlockSpace.TotalFlats,
			TotalFloors: req.BlockSpace.TotalFloors,
			Status:      models.BlockSpaceStatusPending,
			AdminIDs:    models.AdminIDList(user.ID),
		}
		if err := tx.Create(space).Error; err != nil {
			return fmt.Errorf("failed to create block space: %w", err)
		}

		if err := tx.Model(user).Update("block_space_id", space.ID).Error; err != nil {
			return fmt.Errorf("failed to link block space: %w", err)
		}
		user.BlockSpaceID = &space.ID
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	resp, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return resp, space, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	// Rotation: the presented token is single-use.
	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

func (s *AuthService) Me(userID uuid.UUID) (*dto.UserResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	resp := userResponse(&user)
	return &resp, nil
}

func (s *AuthService) DeleteAccount(userID uuid.UUID, password string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{})
		tx.Where("user_id = ?", userID).Delete(&models.BlockSpaceApplication{})
		return tx.Delete(&user).Error
	})
}

func (s *AuthService) createUser(tx *gorm.DB, req *dto.RegisterRequest, blockSpaceID *uuid.UUID) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleTenant
	}
	// Request validation already refuses this; the service refuses it
	// too so no other caller can mint an admin through registration.
	if role == models.RoleAdmin {
		return nil, errors.New("admin role cannot be self-assigned")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Password:     string(hash),
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         role,
		BlockSpaceID: blockSpaceID,
	}

	if err := tx.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userResponse(user),
	}, nil
}

// GenerateAccessToken issues a signed HS256 JWT carrying the identity,
// role and block-space claims the middleware and scope helpers read.
func (s *AuthService) GenerateAccessToken(user *models.User) (string, error) {
	blockSpaceID := ""
	if user.BlockSpaceID != nil {
		blockSpaceID = user.BlockSpaceID.String()
	}

	claims := jwt.MapClaims{
		"sub":            user.ID.String(),
		"email":          user.Email,
		"role":           user.Role,
		"block_space_id": blockSpaceID,
		"iat":            time.Now().Unix(),
		"exp":            time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	tokenHash := hashToken(rawToken)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func userResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		Phone:        user.Phone,
		Role:         user.Role,
		BlockSpaceID: user.BlockSpaceID,
		AvatarURL:    user.AvatarURL,
	}
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
