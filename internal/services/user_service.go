package services

import (
	"fmt"

	"github.com/blockconnect/backend/internal/dto"
	"github.com/blockconnect/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// List returns users, optionally filtered by role and block space,
// newest first.
func (s *UserService) List(role string, blockSpaceID *uuid.UUID, page, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := s.db.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if blockSpaceID != nil {
		query = query.Where("block_space_id = ?", *blockSpaceID)
	}

	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserService) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Update applies a profile update. Non-admin callers may only update
// themselves.
func (s *UserService) Update(id, actorID uuid.UUID, actorIsAdmin bool, req *dto.UpdateUserRequest) (*models.User, error) {
	if id != actorID && !actorIsAdmin {
		return nil, ErrForbidden
	}

	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// AssignRole sets a user's role. The route's admin middleware gates
// access; the role value itself is validated here.
func (s *UserService) AssignRole(id uuid.UUID, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("failed to assign role: %w", err)
	}
	return user, nil
}

// Delete removes a user and their dependent rows. Subsequent lists no
// longer include them.
func (s *UserService) Delete(id uuid.UUID) error {
	user, err := s.GetByID(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("user_id = ?", id).Delete(&models.RefreshToken{})
		tx.Where("user_id = ?", id).Delete(&models.BlockSpaceApplication{})
		return tx.Delete(user).Error
	})
}
