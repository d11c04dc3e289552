package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/blockconnect/backend/internal/dto"
	"github.com/blockconnect/backend/internal/models"
	"github.com/blockconnect/backend/internal/realtime"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBlockSpaceNotFound = errors.New("block space not found")
	ErrForbidden          = errors.New("not an admin of this block space")
	// ErrConflict is returned when an optimistic concurrency
	// precondition fails; callers should refetch and retry.
	ErrConflict = errors.New("block space was modified by someone else")
)

type BlockSpaceService struct {
	db     *gorm.DB
	broker *realtime.Broker
}

func NewBlockSpaceService(db *gorm.DB, broker *realtime.Broker) *BlockSpaceService {
	return &BlockSpaceService{db: db, broker: broker}
}

// List returns block spaces, optionally filtered by a name search and
// lifecycle status, newest first.
func (s *BlockSpaceService) List(q, status string, page, limit int) ([]models.BlockSpace, int64, error) {
	var spaces []models.BlockSpace
	var total int64

	query := s.db.Model(&models.BlockSpace{})
	if q != "" {
		query = query.Where("name ILIKE ?", "%"+q+"%")
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&spaces).Error
	if err != nil {
		return nil, 0, err
	}

	return spaces, total, nil
}

func (s *BlockSpaceService) GetByID(id uuid.UUID) (*models.BlockSpace, error) {
	var space models.BlockSpace
	if err := s.db.First(&space, "id = ?", id).Error; err != nil {
		return nil, ErrBlockSpaceNotFound
	}
	return &space, nil
}

// Create registers a block space with the creating user as its sole
// initial admin. The space starts pending until activated by a platform
// admin. The creator becomes a member, promoted to owner unless already
// holding a stronger role.
func (s *BlockSpaceService) Create(req *dto.CreateBlockSpaceRequest, ownerID uuid.UUID) (*models.BlockSpace, error) {
	space := &models.BlockSpace{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Address:     req.Address,
		TotalFlats:  req.TotalFlats,
		TotalFloors: req.TotalFloors,
		Status:      models.BlockSpaceStatusPending,
		AdminIDs:    models.AdminIDList(ownerID),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(space).Error; err != nil {
			return fmt.Errorf("failed to create block space: %w", err)
		}

		updates := map[string]interface{}{"block_space_id": space.ID}
		var owner models.User
		if err := tx.First(&owner, "id = ?", ownerID).Error; err != nil {
			return ErrUserNotFound
		}
		if owner.Role == models.RoleTenant {
			updates["role"] = models.RoleOwner
		}
		return tx.Model(&owner).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	s.broker.Publish(context.Background(), realtime.Event{
		Table: "block_spaces", Type: realtime.EventInsert,
		BlockSpaceID: space.ID, Row: space,
	})
	return space, nil
}

// Update applies a partial update. When the request carries an
// updated_at precondition, the write is conditional on the row not
// having changed since; a lost race surfaces as ErrConflict rather
// than silently overwriting the other admin's edit.
func (s *BlockSpaceService) Update(id uuid.UUID, actorID uuid.UUID, actorIsAdmin bool, req *dto.UpdateBlockSpaceRequest) (*models.BlockSpace, error) {
	space, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !actorIsAdmin && !space.HasAdmin(actorID) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.TotalFlats != nil {
		updates["total_flats"] = *req.TotalFlats
	}
	if req.TotalFloors != nil {
		updates["total_floors"] = *req.TotalFloors
	}
	if req.Status != nil {
		// pending -> active requires platform approval.
		if *req.Status == models.BlockSpaceStatusActive && !actorIsAdmin {
			return nil, ErrForbidden
		}
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return space, nil
	}

	query := s.db.Model(&models.BlockSpace{}).Where("id = ?", id)
	if req.UpdatedAt != nil {
		query = query.Where("updated_at = ?", *req.UpdatedAt)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Zero rows means either the precondition failed or the row was
		// deleted underneath us; only the former is a conflict.
		if _, err := s.GetByID(id); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}

	space, err = s.GetByID(id)
	if err != nil {
		return nil, err
	}

	s.broker.Publish(context.Background(), realtime.Event{
		Table: "block_spaces", Type: realtime.EventUpdate,
		BlockSpaceID: space.ID, Row: space,
	})
	return space, nil
}

func (s *BlockSpaceService) Delete(id uuid.UUID, actorID uuid.UUID, actorIsAdmin bool) error {
	space, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if !actorIsAdmin && !space.HasAdmin(actorID) {
		return ErrForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Detach members so their next token refresh drops the scope.
		if err := tx.Model(&models.User{}).
			Where("block_space_id = ?", id).
			Update("block_space_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("block_space_id = ?", id).
			Delete(&models.BlockSpaceApplication{}).Error; err != nil {
			return err
		}
		return tx.Delete(space).Error
	})
	if err != nil {
		return err
	}

	s.broker.Publish(context.Background(), realtime.Event{
		Table: "block_spaces", Type: realtime.EventDelete,
		BlockSpaceID: id, Row: space,
	})
	return nil
}

// IsSpaceAdmin reports whether userID administers the given space.
func (s *BlockSpaceService) IsSpaceAdmin(spaceID, userID uuid.UUID) (bool, error) {
	space, err := s.GetByID(spaceID)
	if err != nil {
		return false, err
	}
	return space.HasAdmin(userID), nil
}
