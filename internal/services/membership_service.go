package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blockconnect/backend/internal/dto"
	"github.com/blockconnect/backend/internal/models"
	"github.com/blockconnect/backend/internal/notify"
	"github.com/blockconnect/backend/internal/realtime"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("a pending application for this block space already exists")
	ErrAlreadyMember        = errors.New("already a member of this block space")
	// ErrApplicationResolved is returned when reviewing an application
	// that already reached a terminal state. Approved and rejected are
	// final; the losing reviewer of a concurrent race gets this error
	// instead of silently overwriting the outcome.
	ErrApplicationResolved = errors.New("application has already been resolved")
)

// MembershipService drives the block-space application workflow:
// apply, review (approve/reject), and the membership link that
// approval establishes.
type MembershipService struct {
	db     *gorm.DB
	broker *realtime.Broker
	mailer notify.Mailer
}

func NewMembershipService(db *gorm.DB, broker *realtime.Broker, mailer notify.Mailer) *MembershipService {
	return &MembershipService{db: db, broker: broker, mailer: mailer}
}

// Apply creates a pending application for (user, space). Refused when
// the user already belongs to the space or has one pending there.
func (s *MembershipService) Apply(userID, blockSpaceID uuid.UUID) (*models.BlockSpaceApplication, error) {
	var space models.BlockSpace
	if err := s.db.First(&space, "id = ?", blockSpaceID).Error; err != nil {
		return nil, ErrBlockSpaceNotFound
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if user.BlockSpaceID != nil && *user.BlockSpaceID == blockSpaceID {
		return nil, ErrAlreadyMember
	}

	var existing models.BlockSpaceApplication
	err := s.db.Where("user_id = ? AND block_space_id = ? AND status = ?",
		userID, blockSpaceID, models.ApplicationStatusPending).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateApplication
	}

	app := &models.BlockSpaceApplication{
		ID:           uuid.New(),
		UserID:       userID,
		BlockSpaceID: blockSpaceID,
		Status:       models.ApplicationStatusPending,
	}
	if err := s.db.Create(app).Error; err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.broker.Publish(context.Background(), realtime.Event{
		Table: "block_space_applications", Type: realtime.EventInsert,
		BlockSpaceID: blockSpaceID, Row: app,
	})
	return app, nil
}

// ListForSpace returns a space's applications, optionally filtered by
// status, newest first. Caller must already be authorized as a space admin.
func (s *MembershipService) ListForSpace(blockSpaceID uuid.UUID, status string, page, limit int) ([]models.BlockSpaceApplication, int64, error) {
	var apps []models.BlockSpaceApplication
	var total int64

	query := s.db.Model(&models.BlockSpaceApplication{}).
		Where("block_space_id = ?", blockSpaceID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// ListMine returns the applicant's own applications, newest first.
func (s *MembershipService) ListMine(userID uuid.UUID) ([]models.BlockSpaceApplication, error) {
	var apps []models.BlockSpaceApplication
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (s *MembershipService) GetByID(id uuid.UUID) (*models.BlockSpaceApplication, error) {
	var app models.BlockSpaceApplication
	if err := s.db.First(&app, "id = ?", id).Error; err != nil {
		return nil, ErrApplicationNotFound
	}
	return &app, nil
}

// Review resolves a pending application. The status write is guarded
// on status='pending', so a second review of the same application, or
// two admins racing, fails with ErrApplicationResolved instead of
// moving the status out of a terminal state. Approval links the user
// to the space in the same transaction.
func (s *MembershipService) Review(applicationID, reviewerID uuid.UUID, actorIsAdmin bool, req *dto.ReviewApplicationRequest) (*models.BlockSpaceApplication, error) {
	if !models.ValidReviewStatus(req.Status) {
		return nil, fmt.Errorf("invalid review status %q", req.Status)
	}

	app, err := s.GetByID(applicationID)
	if err != nil {
		return nil, err
	}

	var space models.BlockSpace
	if err := s.db.First(&space, "id = ?", app.BlockSpaceID).Error; err != nil {
		return nil, ErrBlockSpaceNotFound
	}
	if !actorIsAdmin && !space.HasAdmin(reviewerID) {
		return nil, ErrForbidden
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.BlockSpaceApplication{}).
			Where("id = ? AND status = ?", applicationID, models.ApplicationStatusPending).
			Updates(map[string]interface{}{
				"status":      req.Status,
				"notes":       req.Notes,
				"reviewer_id": reviewerID,
				"reviewed_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrApplicationResolved
		}

		if req.Status == models.ApplicationStatusApproved {
			// Single-membership invariant: joining a space replaces
			// any previous membership.
			if err := tx.Model(&models.User{}).
				Where("id = ?", app.UserID).
				Update("block_space_id", app.BlockSpaceID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	app, err = s.GetByID(applicationID)
	if err != nil {
		return nil, err
	}

	var applicant models.User
	if err := s.db.First(&applicant, "id = ?", app.UserID).Error; err == nil {
		s.mailer.SendApplicationReviewed(applicant.Email, applicant.FullName, space.Name, app.Status, app.Notes)
	}

	s.broker.Publish(context.Background(), realtime.Event{
		Table: "block_space_applications", Type: realtime.EventUpdate,
		BlockSpaceID: app.BlockSpaceID, Row: app,
	})
	return app, nil
}
