package announcements

import (
	"context"
	"errors"
	"fmt"

	"github.com/blockconnect/backend/internal/models"
	"github.com/blockconnect/backend/internal/notify"
	"github.com/blockconnect/backend/internal/realtime"
	"github.com/blockconnect/backend/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("announcement not found")
	ErrForbidden = errors.New("not allowed to modify this announcement")
)

// AnnouncementService handles announcement CRUD, approval and engagement.
type AnnouncementService struct {
	db     *gorm.DB
	broker *realtime.Broker
	mailer notify.Mailer
}

func NewAnnouncementService(db *gorm.DB, broker *realtime.Broker, mailer notify.Mailer) *AnnouncementService {
	return &AnnouncementService{db: db, broker: broker, mailer: mailer}
}

// Create posts an announcement. Space-admin authors publish directly;
// everyone else's post waits for approval.
func (s *AnnouncementService) Create(blockSpaceID, authorID uuid.UUID, title, content string) (*Announcement, error) {
	if len(title) < 3 || len(title) > 255 {
		return nil, errors.New("title must be 3-255 characters")
	}
	if len(content) < 10 {
		return nil, errors.New("content must be at least 10 characters")
	}

	status := StatusPending
	if scope.IsSpaceAdmin(s.db, blockSpaceID, authorID) {
		status = StatusApproved
	}

	ann := &Announcement{
		ID:           uuid.New(),
		BlockSpaceID: blockSpaceID,
		AuthorID:     authorID,
		Title:        title,
		Content:      content,
		Status:       status,
	}
	if err := s.db.Create(ann).Error; err != nil {
		return nil, err
	}

	s.broker.Publish(context.Background(), realtime.Event{
		Table: "announcements", Type: realtime.EventInsert,
		BlockSpaceID: blockSpaceID, Row: ann,
	})
	return ann, nil
}

// List returns approved announcements plus the caller's own pending
// ones, pinned first, newest first.
func (s *AnnouncementService) List(blockSpaceID, viewerID uuid.UUID, page, limit int) ([]Announcement, int64, error) {
	var anns []Announcement
	var total int64

	query := s.db.Model(&Announcement{}).
		Scopes(scope.ForBlockSpace(blockSpaceID)).
		Where("status = ? OR author_id = ?", StatusApproved, viewerID)

	query.Count(&total)

	err := query.Order("is_pinned DESC, created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&anns).Error
	if err != nil {
		return nil, 0, err
	}
	return anns, total, nil
}

// ListPending returns pending announcements across all block spaces,
// oldest first, for the platform moderation queue.
func (s *AnnouncementService) ListPending(page, limit int) ([]Announcement, int64, error) {
	var anns []Announcement
	var total int64

	query := s.db.Model(&Announcement{}).Where("status = ?", StatusPending)
	query.Count(&total)

	err := query.Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&anns).Error
	if err != nil {
		return nil, 0, err
	}
	return anns, total, nil
}

func (s *AnnouncementService) GetByID(blockSpaceID, id uuid.UUID) (*Announcement, error) {
	var ann Announcement
	err := s.db.Scopes(scope.ForBlockSpace(blockSpaceID)).
		First(&ann, "id = ?", id).Error
	if err != nil {
		return nil, ErrNotFound
	}
	return &ann, nil
}

// Approve publishes a pending announcement and notifies the author.
func (s *AnnouncementService) Approve(blockSpaceID, id, actorID uuid.UUID) (*Announcement, error) {
	if !scope.IsSpaceAdmin(s.db, blockSpaceID, actorID) {
		return nil, ErrForbidden
	}

	ann, err := s.GetByID(blockSpaceID, id)
	if err != nil {
		return nil, err
	}

	if ann.Status != StatusApproved {
		if err := s.db.Model(ann).Update("status", StatusApproved).Error; err != nil {
			return nil, err
		}

		var author models.User
		if err := s.db.First(&author, "id = ?", ann.AuthorID).Error; err == nil {
			s.mailer.SendAnnouncementApproved(author.Email, author.FullName, ann.Title)
		}
	}

	s.broker.Publish(context.Background(), realtime.Event{
		Table: "announcements", Type: realtime.EventUpdate,
		BlockSpaceID: blockSpaceID, Row: ann,
	})
	return ann, nil
}

// TogglePin flips the pinned flag.
func (s *AnnouncementService) TogglePin(blockSpaceID, id, actorID uuid.UUID) (*Announcement, error) {
	if !scope.IsSpaceAdmin(s.db, blockSpaceID, actorID) {
		return nil, ErrForbidden
	}

	ann, err := s.GetByID(blockSpaceID, id)
	if err != nil {
		return nil, err
	}

	ann.IsPinned = !ann.IsPinned
	if err := s.db.Model(ann).Update("is_pinned", ann.IsPinned).Error; err != nil {
		return nil, err
	}

	s.broker.Publish(context.Background(), realtime.Event{
		Table: "announcements", Type: realtime.EventUpdate,
		BlockSpaceID: blockSpaceID, Row: ann,
	})
	return ann, nil
}

// ToggleLike likes or unlikes, keeping the counter in step.
func (s *AnnouncementService) ToggleLike(blockSpaceID, id, userID uuid.UUID) error {
	if _, err := s.GetByID(blockSpaceID, id); err != nil {
		return err
	}

	var existing AnnouncementInteraction
	err := s.db.Where("announcement_id = ? AND user_id = ? AND type = ?",
		id, userID, InteractionLike).First(&existing).Error
	if err == nil {
		s.db.Delete(&existing)
		s.db.Model(&Announcement{}).Where("id = ?", id).
			Update("like_count", gorm.Expr("like_count - 1"))
		return nil
	}

	like := &AnnouncementInteraction{
		ID:             uuid.New(),
		AnnouncementID: id,
		UserID:         userID,
		Type:           InteractionLike,
	}
	if err := s.db.Create(like).Error; err != nil {
		return err
	}
	s.db.Model(&Announcement{}).Where("id = ?", id).
		Update("like_count", gorm.Expr("like_count + 1"))
	return nil
}

// AddComment attaches a comment and bumps the counter.
func (s *AnnouncementService) AddComment(blockSpaceID, id, userID uuid.UUID, content string) (*AnnouncementInteraction, error) {
	if len(content) < 1 || len(content) > 1000 {
		return nil, errors.New("comment must be 1-1000 characters")
	}
	if _, err := s.GetByID(blockSpaceID, id); err != nil {
		return nil, err
	}

	comment := &AnnouncementInteraction{
		ID:             uuid.New(),
		AnnouncementID: id,
		UserID:         userID,
		Type:           InteractionComment,
		Content:        &content,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}
	s.db.Model(&Announcement{}).Where("id = ?", id).
		Update("comment_count", gorm.Expr("comment_count + 1"))

	s.broker.Publish(context.Background(), realtime.Event{
		Table: "announcement_interactions", Type: realtime.EventInsert,
		BlockSpaceID: blockSpaceID, Row: comment,
	})
	return comment, nil
}

// GetComments lists comments oldest first.
func (s *AnnouncementService) GetComments(blockSpaceID, id uuid.UUID, page, limit int) ([]AnnouncementInteraction, error) {
	if _, err := s.GetByID(blockSpaceID, id); err != nil {
		return nil, err
	}

	var comments []AnnouncementInteraction
	err := s.db.Where("announcement_id = ? AND type = ?", id, InteractionComment).
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// Delete removes an announcement (author or space admin only).
func (s *AnnouncementService) Delete(blockSpaceID, id, actorID uuid.UUID) error {
	ann, err := s.GetByID(blockSpaceID, id)
	if err != nil {
		return err
	}
	if ann.AuthorID != actorID && !scope.IsSpaceAdmin(s.db, blockSpaceID, actorID) {
		return ErrForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("announcement_id = ?", id).
			Delete(&AnnouncementInteraction{}).Error; err != nil {
			return err
		}
		return tx.Delete(ann).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	s.broker.Publish(context.Background(), realtime.Event{
		Table: "announcements", Type: realtime.EventDelete,
		BlockSpaceID: blockSpaceID, Row: ann,
	})
	return nil
}
