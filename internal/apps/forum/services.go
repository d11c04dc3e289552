package forum

import (
	"context"
	"errors"
	"time"

	"github.com/blockconnect/backend/internal/catalog"
	"github.com/blockconnect/backend/internal/realtime"
	"github.com/blockconnect/backend/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrThreadNotFound  = errors.New("thread not found")
	ErrForbidden       = errors.New("not allowed to modify this thread")
	ErrUnknownCategory = errors.New("unknown forum category")
)

// ForumService handles categories, threads, replies and likes.
type ForumService struct {
	db      *gorm.DB
	broker  *realtime.Broker
	catalog *catalog.Catalog
}

func NewForumService(db *gorm.DB, broker *realtime.Broker, cat *catalog.Catalog) *ForumService {
	return &ForumService{db: db, broker: broker, catalog: cat}
}

// ListCategories returns the block space's categories, seeding them
// from the catalog on first use.
func (s *ForumService) ListCategories(blockSpaceID uuid.UUID) ([]ForumCategory, error) {
	if err := s.seedCategories(blockSpaceID); err != nil {
		return nil, err
	}

	var cats []ForumCategory
	err := s.db.Scopes(scope.ForBlockSpace(blockSpaceID)).
		Order("value ASC").
		Find(&cats).Error
	return cats, err
}

func (s *ForumService) seedCategories(blockSpaceID uuid.UUID) error {
	defs := s.catalog.ForumCategories()
	if len(defs) == 0 {
		return nil
	}

	rows := make([]ForumCategory, 0, len(defs))
	for _, def := range defs {
		rows = append(rows, ForumCategory{
			ID:           uuid.New(),
			BlockSpaceID: blockSpaceID,
			Value:        def.Value,
			Label:        def.Label,
			Description:  def.Description,
		})
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// CreateThread starts a discussion in a known category.
func (s *ForumService) CreateThread(blockSpaceID, authorID uuid.UUID, category, title, content string) (*ForumThread, error) {
	if !s.catalog.ValidForumCategory(category) {
		return nil, ErrUnknownCategory
	}
	if len(title) < 3 || len(title) > 255 {
		return nil, errors.New("title must be 3-255 characters")
	}
	if len(content) < 10 {
		return nil, errors.New("content must be at least 10 characters")
	}

	thread := &ForumThread{
		ID:           uuid.New(),
		BlockSpaceID: blockSpaceID,
		AuthorID:     authorID,
		Category:     category,
		Title:        title,
		Content:      content,
	}
	if err := s.db.Create(thread).Error; err != nil {
		return nil, err
	}

	s.db.Model(&ForumCategory{}).
		Where("block_space_id = ? AND value = ?", blockSpaceID, category).
		Update("thread_count", gorm.Expr("thread_count + 1"))

	s.broker.Publish(context.Background(), realtime.Event{
		Table: "forum_threads", Type: realtime.EventInsert,
		BlockSpaceID: blockSpaceID, Row: thread,
	})
	return thread, nil
}

// ListThreads returns threads newest first, optionally one category only.
func (s *ForumService) ListThreads(blockSpaceID uuid.UUID, category string, page, limit int) ([]ForumThread, int64, error) {
	var threads []ForumThread
	var total int64

	query := s.db.Model(&ForumThread{}).Scopes(scope.ForBlockSpace(blockSpaceID))
	if category != "" {
		query = query.Where("category = ?", category)
	}

	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&threads).Error
	if err != nil {
		return nil, 0, err
	}
	return threads, total, nil
}

func (s *ForumService) GetThread(blockSpaceID, id uuid.UUID) (*ForumThread, error) {
	var thread ForumThread
	err := s.db.Scopes(scope.ForBlockSpace(blockSpaceID)).
		First(&thread, "id = ?", id).Error
	if err != nil {
		return nil, ErrThreadNotFound
	}
	return &thread, nil
}

// AddReply appends a reply and refreshes the thread's last-reply summary.
func (s *ForumService) AddReply(blockSpaceID, threadID, authorID uuid.UUID, parentID *uuid.UUID, content string) (*ForumReply, error) {
	if len(content) < 1 || len(content) > 2000 {
		return nil, errors.New("reply must be 1-2000 characters")
	}
	if _, err := s.GetThread(blockSpaceID, threadID); err != nil {
		return nil, err
	}

	reply := &ForumReply{
		ID:       uuid.New(),
		ThreadID: threadID,
		AuthorID: authorID,
		ParentID: parentID,
		Content:  content,
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		return tx.Model(&ForumThread{}).Where("id = ?", threadID).
			Updates(map[string]interface{}{
				"reply_count":   gorm.Expr("reply_count + 1"),
				"last_reply_by": authorID,
				"last_reply_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	s.broker.Publish(context.Background(), realtime.Event{
		Table: "forum_replies", Type: realtime.EventInsert,
		BlockSpaceID: blockSpaceID, Row: reply,
	})
	return reply, nil
}

// ListReplies returns a thread's replies oldest first.
func (s *ForumService) ListReplies(blockSpaceID, threadID uuid.UUID, page, limit int) ([]ForumReply, error) {
	if _, err := s.GetThread(blockSpaceID, threadID); err != nil {
		return nil, err
	}

	var replies []ForumReply
	err := s.db.Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&replies).Error
	return replies, err
}

// ToggleLike likes or unlikes a thread.
func (s *ForumService) ToggleLike(blockSpaceID, threadID, userID uuid.UUID) error {
	if _, err := s.GetThread(blockSpaceID, threadID); err != nil {
		return err
	}

	var existing ForumThreadLike
	err := s.db.Where("thread_id = ? AND user_id = ?", threadID, userID).
		First(&existing).Error
	if err == nil {
		s.db.Delete(&existing)
		s.db.Model(&ForumThread{}).Where("id = ?", threadID).
			Update("like_count", gorm.Expr("like_count - 1"))
		return nil
	}

	like := &ForumThreadLike{
		ID:       uuid.New(),
		ThreadID: threadID,
		UserID:   userID,
	}
	if err := s.db.Create(like).Error; err != nil {
		return err
	}
	s.db.Model(&ForumThread{}).Where("id = ?", threadID).
		Update("like_count", gorm.Expr("like_count + 1"))
	return nil
}

// DeleteThread removes a thread (author or space admin only).
func (s *ForumService) DeleteThread(blockSpaceID, threadID, actorID uuid.UUID) error {
	thread, err := s.GetThread(blockSpaceID, threadID)
	if err != nil {
		return err
	}
	if thread.AuthorID != actorID && !scope.IsSpaceAdmin(s.db, blockSpaceID, actorID) {
		return ErrForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", threadID).Delete(&ForumReply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("thread_id = ?", threadID).Delete(&ForumThreadLike{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(thread).Error; err != nil {
			return err
		}
		return tx.Model(&ForumCategory{}).
			Where("block_space_id = ? AND value = ?", blockSpaceID, thread.Category).
			Update("thread_count", gorm.Expr("thread_count - 1")).Error
	})
	if err != nil {
		return err
	}

	s.broker.Publish(context.Background(), realtime.Event{
		Table: "forum_threads", Type: realtime.EventDelete,
		BlockSpaceID: blockSpaceID, Row: thread,
	})
	return nil
}
