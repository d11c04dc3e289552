package documents

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/blockconnect/backend/internal/catalog"
	"github.com/blockconnect/backend/internal/realtime"
	"github.com/blockconnect/backend/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrNotUploader      = errors.New("only the uploader or a space admin can delete a document")
	ErrInvalidCategory  = errors.New("invalid document category")
)

type DocumentService struct {
	db      *gorm.DB
	broker  *realtime.Broker
	catalog *catalog.Catalog
}

func NewDocumentService(db *gorm.DB, broker *realtime.Broker, cat *catalog.Catalog) *DocumentService {
	return &DocumentService{db: db, broker: broker, catalog: cat}
}

// Create records an already-stored file. Admin uploads go live
// immediately; member uploads wait for approval.
func (s *DocumentService) Create(doc *Document, isAdmin bool) (*Document, error) {
	if !s.catalog.ValidDocumentCategory(doc.Category) {
		return nil, ErrInvalidCategory
	}

	doc.ID = uuid.New()
	doc.Status = StatusPending
	if isAdmin {
		doc.Status = StatusApproved
	}
	if err := s.db.Create(doc).Error; err != nil {
		return nil, err
	}

	if doc.Status == StatusApproved {
		s.publish(realtime.EventInsert, doc)
	}
	return doc, nil
}

// List returns approved documents plus the caller's own pending ones;
// admins see everything. Category and status filters are optional.
func (s *DocumentService) List(blockSpaceID, userID uuid.UUID, isAdmin bool, category, status string, page, limit int) ([]Document, int64, error) {
	query := s.db.Model(&Document{}).Scopes(scope.ForBlockSpace(blockSpaceID))

	if !isAdmin {
		query = query.Where("status = ? OR uploader_id = ?", StatusApproved, userID)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var docs []Document
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// Get loads a document the caller may read: approved, own, or any for admins.
func (s *DocumentService) Get(blockSpaceID, docID, userID uuid.UUID, isAdmin bool) (*Document, error) {
	var doc Document
	err := s.db.Scopes(scope.ForBlockSpace(blockSpaceID)).
		First(&doc, "id = ?", docID).Error
	if err != nil {
		return nil, ErrDocumentNotFound
	}
	if doc.Status != StatusApproved && doc.UploaderID != userID && !isAdmin {
		return nil, ErrDocumentNotFound
	}
	return &doc, nil
}

func (s *DocumentService) Approve(blockSpaceID, docID uuid.UUID) (*Document, error) {
	var doc Document
	err := s.db.Scopes(scope.ForBlockSpace(blockSpaceID)).
		First(&doc, "id = ?", docID).Error
	if err != nil {
		return nil, ErrDocumentNotFound
	}

	if doc.Status != StatusApproved {
		if err := s.db.Model(&doc).Update("status", StatusApproved).Error; err != nil {
			return nil, err
		}
		doc.Status = StatusApproved
		s.publish(realtime.EventUpdate, &doc)
	}
	return &doc, nil
}

// Delete removes the record and the stored file. A missing file is
// logged, not fatal: the row is the source of truth.
func (s *DocumentService) Delete(blockSpaceID, docID, userID uuid.UUID, isAdmin bool) error {
	var doc Document
	err := s.db.Scopes(scope.ForBlockSpace(blockSpaceID)).
		First(&doc, "id = ?", docID).Error
	if err != nil {
		return ErrDocumentNotFound
	}
	if doc.UploaderID != userID && !isAdmin {
		return ErrNotUploader
	}

	if err := s.db.Delete(&doc).Error; err != nil {
		return err
	}
	if err := os.Remove(doc.StoragePath); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove document file", "path", doc.StoragePath, "error", err)
	}

	s.publish(realtime.EventDelete, &doc)
	return nil
}

func (s *DocumentService) publish(eventType string, doc *Document) {
	s.broker.Publish(context.Background(), realtime.Event{
		Table:        "documents",
		Type:         eventType,
		BlockSpaceID: doc.BlockSpaceID,
		Row:          doc,
	})
}
