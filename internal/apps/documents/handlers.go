package documents

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blockconnect/backend/internal/config"
	"github.com/blockconnect/backend/internal/dto"
	"github.com/blockconnect/backend/internal/scope"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentHandler struct {
	service *DocumentService
	db      *gorm.DB
	cfg     *config.Config
}

func NewDocumentHandler(service *DocumentService, db *gorm.DB, cfg *config.Config) *DocumentHandler {
	return &DocumentHandler{service: service, db: db, cfg: cfg}
}

// Upload accepts a multipart form with a "file" part plus name,
// category and optional description fields.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "File is required")
	}
	if fileHeader.Size > h.cfg.MaxUploadSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error":   true,
			"message": fmt.Sprintf("File exceeds the %d MB limit", h.cfg.MaxUploadSize/(1024*1024)),
		})
	}

	name := c.FormValue("name")
	if name == "" {
		name = fileHeader.Filename
	}
	category := c.FormValue("category", "other")

	dir := filepath.Join(h.cfg.UploadDir, blockSpaceID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return serverError(c, err)
	}
	storagePath := filepath.Join(dir, uuid.NewString()+filepath.Ext(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, storagePath); err != nil {
		return serverError(c, err)
	}

	doc := &Document{
		BlockSpaceID: blockSpaceID,
		UploaderID:   userID,
		Name:         name,
		FileType:     FileType(fileHeader.Filename, fileHeader.Header.Get("Content-Type")),
		FileSize:     fileHeader.Size,
		Category:     category,
		StoragePath:  storagePath,
	}
	if desc := c.FormValue("description"); desc != "" {
		doc.Description = &desc
	}

	created, err := h.service.Create(doc, scope.IsSpaceAdmin(h.db, blockSpaceID, userID))
	if err != nil {
		// The file was already written; don't leave it orphaned.
		_ = os.Remove(storagePath)
		if errors.Is(err, ErrInvalidCategory) {
			return badRequest(c, err.Error())
		}
		return serverError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}
	page, limit := pageParams(c)

	docs, total, err := h.service.List(
		blockSpaceID, userID,
		scope.IsSpaceAdmin(h.db, blockSpaceID, userID),
		c.Query("category"), c.Query("status"),
		page, limit,
	)
	if err != nil {
		return serverError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"documents":  docs,
			"pagination": dto.NewPagination(page, limit, total),
		},
	})
}

// Download streams the stored file with the original name.
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid document ID")
	}

	doc, err := h.service.Get(blockSpaceID, id, userID, scope.IsSpaceAdmin(h.db, blockSpaceID, userID))
	if err != nil {
		return notFound(c, err.Error())
	}
	return c.Download(doc.StoragePath, doc.Name)
}

func (h *DocumentHandler) Approve(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}
	if !scope.IsSpaceAdmin(h.db, blockSpaceID, userID) {
		return forbidden(c, "Space admin access required")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid document ID")
	}

	doc, err := h.service.Approve(blockSpaceID, id)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return notFound(c, err.Error())
		}
		return serverError(c, err)
	}
	return c.JSON(doc)
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid document ID")
	}

	err = h.service.Delete(blockSpaceID, id, userID, scope.IsSpaceAdmin(h.db, blockSpaceID, userID))
	if err != nil {
		switch {
		case errors.Is(err, ErrDocumentNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, ErrNotUploader):
			return forbidden(c, err.Error())
		default:
			return serverError(c, err)
		}
	}
	return c.JSON(fiber.Map{"success": true})
}

// Categories exposes the configured document categories for upload forms.
func (h *DocumentHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.catalog.DocumentCategories()})
}

// --- shared helpers ---

func callerScope(c *fiber.Ctx) (blockSpaceID, userID uuid.UUID, err error) {
	userID, err = scope.GetUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	blockSpaceID, err = scope.GetBlockSpaceID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return blockSpaceID, userID, nil
}

func pageParams(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", 1)
	limit = c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return page, limit
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": msg})
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": msg})
}

func serverError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
}
