package announcements

import (
	"errors"

	"github.com/blockconnect/backend/internal/dto"
	"github.com/blockconnect/backend/internal/scope"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AnnouncementHandler struct {
	service *AnnouncementService
}

func NewAnnouncementHandler(service *AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

// --- Request DTOs ---

type CreateAnnouncementRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type AddCommentRequest struct {
	Content string `json:"content"`
}

func (h *AnnouncementHandler) Create(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}

	ann, err := h.service.Create(blockSpaceID, userID, req.Title, req.Content)
	if err != nil {
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(ann)
}

func (h *AnnouncementHandler) List(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}
	page, limit := pageParams(c)

	anns, total, err := h.service.List(blockSpaceID, userID, page, limit)
	if err != nil {
		return serverError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"announcements": anns,
			"pagination":    dto.NewPagination(page, limit, total),
		},
	})
}

func (h *AnnouncementHandler) GetByID(c *fiber.Ctx) error {
	blockSpaceID, _, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid announcement ID")
	}

	ann, err := h.service.GetByID(blockSpaceID, id)
	if err != nil {
		return notFound(c, err.Error())
	}
	return c.JSON(ann)
}

// ListPending serves the platform moderation queue. The route sits in
// the admin group, so access is already gated.
func (h *AnnouncementHandler) ListPending(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	anns, total, err := h.service.ListPending(page, limit)
	if err != nil {
		return serverError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"announcements": anns,
			"pagination":    dto.NewPagination(page, limit, total),
		},
	})
}

func (h *AnnouncementHandler) Approve(c *fiber.Ctx) error {
	return h.adminAction(c, h.service.Approve)
}

func (h *AnnouncementHandler) TogglePin(c *fiber.Ctx) error {
	return h.adminAction(c, h.service.TogglePin)
}

func (h *AnnouncementHandler) adminAction(c *fiber.Ctx, action func(blockSpaceID, id, actorID uuid.UUID) (*Announcement, error)) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid announcement ID")
	}

	ann, err := action(blockSpaceID, id, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			return forbidden(c, err.Error())
		case errors.Is(err, ErrNotFound):
			return notFound(c, err.Error())
		default:
			return serverError(c, err)
		}
	}
	return c.JSON(ann)
}

func (h *AnnouncementHandler) ToggleLike(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid announcement ID")
	}

	if err := h.service.ToggleLike(blockSpaceID, id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(c, err.Error())
		}
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *AnnouncementHandler) AddComment(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid announcement ID")
	}

	var req AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}

	comment, err := h.service.AddComment(blockSpaceID, id, userID, req.Content)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(c, err.Error())
		}
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *AnnouncementHandler) GetComments(c *fiber.Ctx) error {
	blockSpaceID, _, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid announcement ID")
	}
	page, limit := pageParams(c)

	comments, err := h.service.GetComments(blockSpaceID, id, page, limit)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(c, err.Error())
		}
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{"data": comments})
}

func (h *AnnouncementHandler) Delete(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid announcement ID")
	}

	if err := h.service.Delete(blockSpaceID, id, userID); err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			return forbidden(c, err.Error())
		case errors.Is(err, ErrNotFound):
			return notFound(c, err.Error())
		default:
			return serverError(c, err)
		}
	}
	return c.JSON(fiber.Map{"success": true})
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
