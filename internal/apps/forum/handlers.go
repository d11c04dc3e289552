package forum

import (
	"errors"

	"github.com/blockconnect/backend/internal/dto"
	"github.com/blockconnect/backend/internal/scope"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ForumHandler struct {
	service *ForumService
}

func NewForumHandler(service *ForumService) *ForumHandler {
	return &ForumHandler{service: service}
}

// --- Request DTOs ---

type CreateThreadRequest struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

type AddReplyRequest struct {
	Content  string     `json:"content"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

func (h *ForumHandler) ListCategories(c *fiber.Ctx) error {
	blockSpaceID, err := scope.GetBlockSpaceID(c)
	if err != nil {
		return unauthorized(c)
	}

	cats, err := h.service.ListCategories(blockSpaceID)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{"data": cats})
}

func (h *ForumHandler) CreateThread(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}

	thread, err := h.service.CreateThread(blockSpaceID, userID, req.Category, req.Title, req.Content)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(thread)
}

func (h *ForumHandler) ListThreads(c *fiber.Ctx) error {
	blockSpaceID, err := scope.GetBlockSpaceID(c)
	if err != nil {
		return unauthorized(c)
	}
	page, limit := pageParams(c)
	category := c.Query("category")

	threads, total, err := h.service.ListThreads(blockSpaceID, category, page, limit)
	if err != nil {
		return serverError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"threads":    threads,
			"pagination": dto.NewPagination(page, limit, total),
		},
	})
}

func (h *ForumHandler) GetThread(c *fiber.Ctx) error {
	blockSpaceID, err := scope.GetBlockSpaceID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid thread ID")
	}

	thread, err := h.service.GetThread(blockSpaceID, id)
	if err != nil {
		return notFound(c, err.Error())
	}
	return c.JSON(thread)
}

func (h *ForumHandler) AddReply(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid thread ID")
	}

	var req AddReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}

	reply, err := h.service.AddReply(blockSpaceID, id, userID, req.ParentID, req.Content)
	if err != nil {
		if errors.Is(err, ErrThreadNotFound) {
			return notFound(c, err.Error())
		}
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

func (h *ForumHandler) ListReplies(c *fiber.Ctx) error {
	blockSpaceID, err := scope.GetBlockSpaceID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid thread ID")
	}
	page, limit := pageParams(c)

	replies, err := h.service.ListReplies(blockSpaceID, id, page, limit)
	if err != nil {
		if errors.Is(err, ErrThreadNotFound) {
			return notFound(c, err.Error())
		}
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{"data": replies})
}

func (h *ForumHandler) ToggleLike(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid thread ID")
	}

	if err := h.service.ToggleLike(blockSpaceID, id, userID); err != nil {
		if errors.Is(err, ErrThreadNotFound) {
			return notFound(c, err.Error())
		}
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ForumHandler) DeleteThread(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid thread ID")
	}

	if err := h.service.DeleteThread(blockSpaceID, id, userID); err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
		case errors.Is(err, ErrThreadNotFound):
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

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": msg})
}

func serverError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
}
