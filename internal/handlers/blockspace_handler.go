package handlers

import (
	"errors"

	"github.com/blockconnect/backend/internal/dto"
	"github.com/blockconnect/backend/internal/models"
	"github.com/blockconnect/backend/internal/scope"
	"github.com/blockconnect/backend/internal/services"
	"github.com/blockconnect/backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BlockSpaceHandler struct {
	service *services.BlockSpaceService
}

func NewBlockSpaceHandler(service *services.BlockSpaceService) *BlockSpaceHandler {
	return &BlockSpaceHandler{service: service}
}

func (h *BlockSpaceHandler) List(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	spaces, total, err := h.service.List(c.Query("q"), c.Query("status"), page, limit)
	if err != nil {
		return serverError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"block_spaces": spaces,
			"pagination":   dto.NewPagination(page, limit, total),
		},
	})
}

func (h *BlockSpaceHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid block space ID")
	}

	space, err := h.service.GetByID(id)
	if err != nil {
		return notFound(c, err.Error())
	}
	return c.JSON(space)
}

func (h *BlockSpaceHandler) Create(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateBlockSpaceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	space, err := h.service.Create(&req, userID)
	if err != nil {
		return serverError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(space)
}

func (h *BlockSpaceHandler) Update(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid block space ID")
	}

	var req dto.UpdateBlockSpaceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	space, err := h.service.Update(id, userID, isPlatformAdmin(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBlockSpaceNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, services.ErrForbidden):
			return forbidden(c, err.Error())
		case errors.Is(err, services.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return serverError(c, err)
		}
	}
	return c.JSON(space)
}

func (h *BlockSpaceHandler) Delete(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid block space ID")
	}

	if err := h.service.Delete(id, userID, isPlatformAdmin(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrBlockSpaceNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, services.ErrForbidden):
			return forbidden(c, err.Error())
		default:
			return serverError(c, err)
		}
	}
	return c.JSON(fiber.Map{"success": true})
}

// isPlatformAdmin reads the role claim; platform admins bypass the
// per-space admin list.
func isPlatformAdmin(c *fiber.Ctx) bool {
	return scope.GetRole(c) == models.RoleAdmin
}
