package handlers

import (
	"errors"

	"github.com/blockconnect/backend/internal/dto"
	"github.com/blockconnect/backend/internal/scope"
	"github.com/blockconnect/backend/internal/services"
	"github.com/blockconnect/backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationHandler covers the join workflow: a user applies to a
// block space, a space admin approves or rejects.
type ApplicationHandler struct {
	service *services.MembershipService
	db      *gorm.DB
}

func NewApplicationHandler(service *services.MembershipService, db *gorm.DB) *ApplicationHandler {
	return &ApplicationHandler{service: service, db: db}
}

func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	blockSpaceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid block space ID")
	}

	app, err := h.service.Apply(userID, blockSpaceID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBlockSpaceNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, services.ErrDuplicateApplication), errors.Is(err, services.ErrAlreadyMember):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return serverError(c, err)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}

// ListForSpace is admin-only: applications carry applicant identities.
func (h *ApplicationHandler) ListForSpace(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	blockSpaceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid block space ID")
	}
	if !scope.IsSpaceAdmin(h.db, blockSpaceID, userID) {
		return forbidden(c, "Space admin access required")
	}

	page, limit := pageParams(c)
	apps, total, err := h.service.ListForSpace(blockSpaceID, c.Query("status"), page, limit)
	if err != nil {
		return serverError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"applications": apps,
			"pagination":   dto.NewPagination(page, limit, total),
		},
	})
}

func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	apps, err := h.service.ListMine(userID)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{"data": apps})
}

func (h *ApplicationHandler) Review(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	applicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid application ID")
	}

	var req dto.ReviewApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	app, err := h.service.Review(applicationID, userID, isPlatformAdmin(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound), errors.Is(err, services.ErrBlockSpaceNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, services.ErrForbidden):
			return forbidden(c, err.Error())
		case errors.Is(err, services.ErrApplicationResolved):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return badRequest(c, err.Error())
		}
	}
	return c.JSON(app)
}
