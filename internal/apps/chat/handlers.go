package chat

import (
	"errors"

	"github.com/blockconnect/backend/internal/dto"
	"github.com/blockconnect/backend/internal/scope"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ChatHandler struct {
	service *ChatService
}

func NewChatHandler(service *ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// --- Request DTOs ---

type CreateRoomRequest struct {
	Type         string      `json:"type"`
	Name         *string     `json:"name,omitempty"`
	Participants []uuid.UUID `json:"participants"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

func (h *ChatHandler) ListRooms(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	rooms, err := h.service.ListRooms(blockSpaceID, userID)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{"data": rooms})
}

func (h *ChatHandler) CreateRoom(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}

	room, err := h.service.CreateRoom(blockSpaceID, userID, req.Type, req.Name, req.Participants)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	roomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid room ID")
	}
	page, limit := pageParams(c)

	messages, total, err := h.service.ListMessages(blockSpaceID, roomID, userID, page, limit)
	if err != nil {
		return roomError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"messages":   messages,
			"pagination": dto.NewPagination(page, limit, total),
		},
	})
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	roomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid room ID")
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}

	msg, err := h.service.SendMessage(blockSpaceID, roomID, userID, req.Content)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrNotParticipant) {
			return roomError(c, err)
		}
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	blockSpaceID, userID, err := callerScope(c)
	if err != nil {
		return unauthorized(c)
	}

	roomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid room ID")
	}

	if err := h.service.MarkRead(blockSpaceID, roomID, userID); err != nil {
		return roomError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ChatHandler) OnlineUsers(c *fiber.Ctx) error {
	blockSpaceID, err := scope.GetBlockSpaceID(c)
	if err != nil {
		return unauthorized(c)
	}

	return c.JSON(fiber.Map{"data": h.service.OnlineUsers(c.Context(), blockSpaceID)})
}

// --- shared helpers ---

func roomError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
	case errors.Is(err, ErrNotParticipant):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
	default:
		return serverError(c, err)
	}
}

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
	limit = c.QueryInt("limit", 50)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return page, limit
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": msg})
}

func serverError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
}
