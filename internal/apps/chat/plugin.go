package chat

import (
	"github.com/blockconnect/backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type ChatPlugin struct{}

func New() *ChatPlugin {
	return &ChatPlugin{}
}

func (p *ChatPlugin) ID() string { return "chat" }

func (p *ChatPlugin) Models() []interface{} {
	return []interface{}{
		&ChatRoom{},
		&ChatParticipant{},
		&ChatMessage{},
	}
}

func (p *ChatPlugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	svc := NewChatService(deps.DB, deps.Broker)
	h := NewChatHandler(svc)

	router.Get("/chat/rooms", h.ListRooms)
	router.Post("/chat/rooms", h.CreateRoom)
	router.Get("/chat/rooms/:id/messages", h.ListMessages)
	router.Post("/chat/rooms/:id/messages", h.SendMessage)
	router.Put("/chat/rooms/:id/read", h.MarkRead)
	router.Get("/chat/online", h.OnlineUsers)
}
