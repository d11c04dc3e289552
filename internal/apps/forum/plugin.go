package forum

import (
	"github.com/blockconnect/backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type ForumPlugin struct{}

func New() *ForumPlugin {
	return &ForumPlugin{}
}

func (p *ForumPlugin) ID() string { return "forum" }

func (p *ForumPlugin) Models() []interface{} {
	return []interface{}{
		&ForumCategory{},
		&ForumThread{},
		&ForumReply{},
		&ForumThreadLike{},
	}
}

func (p *ForumPlugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	svc := NewForumService(deps.DB, deps.Broker, deps.Catalog)
	h := NewForumHandler(svc)

	router.Get("/forum/categories", h.ListCategories)
	router.Get("/forum/threads", h.ListThreads)
	router.Post("/forum/threads", h.CreateThread)
	router.Get("/forum/threads/:id", h.GetThread)
	router.Post("/forum/threads/:id/replies", h.AddReply)
	router.Get("/forum/threads/:id/replies", h.ListReplies)
	router.Post("/forum/threads/:id/like", h.ToggleLike)
	router.Delete("/forum/threads/:id", h.DeleteThread)
}
