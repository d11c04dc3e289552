package announcements

import (
	"github.com/blockconnect/backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type AnnouncementsPlugin struct{}

func New() *AnnouncementsPlugin {
	return &AnnouncementsPlugin{}
}

func (p *AnnouncementsPlugin) ID() string { return "announcements" }

func (p *AnnouncementsPlugin) Models() []interface{} {
	return []interface{}{
		&Announcement{},
		&AnnouncementInteraction{},
	}
}

func (p *AnnouncementsPlugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	svc := NewAnnouncementService(deps.DB, deps.Broker, deps.Mailer)
	h := NewAnnouncementHandler(svc)

	router.Get("/announcements", h.List)
	router.Post("/announcements", h.Create)
	router.Get("/announcements/:id", h.GetByID)
	router.Put("/announcements/:id/approve", h.Approve)
	router.Put("/announcements/:id/pin", h.TogglePin)
	router.Post("/announcements/:id/like", h.ToggleLike)
	router.Post("/announcements/:id/comments", h.AddComment)
	router.Get("/announcements/:id/comments", h.GetComments)
	router.Delete("/announcements/:id", h.Delete)
}

// RegisterAdminRoutes mounts the platform moderation queue.
func (p *AnnouncementsPlugin) RegisterAdminRoutes(router fiber.Router, deps *apps.Deps) {
	svc := NewAnnouncementService(deps.DB, deps.Broker, deps.Mailer)
	h := NewAnnouncementHandler(svc)

	router.Get("/announcements/pending", h.ListPending)
}
