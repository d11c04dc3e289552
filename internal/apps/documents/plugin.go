package documents

import (
	"github.com/blockconnect/backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type DocumentsPlugin struct{}

func New() *DocumentsPlugin {
	return &DocumentsPlugin{}
}

func (p *DocumentsPlugin) ID() string { return "documents" }

func (p *DocumentsPlugin) Models() []interface{} {
	return []interface{}{
		&Document{},
	}
}

func (p *DocumentsPlugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	svc := NewDocumentService(deps.DB, deps.Broker, deps.Catalog)
	h := NewDocumentHandler(svc, deps.DB, deps.Cfg)

	router.Get("/documents", h.List)
	router.Post("/documents", h.Upload)
	router.Get("/documents/categories", h.Categories)
	router.Get("/documents/:id/download", h.Download)
	router.Put("/documents/:id/approve", h.Approve)
	router.Delete("/documents/:id", h.Delete)
}
