package apps

import (
	"github.com/blockconnect/backend/internal/catalog"
	"github.com/blockconnect/backend/internal/config"
	"github.com/blockconnect/backend/internal/notify"
	"github.com/blockconnect/backend/internal/realtime"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps carries the shared infrastructure feature modules build on.
type Deps struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Broker  *realtime.Broker
	Catalog *catalog.Catalog
	Mailer  notify.Mailer
}

// Plugin defines the interface every feature module (announcements,
// forum, chat, documents) implements.
type Plugin interface {
	// ID returns the unique feature identifier.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts feature routes on the given Fiber group.
	// The group is already prefixed with /api and has JWT plus
	// block-space membership middleware applied.
	RegisterRoutes(router fiber.Router, deps *Deps)
}

// AdminPlugin extends Plugin with platform-admin route registration.
type AdminPlugin interface {
	Plugin

	// RegisterAdminRoutes mounts admin-only routes on the given Fiber
	// group. The group has both JWT and admin middleware applied.
	RegisterAdminRoutes(router fiber.Router, deps *Deps)
}
