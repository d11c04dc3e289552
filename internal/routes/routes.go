package routes

import (
	"time"

	"github.com/blockconnect/backend/internal/apps"
	"github.com/blockconnect/backend/internal/config"
	"github.com/blockconnect/backend/internal/handlers"
	"github.com/blockconnect/backend/internal/middleware"
	"github.com/blockconnect/backend/internal/realtime"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	broker *realtime.Broker,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	blockSpaceHandler *handlers.BlockSpaceHandler,
	applicationHandler *handlers.ApplicationHandler,
	userHandler *handlers.UserHandler,
	deps *apps.Deps,
	plugins []apps.Plugin,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/register/block-space", authHandler.RegisterWithBlockSpace)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected auth routes; middleware applied per-route so the public
	// auth endpoints above stay public.
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Block spaces: discovery is open to any authenticated user so
	// applicants can browse before they belong anywhere.
	jwt := middleware.JWTProtected(cfg)
	api.Get("/block-spaces", jwt, blockSpaceHandler.List)
	api.Get("/block-spaces/:id", jwt, blockSpaceHandler.GetByID)
	api.Post("/block-spaces", jwt, blockSpaceHandler.Create)
	api.Put("/block-spaces/:id", jwt, blockSpaceHandler.Update)
	api.Delete("/block-spaces/:id", jwt, blockSpaceHandler.Delete)

	// Membership applications
	api.Post("/block-spaces/:id/applications", jwt, applicationHandler.Apply)
	api.Get("/block-spaces/:id/applications", jwt, applicationHandler.ListForSpace)
	api.Get("/applications/mine", jwt, applicationHandler.ListMine)
	api.Put("/applications/:id", jwt, applicationHandler.Review)

	// Users
	api.Get("/users/:id", jwt, userHandler.GetByID)
	api.Put("/users/:id", jwt, userHandler.Update)

	// Platform admin panel
	admin := api.Group("/admin", jwt, middleware.AdminRequired(db, cfg))
	admin.Get("/users", userHandler.List)
	admin.Put("/users/:id/role", userHandler.AssignRole)
	admin.Delete("/users/:id", userHandler.Delete)

	// Realtime change feed. The limiter would count the long-lived
	// connection against the API budget, so the WS route sits outside
	// the /api group.
	app.Get("/ws", realtime.UpgradeGuard(cfg), realtime.Handler(broker))

	// Feature plugin routes: JWT plus block-space membership.
	protected := api.Group("/p", jwt, middleware.MemberRequired())
	for _, p := range plugins {
		p.RegisterRoutes(protected, deps)
		if ap, ok := p.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin, deps)
		}
	}
}
