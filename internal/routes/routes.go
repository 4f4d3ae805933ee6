package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/leetuiux/leetuiux-backend/internal/config"
	"github.com/leetuiux/leetuiux-backend/internal/handlers"
	"github.com/leetuiux/leetuiux-backend/internal/middleware"
	"github.com/leetuiux/leetuiux-backend/internal/modules"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	storageHandler *handlers.StorageHandler,
	mods []modules.Module,
	deps *modules.Deps,
) {
	// Public serving path for objects flagged public. Lives outside /api
	// so stored public URLs resolve without the API prefix.
	app.Get("/storage/v1/object/public/:container/*", storageHandler.ServePublicObject)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Token-gated object serving: private objects need ?token=...
	api.Get("/storage/object/:container/*", storageHandler.ServeObject)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected auth routes get JWT per-route so the public ones above
	// stay unaffected.
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/session", middleware.JWTProtected(cfg), authHandler.Session)

	protected := api.Group("/p", middleware.JWTProtected(cfg))
	protected.Get("/storage/containers", storageHandler.ListContainers)
	protected.Post("/storage/upload", storageHandler.Upload)
	protected.Post("/storage/sign/:container/*", storageHandler.Sign)

	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))

	for _, m := range mods {
		m.RegisterRoutes(api, protected, deps)
		if am, ok := m.(modules.AdminModule); ok {
			am.RegisterAdminRoutes(admin, deps)
		}
	}
}
