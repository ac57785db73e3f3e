package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/veilchat/veilchat/internal/config"
	"github.com/veilchat/veilchat/internal/handlers"
	"github.com/veilchat/veilchat/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	moderationHandler *handlers.ModerationHandler,
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

	// Admin login: stricter rate limit, it guards a shared secret.
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/admin/login", authHandler.AdminLogin)

	// Moderation panel: admin token header or admin JWT.
	admin := api.Group("/admin", middleware.JWTParsed(cfg), middleware.AdminRequired(cfg))
	admin.Get("/moderation/reports", moderationHandler.ListReports)
	admin.Put("/moderation/reports/:id", moderationHandler.ActionReport)
	admin.Post("/moderation/bans", moderationHandler.BanUser)
	admin.Delete("/moderation/bans/:id", moderationHandler.UnbanUser)
	admin.Get("/stats", moderationHandler.Stats)
}
