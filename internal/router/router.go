package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-arena-api/internal/config"
	"github.com/noah-isme/gema-arena-api/internal/handler"
	"github.com/noah-isme/gema-arena-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	RankingHandler    *handler.RankingHandler
	SubmissionHandler *handler.SubmissionHandler
	JWTMiddleware     fiber.Handler
	// RankingLimiter throttles event leaderboard recomputation.
	RankingLimiter fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = passThrough
	}
	rankingLimiter := deps.RankingLimiter
	if rankingLimiter == nil {
		rankingLimiter = passThrough
	}

	if deps.RankingHandler != nil {
		events := api.Group("/events", jwtMiddleware, rankingLimiter)
		deps.RankingHandler.RegisterEvents(events)

		platform := api.Group("/ranking", jwtMiddleware)
		deps.RankingHandler.RegisterPlatform(platform)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions)

		questions := api.Group("/questions", jwtMiddleware)
		deps.SubmissionHandler.RegisterQuestions(questions)
	}
}

func passThrough(c *fiber.Ctx) error {
	return c.Next()
}
