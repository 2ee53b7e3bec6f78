package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-arena-api/internal/config"
	"github.com/noah-isme/gema-arena-api/internal/database"
	"github.com/noah-isme/gema-arena-api/internal/handler"
	"github.com/noah-isme/gema-arena-api/internal/middleware"
	"github.com/noah-isme/gema-arena-api/internal/repository"
	"github.com/noah-isme/gema-arena-api/internal/router"
	"github.com/noah-isme/gema-arena-api/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.Debug() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Without Redis the limiter falls back to per-process counters.
	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		limiterStorage = middleware.NewRedisStorage(redisClient, "gema:limiter:")
	} else {
		logger.Warn().Msg("redis url not configured, rate limiting is per instance")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	rankingRepo := repository.NewRankingRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	platformScoreRepo := repository.NewPlatformScoreRepository(db)
	questionRepo := repository.NewQuestionRepository(db)

	rankingService := service.NewRankingService(rankingRepo, logger)
	platformService := service.NewPlatformRankingService(platformScoreRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, questionRepo, validate, logger, cfg.SubmissionsPageSize)

	rankingHandler := handler.NewRankingHandler(rankingService, platformService, logger, cfg.Debug())
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
		StackTrace:   cfg.Debug(),
	})
	router.Register(app, cfg, router.Dependencies{
		RankingHandler:    rankingHandler,
		SubmissionHandler: submissionHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		RankingLimiter:    middleware.RateLimit("ranking", cfg.RankingRateLimit, cfg.RankingRateWindow, limiterStorage),
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("env", cfg.AppEnv).Msg("starting server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
