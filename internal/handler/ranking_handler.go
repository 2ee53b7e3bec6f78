package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-arena-api/internal/dto"
	"github.com/noah-isme/gema-arena-api/internal/middleware"
	"github.com/noah-isme/gema-arena-api/internal/service"
	"github.com/noah-isme/gema-arena-api/internal/utils"
)

// RankingHandler serves event leaderboards and the platform-wide ranking.
type RankingHandler struct {
	events   service.RankingService
	platform service.PlatformRankingService
	logger   zerolog.Logger
	debug    bool
}

// NewRankingHandler constructs the handler. With debug set, failure responses carry the
// underlying error text.
func NewRankingHandler(events service.RankingService, platform service.PlatformRankingService, logger zerolog.Logger, debug bool) *RankingHandler {
	return &RankingHandler{
		events:   events,
		platform: platform,
		logger:   logger.With().Str("component", "ranking_handler").Logger(),
		debug:    debug,
	}
}

// RegisterEvents attaches the event leaderboard route.
func (h *RankingHandler) RegisterEvents(router fiber.Router) {
	router.Get("/:id/ranking", h.eventRanking)
}

// RegisterPlatform attaches the platform ranking routes.
func (h *RankingHandler) RegisterPlatform(router fiber.Router) {
	router.Get("/geral", h.platformRanking)
	router.Post("/geral/pontos", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleTeacher), h.awardPoints)
}

func (h *RankingHandler) eventRanking(c *fiber.Ctx) error {
	eventID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid event id")
	}

	rows, err := h.events.EventRanking(c.UserContext(), eventID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "ranking retrieved", rows)
}

func (h *RankingHandler) platformRanking(c *fiber.Ctx) error {
	rows, err := h.platform.Standings(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "ranking retrieved", rows)
}

func (h *RankingHandler) awardPoints(c *fiber.Ctx) error {
	var payload dto.AwardPointsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	score, err := h.platform.AwardPoints(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	requestLogger(h.logger, c).Info().
		Uint("actor_id", middleware.UserID(c)).
		Uint("user_id", payload.UserID).
		Int64("points", payload.Points).
		Msg("platform points awarded")

	return utils.SendSuccess(c, "points awarded", score)
}

func (h *RankingHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "event not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Str("path", c.Path()).Msg("ranking request failed")
		var details interface{}
		if h.debug {
			details = fiber.Map{"error": err.Error()}
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to compute ranking", details)
	}
}
