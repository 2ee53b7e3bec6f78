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

// SubmissionHandler manages submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("/:id/results", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleJudge), h.recordResults)
}

// RegisterQuestions attaches the submission intake route under the questions group.
func (h *SubmissionHandler) RegisterQuestions(router fiber.Router) {
	router.Post("/:id/submissions", h.submit)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	questionID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid question id")
	}

	var payload dto.SubmitSolutionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.Submit(c.UserContext(), questionID, userID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission queued", submission)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	resp, err := h.service.List(c.UserContext(), userID, dto.SubmissionListRequest{Page: page, PageSize: pageSize})
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, resp.Items, "submissions retrieved", resp.Pagination)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	submission, err := h.service.Get(c.UserContext(), id, middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *SubmissionHandler) recordResults(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var payload dto.JudgeResultsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.RecordResults(c.UserContext(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "results recorded", submission)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrSubmissionForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
	case errors.Is(err, service.ErrNotEventParticipant):
		return utils.SendError(c, fiber.StatusForbidden, "you are not a participant of this event")
	case errors.Is(err, service.ErrAttemptLimitReached):
		return utils.SendError(c, fiber.StatusBadRequest, "attempt limit reached")
	case errors.Is(err, service.ErrSubmissionAlreadyJudged):
		return utils.SendError(c, fiber.StatusConflict, "submission already judged")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
