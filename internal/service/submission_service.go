package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-arena-api/internal/dto"
	"github.com/noah-isme/gema-arena-api/internal/grading"
	"github.com/noah-isme/gema-arena-api/internal/models"
	"github.com/noah-isme/gema-arena-api/internal/observability"
	"github.com/noah-isme/gema-arena-api/internal/repository"
)

// ErrSubmissionNotFound indicates the submission cannot be located.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrSubmissionForbidden indicates the caller is not allowed to access the submission.
var ErrSubmissionForbidden = errors.New("forbidden")

// ErrSubmissionAlreadyJudged indicates judge results were already recorded.
var ErrSubmissionAlreadyJudged = errors.New("submission already judged")

// ErrQuestionNotFound indicates the question cannot be located.
var ErrQuestionNotFound = errors.New("question not found")

// ErrNotEventParticipant indicates the question belongs to an event the user has not joined.
var ErrNotEventParticipant = errors.New("not an event participant")

// ErrAttemptLimitReached indicates the user has no attempts left for the question.
var ErrAttemptLimitReached = errors.New("attempt limit reached")

// SubmissionService exposes submission intake, history and judge result ingestion.
type SubmissionService interface {
	Submit(ctx context.Context, questionID uint, userID uint, payload dto.SubmitSolutionRequest) (dto.SubmissionResponse, error)
	List(ctx context.Context, userID uint, req dto.SubmissionListRequest) (dto.SubmissionListResponse, error)
	Get(ctx context.Context, id uint, viewerID uint, role string) (dto.SubmissionResponse, error)
	RecordResults(ctx context.Context, id uint, payload dto.JudgeResultsRequest) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	questions   repository.QuestionRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	pageSize    int
	now         func() time.Time
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(submissions repository.SubmissionRepository, questions repository.QuestionRepository, validate *validator.Validate, logger zerolog.Logger, defaultPageSize int) SubmissionService {
	return &submissionService{
		submissions: submissions,
		questions:   questions,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		pageSize:    clampPageSize(defaultPageSize),
		now:         time.Now,
	}
}

// Submit queues a new attempt for the external judge. The submission is stored as
// processing with a fresh judge token; results arrive later through RecordResults.
func (s *submissionService) Submit(ctx context.Context, questionID uint, userID uint, payload dto.SubmitSolutionRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrQuestionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if question.EventID != nil {
		joined, err := s.questions.IsEventParticipant(ctx, userID, *question.EventID)
		if err != nil {
			return dto.SubmissionResponse{}, err
		}
		if !joined {
			return dto.SubmissionResponse{}, ErrNotEventParticipant
		}
	}

	submission := models.Submission{
		UserID:      userID,
		QuestionID:  question.ID,
		Code:        payload.Code,
		Language:    strings.TrimSpace(payload.Language),
		SubmittedAt: s.now().UTC(),
		Status:      models.SubmissionStatusProcessing,
		JudgeToken:  uuid.NewString(),
	}
	if err := s.submissions.Create(ctx, &submission, question.Attempts); err != nil {
		if errors.Is(err, repository.ErrAttemptLimitReached) {
			return dto.SubmissionResponse{}, ErrAttemptLimitReached
		}
		return dto.SubmissionResponse{}, err
	}
	submission.Question = question

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("question_id", question.ID).
		Uint("user_id", userID).
		Uint("attempt", submission.Attempt).
		Msg("submission queued")

	return dto.NewSubmissionResponse(submission, true), nil
}

func (s *submissionService) List(ctx context.Context, userID uint, req dto.SubmissionListRequest) (dto.SubmissionListResponse, error) {
	page := normalizePage(req.Page)
	pageSize := s.pageSize
	if req.PageSize > 0 {
		pageSize = clampPageSize(req.PageSize)
	}

	submissions, total, err := s.submissions.List(ctx, repository.SubmissionFilter{
		UserID: &userID,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return dto.SubmissionListResponse{}, err
	}

	items := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		items = append(items, dto.NewSubmissionResponse(submission, true))
	}

	return dto.SubmissionListResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: calculateTotalPages(total, pageSize),
		},
	}, nil
}

func (s *submissionService) Get(ctx context.Context, id uint, viewerID uint, role string) (dto.SubmissionResponse, error) {
	submission, err := s.load(ctx, id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if !canViewSubmission(viewerID, role, submission) {
		return dto.SubmissionResponse{}, ErrSubmissionForbidden
	}

	return dto.NewSubmissionResponse(submission, true), nil
}

// RecordResults stores the judge verdicts for a submission and computes its score.
func (s *submissionService) RecordResults(ctx context.Context, id uint, payload dto.JudgeResultsRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.load(ctx, id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if submission.Status == models.SubmissionStatusDone || submission.Status == models.SubmissionStatusError {
		return dto.SubmissionResponse{}, ErrSubmissionAlreadyJudged
	}

	results := make([]models.TestResult, 0, len(payload.Results))
	for _, item := range payload.Results {
		results = append(results, models.TestResult{
			TestCaseID: item.TestCaseID,
			Status:     strings.TrimSpace(item.Status),
			Output:     item.Output,
			Message:    item.Message,
			Time:       item.Time,
		})
	}

	if payload.Status == models.SubmissionStatusError {
		submission.Status = models.SubmissionStatusError
		submission.Score = nil
		submission.Details = datatypes.JSONMap{"error": payload.Error}
	} else {
		submission.Status = models.SubmissionStatusDone
		submission.Score = grading.Score(submission.Question.Points, payload.Outcomes())
		submission.Details = datatypes.JSONMap{"processed_at": s.now().UTC().Format(time.RFC3339)}
	}

	if err := s.submissions.SaveResults(ctx, &submission, results); err != nil {
		return dto.SubmissionResponse{}, err
	}
	observability.JudgeResultsProcessed().WithLabelValues(submission.Status).Inc()

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Str("status", submission.Status).
		Int("results", len(results)).
		Msg("judge results recorded")

	stored, err := s.load(ctx, id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	return dto.NewSubmissionResponse(stored, false), nil
}

func (s *submissionService) load(ctx context.Context, id uint) (models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}
	return submission, nil
}

func canViewSubmission(viewerID uint, role string, submission models.Submission) bool {
	if viewerID != 0 && viewerID == submission.UserID {
		return true
	}
	role = strings.ToLower(strings.TrimSpace(role))
	return role == "teacher" || role == "admin"
}
