package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-arena-api/internal/dto"
	"github.com/noah-isme/gema-arena-api/internal/repository"
)

// ErrUserNotFound indicates the user cannot be located.
var ErrUserNotFound = errors.New("user not found")

// PlatformRankingService manages the platform-wide points ranking.
type PlatformRankingService interface {
	Standings(ctx context.Context) ([]dto.PlatformRankingEntryResponse, error)
	AwardPoints(ctx context.Context, payload dto.AwardPointsRequest) (dto.PlatformScoreResponse, error)
}

type platformRankingService struct {
	scores    repository.PlatformScoreRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewPlatformRankingService constructs the service.
func NewPlatformRankingService(scores repository.PlatformScoreRepository, validate *validator.Validate, logger zerolog.Logger) PlatformRankingService {
	return &platformRankingService{
		scores:    scores,
		validator: validate,
		logger:    logger.With().Str("component", "platform_ranking_service").Logger(),
		now:       time.Now,
	}
}

func (s *platformRankingService) Standings(ctx context.Context) ([]dto.PlatformRankingEntryResponse, error) {
	standings, err := s.scores.Standings(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewPlatformRankingResponse(standings, s.now()), nil
}

func (s *platformRankingService) AwardPoints(ctx context.Context, payload dto.AwardPointsRequest) (dto.PlatformScoreResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PlatformScoreResponse{}, err
	}

	score, err := s.scores.AddPoints(ctx, payload.UserID, payload.Points)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PlatformScoreResponse{}, ErrUserNotFound
		}
		return dto.PlatformScoreResponse{}, err
	}

	s.logger.Info().
		Uint("user_id", payload.UserID).
		Int64("points", payload.Points).
		Int64("total", score.Points).
		Msg("platform points awarded")

	return dto.NewPlatformScoreResponse(score), nil
}
