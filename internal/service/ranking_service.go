package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/gema-arena-api/internal/dto"
	"github.com/noah-isme/gema-arena-api/internal/observability"
	"github.com/noah-isme/gema-arena-api/internal/ranking"
)

// ErrEventNotFound indicates the event cannot be located.
var ErrEventNotFound = errors.New("event not found")

// ErrRankingUnavailable indicates the ranking could not be computed.
var ErrRankingUnavailable = errors.New("ranking unavailable")

// RankingService computes event leaderboards.
type RankingService interface {
	EventRanking(ctx context.Context, eventID uint) ([]dto.RankingEntryResponse, error)
}

type rankingService struct {
	source ranking.StatsSource
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewRankingService constructs the ranking service on top of a stats source.
func NewRankingService(source ranking.StatsSource, logger zerolog.Logger) RankingService {
	return &rankingService{
		source: source,
		logger: logger.With().Str("component", "ranking_service").Logger(),
		tracer: otel.Tracer("github.com/noah-isme/gema-arena-api/internal/service/ranking"),
	}
}

// EventRanking recomputes the standings of an event on every call.
// Any failure, including a panic in the computation, is logged and reported as
// ErrRankingUnavailable so callers never see a partial ranking.
func (s *rankingService) EventRanking(ctx context.Context, eventID uint) (rows []dto.RankingEntryResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "ranking.compute", trace.WithAttributes(
		attribute.Int64("ranking.event_id", int64(eventID)),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		observability.RankingLatency().Observe(time.Since(start).Seconds())
	}()

	defer func() {
		if recovered := recover(); recovered != nil {
			rows = nil
			err = fmt.Errorf("%w: %v", ErrRankingUnavailable, recovered)
			span.SetStatus(codes.Error, "ranking_panic")
			observability.RankingComputations().WithLabelValues(observability.OutcomeFailure).Inc()
			s.logger.Error().
				Uint("event_id", eventID).
				Interface("panic", recovered).
				Str("stack", string(debug.Stack())).
				Msg("ranking computation panicked")
		}
	}()

	entries, err := ranking.Compute(ctx, s.source, eventID)
	if err != nil {
		if errors.Is(err, ranking.ErrEventNotFound) {
			observability.RankingComputations().WithLabelValues(observability.OutcomeNotFound).Inc()
			return nil, ErrEventNotFound
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "ranking_failed")
		observability.RankingComputations().WithLabelValues(observability.OutcomeFailure).Inc()
		s.logger.Error().
			Err(err).
			Uint("event_id", eventID).
			Str("stack", string(debug.Stack())).
			Msg("failed to compute event ranking")
		return nil, fmt.Errorf("%w: %w", ErrRankingUnavailable, err)
	}

	span.SetAttributes(attribute.Int("ranking.participants", len(entries)))
	observability.RankingParticipants().Observe(float64(len(entries)))
	observability.RankingComputations().WithLabelValues(observability.OutcomeSuccess).Inc()

	return dto.NewRankingResponse(entries), nil
}
