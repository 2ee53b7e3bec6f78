package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-arena-api/internal/dto"
	"github.com/noah-isme/gema-arena-api/internal/models"
	"github.com/noah-isme/gema-arena-api/internal/repository"
)

type stubPlatformScoreRepo struct {
	standings []repository.PlatformStanding
	totals    map[uint]int64
}

func (s *stubPlatformScoreRepo) Standings(ctx context.Context) ([]repository.PlatformStanding, error) {
	return s.standings, nil
}

func (s *stubPlatformScoreRepo) AddPoints(ctx context.Context, userID uint, points int64) (models.PlatformScore, error) {
	current, ok := s.totals[userID]
	if !ok {
		return models.PlatformScore{}, gorm.ErrRecordNotFound
	}
	s.totals[userID] = current + points
	return models.PlatformScore{UserID: userID, Points: current + points, UpdatedAt: time.Now()}, nil
}

func TestPlatformRankingServiceStandings(t *testing.T) {
	repo := &stubPlatformScoreRepo{standings: []repository.PlatformStanding{
		{UserID: 2, Username: "bruno", FirstName: "Bruno", TotalPoints: 40, Badges: []string{"https://cdn.test/b.png"}},
		{UserID: 1, Username: "ana", TotalPoints: 40},
		{UserID: 3, Username: "carla", FirstName: "Carla", TotalPoints: 0},
	}}
	svc := NewPlatformRankingService(repo, validator.New(), zerolog.Nop()).(*platformRankingService)
	svc.now = func() time.Time { return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) }

	rows, err := svc.Standings(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []int{1, 2, 3}, []int{rows[0].Position, rows[1].Position, rows[2].Position})
	require.Equal(t, "Bruno", rows[0].Name)
	require.Equal(t, "ana", rows[1].Name)
	require.EqualValues(t, 0, rows[2].Points)
	require.Equal(t, "OVER-2026", rows[0].Season)
	require.Equal(t, []string{"https://cdn.test/b.png"}, rows[0].Badges)
	require.NotNil(t, rows[1].Badges)
	require.Empty(t, rows[1].Badges)
}

func TestPlatformRankingServiceAwardPoints(t *testing.T) {
	repo := &stubPlatformScoreRepo{totals: map[uint]int64{5: 10}}
	svc := NewPlatformRankingService(repo, validator.New(), zerolog.Nop())

	resp, err := svc.AwardPoints(context.Background(), dto.AwardPointsRequest{UserID: 5, Points: 15})
	require.NoError(t, err)
	require.EqualValues(t, 25, resp.Points)
	require.EqualValues(t, 5, resp.UserID)
}

func TestPlatformRankingServiceAwardPointsValidation(t *testing.T) {
	repo := &stubPlatformScoreRepo{totals: map[uint]int64{}}
	svc := NewPlatformRankingService(repo, validator.New(), zerolog.Nop())

	_, err := svc.AwardPoints(context.Background(), dto.AwardPointsRequest{UserID: 0, Points: 5})
	require.Error(t, err)
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
}

func TestPlatformRankingServiceAwardPointsUnknownUser(t *testing.T) {
	repo := &stubPlatformScoreRepo{totals: map[uint]int64{}}
	svc := NewPlatformRankingService(repo, validator.New(), zerolog.Nop())

	_, err := svc.AwardPoints(context.Background(), dto.AwardPointsRequest{UserID: 8, Points: 5})
	require.ErrorIs(t, err, ErrUserNotFound)
}
