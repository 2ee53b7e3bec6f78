package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-arena-api/internal/models"
)

func TestPlatformScoreRepositoryAddPointsAndStandings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlatformScoreRepository(db)
	ctx := context.Background()

	users := []models.User{{Username: "carla"}, {Username: "bruno"}, {Username: "ana"}}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	score, err := repo.AddPoints(ctx, users[0].ID, 30)
	require.NoError(t, err)
	require.Equal(t, int64(30), score.Points)

	score, err = repo.AddPoints(ctx, users[0].ID, 15)
	require.NoError(t, err)
	require.Equal(t, int64(45), score.Points)

	_, err = repo.AddPoints(ctx, users[1].ID, 45)
	require.NoError(t, err)

	standings, err := repo.Standings(ctx)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	require.Equal(t, "bruno", standings[0].Username)
	require.Equal(t, int64(45), standings[0].TotalPoints)
	require.Equal(t, "carla", standings[1].Username)
	require.Equal(t, "ana", standings[2].Username)
	require.Zero(t, standings[2].TotalPoints)
}

func TestPlatformScoreRepositoryUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlatformScoreRepository(db)

	_, err := repo.AddPoints(context.Background(), 999, 10)
	require.Error(t, err)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPlatformScoreRepositoryStandingsCollectBadges(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlatformScoreRepository(db)

	ana := models.User{Username: "ana"}
	bia := models.User{Username: "bia"}
	require.NoError(t, db.Create(&ana).Error)
	require.NoError(t, db.Create(&bia).Error)

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	badges := []string{"https://cdn.test/e1.png", "", "https://cdn.test/e3.png", "https://cdn.test/e4.png", "https://cdn.test/e5.png"}
	for i, badge := range badges {
		event := models.Event{Title: fmt.Sprintf("Evento %d", i+1), RoomCode: fmt.Sprintf("BADGE%d", i+1), Type: models.EventTypePublic, CreatorID: ana.ID, BadgeURL: badge}
		require.NoError(t, db.Create(&event).Error)
		joined := models.EventParticipation{UserID: ana.ID, EventID: event.ID, JoinedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, db.Create(&joined).Error)
	}

	standings, err := repo.Standings(context.Background())
	require.NoError(t, err)
	require.Len(t, standings, 2)

	byName := map[string][]string{}
	for _, standing := range standings {
		byName[standing.Username] = standing.Badges
	}
	require.Equal(t, []string{"https://cdn.test/e5.png", "https://cdn.test/e4.png", "https://cdn.test/e3.png"}, byName["ana"])
	require.NotNil(t, byName["bia"])
	require.Empty(t, byName["bia"])
}
