package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-arena-api/internal/models"
	"github.com/noah-isme/gema-arena-api/internal/ranking"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventParticipation{},
		&models.Question{},
		&models.TestCase{},
		&models.Submission{},
		&models.TestResult{},
		&models.PlatformScore{},
	))
	return db
}

func floatPointer(v float64) *float64 {
	return &v
}

func TestRankingRepositoryReadsEventData(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRankingRepository(db)
	ctx := context.Background()

	start := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	alice := models.User{Username: "alice"}
	bob := models.User{Username: "bob"}
	outsider := models.User{Username: "carol"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)
	require.NoError(t, db.Create(&outsider).Error)

	event := models.Event{Title: "Maratona", RoomCode: "ABC123", Type: models.EventTypePublic, CreatorID: alice.ID, CreatedAt: start}
	other := models.Event{Title: "Outro", RoomCode: "XYZ999", Type: models.EventTypePublic, CreatorID: alice.ID, CreatedAt: start}
	require.NoError(t, db.Create(&event).Error)
	require.NoError(t, db.Create(&other).Error)

	require.NoError(t, db.Create(&models.EventParticipation{UserID: bob.ID, EventID: event.ID}).Error)
	require.NoError(t, db.Create(&models.EventParticipation{UserID: alice.ID, EventID: event.ID}).Error)
	require.NoError(t, db.Create(&models.EventParticipation{UserID: outsider.ID, EventID: other.ID}).Error)

	q1 := models.Question{Title: "Soma", Points: 50, EventID: &event.ID}
	q2 := models.Question{Title: "Grafos", Points: 200, EventID: &event.ID}
	foreign := models.Question{Title: "Plataforma", Points: 10}
	require.NoError(t, db.Create(&q1).Error)
	require.NoError(t, db.Create(&q2).Error)
	require.NoError(t, db.Create(&foreign).Error)

	submissions := []models.Submission{
		{UserID: alice.ID, QuestionID: q1.ID, Language: "python", Status: models.SubmissionStatusDone, Score: floatPointer(50), SubmittedAt: start.Add(time.Minute)},
		{UserID: bob.ID, QuestionID: q2.ID, Language: "c", Status: models.SubmissionStatusProcessing, SubmittedAt: start.Add(2 * time.Minute)},
		{UserID: alice.ID, QuestionID: foreign.ID, Language: "python", Status: models.SubmissionStatusDone, Score: floatPointer(10), SubmittedAt: start.Add(3 * time.Minute)},
	}
	for i := range submissions {
		require.NoError(t, db.Create(&submissions[i]).Error)
	}

	eventStart, err := repo.EventStart(ctx, event.ID)
	require.NoError(t, err)
	require.NotNil(t, eventStart)
	require.True(t, start.Equal(*eventStart))

	participants, err := repo.Participants(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, []ranking.Participant{{ID: alice.ID, Name: "alice"}, {ID: bob.ID, Name: "bob"}}, participants)

	records, err := repo.Submissions(ctx, event.ID, []uint{alice.ID, bob.ID})
	require.NoError(t, err)
	require.Len(t, records, 2, "submissions to questions outside the event are excluded")
	require.Equal(t, alice.ID, records[0].ParticipantID)
	require.NotNil(t, records[0].Score)
	require.Equal(t, 50.0, *records[0].Score)
	require.Nil(t, records[1].Score)
	require.True(t, start.Add(2*time.Minute).Equal(records[1].SubmittedAt))

	weights, err := repo.QuestionWeights(ctx, []uint{q1.ID, q2.ID})
	require.NoError(t, err)
	require.Equal(t, map[uint]float64{q1.ID: 50, q2.ID: 200}, weights)
}

func TestRankingRepositoryUnknownEvent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRankingRepository(db)

	_, err := repo.EventStart(context.Background(), 404)
	require.Error(t, err)
	require.True(t, errors.Is(err, ranking.ErrEventNotFound))
}

func TestRankingRepositoryFeedsEngine(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRankingRepository(db)
	ctx := context.Background()

	start := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	a := models.User{Username: "A"}
	b := models.User{Username: "B"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	event := models.Event{Title: "Sala", RoomCode: "ROOM01", Type: models.EventTypePublic, CreatorID: a.ID, CreatedAt: start}
	require.NoError(t, db.Create(&event).Error)
	require.NoError(t, db.Create(&models.EventParticipation{UserID: a.ID, EventID: event.ID}).Error)
	require.NoError(t, db.Create(&models.EventParticipation{UserID: b.ID, EventID: event.ID}).Error)

	q := models.Question{Title: "Q1", Points: 100, EventID: &event.ID}
	require.NoError(t, db.Create(&q).Error)
	require.NoError(t, db.Create(&models.Submission{UserID: a.ID, QuestionID: q.ID, Language: "python", Status: models.SubmissionStatusDone, Score: floatPointer(100), SubmittedAt: start.Add(10 * time.Second)}).Error)
	require.NoError(t, db.Create(&models.Submission{UserID: b.ID, QuestionID: q.ID, Language: "python", Status: models.SubmissionStatusDone, Score: floatPointer(100), SubmittedAt: start.Add(5 * time.Second)}).Error)

	entries, err := ranking.Compute(ctx, repo, event.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "B", entries[0].Name)
	require.Equal(t, 1, entries[0].Position)
	require.Equal(t, "A", entries[1].Name)
	require.Equal(t, 2, entries[1].Position)
}
