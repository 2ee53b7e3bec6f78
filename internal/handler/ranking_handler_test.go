package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-arena-api/internal/dto"
	"github.com/noah-isme/gema-arena-api/internal/models"
	"github.com/noah-isme/gema-arena-api/internal/service"
)

func scorePtr(v float64) *float64 {
	return &v
}

func TestEventRankingEndpoint(t *testing.T) {
	app := setupApp(t, nil, false)
	db := app.db

	start := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	ana := models.User{Username: "ana"}
	bia := models.User{Username: "bia"}
	caio := models.User{Username: "caio"}
	require.NoError(t, db.Create(&ana).Error)
	require.NoError(t, db.Create(&bia).Error)
	require.NoError(t, db.Create(&caio).Error)

	event := models.Event{Title: "Maratona", RoomCode: "ROOM01", Type: models.EventTypePublic, CreatorID: ana.ID, CreatedAt: start}
	require.NoError(t, db.Create(&event).Error)
	for _, user := range []models.User{ana, bia, caio} {
		require.NoError(t, db.Create(&models.EventParticipation{UserID: user.ID, EventID: event.ID}).Error)
	}

	question := models.Question{Title: "Soma", Points: 100, EventID: &event.ID}
	require.NoError(t, db.Create(&question).Error)

	submissions := []models.Submission{
		{UserID: ana.ID, QuestionID: question.ID, Score: scorePtr(100), SubmittedAt: start.Add(120 * time.Second), Status: models.SubmissionStatusDone},
		{UserID: bia.ID, QuestionID: question.ID, Score: scorePtr(100), SubmittedAt: start.Add(60 * time.Second), Status: models.SubmissionStatusDone},
		{UserID: caio.ID, QuestionID: question.ID, Score: scorePtr(0), SubmittedAt: start.Add(30 * time.Second), Status: models.SubmissionStatusDone},
	}
	require.NoError(t, db.Create(&submissions).Error)

	resp := app.do(t, http.MethodGet, fmt.Sprintf("/api/v1/events/%d/ranking", event.ID), ana.ID, "student", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body envelope[[]dto.RankingEntryResponse]
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Len(t, body.Data, 3)
	require.Equal(t, []string{"bia", "ana", "caio"}, []string{body.Data[0].Username, body.Data[1].Username, body.Data[2].Username})
	require.Equal(t, 1, body.Data[0].Position)
	require.Equal(t, 100.0, body.Data[1].TotalPoints)
	require.EqualValues(t, 1, body.Data[2].TotalSubmissions)
}

func TestEventRankingEndpointErrors(t *testing.T) {
	app := setupApp(t, nil, false)

	resp := app.do(t, http.MethodGet, "/api/v1/events/999/ranking", 1, "student", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = app.do(t, http.MethodGet, "/api/v1/events/abc/ranking", 1, "student", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEventRankingFailureIsOpaqueInProduction(t *testing.T) {
	failure := failingRankingService{err: fmt.Errorf("%w: %w", service.ErrRankingUnavailable, errors.New("deadlock detected"))}
	app := setupApp(t, failure, false)

	resp := app.do(t, http.MethodGet, "/api/v1/events/1/ranking", 1, "student", nil)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body envelope[[]dto.RankingEntryResponse]
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.Equal(t, "failed to compute ranking", body.Message)
	require.Empty(t, body.Details)
}

func TestEventRankingFailureIncludesDetailInDebug(t *testing.T) {
	failure := failingRankingService{err: fmt.Errorf("%w: %w", service.ErrRankingUnavailable, errors.New("deadlock detected"))}
	app := setupApp(t, failure, true)

	resp := app.do(t, http.MethodGet, "/api/v1/events/1/ranking", 1, "student", nil)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body envelope[[]dto.RankingEntryResponse]
	decodeResponse(t, resp, &body)
	require.Contains(t, body.Details["error"], "deadlock detected")
}

func TestPlatformRankingEndpoints(t *testing.T) {
	app := setupApp(t, nil, false)
	db := app.db

	ana := models.User{Username: "ana", FirstName: "Ana"}
	bruno := models.User{Username: "bruno"}
	require.NoError(t, db.Create(&ana).Error)
	require.NoError(t, db.Create(&bruno).Error)

	resp := app.do(t, http.MethodPost, "/api/v1/ranking/geral/pontos", 1, "student", dto.AwardPointsRequest{UserID: bruno.ID, Points: 10})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = app.do(t, http.MethodPost, "/api/v1/ranking/geral/pontos", 1, "teacher", dto.AwardPointsRequest{UserID: bruno.ID, Points: 10})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var award envelope[dto.PlatformScoreResponse]
	decodeResponse(t, resp, &award)
	require.EqualValues(t, 10, award.Data.Points)

	resp = app.do(t, http.MethodPost, "/api/v1/ranking/geral/pontos", 1, "admin", dto.AwardPointsRequest{UserID: 999, Points: 10})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = app.do(t, http.MethodPost, "/api/v1/ranking/geral/pontos", 1, "admin", dto.AwardPointsRequest{UserID: bruno.ID})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = app.do(t, http.MethodGet, "/api/v1/ranking/geral", ana.ID, "student", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var standings envelope[[]dto.PlatformRankingEntryResponse]
	decodeResponse(t, resp, &standings)
	require.Len(t, standings.Data, 2)
	require.Equal(t, "bruno", standings.Data[0].Username)
	require.EqualValues(t, 10, standings.Data[0].Points)
	require.Equal(t, 2, standings.Data[1].Position)
	require.Equal(t, "Ana", standings.Data[1].Name)
	require.Regexp(t, `^OVER-\d{4}$`, standings.Data[0].Season)
	require.NotNil(t, standings.Data[0].Badges)
}
