package dto

import (
	"fmt"
	"time"

	"github.com/noah-isme/gema-arena-api/internal/models"
	"github.com/noah-isme/gema-arena-api/internal/ranking"
	"github.com/noah-isme/gema-arena-api/internal/repository"
)

// RankingEntryResponse is one row of an event leaderboard.
type RankingEntryResponse struct {
	Position         int        `json:"posicao"`
	ID               uint       `json:"id"`
	Username         string     `json:"username"`
	TotalPoints      float64    `json:"total_pontos"`
	TotalSubmissions int64      `json:"total_submissoes"`
	LastSubmission   *time.Time `json:"ultima_sub"`
}

// NewRankingResponse converts computed standings into response rows.
func NewRankingResponse(entries []ranking.RankEntry) []RankingEntryResponse {
	rows := make([]RankingEntryResponse, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, RankingEntryResponse{
			Position:         entry.Position,
			ID:               entry.ParticipantID,
			Username:         entry.Name,
			TotalPoints:      entry.TotalScore,
			TotalSubmissions: entry.TotalSubmissions,
			LastSubmission:   entry.LatestSubmission,
		})
	}
	return rows
}

// PlatformRankingEntryResponse is one row of the platform-wide ranking.
type PlatformRankingEntryResponse struct {
	Position int      `json:"posicao"`
	Username string   `json:"username"`
	Name     string   `json:"nome"`
	Points   int64    `json:"pontuacao"`
	Season   string   `json:"ano"`
	Badges   []string `json:"insignias"`
}

// NewPlatformRankingResponse numbers the standings in the order given. Every row is
// labelled with the season of now.
func NewPlatformRankingResponse(standings []repository.PlatformStanding, now time.Time) []PlatformRankingEntryResponse {
	season := fmt.Sprintf("OVER-%d", now.Year())
	rows := make([]PlatformRankingEntryResponse, 0, len(standings))
	for idx, standing := range standings {
		name := standing.FirstName
		if name == "" {
			name = standing.Username
		}
		badges := standing.Badges
		if badges == nil {
			badges = []string{}
		}
		rows = append(rows, PlatformRankingEntryResponse{
			Position: idx + 1,
			Username: standing.Username,
			Name:     name,
			Points:   standing.TotalPoints,
			Season:   season,
			Badges:   badges,
		})
	}
	return rows
}

// AwardPointsRequest adds (or removes, when negative) platform points for a user.
type AwardPointsRequest struct {
	UserID uint  `json:"user_id" validate:"required,gt=0"`
	Points int64 `json:"pontos" validate:"required"`
}

// PlatformScoreResponse describes a user's accumulated platform points.
type PlatformScoreResponse struct {
	UserID    uint      `json:"user_id"`
	Points    int64     `json:"pontos"`
	UpdatedAt time.Time `json:"atualizado_em"`
}

// NewPlatformScoreResponse converts the model into a DTO.
func NewPlatformScoreResponse(score models.PlatformScore) PlatformScoreResponse {
	return PlatformScoreResponse{
		UserID:    score.UserID,
		Points:    score.Points,
		UpdatedAt: score.UpdatedAt,
	}
}
