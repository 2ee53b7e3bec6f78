package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-arena-api/internal/models"
	"github.com/noah-isme/gema-arena-api/internal/ranking"
)

// RankingRepository reads the event data the standings are computed from.
type RankingRepository interface {
	ranking.StatsSource
}

type rankingRepository struct {
	db *gorm.DB
}

// NewRankingRepository constructs a gorm backed ranking stats source.
func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &rankingRepository{db: db}
}

func (r *rankingRepository) EventStart(ctx context.Context, eventID uint) (*time.Time, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Select("id", "created_at").
		First(&event, eventID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ranking.ErrEventNotFound
		}
		return nil, err
	}

	if event.CreatedAt.IsZero() {
		return nil, nil
	}
	start := event.CreatedAt
	return &start, nil
}

func (r *rankingRepository) Participants(ctx context.Context, eventID uint) ([]ranking.Participant, error) {
	var rows []struct {
		ID       uint
		Username string
	}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id AS id, users.username AS username").
		Joins("JOIN event_participations ON event_participations.user_id = users.id").
		Where("event_participations.event_id = ?", eventID).
		Order("users.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	participants := make([]ranking.Participant, 0, len(rows))
	for _, row := range rows {
		participants = append(participants, ranking.Participant{ID: row.ID, Name: row.Username})
	}
	return participants, nil
}

func (r *rankingRepository) Submissions(ctx context.Context, eventID uint, participantIDs []uint) ([]ranking.SubmissionRecord, error) {
	if len(participantIDs) == 0 {
		return []ranking.SubmissionRecord{}, nil
	}

	var rows []struct {
		UserID      uint
		QuestionID  uint
		Score       *float64
		SubmittedAt time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("submissions.user_id, submissions.question_id, submissions.score, submissions.submitted_at").
		Joins("JOIN questions ON questions.id = submissions.question_id").
		Where("questions.event_id = ?", eventID).
		Where("submissions.user_id IN ?", participantIDs).
		Order("submissions.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]ranking.SubmissionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ranking.SubmissionRecord{
			ParticipantID: row.UserID,
			QuestionID:    row.QuestionID,
			Score:         row.Score,
			SubmittedAt:   row.SubmittedAt,
		})
	}
	return records, nil
}

func (r *rankingRepository) QuestionWeights(ctx context.Context, questionIDs []uint) (map[uint]float64, error) {
	weights := make(map[uint]float64, len(questionIDs))
	if len(questionIDs) == 0 {
		return weights, nil
	}

	var rows []struct {
		ID     uint
		Points float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Select("id, points").
		Where("id IN ?", questionIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		weights[row.ID] = row.Points
	}
	return weights, nil
}
