package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-arena-api/internal/models"
)

// QuestionRepository reads questions and the event membership that gates submitting to them.
type QuestionRepository interface {
	GetByID(ctx context.Context, id uint) (models.Question, error)
	IsEventParticipant(ctx context.Context, userID, eventID uint) (bool, error)
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates the repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.Question{}, err
	}
	return question, nil
}

func (r *questionRepository) IsEventParticipant(ctx context.Context, userID, eventID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EventParticipation{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
