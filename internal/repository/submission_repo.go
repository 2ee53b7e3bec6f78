package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/gema-arena-api/internal/models"
)

// ErrAttemptLimitReached indicates the user has used every attempt allowed for the question.
var ErrAttemptLimitReached = errors.New("attempt limit reached")

// SubmissionFilter allows narrowing submission queries.
type SubmissionFilter struct {
	UserID *uint
	Limit  int
	Offset int
}

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, int64, error)
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission, maxAttempts uint) error
	SaveResults(ctx context.Context, submission *models.Submission, results []models.TestResult) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Question").
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_results.id ASC")
		})
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := r.baseQuery(ctx)
	if filter.UserID != nil {
		listQuery = listQuery.Where("user_id = ?", *filter.UserID)
	}
	if filter.Limit > 0 {
		listQuery = listQuery.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		listQuery = listQuery.Offset(filter.Offset)
	}

	var submissions []models.Submission
	if err := listQuery.Order("submitted_at DESC").Order("id DESC").Find(&submissions).Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

// Create numbers the submission as the user's next attempt on the question and stores it.
// A maxAttempts of zero means unlimited.
func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission, maxAttempts uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Submission{}).
			Where("user_id = ? AND question_id = ?", submission.UserID, submission.QuestionID).
			Count(&count).Error; err != nil {
			return err
		}
		if maxAttempts > 0 && count >= int64(maxAttempts) {
			return ErrAttemptLimitReached
		}

		submission.Attempt = uint(count) + 1
		return tx.Create(submission).Error
	})
}

// SaveResults stores the judge results and the updated submission atomically.
func (r *submissionRepository) SaveResults(ctx context.Context, submission *models.Submission, results []models.TestResult) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range results {
			results[i].SubmissionID = submission.ID
		}
		if len(results) > 0 {
			if err := tx.Create(&results).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Submission{ID: submission.ID}).
			Updates(map[string]interface{}{
				"score":   submission.Score,
				"status":  submission.Status,
				"details": submission.Details,
			}).Error
	})
}
