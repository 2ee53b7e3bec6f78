package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/gema-arena-api/internal/models"
)

// PlatformStanding is one user's accumulated platform points.
type PlatformStanding struct {
	UserID      uint
	Username    string
	FirstName   string
	TotalPoints int64
	// Badges holds up to maxBadges event badge URLs, most recently joined first.
	Badges []string `gorm:"-"`
}

const maxBadges = 3

// PlatformScoreRepository persists platform-wide points.
type PlatformScoreRepository interface {
	Standings(ctx context.Context) ([]PlatformStanding, error)
	AddPoints(ctx context.Context, userID uint, points int64) (models.PlatformScore, error)
}

type platformScoreRepository struct {
	db *gorm.DB
}

// NewPlatformScoreRepository constructs the repository.
func NewPlatformScoreRepository(db *gorm.DB) PlatformScoreRepository {
	return &platformScoreRepository{db: db}
}

// Standings lists every user with their summed points, highest first then by username.
func (r *platformScoreRepository) Standings(ctx context.Context) ([]PlatformStanding, error) {
	var rows []PlatformStanding
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id AS user_id, users.username AS username, users.first_name AS first_name, COALESCE(SUM(platform_scores.points), 0) AS total_points").
		Joins("LEFT JOIN platform_scores ON platform_scores.user_id = users.id").
		Group("users.id, users.username, users.first_name").
		Order("total_points DESC").
		Order("users.username ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	badges, err := r.badgesByUser(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Badges = badges[rows[i].UserID]
		if rows[i].Badges == nil {
			rows[i].Badges = []string{}
		}
	}
	return rows, nil
}

func (r *platformScoreRepository) badgesByUser(ctx context.Context) (map[uint][]string, error) {
	var rows []struct {
		UserID   uint
		BadgeURL string
	}
	err := r.db.WithContext(ctx).
		Model(&models.EventParticipation{}).
		Select("event_participations.user_id AS user_id, events.badge_url AS badge_url").
		Joins("JOIN events ON events.id = event_participations.event_id").
		Where("events.badge_url IS NOT NULL AND events.badge_url <> ''").
		Order("event_participations.user_id ASC").
		Order("event_participations.joined_at DESC").
		Order("event_participations.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	badges := make(map[uint][]string)
	for _, row := range rows {
		if len(badges[row.UserID]) < maxBadges {
			badges[row.UserID] = append(badges[row.UserID], row.BadgeURL)
		}
	}
	return badges, nil
}

// AddPoints increments the user's platform score, creating it on first use.
func (r *platformScoreRepository) AddPoints(ctx context.Context, userID uint, points int64) (models.PlatformScore, error) {
	var score models.PlatformScore
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, userID).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PlatformScore{UserID: userID}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.PlatformScore{}).
			Where("user_id = ?", userID).
			Update("points", gorm.Expr("points + ?", points)).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", userID).First(&score).Error
	})
	if err != nil {
		return models.PlatformScore{}, err
	}
	return score, nil
}
