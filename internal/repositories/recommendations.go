package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/openjobs/jobscout/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type Recommendations struct {
	db *gorm.DB
}

func NewRecommendationsRepository(db *gorm.DB) *Recommendations {
	return &Recommendations{db: db}
}

// Replace overwrites a user's persisted recommendations with the given
// set inside one transaction. Generation cycles replace, never append.
func (repo *Recommendations) Replace(ctx context.Context, userID uint,
	recommendations []models.Recommendation) error {

	rows := lo.Map(recommendations, func(recommendation models.Recommendation, _ int) SavedRecommendation {
		return toRow(userID, recommendation)
	})

	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&SavedRecommendation{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (repo *Recommendations) GetByUser(ctx context.Context, userID uint) ([]models.Recommendation, error) {

	var rows []SavedRecommendation
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("match_percentage DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return lo.Map(rows, func(row SavedRecommendation, _ int) models.Recommendation {
		return fromRow(row)
	}), nil
}

func toRow(userID uint, recommendation models.Recommendation) SavedRecommendation {
	job := recommendation.Job
	return SavedRecommendation{
		UserID:          userID,
		JobID:           job.ID,
		Source:          string(job.Source),
		Title:           job.Title,
		Company:         job.Company,
		Location:        job.Location,
		Description:     job.Description,
		Salary:          job.Salary,
		URL:             job.URL,
		JobType:         job.JobType,
		DatePosted:      job.DatePosted,
		MatchPercentage: recommendation.MatchPercentage,
		MatchReason:     recommendation.MatchReason,
		SkillMatches:    strings.Join(recommendation.SkillMatches, ","),
		CreatedAt:       time.Now(),
	}
}

func fromRow(row SavedRecommendation) models.Recommendation {

	var skillMatches []string
	if row.SkillMatches != "" {
		skillMatches = strings.Split(row.SkillMatches, ",")
	}

	return models.Recommendation{
		Job: models.JobPosting{
			ID:          row.JobID,
			Source:      models.Source(row.Source),
			Title:       row.Title,
			Company:     row.Company,
			Location:    row.Location,
			Description: row.Description,
			Salary:      row.Salary,
			URL:         row.URL,
			JobType:     row.JobType,
			DatePosted:  row.DatePosted,
		},
		MatchPercentage: row.MatchPercentage,
		MatchReason:     row.MatchReason,
		SkillMatches:    skillMatches,
	}
}
