package repositories

import (
	"context"
	"strings"

	"github.com/openjobs/jobscout/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type Users struct {
	db *gorm.DB
}

func NewUsersRepository(db *gorm.DB) *Users {
	return &Users{db: db}
}

// ListIDs enumerates every known user, for the scheduled batch run.
func (repo *Users) ListIDs(ctx context.Context) ([]uint, error) {

	var ids []uint
	if err := repo.db.WithContext(ctx).Model(&User{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GetProfileSummary loads the profile slice the recommendation pipeline
// consumes. Experiences come back most recent first.
func (repo *Users) GetProfileSummary(ctx context.Context, userID uint) (*models.UserProfileSummary, error) {

	var user User
	if err := repo.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	var experiences []Experience
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&experiences).Error; err != nil {
		return nil, err
	}

	var skills []string
	if user.Skills != "" {
		skills = lo.Map(strings.Split(user.Skills, ","), func(skill string, _ int) string {
			return strings.TrimSpace(skill)
		})
	}

	return &models.UserProfileSummary{
		UserID:   user.ID,
		JobTitle: user.JobTitle,
		Skills:   skills,
		Location: user.Location,
		Bio:      user.Bio,
		Experiences: lo.Map(experiences, func(experience Experience, _ int) models.Experience {
			return models.Experience{
				Title:       experience.Title,
				Company:     experience.Company,
				Description: experience.Description,
			}
		}),
	}, nil
}
