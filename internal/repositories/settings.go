package repositories

import (
	"context"
	"errors"

	"github.com/openjobs/jobscout/internal/models"
	"gorm.io/gorm"
)

const settingsRowID = 1

type SettingsRepository struct {
	db             *gorm.DB
	defaultRunTime string
}

func NewSettingsRepository(db *gorm.DB, defaultRunTime string) *SettingsRepository {
	if defaultRunTime == "" {
		defaultRunTime = "06:00"
	}
	return &SettingsRepository{db: db, defaultRunTime: defaultRunTime}
}

// Get reads the single scheduler settings row, falling back to defaults
// when the admin-config collaborator has not saved anything yet.
func (repo *SettingsRepository) Get(ctx context.Context) (models.SchedulerSettings, error) {

	var row Settings
	err := repo.db.WithContext(ctx).First(&row, "id = ?", settingsRowID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.SchedulerSettings{DailyRunTime: repo.defaultRunTime}, nil
	}
	if err != nil {
		return models.SchedulerSettings{}, err
	}

	return models.SchedulerSettings{
		DailyRunTime:      row.DailyRunTime,
		AllowedAPISources: models.SourcesFromString(row.AllowedSources),
		RerankModel:       row.RerankModel,
	}, nil
}

func (repo *SettingsRepository) Save(ctx context.Context, settings models.SchedulerSettings) error {

	row := Settings{
		ID:             settingsRowID,
		DailyRunTime:   settings.DailyRunTime,
		AllowedSources: settings.SourcesAsString(),
		RerankModel:    settings.RerankModel,
	}
	return repo.db.WithContext(ctx).Save(&row).Error
}
