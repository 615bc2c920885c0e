package repositories

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(User{})
	if err != nil {
		return fmt.Errorf("failed to migrate User entity: %w", err)
	}

	err = c.DB.AutoMigrate(Experience{})
	if err != nil {
		return fmt.Errorf("failed to migrate Experience entity: %w", err)
	}

	err = c.DB.AutoMigrate(SavedRecommendation{})
	if err != nil {
		return fmt.Errorf("failed to migrate SavedRecommendation entity: %w", err)
	}

	err = c.DB.AutoMigrate(Settings{})
	if err != nil {
		return fmt.Errorf("failed to migrate Settings entity: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
