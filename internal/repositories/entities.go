package repositories

import "time"

type User struct {
	ID        uint `gorm:"primaryKey"`
	Email     string
	JobTitle  string
	Skills    string
	Location  string
	Bio       string
	CreatedAt time.Time
}

type Experience struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index"`
	Title       string
	Company     string
	Description string
	StartedAt   *time.Time
	EndedAt     *time.Time
}

type SavedRecommendation struct {
	ID              uint `gorm:"primaryKey"`
	UserID          uint `gorm:"index"`
	JobID           string
	Source          string
	Title           string
	Company         string
	Location        string
	Description     string
	Salary          string
	URL             string
	JobType         string
	DatePosted      *time.Time
	MatchPercentage int
	MatchReason     string
	SkillMatches    string
	CreatedAt       time.Time
}

type Settings struct {
	ID             uint `gorm:"primaryKey"`
	DailyRunTime   string
	AllowedSources string
	RerankModel    string
	UpdatedAt      time.Time
}
