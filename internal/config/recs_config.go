package config

import "fmt"

type RecsConfig struct {
	// MinScore is the match percentage a job must reach to be kept.
	// 0 (or unset) means the shipping default; -1 keeps every score.
	MinScore         int `mapstructure:"min_score"`
	TopN             int `mapstructure:"top_n"`
	ScoringBatchSize int `mapstructure:"scoring_batch_size"`
	MaxJobsPerRun    int `mapstructure:"max_jobs_per_run"`
}

func (config RecsConfig) validate() error {

	if config.MinScore < -1 || config.MinScore > 100 {
		return fmt.Errorf("min_score must be -1 or between 0 and 100, got %d", config.MinScore)
	}

	if config.TopN < 0 {
		return fmt.Errorf("top_n must be non-negative, got %d", config.TopN)
	}

	return nil
}

// WithDefaults fills unset tunables with the shipping defaults.
func (config RecsConfig) WithDefaults() RecsConfig {
	switch config.MinScore {
	case 0:
		config.MinScore = 30
	case -1:
		config.MinScore = 0
	}
	if config.TopN == 0 {
		config.TopN = 10
	}
	if config.ScoringBatchSize == 0 {
		config.ScoringBatchSize = 3
	}
	if config.MaxJobsPerRun == 0 {
		config.MaxJobsPerRun = 30
	}
	return config
}
