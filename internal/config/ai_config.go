package config

import (
	"fmt"
	"github.com/spf13/viper"
	"strings"
)

type AIConfig struct {
	Key                  string  `mapstructure:"key"`
	EmbeddingModel       string  `mapstructure:"embedding_model"`
	RerankModel          string  `mapstructure:"rerank_model"`
	MaxRequestsPerMinute float32 `mapstructure:"max_requests_per_minute"`
	MaxRequestsPerDay    float32 `mapstructure:"max_requests_per_day"`
}

func (config AIConfig) validate() error {

	var missingFields []string

	if config.Key == "" {
		missingFields = append(missingFields, "key")
	}

	if config.EmbeddingModel == "" {
		missingFields = append(missingFields, "embedding_model")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	return nil
}

func (config AIConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("ai.key", "AI_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("ai.embedding_model", "AI_EMBEDDING_MODEL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("ai.rerank_model", "AI_RERANK_MODEL"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
