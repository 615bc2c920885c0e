package config

import (
	"github.com/spf13/viper"
)

// SourcesConfig carries per-provider credentials. A missing credential is
// not a validation error: the affected adapter degrades to always-empty
// and the rest of the pipeline is unaffected.
type SourcesConfig struct {
	JSearchAPIKey string `mapstructure:"jsearch_api_key"`
	AdzunaAppID   string `mapstructure:"adzuna_app_id"`
	AdzunaAppKey  string `mapstructure:"adzuna_app_key"`
	AdzunaCountry string `mapstructure:"adzuna_country"`
	JoobleAPIKey  string `mapstructure:"jooble_api_key"`
	TheMuseAPIKey string `mapstructure:"themuse_api_key"`
}

func (config SourcesConfig) bindEnvironmentVariables() error {
	var errs []error

	bindings := map[string]string{
		"sources.jsearch_api_key": "JSEARCH_API_KEY",
		"sources.adzuna_app_id":   "ADZUNA_APP_ID",
		"sources.adzuna_app_key":  "ADZUNA_APP_KEY",
		"sources.adzuna_country":  "ADZUNA_COUNTRY",
		"sources.jooble_api_key":  "JOOBLE_API_KEY",
		"sources.themuse_api_key": "THEMUSE_API_KEY",
	}

	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
