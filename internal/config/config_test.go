package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Config_EnvironmentOverrideWorksCorrect(t *testing.T) {

	os.Setenv("CONFIG_PATH", "../../configs/config.yaml")

	os.Setenv("AI_KEY", "overrideKey")
	os.Setenv("DB_CONNECTION_STRING", "override.db")
	os.Setenv("JSEARCH_API_KEY", "jsearchKey")
	os.Setenv("ADZUNA_APP_ID", "adzunaId")
	os.Setenv("ADZUNA_APP_KEY", "adzunaKey")
	os.Setenv("JOOBLE_API_KEY", "joobleKey")

	cfg := Get()

	assert.Equal(t, "overrideKey", cfg.AI.Key)
	assert.Equal(t, "override.db", cfg.DB.ConnectionString)
	assert.Equal(t, "jsearchKey", cfg.Sources.JSearchAPIKey)
	assert.Equal(t, "adzunaId", cfg.Sources.AdzunaAppID)
	assert.Equal(t, "adzunaKey", cfg.Sources.AdzunaAppKey)
	assert.Equal(t, "joobleKey", cfg.Sources.JoobleAPIKey)

	assert.Equal(t, "text-embedding-004", cfg.AI.EmbeddingModel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "06:00", cfg.Scheduler.DefaultRunTime)
}

func Test_RecsConfig_Defaults(t *testing.T) {

	assert := assert.New(t)

	cfg := RecsConfig{}.WithDefaults()
	assert.Equal(30, cfg.MinScore)
	assert.Equal(10, cfg.TopN)
	assert.Equal(3, cfg.ScoringBatchSize)
	assert.Equal(30, cfg.MaxJobsPerRun)

	custom := RecsConfig{MinScore: 50}.WithDefaults()
	assert.Equal(50, custom.MinScore)
	assert.Equal(10, custom.TopN)

	open := RecsConfig{MinScore: -1}.WithDefaults()
	assert.Equal(0, open.MinScore, "-1 disables the score threshold")
}

func Test_RecsConfig_Validate(t *testing.T) {

	assert := assert.New(t)

	assert.NoError(RecsConfig{MinScore: 30, TopN: 10, ScoringBatchSize: 3, MaxJobsPerRun: 30}.validate())
	assert.NoError(RecsConfig{MinScore: -1}.validate())
	assert.Error(RecsConfig{MinScore: -2}.validate())
	assert.Error(RecsConfig{MinScore: 101}.validate())
	assert.Error(RecsConfig{TopN: -1}.validate())
}
