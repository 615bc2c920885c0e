package recommendations

import (
	"context"
	"fmt"
	"testing"

	"github.com/openjobs/jobscout/internal/config"
	"github.com/openjobs/jobscout/internal/models"
	"github.com/openjobs/jobscout/internal/search"
	"github.com/stretchr/testify/assert"
)

type stubSearcher struct {
	byQuery map[string][]models.JobPosting
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, filters models.SearchFilters) (search.Result, error) {
	s.queries = append(s.queries, filters.Query)
	return search.Result{Jobs: s.byQuery[filters.Query]}, nil
}

type stubEmbedder struct {
	vector []float32
}

func (e *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return e.vector, nil
}

type stubJobEmbedder struct {
	byID map[string][]float32
}

func (e *stubJobEmbedder) GetEmbedding(_ context.Context, job models.JobPosting) ([]float32, error) {
	return e.byID[job.ID], nil
}

func Test_Generator_ScoresAndFiltersByThreshold(t *testing.T) {

	assert := assert.New(t)

	profile := models.UserProfileSummary{
		UserID:   1,
		JobTitle: "Go Developer",
		Skills:   []string{"Go"},
	}

	jobs := []models.JobPosting{
		{ID: "good", Title: "Go Developer", Company: "A", Description: "Go work", Source: "test"},
		{ID: "bad", Title: "Accountant", Company: "B", Description: "Books", Source: "test"},
	}

	searcher := &stubSearcher{byQuery: map[string][]models.JobPosting{"Go Developer": jobs}}
	cache := &stubJobEmbedder{byID: map[string][]float32{
		"good": {1, 0},
		"bad":  {0, 1},
	}}

	generator := NewGenerator(searcher, cache, &stubEmbedder{vector: []float32{1, 0}}, config.RecsConfig{})

	result, err := generator.Generate(context.Background(), profile, models.SearchFilters{})
	assert.NoError(err)

	assert.Equal(2, result.JobsProcessed)
	assert.Len(result.Recommendations, 1)
	assert.Equal("good", result.Recommendations[0].Job.ID)
	assert.Equal(100, result.Recommendations[0].MatchPercentage)
	assert.Contains(result.Recommendations[0].MatchReason, "Go")
	assert.Equal([]string{"Go"}, result.Recommendations[0].SkillMatches)
}

func Test_Generator_EmptyProfileYieldsEmptyResult(t *testing.T) {

	assert := assert.New(t)

	searcher := &stubSearcher{byQuery: map[string][]models.JobPosting{}}
	generator := NewGenerator(searcher, &stubJobEmbedder{}, &stubEmbedder{}, config.RecsConfig{})

	result, err := generator.Generate(context.Background(), models.UserProfileSummary{UserID: 2},
		models.SearchFilters{})

	assert.NoError(err)
	assert.Empty(result.Recommendations)
	assert.Empty(result.StrategiesTried)
	assert.Empty(searcher.queries, "no strategy should reach the searcher")
}

func Test_Generator_FallsBackWhenProfileStrategiesFindNothing(t *testing.T) {

	assert := assert.New(t)

	profile := models.UserProfileSummary{
		UserID:   3,
		JobTitle: "Underwater Basket Weaver",
	}

	fallback := []models.JobPosting{
		{ID: "f1", Title: "Developer", Company: "Remote Co", Description: "General development", Source: "test"},
	}

	searcher := &stubSearcher{byQuery: map[string][]models.JobPosting{"developer": fallback}}
	cache := &stubJobEmbedder{byID: map[string][]float32{"f1": {1, 0}}}

	generator := NewGenerator(searcher, cache, &stubEmbedder{vector: []float32{1, 0}}, config.RecsConfig{})

	result, err := generator.Generate(context.Background(), profile, models.SearchFilters{})
	assert.NoError(err)

	assert.Len(result.Recommendations, 1)
	assert.Equal("f1", result.Recommendations[0].Job.ID)

	// The profile strategy ran first and found nothing; the first
	// fallback bundle satisfied the run.
	assert.Equal([]string{"Underwater Basket Weaver", "developer"}, searcher.queries)
}

func Test_Generator_StopsQueryingOnceEnoughJobsCollected(t *testing.T) {

	assert := assert.New(t)

	profile := models.UserProfileSummary{
		UserID:   4,
		JobTitle: "Go Developer",
		Skills:   []string{"Go", "Docker"},
	}

	cfg := config.RecsConfig{}.WithDefaults()

	var bulk []models.JobPosting
	for i := 0; i < cfg.MaxJobsPerRun; i++ {
		bulk = append(bulk, models.JobPosting{
			ID:      fmt.Sprintf("bulk-%d", i),
			Title:   fmt.Sprintf("Go Developer %d", i),
			Company: "Acme",
			Source:  "test",
		})
	}

	searcher := &stubSearcher{byQuery: map[string][]models.JobPosting{"Go Developer": bulk}}
	generator := NewGenerator(searcher, &stubJobEmbedder{}, &stubEmbedder{vector: []float32{1, 0}}, cfg)

	result, err := generator.Generate(context.Background(), profile, models.SearchFilters{})
	assert.NoError(err)

	// The first strategy already collected a full run's worth of jobs,
	// so the skill-derived strategies are never sent to the sources.
	assert.Equal([]string{"Go Developer"}, searcher.queries)
	assert.Len(result.StrategiesTried, 1)
	assert.Equal(cfg.MaxJobsPerRun, result.JobsProcessed)
}

func Test_Generator_BuildStrategies(t *testing.T) {

	assert := assert.New(t)

	generator := NewGenerator(&stubSearcher{}, &stubJobEmbedder{}, &stubEmbedder{}, config.RecsConfig{})

	profile := models.UserProfileSummary{
		JobTitle: "Backend Engineer",
		Location: "Berlin",
		Skills:   []string{"Go", "Postgres", "Kafka", "Docker", "AWS", "Terraform"},
	}

	strategies := generator.buildStrategies(profile, models.SearchFilters{})

	assert.Equal(Strategy{Query: "Backend Engineer", Location: "Berlin"}, strategies[0])
	assert.Equal(Strategy{Query: "Go Postgres Kafka", Location: "Berlin"}, strategies[1])
	assert.Len(strategies, 7, "primary, skill combination, and top five individual skills")
	assert.Equal("AWS", strategies[6].Query)
}

func Test_MatchSkills(t *testing.T) {

	assert := assert.New(t)

	matches := MatchSkills([]string{"Go", "Kubernetes", "Rust"},
		"We use GO and kubernetes in production.")

	assert.Equal([]string{"Go", "Kubernetes"}, matches)
	assert.Empty(MatchSkills(nil, "anything"))
}
