package recommendations

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/openjobs/jobscout/internal/config"
	"github.com/openjobs/jobscout/internal/embeddings"
	"github.com/openjobs/jobscout/internal/logger"
	"github.com/openjobs/jobscout/internal/metrics"
	"github.com/openjobs/jobscout/internal/models"
	"github.com/openjobs/jobscout/internal/search"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type searcher interface {
	Search(ctx context.Context, filters models.SearchFilters) (search.Result, error)
}

type jobEmbedder interface {
	GetEmbedding(ctx context.Context, job models.JobPosting) ([]float32, error)
}

// Strategy is one query the generator derives from a profile.
type Strategy struct {
	Query    string `json:"query"`
	Location string `json:"location,omitempty"`
}

// StrategyOutcome reports how many jobs one executed strategy found,
// kept for observability and debugging.
type StrategyOutcome struct {
	Strategy Strategy `json:"strategy"`
	Jobs     int      `json:"jobs"`
}

// Result is the structured response of one generation run.
type Result struct {
	Recommendations []models.Recommendation `json:"recommendations"`
	StrategiesTried []StrategyOutcome       `json:"strategiesTried"`
	JobsProcessed   int                     `json:"jobsProcessed"`
	Threshold       int                     `json:"threshold"`
}

// fallbackBundles are the profile-independent queries tried, in order,
// when every profile-driven strategy comes back empty. The first bundle
// that yields anything wins.
var fallbackBundles = [][]Strategy{
	{{Query: "developer", Location: "Remote"}},
	{{Query: "software engineer"}},
	{{Query: "full stack"}, {Query: "web developer"}},
	{{Query: "backend", Location: "Remote"}, {Query: "frontend", Location: "Remote"}},
}

// Generator turns a profile into scored, ranked recommendations by
// searching with profile-derived strategies and scoring each result
// against the profile's embedding.
type Generator struct {
	searcher searcher
	cache    jobEmbedder
	embedder embeddings.Embedder
	cfg      config.RecsConfig
}

func NewGenerator(searcher searcher, cache jobEmbedder, embedder embeddings.Embedder,
	cfg config.RecsConfig) *Generator {

	return &Generator{
		searcher: searcher,
		cache:    cache,
		embedder: embedder,
		cfg:      cfg.WithDefaults(),
	}
}

// Generate runs the full pipeline. A profile that yields no searchable
// strategy, or strategies that all come back empty even after fallbacks,
// produces an empty successful result, not an error.
func (g *Generator) Generate(ctx context.Context, profile models.UserProfileSummary,
	filters models.SearchFilters) (*Result, error) {

	start := time.Now()
	defer func() {
		metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	}()

	result := &Result{Threshold: g.cfg.MinScore}

	strategies := g.buildStrategies(profile, filters)
	if len(strategies) == 0 {
		log.Infof("no searchable strategies for user %v", profile.UserID)
		return result, nil
	}

	jobs := g.executeStrategies(ctx, strategies, filters, result)
	if len(jobs) == 0 {
		jobs = g.executeFallbacks(ctx, filters, result)
	}
	if len(jobs) == 0 {
		return result, nil
	}

	jobs = search.Deduplicate(jobs)
	result.JobsProcessed = len(jobs)

	profileVector, err := g.embedProfile(ctx, profile)
	if err != nil {
		return nil, err
	}

	scored := g.scoreJobs(ctx, profile, profileVector, jobs)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchPercentage > scored[j].MatchPercentage
	})
	if len(scored) > g.cfg.TopN {
		scored = scored[:g.cfg.TopN]
	}

	result.Recommendations = scored
	log.Infof("generated %v recommendations for user %v from %v jobs",
		len(scored), profile.UserID, result.JobsProcessed)
	return result, nil
}

// buildStrategies derives the ordered query list: the explicit query or
// profile title first, then the top-3 skill combination, then each of the
// top five skills on its own.
func (g *Generator) buildStrategies(profile models.UserProfileSummary,
	filters models.SearchFilters) []Strategy {

	location := filters.Location
	if location == "" {
		location = profile.Location
	}

	var strategies []Strategy

	primary := filters.Query
	if primary == "" {
		primary = profile.JobTitle
	}
	if primary != "" {
		strategies = append(strategies, Strategy{Query: primary, Location: location})
	}

	if len(profile.Skills) >= 2 {
		top := profile.Skills[:min(3, len(profile.Skills))]
		strategies = append(strategies, Strategy{Query: strings.Join(top, " "), Location: location})
	}

	for _, skill := range profile.Skills[:min(5, len(profile.Skills))] {
		strategies = append(strategies, Strategy{Query: skill, Location: location})
	}

	return strategies
}

func (g *Generator) executeStrategies(ctx context.Context, strategies []Strategy,
	filters models.SearchFilters, result *Result) []models.JobPosting {

	var collected []models.JobPosting
	for _, strategy := range strategies {
		if len(collected) >= g.cfg.MaxJobsPerRun {
			break
		}

		found := g.runStrategy(ctx, strategy, filters)
		result.StrategiesTried = append(result.StrategiesTried,
			StrategyOutcome{Strategy: strategy, Jobs: len(found)})
		collected = append(collected, found...)
	}
	return collected
}

func (g *Generator) executeFallbacks(ctx context.Context, filters models.SearchFilters,
	result *Result) []models.JobPosting {

	for _, bundle := range fallbackBundles {
		var collected []models.JobPosting
		for _, strategy := range bundle {
			found := g.runStrategy(ctx, strategy, filters)
			result.StrategiesTried = append(result.StrategiesTried,
				StrategyOutcome{Strategy: strategy, Jobs: len(found)})
			collected = append(collected, found...)
		}
		if len(collected) > 0 {
			return collected
		}
	}
	return nil
}

func (g *Generator) runStrategy(ctx context.Context, strategy Strategy,
	filters models.SearchFilters) []models.JobPosting {

	searchFilters := filters
	searchFilters.Query = strategy.Query
	searchFilters.Location = strategy.Location
	searchFilters.Limit = g.cfg.MaxJobsPerRun

	found, err := g.searcher.Search(ctx, searchFilters)
	if err != nil {
		log.Errorf("strategy %q failed: %v", strategy.Query, err)
		return nil
	}
	return found.Jobs
}

func (g *Generator) embedProfile(ctx context.Context, profile models.UserProfileSummary) ([]float32, error) {
	start := time.Now()
	defer func() {
		metrics.GenerationStepDuration.WithLabelValues("profile_embedding").Observe(time.Since(start).Seconds())
	}()

	return g.embedder.Embed(ctx, profile.EmbeddingText())
}

// scoreJobs scores the batch in fixed-size concurrency windows so the
// embedding backend is never hit with the whole batch at once. One job's
// failure excludes that job, nothing else.
func (g *Generator) scoreJobs(ctx context.Context, profile models.UserProfileSummary,
	profileVector []float32, jobs []models.JobPosting) []models.Recommendation {

	start := time.Now()
	defer func() {
		metrics.GenerationStepDuration.WithLabelValues("scoring").Observe(time.Since(start).Seconds())
	}()

	window := g.cfg.ScoringBatchSize
	scored := make([]*models.Recommendation, len(jobs))

	for offset := 0; offset < len(jobs); offset += window {
		end := min(offset+window, len(jobs))

		var wg sync.WaitGroup
		for i := offset; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				scored[i] = g.scoreJob(ctx, profile, profileVector, jobs[i])
			}(i)
		}
		wg.Wait()
	}

	var kept []models.Recommendation
	for _, recommendation := range scored {
		if recommendation != nil && recommendation.MatchPercentage >= g.cfg.MinScore {
			kept = append(kept, *recommendation)
		}
	}
	return kept
}

func (g *Generator) scoreJob(ctx context.Context, profile models.UserProfileSummary,
	profileVector []float32, job models.JobPosting) *models.Recommendation {

	jobVector, err := g.cache.GetEmbedding(ctx, job)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).
			Errorf("failed to embed job %v: %v", job.Identity(), err)
		return nil
	}

	metrics.ScoredJobsCounter.Inc()

	similarity := embeddings.CosineSimilarity(profileVector, jobVector)
	percentage := embeddings.MatchPercentage(similarity)
	skillMatches := MatchSkills(profile.Skills, job.Description)

	reason := "Semantic match with your profile"
	if len(skillMatches) > 0 {
		reason += ", including " + strings.Join(skillMatches, ", ")
	}

	return &models.Recommendation{
		Job:             job,
		MatchPercentage: percentage,
		MatchReason:     reason,
		SkillMatches:    skillMatches,
	}
}

// MatchSkills returns the subset of profile skills found in the job
// description by case-insensitive substring test.
func MatchSkills(skills []string, description string) []string {
	lower := strings.ToLower(description)
	return lo.Filter(skills, func(skill string, _ int) bool {
		return skill != "" && strings.Contains(lower, strings.ToLower(skill))
	})
}
