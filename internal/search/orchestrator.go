package search

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/openjobs/jobscout/internal/metrics"
	"github.com/openjobs/jobscout/internal/models"
	"github.com/openjobs/jobscout/internal/sources"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Result carries merged postings plus the per-source counts kept for
// observability and for the generator's strategy reporting.
type Result struct {
	Jobs            []models.JobPosting
	PerSourceCounts map[models.Source]int
}

// Orchestrator fans one search request out to every requested adapter
// concurrently and merges the results. One slow or broken adapter cannot
// cancel or delay the others; its contribution is simply empty.
type Orchestrator struct {
	registry *sources.Registry
}

func NewOrchestrator(registry *sources.Registry) *Orchestrator {
	return &Orchestrator{registry: registry}
}

func (o *Orchestrator) Search(ctx context.Context, filters models.SearchFilters) (Result, error) {

	start := time.Now()
	adapters := o.registry.Resolve(filters.APISources)

	// Slot-indexed so merge order follows registry order, not goroutine
	// completion order.
	resultSlots := make([][]models.JobPosting, len(adapters))

	var wg sync.WaitGroup
	for i, adapter := range adapters {
		wg.Add(1)
		go func(slot int, adapter sources.Source) {
			defer wg.Done()
			resultSlots[slot] = adapter.Fetch(ctx, filters, filters.Limit)
		}(i, adapter)
	}
	wg.Wait()

	counts := make(map[models.Source]int, len(adapters))
	var merged []models.JobPosting
	for i, adapter := range adapters {
		counts[adapter.Name()] = len(resultSlots[i])
		metrics.SourceJobsCounter.WithLabelValues(string(adapter.Name())).Add(float64(len(resultSlots[i])))
		merged = append(merged, resultSlots[i]...)
	}

	merged = applyPostFilters(merged, filters)
	sortJobs(merged, filters.SortBy)

	if filters.Limit > 0 && len(merged) > filters.Limit {
		merged = merged[:filters.Limit]
	}

	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	log.Infof("search %q returned %v jobs from %v sources", filters.Query, len(merged), len(adapters))

	return Result{Jobs: merged, PerSourceCounts: counts}, nil
}

// applyPostFilters enforces the filters not every provider supports
// natively: company substring, salary floor, and the relative date cutoff.
func applyPostFilters(jobs []models.JobPosting, filters models.SearchFilters) []models.JobPosting {

	if filters.Company != "" {
		company := strings.ToLower(filters.Company)
		jobs = lo.Filter(jobs, func(job models.JobPosting, _ int) bool {
			return strings.Contains(strings.ToLower(job.Company), company)
		})
	}

	if filters.MinSalary > 0 {
		jobs = lo.Filter(jobs, func(job models.JobPosting, _ int) bool {
			salary, ok := ExtractSalary(job.Salary)
			// Postings with an unparseable salary stay in: absent is
			// unknown, not zero.
			return !ok || salary >= float64(filters.MinSalary)
		})
	}

	if cutoff := filters.DatePosted.CutoffFrom(time.Now()); !cutoff.IsZero() {
		jobs = lo.Filter(jobs, func(job models.JobPosting, _ int) bool {
			return job.DatePosted == nil || !job.DatePosted.Before(cutoff)
		})
	}

	return jobs
}

func sortJobs(jobs []models.JobPosting, sortBy models.SortBy) {
	switch sortBy {
	case models.SortByDate:
		// Undated postings sort last; dated ones strictly descending.
		sort.SliceStable(jobs, func(i, j int) bool {
			if jobs[i].DatePosted == nil {
				return false
			}
			if jobs[j].DatePosted == nil {
				return true
			}
			return jobs[i].DatePosted.After(*jobs[j].DatePosted)
		})
	case models.SortBySalary:
		// Salaried postings first; no refinement beyond that.
		sort.SliceStable(jobs, func(i, j int) bool {
			iHas := jobs[i].Salary != "" && jobs[i].Salary != models.DefaultSalary
			jHas := jobs[j].Salary != "" && jobs[j].Salary != models.DefaultSalary
			return iHas && !jHas
		})
	default:
		// Relevance keeps adapter order, which already reflects each
		// provider's own ranking.
	}
}

// Deduplicate drops postings whose lowercase (title, company) pair was
// already seen; the first occurrence wins.
func Deduplicate(jobs []models.JobPosting) []models.JobPosting {
	seen := make(map[string]struct{}, len(jobs))

	var unique []models.JobPosting
	for _, job := range jobs {
		key := strings.ToLower(job.Title) + "|" + strings.ToLower(job.Company)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, job)
	}
	return unique
}
