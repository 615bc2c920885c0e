package search

import (
	"context"
	"testing"
	"time"

	"github.com/openjobs/jobscout/internal/models"
	"github.com/openjobs/jobscout/internal/sources"
	"github.com/stretchr/testify/assert"
)

type stubSource struct {
	name  models.Source
	jobs  []models.JobPosting
	delay time.Duration
}

func (s *stubSource) Name() models.Source {
	return s.name
}

func (s *stubSource) Fetch(_ context.Context, _ models.SearchFilters, _ int) []models.JobPosting {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.jobs
}

func job(id, title, company string) models.JobPosting {
	return models.JobPosting{ID: id, Title: title, Company: company, Source: "test"}
}

func Test_Orchestrator_MergesInRegistryOrder(t *testing.T) {

	assert := assert.New(t)

	// The first adapter is slowest; its jobs must still come first.
	registry := sources.NewRegistry(
		&stubSource{name: "a", jobs: []models.JobPosting{job("a1", "Dev A", "X")}, delay: 50 * time.Millisecond},
		&stubSource{name: "b", jobs: []models.JobPosting{job("b1", "Dev B", "Y")}},
	)

	result, err := NewOrchestrator(registry).Search(context.Background(), models.SearchFilters{Query: "dev"})
	assert.NoError(err)

	assert.Len(result.Jobs, 2)
	assert.Equal("a1", result.Jobs[0].ID)
	assert.Equal("b1", result.Jobs[1].ID)
	assert.Equal(1, result.PerSourceCounts["a"])
	assert.Equal(1, result.PerSourceCounts["b"])
}

func Test_Orchestrator_EmptyAdapterDoesNotAffectOthers(t *testing.T) {

	assert := assert.New(t)

	registry := sources.NewRegistry(
		&stubSource{name: "broken"},
		&stubSource{name: "ok", jobs: []models.JobPosting{job("1", "Dev", "X")}},
	)

	result, err := NewOrchestrator(registry).Search(context.Background(), models.SearchFilters{})
	assert.NoError(err)

	assert.Len(result.Jobs, 1)
	assert.Equal(0, result.PerSourceCounts["broken"])
	assert.Equal(1, result.PerSourceCounts["ok"])
}

func Test_ApplyPostFilters_CompanyAndSalary(t *testing.T) {

	assert := assert.New(t)

	jobs := []models.JobPosting{
		{Title: "A", Company: "Acme Corp", Salary: "$50,000"},
		{Title: "B", Company: "Other", Salary: "$90,000"},
		{Title: "C", Company: "Acme GmbH", Salary: models.DefaultSalary},
		{Title: "D", Company: "Acme Ltd", Salary: "$95k"},
	}

	filtered := applyPostFilters(jobs, models.SearchFilters{Company: "acme", MinSalary: 60000})

	// "A" fails the salary floor; "B" fails the company match; "C" has no
	// parseable salary so it stays in.
	assert.Len(filtered, 2)
	assert.Equal("C", filtered[0].Title)
	assert.Equal("D", filtered[1].Title)
}

func Test_ApplyPostFilters_DateCutoffKeepsUndated(t *testing.T) {

	assert := assert.New(t)

	recent := time.Now().Add(-time.Hour)
	stale := time.Now().Add(-40 * 24 * time.Hour)

	jobs := []models.JobPosting{
		{Title: "recent", DatePosted: &recent},
		{Title: "stale", DatePosted: &stale},
		{Title: "undated"},
	}

	filtered := applyPostFilters(jobs, models.SearchFilters{DatePosted: models.DateWeek})

	assert.Len(filtered, 2)
	assert.Equal("recent", filtered[0].Title)
	assert.Equal("undated", filtered[1].Title)
}

func Test_SortJobs_ByDatePutsUndatedLast(t *testing.T) {

	assert := assert.New(t)

	older := time.Now().Add(-48 * time.Hour)
	newer := time.Now().Add(-time.Hour)

	jobs := []models.JobPosting{
		{Title: "undated"},
		{Title: "older", DatePosted: &older},
		{Title: "newer", DatePosted: &newer},
	}

	sortJobs(jobs, models.SortByDate)

	assert.Equal("newer", jobs[0].Title)
	assert.Equal("older", jobs[1].Title)
	assert.Equal("undated", jobs[2].Title)
}

func Test_SortJobs_BySalaryPutsSalariedFirst(t *testing.T) {

	jobs := []models.JobPosting{
		{Title: "no salary", Salary: models.DefaultSalary},
		{Title: "salaried", Salary: "$80,000"},
	}

	sortJobs(jobs, models.SortBySalary)

	assert.Equal(t, "salaried", jobs[0].Title)
}

func Test_Deduplicate_FirstOccurrenceWins(t *testing.T) {

	assert := assert.New(t)

	jobs := []models.JobPosting{
		{ID: "1", Title: "Go Developer", Company: "Acme"},
		{ID: "2", Title: "go developer", Company: "ACME"},
		{ID: "3", Title: "Go Developer", Company: "Other"},
	}

	unique := Deduplicate(jobs)

	assert.Len(unique, 2)
	assert.Equal("1", unique[0].ID)
	assert.Equal("3", unique[1].ID)
}

func Test_ExtractSalary(t *testing.T) {

	assert := assert.New(t)

	cases := []struct {
		raw      string
		expected float64
		ok       bool
	}{
		{"$50,000 - $70,000", 50000, true},
		{"$95k", 95000, true},
		{"£40000", 40000, true},
		{models.DefaultSalary, 0, false},
		{"", 0, false},
	}

	for _, c := range cases {
		salary, ok := ExtractSalary(c.raw)
		assert.Equal(c.ok, ok, c.raw)
		if c.ok {
			assert.Equal(c.expected, salary, c.raw)
		}
	}
}
