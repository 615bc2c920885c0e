package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openjobs/jobscout/internal/models"
	"github.com/samber/lo"
)

const arbeitnowBaseURL = "https://www.arbeitnow.com/api/job-board-api"

// Arbeitnow queries the free Arbeitnow job board. The API offers no query
// parameter, so the search text is matched client-side against title and
// tags before truncation.
type Arbeitnow struct {
	restClient
}

func NewArbeitnow() *Arbeitnow {
	return &Arbeitnow{restClient: newRestClient(models.SourceArbeitnow)}
}

func (s *Arbeitnow) Name() models.Source {
	return models.SourceArbeitnow
}

type arbeitnowResponse struct {
	Data []arbeitnowJob `json:"data"`
}

type arbeitnowJob struct {
	Slug        string   `json:"slug"`
	CompanyName string   `json:"company_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Remote      bool     `json:"remote"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	JobTypes    []string `json:"job_types"`
	Location    string   `json:"location"`
	CreatedAt   int64    `json:"created_at"`
}

func (s *Arbeitnow) Fetch(ctx context.Context, filters models.SearchFilters, limit int) []models.JobPosting {

	jobs, err := s.fetch(ctx, filters)
	if err != nil {
		return absorb(s.Name(), err)
	}
	return truncate(jobs, limit)
}

func (s *Arbeitnow) fetch(ctx context.Context, filters models.SearchFilters) ([]models.JobPosting, error) {

	body, err := s.sendRequest(ctx, "GET", arbeitnowBaseURL+"?page=1", nil, nil)
	if err != nil {
		return nil, err
	}

	var response arbeitnowResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}

	matched := lo.Filter(response.Data, func(job arbeitnowJob, _ int) bool {
		return s.matchesQuery(job, filters.Query)
	})

	jobs := make([]models.JobPosting, 0, len(matched))
	for _, job := range matched {
		jobs = append(jobs, s.toJobPosting(job))
	}
	return jobs, nil
}

func (s *Arbeitnow) matchesQuery(job arbeitnowJob, query string) bool {
	if query == "" {
		return true
	}

	query = strings.ToLower(query)
	if strings.Contains(strings.ToLower(job.Title), query) {
		return true
	}
	return lo.SomeBy(job.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), query)
	})
}

func (s *Arbeitnow) toJobPosting(job arbeitnowJob) models.JobPosting {

	var posted *time.Time
	if job.CreatedAt > 0 {
		t := time.Unix(job.CreatedAt, 0).UTC()
		posted = &t
	}

	location := job.Location
	if job.Remote {
		location = orDefault(location, "Remote")
	}

	return models.JobPosting{
		ID:             job.Slug,
		Title:          orDefault(job.Title, models.DefaultTitle),
		Company:        orDefault(job.CompanyName, models.DefaultCompany),
		Location:       location,
		Description:    job.Description,
		Salary:         models.DefaultSalary,
		URL:            job.URL,
		DatePosted:     posted,
		JobType:        strings.Join(job.JobTypes, ", "),
		Source:         models.SourceArbeitnow,
		SkillsRequired: job.Tags,
	}
}
