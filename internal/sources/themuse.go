package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/openjobs/jobscout/internal/models"
	"github.com/samber/lo"
)

const themuseBaseURL = "https://www.themuse.com/api/public/jobs"

// TheMuse queries The Muse public API. The API key is optional; without
// one the provider applies a stricter rate limit but still answers.
type TheMuse struct {
	restClient
	apiKey string
}

func NewTheMuse(apiKey string) *TheMuse {
	return &TheMuse{restClient: newRestClient(models.SourceTheMuse), apiKey: apiKey}
}

func (s *TheMuse) Name() models.Source {
	return models.SourceTheMuse
}

type themuseResponse struct {
	Results []themuseJob `json:"results"`
}

type themuseJob struct {
	ID              json.Number       `json:"id"`
	Name            string            `json:"name"`
	Contents        string            `json:"contents"`
	PublicationDate string            `json:"publication_date"`
	Type            string            `json:"type"`
	Company         themuseCompany    `json:"company"`
	Locations       []themuseLocation `json:"locations"`
	Levels          []themuseLevel    `json:"levels"`
	Refs            themuseRefs       `json:"refs"`
}

type themuseCompany struct {
	Name string `json:"name"`
}

type themuseLocation struct {
	Name string `json:"name"`
}

type themuseLevel struct {
	Name string `json:"name"`
}

type themuseRefs struct {
	LandingPage string `json:"landing_page"`
}

func (s *TheMuse) Fetch(ctx context.Context, filters models.SearchFilters, limit int) []models.JobPosting {

	jobs, err := s.fetch(ctx, filters)
	if err != nil {
		return absorb(s.Name(), err)
	}
	return truncate(jobs, limit)
}

func (s *TheMuse) fetch(ctx context.Context, filters models.SearchFilters) ([]models.JobPosting, error) {

	params := url.Values{}
	params.Set("page", "1")
	if filters.Location != "" {
		params.Set("location", filters.Location)
	}
	if s.apiKey != "" {
		params.Set("api_key", s.apiKey)
	}

	body, err := s.sendRequest(ctx, "GET", themuseBaseURL+"?"+params.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}

	var response themuseResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}

	// The jobs endpoint has no free-text query parameter; match the query
	// against title and contents before mapping.
	matched := lo.Filter(response.Results, func(job themuseJob, _ int) bool {
		if filters.Query == "" {
			return true
		}
		query := strings.ToLower(filters.Query)
		return strings.Contains(strings.ToLower(job.Name), query) ||
			strings.Contains(strings.ToLower(job.Contents), query)
	})

	jobs := make([]models.JobPosting, 0, len(matched))
	for _, job := range matched {
		jobs = append(jobs, s.toJobPosting(job))
	}
	return jobs, nil
}

func (s *TheMuse) toJobPosting(job themuseJob) models.JobPosting {

	var posted *time.Time
	if t, err := time.Parse(time.RFC3339, job.PublicationDate); err == nil {
		posted = &t
	}

	locations := lo.Map(job.Locations, func(location themuseLocation, _ int) string {
		return location.Name
	})

	return models.JobPosting{
		ID:          job.ID.String(),
		Title:       orDefault(job.Name, models.DefaultTitle),
		Company:     orDefault(job.Company.Name, models.DefaultCompany),
		Location:    strings.Join(locations, "; "),
		Description: job.Contents,
		Salary:      models.DefaultSalary,
		URL:         job.Refs.LandingPage,
		DatePosted:  posted,
		JobType:     job.Type,
		Source:      models.SourceTheMuse,
	}
}
