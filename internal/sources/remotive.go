package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/openjobs/jobscout/internal/models"
)

const remotiveBaseURL = "https://remotive.com/api/remote-jobs"

// Remotive queries the free Remotive API. Every posting it returns is
// remote, so the location filter is applied client-side by the
// orchestrator rather than sent to the provider.
type Remotive struct {
	restClient
}

func NewRemotive() *Remotive {
	return &Remotive{restClient: newRestClient(models.SourceRemotive)}
}

func (s *Remotive) Name() models.Source {
	return models.SourceRemotive
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	ID              json.Number `json:"id"`
	URL             string      `json:"url"`
	Title           string      `json:"title"`
	CompanyName     string      `json:"company_name"`
	Location        string      `json:"candidate_required_location"`
	JobType         string      `json:"job_type"`
	PublicationDate string      `json:"publication_date"`
	Salary          string      `json:"salary"`
	Description     string      `json:"description"`
	Tags            []string    `json:"tags"`
}

func (s *Remotive) Fetch(ctx context.Context, filters models.SearchFilters, limit int) []models.JobPosting {

	jobs, err := s.fetch(ctx, filters, limit)
	if err != nil {
		return absorb(s.Name(), err)
	}
	return truncate(jobs, limit)
}

func (s *Remotive) fetch(ctx context.Context, filters models.SearchFilters, limit int) ([]models.JobPosting, error) {

	params := url.Values{}
	params.Set("search", filters.Query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := s.sendRequest(ctx, "GET", remotiveBaseURL+"?"+params.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}

	var response remotiveResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}

	jobs := make([]models.JobPosting, 0, len(response.Jobs))
	for _, job := range response.Jobs {
		jobs = append(jobs, s.toJobPosting(job))
	}
	return jobs, nil
}

func (s *Remotive) toJobPosting(job remotiveJob) models.JobPosting {

	var posted *time.Time
	if t, err := time.Parse("2006-01-02T15:04:05", job.PublicationDate); err == nil {
		posted = &t
	}

	location := job.Location
	if location == "" {
		location = "Remote"
	}

	return models.JobPosting{
		ID:             job.ID.String(),
		Title:          orDefault(job.Title, models.DefaultTitle),
		Company:        orDefault(job.CompanyName, models.DefaultCompany),
		Location:       location,
		Description:    job.Description,
		Salary:         orDefault(job.Salary, models.DefaultSalary),
		URL:            job.URL,
		DatePosted:     posted,
		JobType:        remotiveJobType(job.JobType),
		Source:         models.SourceRemotive,
		SkillsRequired: job.Tags,
	}
}

func remotiveJobType(jobType string) string {
	switch jobType {
	case "full_time":
		return "Full-time"
	case "part_time":
		return "Part-time"
	case "freelance", "contract":
		return "Contract"
	case "internship":
		return "Internship"
	default:
		return jobType
	}
}
