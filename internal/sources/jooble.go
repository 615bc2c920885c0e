package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/openjobs/jobscout/internal/models"
	log "github.com/sirupsen/logrus"
)

const joobleBaseURL = "https://jooble.org/api/"

// Jooble posts a JSON search request to the Jooble aggregation API.
type Jooble struct {
	restClient
	apiKey string
}

func NewJooble(apiKey string) *Jooble {
	return &Jooble{restClient: newRestClient(models.SourceJooble), apiKey: apiKey}
}

func (s *Jooble) Name() models.Source {
	return models.SourceJooble
}

type joobleRequest struct {
	Keywords        string `json:"keywords"`
	Location        string `json:"location,omitempty"`
	Radius          string `json:"radius,omitempty"`
	Salary          string `json:"salary,omitempty"`
	Datecreatedfrom string `json:"datecreatedfrom,omitempty"`
	Page            string `json:"page"`
}

type joobleResponse struct {
	Jobs []joobleJob `json:"jobs"`
}

type joobleJob struct {
	ID       json.Number `json:"id"`
	Title    string      `json:"title"`
	Location string      `json:"location"`
	Snippet  string      `json:"snippet"`
	Salary   string      `json:"salary"`
	Type     string      `json:"type"`
	Link     string      `json:"link"`
	Company  string      `json:"company"`
	Updated  string      `json:"updated"`
}

func (s *Jooble) Fetch(ctx context.Context, filters models.SearchFilters, limit int) []models.JobPosting {

	if s.apiKey == "" {
		log.WithField("job_source", string(s.Name())).Warn("api key not set, skipping source")
		return nil
	}

	jobs, err := s.fetch(ctx, filters)
	if err != nil {
		return absorb(s.Name(), err)
	}
	return truncate(jobs, limit)
}

func (s *Jooble) fetch(ctx context.Context, filters models.SearchFilters) ([]models.JobPosting, error) {

	request := joobleRequest{
		Keywords: filters.Query,
		Location: filters.Location,
		Page:     "1",
	}
	if filters.DistanceKm > 0 {
		request.Radius = strconv.Itoa(filters.DistanceKm)
	}
	if filters.MinSalary > 0 {
		request.Salary = strconv.Itoa(filters.MinSalary)
	}
	if cutoff := filters.DatePosted.CutoffFrom(time.Now()); !cutoff.IsZero() {
		request.Datecreatedfrom = cutoff.Format("2006-01-02")
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %v", err)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	body, err := s.sendRequest(ctx, "POST", joobleBaseURL+s.apiKey, bytes.NewReader(payload), headers)
	if err != nil {
		return nil, err
	}

	var response joobleResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}

	jobs := make([]models.JobPosting, 0, len(response.Jobs))
	for _, job := range response.Jobs {
		jobs = append(jobs, s.toJobPosting(job))
	}
	return jobs, nil
}

func (s *Jooble) toJobPosting(job joobleJob) models.JobPosting {

	var posted *time.Time
	if t, err := time.Parse("2006-01-02T15:04:05.0000000", job.Updated); err == nil {
		posted = &t
	} else if t, err := time.Parse(time.RFC3339, job.Updated); err == nil {
		posted = &t
	}

	return models.JobPosting{
		ID:          job.ID.String(),
		Title:       orDefault(job.Title, models.DefaultTitle),
		Company:     orDefault(job.Company, models.DefaultCompany),
		Location:    job.Location,
		Description: job.Snippet,
		Salary:      orDefault(job.Salary, models.DefaultSalary),
		URL:         job.Link,
		DatePosted:  posted,
		JobType:     job.Type,
		Source:      models.SourceJooble,
	}
}
