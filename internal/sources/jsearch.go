package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/openjobs/jobscout/internal/models"
	log "github.com/sirupsen/logrus"
)

const jsearchBaseURL = "https://jsearch.p.rapidapi.com/search"

// JSearch queries the JSearch RapidAPI aggregator. Without an API key the
// adapter degrades to always-empty.
type JSearch struct {
	restClient
	apiKey string
}

func NewJSearch(apiKey string) *JSearch {
	return &JSearch{restClient: newRestClient(models.SourceJSearch), apiKey: apiKey}
}

func (s *JSearch) Name() models.Source {
	return models.SourceJSearch
}

type jsearchResponse struct {
	Data []jsearchJob `json:"data"`
}

type jsearchJob struct {
	JobID          string   `json:"job_id"`
	Title          string   `json:"job_title"`
	Employer       string   `json:"employer_name"`
	City           string   `json:"job_city"`
	Country        string   `json:"job_country"`
	Description    string   `json:"job_description"`
	MinSalary      float64  `json:"job_min_salary"`
	MaxSalary      float64  `json:"job_max_salary"`
	ApplyLink      string   `json:"job_apply_link"`
	PostedAt       string   `json:"job_posted_at_datetime_utc"`
	EmploymentType string   `json:"job_employment_type"`
	Skills         []string `json:"job_required_skills"`
}

func (s *JSearch) Fetch(ctx context.Context, filters models.SearchFilters, limit int) []models.JobPosting {

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

func (s *JSearch) fetch(ctx context.Context, filters models.SearchFilters) ([]models.JobPosting, error) {

	query := filters.Query
	if filters.Location != "" {
		query += " in " + filters.Location
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("num_pages", "1")
	params.Set("date_posted", jsearchDateWindow(filters.DatePosted))
	if employment := jsearchEmploymentType(filters.JobType); employment != "" {
		params.Set("employment_types", employment)
	}
	if filters.DistanceKm > 0 {
		params.Set("radius", strconv.Itoa(filters.DistanceKm))
	}

	headers := map[string]string{
		"X-RapidAPI-Key":  s.apiKey,
		"X-RapidAPI-Host": "jsearch.p.rapidapi.com",
	}

	body, err := s.sendRequest(ctx, "GET", jsearchBaseURL+"?"+params.Encode(), nil, headers)
	if err != nil {
		return nil, err
	}

	var response jsearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}

	jobs := make([]models.JobPosting, 0, len(response.Data))
	for _, job := range response.Data {
		jobs = append(jobs, s.toJobPosting(job))
	}
	return jobs, nil
}

func (s *JSearch) toJobPosting(job jsearchJob) models.JobPosting {

	location := job.City
	if job.Country != "" {
		if location != "" {
			location += ", "
		}
		location += job.Country
	}

	var posted *time.Time
	if t, err := time.Parse(time.RFC3339, job.PostedAt); err == nil {
		posted = &t
	}

	return models.JobPosting{
		ID:             job.JobID,
		Title:          orDefault(job.Title, models.DefaultTitle),
		Company:        orDefault(job.Employer, models.DefaultCompany),
		Location:       location,
		Description:    job.Description,
		Salary:         salaryRange(job.MinSalary, job.MaxSalary, "$"),
		URL:            job.ApplyLink,
		DatePosted:     posted,
		JobType:        job.EmploymentType,
		Source:         models.SourceJSearch,
		SkillsRequired: job.Skills,
	}
}

func jsearchDateWindow(window models.DateWindow) string {
	switch window {
	case models.DateToday, models.DateYesterday:
		return "today"
	case models.DateWeek:
		return "week"
	case models.DateMonth:
		return "month"
	default:
		return "all"
	}
}

func jsearchEmploymentType(jobType string) string {
	switch normalizeJobType(jobType) {
	case "fulltime":
		return "FULLTIME"
	case "parttime":
		return "PARTTIME"
	case "contract":
		return "CONTRACTOR"
	case "internship":
		return "INTERN"
	default:
		return ""
	}
}
