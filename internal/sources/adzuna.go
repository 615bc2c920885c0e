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

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 50
)

// Adzuna fetches postings from the Adzuna public API. Missing credentials
// degrade the adapter to always-empty.
type Adzuna struct {
	restClient
	appID   string
	appKey  string
	country string
}

func NewAdzuna(appID, appKey, country string) *Adzuna {
	if country == "" {
		country = "gb"
	}
	return &Adzuna{
		restClient: newRestClient(models.SourceAdzuna),
		appID:      appID,
		appKey:     appKey,
		country:    country,
	}
}

func (s *Adzuna) Name() models.Source {
	return models.SourceAdzuna
}

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

type adzunaResult struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Company      adzunaCompany  `json:"company"`
	Location     adzunaLocation `json:"location"`
	SalaryMin    float64        `json:"salary_min"`
	SalaryMax    float64        `json:"salary_max"`
	RedirectURL  string         `json:"redirect_url"`
	Created      string         `json:"created"`
	ContractTime string         `json:"contract_time"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

func (s *Adzuna) Fetch(ctx context.Context, filters models.SearchFilters, limit int) []models.JobPosting {

	if s.appID == "" || s.appKey == "" {
		log.WithField("job_source", string(s.Name())).Warn("app id/key not set, skipping source")
		return nil
	}

	jobs, err := s.fetch(ctx, filters, limit)
	if err != nil {
		return absorb(s.Name(), err)
	}
	return truncate(jobs, limit)
}

func (s *Adzuna) fetch(ctx context.Context, filters models.SearchFilters, limit int) ([]models.JobPosting, error) {

	endpoint := fmt.Sprintf("%s/%s/search/1", adzunaBaseURL, s.country)

	perPage := adzunaPageSize
	if limit > 0 && limit < perPage {
		perPage = limit
	}

	params := url.Values{}
	params.Set("app_id", s.appID)
	params.Set("app_key", s.appKey)
	params.Set("results_per_page", strconv.Itoa(perPage))
	params.Set("what", filters.Query)
	if filters.Location != "" {
		params.Set("where", filters.Location)
	}
	if filters.DistanceKm > 0 {
		params.Set("distance", strconv.Itoa(filters.DistanceKm))
	}
	if filters.MinSalary > 0 {
		params.Set("salary_min", strconv.Itoa(filters.MinSalary))
	}
	if days := adzunaMaxDaysOld(filters.DatePosted); days > 0 {
		params.Set("max_days_old", strconv.Itoa(days))
	}
	switch normalizeJobType(filters.JobType) {
	case "fulltime":
		params.Set("full_time", "1")
	case "parttime":
		params.Set("part_time", "1")
	case "contract":
		params.Set("contract", "1")
	}

	body, err := s.sendRequest(ctx, "GET", endpoint+"?"+params.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}

	var response adzunaResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}

	jobs := make([]models.JobPosting, 0, len(response.Results))
	for _, result := range response.Results {
		jobs = append(jobs, s.toJobPosting(result))
	}
	return jobs, nil
}

func (s *Adzuna) toJobPosting(result adzunaResult) models.JobPosting {

	var posted *time.Time
	if t, err := time.Parse("2006-01-02T15:04:05Z", result.Created); err == nil {
		posted = &t
	}

	return models.JobPosting{
		ID:          result.ID,
		Title:       orDefault(result.Title, models.DefaultTitle),
		Company:     orDefault(result.Company.DisplayName, models.DefaultCompany),
		Location:    result.Location.DisplayName,
		Description: result.Description,
		Salary:      salaryRange(result.SalaryMin, result.SalaryMax, "£"),
		URL:         result.RedirectURL,
		DatePosted:  posted,
		JobType:     adzunaContractTime(result.ContractTime),
		Source:      models.SourceAdzuna,
	}
}

func adzunaContractTime(contractTime string) string {
	switch contractTime {
	case "full_time":
		return "Full-time"
	case "part_time":
		return "Part-time"
	default:
		return contractTime
	}
}

func adzunaMaxDaysOld(window models.DateWindow) int {
	switch window {
	case models.DateToday:
		return 1
	case models.DateYesterday:
		return 2
	case models.DateWeek:
		return 7
	case models.DateMonth:
		return 30
	default:
		return 0
	}
}
