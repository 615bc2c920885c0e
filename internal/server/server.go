package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/asaskevich/EventBus"
	"github.com/openjobs/jobscout/internal/events"
	"github.com/openjobs/jobscout/internal/models"
	"github.com/openjobs/jobscout/internal/recommendations"
	"github.com/openjobs/jobscout/internal/search"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type searcher interface {
	Search(ctx context.Context, filters models.SearchFilters) (search.Result, error)
}

type generator interface {
	Generate(ctx context.Context, profile models.UserProfileSummary,
		filters models.SearchFilters) (*recommendations.Result, error)
}

type reranker interface {
	Rerank(ctx context.Context, profile models.UserProfileSummary,
		pool []models.JobPosting) ([]models.Recommendation, error)
}

type userDirectory interface {
	GetProfileSummary(ctx context.Context, userID uint) (*models.UserProfileSummary, error)
}

type recommendationStore interface {
	Replace(ctx context.Context, userID uint, recommendations []models.Recommendation) error
	GetByUser(ctx context.Context, userID uint) ([]models.Recommendation, error)
}

type settingsStore interface {
	Save(ctx context.Context, settings models.SchedulerSettings) error
}

// Server is the on-demand HTTP surface: ad-hoc search, per-user
// recommendation generation, and admin settings updates.
type Server struct {
	searcher  searcher
	generator generator
	reranker  reranker
	users     userDirectory
	store     recommendationStore
	settings  settingsStore
	bus       EventBus.Bus
	http      *http.Server
}

func New(port int, searcher searcher, generator generator, reranker reranker,
	users userDirectory, store recommendationStore, settings settingsStore,
	bus EventBus.Bus) *Server {

	s := &Server{
		searcher:  searcher,
		generator: generator,
		reranker:  reranker,
		users:     users,
		store:     store,
		settings:  settings,
		bus:       bus,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/jobs/search", s.handleSearch)
	mux.HandleFunc("GET /api/users/{id}/recommendations", s.handleGetRecommendations)
	mux.HandleFunc("POST /api/users/{id}/recommendations", s.handleGenerate)
	mux.HandleFunc("POST /api/users/{id}/recommendations/rerank", s.handleRerank)
	mux.HandleFunc("PUT /api/admin/settings", s.handleSaveSettings)

	s.http = &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	return s
}

func (s *Server) Run() {
	log.Infof("http server listening on %v", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server failed: %v", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {

	filters, err := filtersFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.searcher.Search(r.Context(), filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Jobs:            result.Jobs,
		PerSourceCounts: result.PerSourceCounts,
		Total:           len(result.Jobs),
	})
}

func (s *Server) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {

	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	saved, err := s.store.GetByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {

	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	profile, err := s.users.GetProfileSummary(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("user %v not found", userID))
		return
	}

	filters, err := filtersFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.generator.Generate(r.Context(), *profile, filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := s.store.Replace(r.Context(), userID, result.Recommendations); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRerank(w http.ResponseWriter, r *http.Request) {

	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	profile, err := s.users.GetProfileSummary(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("user %v not found", userID))
		return
	}

	pool, err := s.searcher.Search(r.Context(), models.SearchFilters{
		Query:    profile.JobTitle,
		Location: profile.Location,
		Limit:    300,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	reranked, err := s.reranker.Rerank(r.Context(), *profile, search.Deduplicate(pool.Jobs))
	if err != nil {
		// An unparsable model reply is a hard failure: there is no safe
		// partial result to hand back.
		if errors.Is(err, recommendations.ErrRerankParse) {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := s.store.Replace(r.Context(), userID, reranked); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, reranked)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {

	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	settings := models.SchedulerSettings{
		DailyRunTime:      payload.DailyRunTime,
		AllowedAPISources: models.SourcesFromString(payload.AllowedAPISources),
		RerankModel:       payload.RerankModel,
	}
	if _, _, err := settings.ParseRunTime(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.settings.Save(r.Context(), settings); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.bus.Publish(events.SettingsChangedTopic, events.SettingsChanged{Settings: settings})
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

type searchResponse struct {
	Jobs            []models.JobPosting   `json:"jobs"`
	PerSourceCounts map[models.Source]int `json:"perSourceCounts"`
	Total           int                   `json:"total"`
}

type settingsPayload struct {
	DailyRunTime      string `json:"dailyRunTime"`
	AllowedAPISources string `json:"allowedApiSources"`
	RerankModel       string `json:"rerankModel"`
}

func filtersFromQuery(r *http.Request) (models.SearchFilters, error) {

	query := r.URL.Query()

	filters := models.SearchFilters{
		Query:      query.Get("query"),
		Company:    query.Get("company"),
		Location:   query.Get("location"),
		JobType:    query.Get("jobType"),
		DatePosted: models.DateWindow(query.Get("datePosted")),
		SortBy:     models.SortBy(query.Get("sortBy")),
		APISources: models.SourcesFromString(query.Get("sources")),
	}

	for name, target := range map[string]*int{
		"distanceKm": &filters.DistanceKm,
		"minSalary":  &filters.MinSalary,
		"limit":      &filters.Limit,
	} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return filters, fmt.Errorf("invalid %v: %v", name, raw)
		}
		*target = value
	}

	return filters, nil
}

func userIDFromPath(r *http.Request) (uint, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user id: %v", raw)
	}
	return uint(id), nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
