package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/openjobs/jobscout/internal/events"
	"github.com/openjobs/jobscout/internal/models"
	"github.com/openjobs/jobscout/internal/recommendations"
	"github.com/openjobs/jobscout/internal/search"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type stubSearcher struct {
	filters models.SearchFilters
	result  search.Result
}

func (s *stubSearcher) Search(_ context.Context, filters models.SearchFilters) (search.Result, error) {
	s.filters = filters
	return s.result, nil
}

type stubGenerator struct {
	result *recommendations.Result
}

func (s *stubGenerator) Generate(_ context.Context, _ models.UserProfileSummary,
	_ models.SearchFilters) (*recommendations.Result, error) {
	return s.result, nil
}

type stubReranker struct {
	recs []models.Recommendation
	err  error
}

func (s *stubReranker) Rerank(_ context.Context, _ models.UserProfileSummary,
	_ []models.JobPosting) ([]models.Recommendation, error) {
	return s.recs, s.err
}

type stubUsers struct {
	profiles map[uint]*models.UserProfileSummary
}

func (s *stubUsers) GetProfileSummary(_ context.Context, userID uint) (*models.UserProfileSummary, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, errors.New("record not found")
	}
	return profile, nil
}

type stubStore struct {
	replaced map[uint][]models.Recommendation
	saved    []models.Recommendation
}

func (s *stubStore) Replace(_ context.Context, userID uint, recs []models.Recommendation) error {
	if s.replaced == nil {
		s.replaced = map[uint][]models.Recommendation{}
	}
	s.replaced[userID] = recs
	return nil
}

func (s *stubStore) GetByUser(_ context.Context, _ uint) ([]models.Recommendation, error) {
	return s.saved, nil
}

type stubSettings struct {
	saved *models.SchedulerSettings
}

func (s *stubSettings) Save(_ context.Context, settings models.SchedulerSettings) error {
	s.saved = &settings
	return nil
}

type serverFixture struct {
	server   *Server
	searcher *stubSearcher
	reranker *stubReranker
	store    *stubStore
	settings *stubSettings
	bus      EventBus.Bus
}

func newFixture() *serverFixture {

	searcher := &stubSearcher{}
	reranker := &stubReranker{}
	store := &stubStore{}
	settings := &stubSettings{}
	bus := EventBus.New()

	users := &stubUsers{profiles: map[uint]*models.UserProfileSummary{
		1: {UserID: 1, JobTitle: "Go Developer", Location: "Berlin"},
	}}

	generator := &stubGenerator{result: &recommendations.Result{
		Recommendations: []models.Recommendation{
			{Job: models.JobPosting{ID: "j1", Title: "Go Developer"}, MatchPercentage: 80},
		},
	}}

	return &serverFixture{
		server:   New(0, searcher, generator, reranker, users, store, settings, bus),
		searcher: searcher,
		reranker: reranker,
		store:    store,
		settings: settings,
		bus:      bus,
	}
}

func (f *serverFixture) do(method, target, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	f.server.http.Handler.ServeHTTP(recorder, request)
	return recorder
}

func Test_Server_SearchParsesQueryParams(t *testing.T) {

	assert := assert.New(t)
	fixture := newFixture()

	recorder := fixture.do("GET",
		"/api/jobs/search?query=golang&location=Berlin&minSalary=60000&sources=remotive,adzuna&sortBy=date", "")

	assert.Equal(http.StatusOK, recorder.Code)
	assert.Equal("golang", fixture.searcher.filters.Query)
	assert.Equal("Berlin", fixture.searcher.filters.Location)
	assert.Equal(60000, fixture.searcher.filters.MinSalary)
	assert.Equal(models.SortByDate, fixture.searcher.filters.SortBy)
	assert.Equal([]models.Source{models.SourceRemotive, models.SourceAdzuna}, fixture.searcher.filters.APISources)
}

func Test_Server_SearchRejectsBadNumber(t *testing.T) {

	fixture := newFixture()
	recorder := fixture.do("GET", "/api/jobs/search?limit=ten", "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func Test_Server_GenerateUnknownUserIs404(t *testing.T) {

	fixture := newFixture()
	recorder := fixture.do("POST", "/api/users/99/recommendations", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func Test_Server_GeneratePersistsRecommendations(t *testing.T) {

	assert := assert.New(t)
	fixture := newFixture()

	recorder := fixture.do("POST", "/api/users/1/recommendations", "")

	assert.Equal(http.StatusOK, recorder.Code)
	assert.Len(fixture.store.replaced[1], 1)
	assert.Equal("j1", fixture.store.replaced[1][0].Job.ID)
}

func Test_Server_RerankParseFailureIs502(t *testing.T) {

	fixture := newFixture()
	fixture.reranker.err = errors.Wrap(recommendations.ErrRerankParse, "reply: nonsense")

	recorder := fixture.do("POST", "/api/users/1/recommendations/rerank", "")

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
}

func Test_Server_SaveSettingsPublishesChange(t *testing.T) {

	assert := assert.New(t)
	fixture := newFixture()

	var received *events.SettingsChanged
	err := fixture.bus.Subscribe(events.SettingsChangedTopic, func(event events.SettingsChanged) {
		received = &event
	})
	assert.NoError(err)

	recorder := fixture.do("PUT", "/api/admin/settings",
		`{"dailyRunTime": "07:30", "allowedApiSources": "remotive,jooble"}`)

	assert.Equal(http.StatusOK, recorder.Code)
	assert.NotNil(fixture.settings.saved)
	assert.Equal("07:30", fixture.settings.saved.DailyRunTime)
	assert.NotNil(received)
	assert.Equal("07:30", received.Settings.DailyRunTime)
}

func Test_Server_SaveSettingsRejectsBadRunTime(t *testing.T) {

	fixture := newFixture()
	recorder := fixture.do("PUT", "/api/admin/settings", `{"dailyRunTime": "25:00"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "hour")
}
