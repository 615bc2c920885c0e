package scheduler

import (
	"context"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/openjobs/jobscout/internal/events"
	"github.com/openjobs/jobscout/internal/models"
	"github.com/openjobs/jobscout/internal/recommendations"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type stubUsers struct {
	ids      []uint
	profiles map[uint]*models.UserProfileSummary
}

func (s *stubUsers) ListIDs(_ context.Context) ([]uint, error) {
	return s.ids, nil
}

func (s *stubUsers) GetProfileSummary(_ context.Context, userID uint) (*models.UserProfileSummary, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, errors.Errorf("no profile for user %v", userID)
	}
	return profile, nil
}

type stubGenerator struct {
	result   *recommendations.Result
	err      error
	profiles []models.UserProfileSummary
}

func (s *stubGenerator) Generate(_ context.Context, profile models.UserProfileSummary,
	_ models.SearchFilters) (*recommendations.Result, error) {
	s.profiles = append(s.profiles, profile)
	return s.result, s.err
}

type stubStore struct {
	replaced map[uint][]models.Recommendation
}

func (s *stubStore) Replace(_ context.Context, userID uint, recs []models.Recommendation) error {
	if s.replaced == nil {
		s.replaced = map[uint][]models.Recommendation{}
	}
	s.replaced[userID] = recs
	return nil
}

func newTestScheduler(t *testing.T, users *stubUsers, generator *stubGenerator,
	store *stubStore) (*Scheduler, EventBus.Bus) {

	bus := EventBus.New()
	scheduler, err := New(bus, users, generator, store)
	assert.NoError(t, err)
	return scheduler, bus
}

func Test_Scheduler_ArmRejectsInvalidRunTime(t *testing.T) {

	scheduler, _ := newTestScheduler(t, &stubUsers{}, &stubGenerator{}, &stubStore{})
	defer scheduler.Stop()

	err := scheduler.Arm(models.SchedulerSettings{DailyRunTime: "25:99"})
	assert.Error(t, err)
	assert.Nil(t, scheduler.cron)
}

func Test_Scheduler_RearmReplacesTrigger(t *testing.T) {

	assert := assert.New(t)

	scheduler, _ := newTestScheduler(t, &stubUsers{}, &stubGenerator{}, &stubStore{})
	defer scheduler.Stop()

	assert.NoError(scheduler.Arm(models.SchedulerSettings{DailyRunTime: "06:00"}))
	first := scheduler.cron
	assert.Len(first.Entries(), 1)

	assert.NoError(scheduler.Arm(models.SchedulerSettings{DailyRunTime: "18:30"}))
	second := scheduler.cron

	// A new cron instance carries the new trigger; the old instance is
	// stopped, so at most one trigger is ever live.
	assert.NotSame(first, second)
	assert.Len(second.Entries(), 1)
}

func Test_Scheduler_RearmsOnSettingsChange(t *testing.T) {

	assert := assert.New(t)

	scheduler, bus := newTestScheduler(t, &stubUsers{}, &stubGenerator{}, &stubStore{})
	defer scheduler.Stop()

	assert.NoError(scheduler.Arm(models.SchedulerSettings{DailyRunTime: "06:00"}))
	before := scheduler.cron

	bus.Publish(events.SettingsChangedTopic, events.SettingsChanged{
		Settings: models.SchedulerSettings{DailyRunTime: "07:15"},
	})
	bus.WaitAsync()

	assert.NotSame(before, scheduler.cron)
	assert.Equal("07:15", scheduler.settings.DailyRunTime)
}

func Test_Scheduler_BatchSkipsFailingUser(t *testing.T) {

	assert := assert.New(t)

	users := &stubUsers{
		ids: []uint{1, 2, 3},
		profiles: map[uint]*models.UserProfileSummary{
			1: {UserID: 1, JobTitle: "Go Developer"},
			3: {UserID: 3, JobTitle: "SRE"},
		},
	}

	generated := &recommendations.Result{
		Recommendations: []models.Recommendation{{Job: models.JobPosting{ID: "j1"}, MatchPercentage: 80}},
	}

	generator := &stubGenerator{result: generated}
	store := &stubStore{}

	scheduler, _ := newTestScheduler(t, users, generator, store)
	scheduler.settings = models.SchedulerSettings{DailyRunTime: "06:00"}

	scheduler.runBatch()

	// User 2 has no profile and is skipped; the batch still reaches user 3.
	assert.Len(store.replaced, 2)
	assert.Equal(generated.Recommendations, store.replaced[1])
	assert.Equal(generated.Recommendations, store.replaced[3])
	assert.Len(generator.profiles, 2)
}
