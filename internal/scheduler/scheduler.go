package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/openjobs/jobscout/internal/events"
	"github.com/openjobs/jobscout/internal/logger"
	"github.com/openjobs/jobscout/internal/models"
	"github.com/openjobs/jobscout/internal/recommendations"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type userDirectory interface {
	ListIDs(ctx context.Context) ([]uint, error)
	GetProfileSummary(ctx context.Context, userID uint) (*models.UserProfileSummary, error)
}

type generator interface {
	Generate(ctx context.Context, profile models.UserProfileSummary,
		filters models.SearchFilters) (*recommendations.Result, error)
}

type recommendationStore interface {
	Replace(ctx context.Context, userID uint, recommendations []models.Recommendation) error
}

// Scheduler owns the single recurring regeneration task. Re-arming stops
// the previous trigger before starting the new one, so at most one
// trigger is ever live.
type Scheduler struct {
	users     userDirectory
	generator generator
	store     recommendationStore

	mu       sync.Mutex
	cron     *cron.Cron
	settings models.SchedulerSettings
}

func New(bus EventBus.Bus, users userDirectory, generator generator,
	store recommendationStore) (*Scheduler, error) {

	s := &Scheduler{
		users:     users,
		generator: generator,
		store:     store,
	}

	if err := bus.Subscribe(events.SettingsChangedTopic, s.onSettingsChanged); err != nil {
		return nil, err
	}

	return s, nil
}

// Arm parses the daily run time and schedules the batch. Any previously
// armed trigger is stopped first.
func (s *Scheduler) Arm(settings models.SchedulerSettings) error {

	hour, minute, err := settings.ParseRunTime()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}

	c := cron.New()
	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := c.AddFunc(spec, s.runBatch); err != nil {
		return err
	}

	c.Start()
	s.cron = c
	s.settings = settings

	log.Infof("scheduler armed, daily run time: %v", settings.DailyRunTime)
	return nil
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
		log.Info("scheduler stopped")
	}
}

func (s *Scheduler) onSettingsChanged(event events.SettingsChanged) {
	if err := s.Arm(event.Settings); err != nil {
		log.Errorf("failed to re-arm scheduler: %v", err)
	}
}

// runBatch regenerates recommendations for every known user. One user's
// failure is logged and skipped; the batch continues.
func (s *Scheduler) runBatch() {

	s.mu.Lock()
	settings := s.settings
	s.mu.Unlock()

	ctx := context.Background()
	start := time.Now()
	log.Info("scheduled recommendation batch started")

	userIDs, err := s.users.ListIDs(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to list users: %v", err)
		return
	}

	succeeded := 0
	for _, userID := range userIDs {
		if err := s.regenerateForUser(ctx, userID, settings); err != nil {
			log.Errorf("recommendation batch failed for user %v: %v", userID, err)
			continue
		}
		succeeded++
	}

	log.Infof("scheduled batch finished for %v/%v users after %v",
		succeeded, len(userIDs), time.Since(start))
}

func (s *Scheduler) regenerateForUser(ctx context.Context, userID uint,
	settings models.SchedulerSettings) error {

	profile, err := s.users.GetProfileSummary(ctx, userID)
	if err != nil {
		return err
	}

	filters := models.SearchFilters{APISources: settings.AllowedAPISources}
	result, err := s.generator.Generate(ctx, *profile, filters)
	if err != nil {
		return err
	}

	return s.store.Replace(ctx, userID, result.Recommendations)
}
