package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/openjobs/jobscout/internal/clients/gemini"
	"github.com/openjobs/jobscout/internal/config"
	"github.com/openjobs/jobscout/internal/embeddings"
	"github.com/openjobs/jobscout/internal/events"
	"github.com/openjobs/jobscout/internal/logger"
	"github.com/openjobs/jobscout/internal/metrics"
	"github.com/openjobs/jobscout/internal/models"
	"github.com/openjobs/jobscout/internal/recommendations"
	"github.com/openjobs/jobscout/internal/repositories"
	"github.com/openjobs/jobscout/internal/scheduler"
	"github.com/openjobs/jobscout/internal/search"
	"github.com/openjobs/jobscout/internal/server"
	"github.com/openjobs/jobscout/internal/sources"
	"github.com/openjobs/jobscout/internal/sources/scrape"
	log "github.com/sirupsen/logrus"
)

func buildRegistry(cfg config.SourcesConfig) *sources.Registry {

	return sources.NewRegistry(
		sources.NewJSearch(cfg.JSearchAPIKey),
		sources.NewAdzuna(cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry),
		sources.NewJooble(cfg.JoobleAPIKey),
		sources.NewRemotive(),
		sources.NewArbeitnow(),
		sources.NewTheMuse(cfg.TheMuseAPIKey),
		scrape.NewHarvester(scrape.DefaultSites()),
	)
}

func applyRerankModel(aiClient *gemini.Client, settings models.SchedulerSettings) {
	if settings.RerankModel != "" {
		aiClient.SetModel(gemini.Model(settings.RerankModel))
	}
}

func buildAIClient(ctx context.Context, cfg config.AIConfig) *gemini.Client {

	aiClient, err := gemini.NewClient(ctx, cfg.Key,
		gemini.Model(cfg.RerankModel), gemini.Model(cfg.EmbeddingModel))
	if err != nil {
		log.Fatalf("can't create AI client: %v", err)
	}
	aiClient.SetMinuteRateLimit(cfg.MaxRequestsPerMinute)
	aiClient.SetDayRateLimit(cfg.MaxRequestsPerDay)
	return aiClient
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Server.MetricsPort)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	if err = dbContext.Migrate(); err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	users := repositories.NewUsersRepository(dbContext.DB)
	recs := repositories.NewRecommendationsRepository(dbContext.DB)
	settings := repositories.NewSettingsRepository(dbContext.DB, cfg.Scheduler.DefaultRunTime)

	aiClient := buildAIClient(ctx, cfg.AI)

	orchestrator := search.NewOrchestrator(buildRegistry(cfg.Sources))
	cache := embeddings.NewCache(aiClient)
	generator := recommendations.NewGenerator(orchestrator, cache, aiClient, cfg.Recs)
	reranker := recommendations.NewReranker(aiClient)

	bus := EventBus.New()

	sched, err := scheduler.New(bus, users, generator, recs)
	if err != nil {
		log.Fatalf("can't create scheduler: %v", err)
	}
	defer sched.Stop()

	current, err := settings.Get(ctx)
	if err != nil {
		log.Fatalf("can't load scheduler settings: %v", err)
	}
	if err = sched.Arm(current); err != nil {
		log.Fatalf("can't arm scheduler: %v", err)
	}

	applyRerankModel(aiClient, current)
	err = bus.Subscribe(events.SettingsChangedTopic, func(event events.SettingsChanged) {
		applyRerankModel(aiClient, event.Settings)
	})
	if err != nil {
		log.Fatalf("can't subscribe to settings changes: %v", err)
	}

	srv := server.New(cfg.Server.Port, orchestrator, generator, reranker, users, recs, settings, bus)
	go srv.Run()

	<-ctx.Done()

	log.Info("Shutting down services...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http server shutdown: %v", err)
	}
	log.Info("Services stopped.")
}
