package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobscout_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	SourceJobsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobscout_source_jobs_total",
			Help: "Total number of job postings returned per source.",
		},
		[]string{"source"},
	)
	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobscout_search_duration_seconds",
			Help:    "Duration of each fan-out search in seconds.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30},
		},
	)
	GenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobscout_recommendation_generation_duration_seconds",
			Help:    "Duration of each recommendation generation in seconds.",
			Buckets: []float64{1, 5, 15, 30, 60, 180},
		},
	)
	GenerationStepDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "jobscout_generation_step_duration_seconds",
			Help:       "Duration of each step in the recommendation pipeline.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)
	ScoredJobsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobscout_scored_jobs_total",
			Help: "Total number of jobs scored against a profile.",
		},
	)
	EmbeddingCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobscout_embedding_cache_requests_total",
			Help: "Embedding cache lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

func StartMetricsServer(port int) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(SourceJobsCounter)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(GenerationDuration)
	prometheus.MustRegister(GenerationStepDuration)
	prometheus.MustRegister(ScoredJobsCounter)
	prometheus.MustRegister(EmbeddingCacheHits)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), mux))
	}()
}
