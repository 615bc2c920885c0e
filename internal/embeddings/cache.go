package embeddings

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/openjobs/jobscout/internal/metrics"
	"github.com/openjobs/jobscout/internal/models"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

// Embedder computes a semantic vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

const (
	defaultExpiry   = 24 * time.Hour
	sweepInterval   = time.Hour
	defaultCapacity = 10_000
	evictionBatch   = 1_000
)

type cacheEntry struct {
	Vector   []float32
	CachedAt time.Time
}

// Cache memoizes one vector per job identity. Expired entries are never
// served; the go-cache janitor sweeps them hourly, and a capacity bound
// evicts the oldest entries in bulk when the map grows past its cap.
// A miss is always equivalent to a fresh computation, never an error.
type Cache struct {
	embedder Embedder
	cache    *gocache.Cache
	capacity int
}

func NewCache(embedder Embedder) *Cache {
	return &Cache{
		embedder: embedder,
		cache:    gocache.New(defaultExpiry, sweepInterval),
		capacity: defaultCapacity,
	}
}

// GetEmbedding returns the cached vector for the job's identity, or
// computes, stores, and returns a fresh one.
func (c *Cache) GetEmbedding(ctx context.Context, job models.JobPosting) ([]float32, error) {

	key := job.Identity()
	if cached, found := c.cache.Get(key); found {
		metrics.EmbeddingCacheHits.WithLabelValues("hit").Inc()
		return cached.(cacheEntry).Vector, nil
	}
	metrics.EmbeddingCacheHits.WithLabelValues("miss").Inc()

	vector, err := c.embedder.Embed(ctx, FlattenJob(job))
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, cacheEntry{Vector: vector, CachedAt: time.Now()})
	c.enforceCapacity()

	return vector, nil
}

// enforceCapacity removes the oldest entries by insertion time (not by
// access) once the map outgrows the cap, bounding memory without turning
// the cache into an LRU.
func (c *Cache) enforceCapacity() {
	if c.cache.ItemCount() <= c.capacity {
		return
	}

	type aged struct {
		key      string
		cachedAt time.Time
	}

	items := c.cache.Items()
	entries := make([]aged, 0, len(items))
	for key, item := range items {
		entry, ok := item.Object.(cacheEntry)
		if !ok {
			continue
		}
		entries = append(entries, aged{key: key, cachedAt: entry.CachedAt})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].cachedAt.Before(entries[j].cachedAt)
	})

	evicted := 0
	for _, entry := range entries {
		if evicted >= evictionBatch {
			break
		}
		c.cache.Delete(entry.key)
		evicted++
	}

	log.Infof("embedding cache evicted %v oldest entries", evicted)
}

// FlattenJob builds the text representation the embedding model sees:
// present fields only, one per line.
func FlattenJob(job models.JobPosting) string {
	var lines []string

	appendIf := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}

	appendIf("Title", job.Title)
	appendIf("Company", job.Company)
	appendIf("Description", job.Description)
	appendIf("Location", job.Location)
	appendIf("Contract", job.JobType)
	appendIf("Salary", job.Salary)
	if len(job.SkillsRequired) > 0 {
		lines = append(lines, "Skills: "+strings.Join(job.SkillsRequired, ", "))
	}

	return strings.Join(lines, "\n")
}
