package scrape

import (
	"sync"
	"testing"

	"github.com/openjobs/jobscout/internal/models"
	"github.com/stretchr/testify/assert"
)

func Test_Harvester_PickUserAgentIsSafeForConcurrentSearches(t *testing.T) {

	assert := assert.New(t)

	h := NewHarvester(DefaultSites())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Contains(userAgents, h.pickUserAgent())
			}
		}()
	}
	wg.Wait()
}

func Test_Harvester_ToJobPostingDefaults(t *testing.T) {

	assert := assert.New(t)

	h := NewHarvester(DefaultSites())
	site := h.sites[0]

	_, ok := h.toJobPosting(site, map[string]string{"title": "  "})
	assert.False(ok, "a card without a title is dropped")

	job, ok := h.toJobPosting(site, map[string]string{
		"title":       "Go Developer",
		"description": "Build services in Go with Docker",
	})
	assert.True(ok)
	assert.Equal(models.DefaultCompany, job.Company)
	assert.Equal(models.DefaultSalary, job.Salary)
	assert.Equal(site.BaseURL, job.URL)
	assert.Equal(models.SourceScraped, job.Source)
	assert.Contains(job.SkillsRequired, "docker")
}
