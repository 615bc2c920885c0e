package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DeriveSkills(t *testing.T) {

	assert := assert.New(t)

	skills := deriveSkills("We build services in Go with Docker, Kubernetes and PostgreSQL.")
	assert.Contains(skills, "go")
	assert.Contains(skills, "docker")
	assert.Contains(skills, "kubernetes")
	assert.Contains(skills, "postgresql")
	assert.NotContains(skills, "python")
}

func Test_DeriveSkills_ShortKeywordsNeedWordBoundaries(t *testing.T) {

	assert := assert.New(t)

	assert.NotContains(deriveSkills("We integrate with Google APIs."), "go")
	assert.Contains(deriveSkills("Experience with Go required."), "go")
	assert.NotContains(deriveSkills("Mostly carpentry work."), "php")
}

func Test_DeriveContractType(t *testing.T) {

	assert := assert.New(t)

	assert.Equal("Part-time", deriveContractType("Part-time position in support"))
	assert.Equal("Contract", deriveContractType("6 month contract role"))
	assert.Equal("Internship", deriveContractType("Summer internship for students"))
	assert.Equal("Full-time", deriveContractType("Senior engineer, permanent"))
}

func Test_SiteSearchURL(t *testing.T) {

	assert := assert.New(t)

	sites := DefaultSites()
	assert.Len(sites, 3)

	for _, site := range sites {
		url := site.SearchURL("go developer", "remote")
		assert.Contains(url, "go")
		assert.NotContains(url, " ", "query must be URL encoded")
	}
}
