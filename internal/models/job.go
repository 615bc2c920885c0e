package models

import "time"

type Source string

const (
	SourceJSearch   Source = "jsearch"
	SourceAdzuna    Source = "adzuna"
	SourceJooble    Source = "jooble"
	SourceRemotive  Source = "remotive"
	SourceArbeitnow Source = "arbeitnow"
	SourceTheMuse   Source = "themuse"
	SourceScraped   Source = "scraped"
)

// AllSources lists every known adapter tag in the order adapters are
// registered; merge order of search results follows this order.
var AllSources = []Source{
	SourceJSearch, SourceAdzuna, SourceJooble,
	SourceRemotive, SourceArbeitnow, SourceTheMuse, SourceScraped,
}

func ToSource(s string) (Source, bool) {
	for _, source := range AllSources {
		if s == string(source) {
			return source, true
		}
	}
	return "", false
}

// JobPosting is the canonical shape every adapter maps its provider
// payload into. Title and Source are always present; every other field
// may be absent. Display fields get provider-neutral defaults at the
// adapter boundary, DatePosted stays nil when the provider gives none.
type JobPosting struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       string     `json:"location"`
	Description    string     `json:"description"`
	Salary         string     `json:"salary"`
	URL            string     `json:"url"`
	DatePosted     *time.Time `json:"datePosted,omitempty"`
	JobType        string     `json:"jobType"`
	Source         Source     `json:"source"`
	SkillsRequired []string   `json:"skillsRequired,omitempty"`
}

// Identity qualifies the provider-local ID with the source tag: provider
// IDs are not globally unique across sources.
func (j JobPosting) Identity() string {
	return string(j.Source) + "/" + j.ID
}

const (
	DefaultSalary  = "Negotiable"
	DefaultTitle   = "Untitled Position"
	DefaultCompany = "Unknown Company"
)
