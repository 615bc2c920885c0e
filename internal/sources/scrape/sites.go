package scrape

import (
	"fmt"
	"net/url"
)

// Selectors is the per-site set of CSS selectors the harvester extracts
// postings with. Card scopes one posting; the rest are resolved inside it.
type Selectors struct {
	Card        string
	Title       string
	Company     string
	Location    string
	Description string
	Link        string
}

type Site struct {
	Name      string
	BaseURL   string
	Selectors Selectors
	searchURL func(query, location string) string
}

func (s Site) SearchURL(query, location string) string {
	return s.searchURL(query, location)
}

// DefaultSites lists the harvested boards. These boards expose no public
// API, so postings are lifted from their search result markup.
func DefaultSites() []Site {
	return []Site{
		{
			Name:    "weworkremotely",
			BaseURL: "https://weworkremotely.com",
			Selectors: Selectors{
				Card:        "section.jobs li:not(.view-all)",
				Title:       "span.title",
				Company:     "span.company",
				Location:    "span.region",
				Description: "span.title",
				Link:        "a",
			},
			searchURL: func(query, _ string) string {
				return fmt.Sprintf("https://weworkremotely.com/remote-jobs/search?term=%s", url.QueryEscape(query))
			},
		},
		{
			Name:    "remoteok",
			BaseURL: "https://remoteok.com",
			Selectors: Selectors{
				Card:        "tr.job",
				Title:       "h2",
				Company:     "h3",
				Location:    "div.location",
				Description: "td.description",
				Link:        "a.preventLink",
			},
			searchURL: func(query, _ string) string {
				return fmt.Sprintf("https://remoteok.com/remote-%s-jobs", url.PathEscape(query))
			},
		},
		{
			Name:    "simplyhired",
			BaseURL: "https://www.simplyhired.com",
			Selectors: Selectors{
				Card:        "div[data-testid='searchSerpJob']",
				Title:       "h2 a",
				Company:     "span[data-testid='companyName']",
				Location:    "span[data-testid='searchSerpJobLocation']",
				Description: "p[data-testid='searchSerpJobSnippet']",
				Link:        "h2 a",
			},
			searchURL: func(query, location string) string {
				return fmt.Sprintf("https://www.simplyhired.com/search?q=%s&l=%s",
					url.QueryEscape(query), url.QueryEscape(location))
			},
		},
	}
}
