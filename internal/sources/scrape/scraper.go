package scrape

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/openjobs/jobscout/internal/logger"
	"github.com/openjobs/jobscout/internal/models"
	log "github.com/sirupsen/logrus"
)

const (
	pageLoadTimeout = 30 * time.Second
	maxAttempts     = 3
	backoffBase     = 2 * time.Second
	minSiteDelay    = 2 * time.Second
	maxSiteDelay    = 5 * time.Second
)

// userAgents is a small pool of realistic desktop browser strings rotated
// per request to reduce the chance of the boards blocking the harvester.
var userAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0",
}

// Harvester scrapes job boards that expose no API, implementing the same
// adapter contract as the REST sources: failures cost results, not errors.
type Harvester struct {
	sites []Site
}

func NewHarvester(sites []Site) *Harvester {
	if len(sites) == 0 {
		sites = DefaultSites()
	}
	return &Harvester{sites: sites}
}

func (h *Harvester) Name() models.Source {
	return models.SourceScraped
}

// Fetch scrapes every configured site in sequence with a randomized delay
// between them. A site that keeps failing after retries contributes
// nothing; whatever was scraped so far is still returned.
func (h *Harvester) Fetch(ctx context.Context, filters models.SearchFilters, limit int) []models.JobPosting {

	var collected []models.JobPosting

	for i, site := range h.sites {
		if i > 0 {
			h.sleepBetweenSites(ctx)
		}

		jobs, err := h.scrapeSiteWithRetries(ctx, site, filters)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeScrape).
				Errorf("giving up on %v: %v", site.Name, err)
		}
		collected = append(collected, jobs...)

		if limit > 0 && len(collected) >= limit {
			break
		}
	}

	if limit > 0 && len(collected) > limit {
		collected = collected[:limit]
	}
	return collected
}

func (h *Harvester) scrapeSiteWithRetries(ctx context.Context, site Site,
	filters models.SearchFilters) ([]models.JobPosting, error) {

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		jobs, err := h.scrapeSite(ctx, site, filters)
		if err == nil {
			return jobs, nil
		}
		lastErr = err

		log.WithField(logger.ErrorTypeField, logger.ErrorTypeScrape).
			Warnf("attempt %d/%d failed for %v: %v", attempt, maxAttempts, site.Name, err)

		if attempt < maxAttempts {
			select {
			case <-time.After(backoffBase * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func (h *Harvester) scrapeSite(ctx context.Context, site Site, filters models.SearchFilters) ([]models.JobPosting, error) {

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(h.pickUserAgent()),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, pageLoadTimeout)
	defer cancelTimeout()

	headers := network.Headers{
		"Referer":       "https://www.google.com/",
		"Cache-Control": "no-cache",
	}

	var cards []map[string]string
	err := chromedp.Run(timeoutCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		chromedp.Navigate(site.SearchURL(filters.Query, filters.Location)),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(extractScript(site.Selectors), &cards),
	)
	if err != nil {
		return nil, fmt.Errorf("scrape %v: %w", site.Name, err)
	}

	var jobs []models.JobPosting
	for _, card := range cards {
		if job, ok := h.toJobPosting(site, card); ok {
			jobs = append(jobs, job)
		}
	}

	log.Infof("scraped %v postings from %v", len(jobs), site.Name)
	return jobs, nil
}

// extractScript builds the in-page extraction for one site's selector set.
// Running it inside the page keeps one round trip per site instead of one
// per element.
func extractScript(sel Selectors) string {
	return fmt.Sprintf(`
		(() => {
			const text = (root, sel) => {
				const el = root.querySelector(sel);
				return el ? el.textContent.trim() : '';
			};
			const href = (root, sel) => {
				const el = root.querySelector(sel);
				return el && el.href ? el.href : '';
			};
			const results = [];
			document.querySelectorAll(%q).forEach((card, i) => {
				if (i >= 50) return;
				results.push({
					title: text(card, %q),
					company: text(card, %q),
					location: text(card, %q),
					description: text(card, %q),
					url: href(card, %q),
				});
			});
			return results;
		})()
	`, sel.Card, sel.Title, sel.Company, sel.Location, sel.Description, sel.Link)
}

func (h *Harvester) toJobPosting(site Site, card map[string]string) (models.JobPosting, bool) {

	title := strings.TrimSpace(card["title"])
	if title == "" {
		return models.JobPosting{}, false
	}

	description := card["description"]
	combined := title + " " + description

	jobURL := card["url"]
	if jobURL == "" {
		jobURL = site.BaseURL
	}

	company := card["company"]
	if company == "" {
		company = models.DefaultCompany
	}

	return models.JobPosting{
		ID:             scrapedID(site.Name, jobURL, title),
		Title:          title,
		Company:        company,
		Location:       card["location"],
		Description:    description,
		Salary:         models.DefaultSalary,
		URL:            jobURL,
		JobType:        deriveContractType(combined),
		Source:         models.SourceScraped,
		SkillsRequired: deriveSkills(combined),
	}, true
}

// scrapedID derives a stable identity for a posting that has no provider
// ID, so dedup and embedding cache keys survive re-scrapes.
func scrapedID(siteName, jobURL, title string) string {
	sum := sha256.Sum256([]byte(jobURL + "|" + title))
	return siteName + "-" + hex.EncodeToString(sum[:8])
}

// pickUserAgent uses the top-level rand functions, which are safe for the
// concurrent searches that share one Harvester through the registry.
func (h *Harvester) pickUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

func (h *Harvester) sleepBetweenSites(ctx context.Context) {
	delay := minSiteDelay + time.Duration(rand.Int63n(int64(maxSiteDelay-minSiteDelay)))
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}
