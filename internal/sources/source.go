package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/openjobs/jobscout/internal/logger"
	"github.com/openjobs/jobscout/internal/models"
	log "github.com/sirupsen/logrus"
)

// Source is one external job provider. Fetch never returns an error:
// provider failures of any kind are absorbed, logged, and yield an empty
// slice, so one broken provider costs results instead of requests.
type Source interface {
	Name() models.Source
	Fetch(ctx context.Context, filters models.SearchFilters, limit int) []models.JobPosting
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// restClient is the request plumbing every API adapter embeds. The
// HTTPClient seam exists so adapter tests can substitute canned responses.
type restClient struct {
	httpClient HTTPClient
	source     models.Source
}

func newRestClient(source models.Source) restClient {
	return restClient{httpClient: &http.Client{}, source: source}
}

func (c *restClient) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *restClient) sendRequest(ctx context.Context, method string, url string, body io.Reader,
	headers map[string]string) ([]byte, error) {

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *restClient) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	return body, nil
}

// absorb implements the never-throws adapter contract: log the diagnostic
// with the source tag and hand the caller an empty result.
func absorb(source models.Source, err error) []models.JobPosting {
	log.WithField(logger.ErrorTypeField, logger.ErrorTypeSourceApi).
		WithField(logger.SourceField, string(source)).
		Errorf("fetch failed: %v", err)
	return nil
}

func truncate(jobs []models.JobPosting, limit int) []models.JobPosting {
	if limit > 0 && len(jobs) > limit {
		return jobs[:limit]
	}
	return jobs
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
