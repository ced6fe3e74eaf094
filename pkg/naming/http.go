package naming

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abrezinsky/rosterdraw/internal/logger"
)

// HTTPClient asks a JSON endpoint for team names.
// Request: POST {"count": n}. Response: [{"name","motto"}] or {"teams": [...]}.
type HTTPClient struct {
	url        string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a client for the endpoint at url
func NewHTTPClient(url string, log logger.Logger) *HTTPClient {
	return NewHTTPClientWithHTTPClient(url, &http.Client{Timeout: 30 * time.Second}, log)
}

// NewHTTPClientWithHTTPClient creates a client with a custom http.Client
func NewHTTPClientWithHTTPClient(url string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{url: url, httpClient: httpClient, log: log}
}

func (c *HTTPClient) RequestNames(ctx context.Context, count int) ([]Team, error) {
	payload, err := json.Marshal(map[string]int{"count": count})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("Naming request", "url", c.url, "count", count)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	c.log.Debug("Naming response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return parseTeams(body)
}
