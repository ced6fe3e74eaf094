// Package naming provides clients that invent team names and mottos for
// generated groups.
package naming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abrezinsky/rosterdraw/internal/logger"
)

// ErrUnavailable wraps every failure to obtain names: timeouts, transport
// errors, malformed answers or a disabled client.
var ErrUnavailable = errors.New("naming service unavailable")

// Team is one name/motto pair
type Team struct {
	Name  string `json:"name"`
	Motto string `json:"motto"`
}

// Client defines the interface for the naming collaborator.
// Implementations may return fewer teams than requested.
type Client interface {
	RequestNames(ctx context.Context, count int) ([]Team, error)
}

// Config selects and configures a Client
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	URL          string
	Timeout      time.Duration
}

// New builds the client selected by cfg: Gemini when an API key is set, a
// JSON endpoint when a URL is set, otherwise a disabled client.
func New(ctx context.Context, cfg Config, log logger.Logger) (Client, error) {
	var (
		client Client
		err    error
	)
	switch {
	case cfg.GeminiAPIKey != "":
		client, err = NewGenAIClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	case cfg.URL != "":
		client = NewHTTPClient(cfg.URL, log)
	default:
		log.Info("No naming service configured, groups use default names")
		return Disabled{}, nil
	}
	if err != nil {
		return nil, err
	}
	if cfg.Timeout > 0 {
		client = WithTimeout(client, cfg.Timeout)
	}
	return client, nil
}

// Disabled always reports ErrUnavailable
type Disabled struct{}

func (Disabled) RequestNames(ctx context.Context, count int) ([]Team, error) {
	return nil, fmt.Errorf("%w: no naming service configured", ErrUnavailable)
}

type timeoutClient struct {
	next    Client
	timeout time.Duration
}

// WithTimeout bounds every call to next by timeout
func WithTimeout(next Client, timeout time.Duration) Client {
	return &timeoutClient{next: next, timeout: timeout}
}

func (c *timeoutClient) RequestNames(ctx context.Context, count int) ([]Team, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.next.RequestNames(ctx, count)
}

// prompt asks for creative, professional corporate team names in Traditional Chinese
func prompt(count int) string {
	return fmt.Sprintf("請為 HR 活動生成 %d 個具備創意且專業的企業團隊名稱與座右銘（Motto）。請使用繁體中文。", count)
}

// parseTeams accepts either a bare JSON array or an object with a "teams" array
func parseTeams(body []byte) ([]Team, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	var teams []Team
	if strings.HasPrefix(trimmed, "{") {
		var wrapped struct {
			Teams []Team `json:"teams"`
		}
		if err := json.Unmarshal([]byte(trimmed), &wrapped); err != nil {
			return nil, fmt.Errorf("%w: failed to parse response: %v", ErrUnavailable, err)
		}
		teams = wrapped.Teams
	} else if err := json.Unmarshal([]byte(trimmed), &teams); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrUnavailable, err)
	}
	return teams, nil
}
