// Package lookup fetches short encyclopedia blurbs for facet terms that have
// no hardcoded description. The dashboard treats it as an optional external
// collaborator: failures surface as errors and the caller decides fallback.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when the encyclopedia has no entry for a term.
var ErrNotFound = errors.New("term not found")

// Lookup resolves a term to a one-paragraph blurb.
type Lookup interface {
	Summary(ctx context.Context, term string) (string, error)
}

// Client implements Lookup against the Wikipedia REST summary API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org/api/rest_v1/page/summary"
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

type summaryResponse struct {
	Extract string `json:"extract"`
}

func (c *Client) Summary(ctx context.Context, term string) (string, error) {
	// Facet values are snake_case ("rock_fall"); the encyclopedia wants
	// title-ish page names ("Rock fall" -> "Rock_fall").
	page := strings.ReplaceAll(strings.TrimSpace(term), " ", "_")
	if page == "" {
		return "", ErrNotFound
	}

	u := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(page))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lookup API error: status %d", resp.StatusCode)
	}

	var sr summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if sr.Extract == "" {
		return "", ErrNotFound
	}

	c.logger.Debug("lookup resolved", "term", term)
	return sr.Extract, nil
}
