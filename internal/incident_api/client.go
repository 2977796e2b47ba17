package incident_api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"dashboard/internal/models"
)

// Client reads raw, not yet analyzed incidents from the incident feed API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new incident feed client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchIncidents requests count incidents from the feed.
func (c *Client) FetchIncidents(ctx context.Context, count int) ([]models.FeedIncident, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid incident api url: %w", err)
	}
	q := u.Query()
	q.Set("count", strconv.Itoa(count))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request to incident api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("incident api returned status: %d", resp.StatusCode)
	}

	var incidents []models.FeedIncident
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&incidents); err != nil {
		return nil, fmt.Errorf("failed to decode incident api response: %w", err)
	}

	c.logger.Info("Fetched raw incidents from API", zap.Int("count", len(incidents)))
	return incidents, nil
}
