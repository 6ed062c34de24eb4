// Package twizzit talks to the federation's Twizzit API. The club system
// treats Twizzit as the source of truth for who holds an active
// registration; everything local is a cached projection of its answers.
package twizzit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	BaseURL  string
	APIToken string

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// Registration is one active registration row as Twizzit reports it.
type Registration struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	GroupID   string `json:"group_id"`
}

func (r Registration) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("twizzit base url is required")
	}
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("twizzit api token is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiToken:   cfg.APIToken,
		httpClient: httpClient,
	}, nil
}

// ListRegistrations fetches every active registration for a Twizzit group.
func (c *Client) ListRegistrations(ctx context.Context, groupID string) ([]Registration, error) {
	if groupID == "" {
		return nil, fmt.Errorf("twizzit group id is required")
	}

	endpoint := fmt.Sprintf("%s/api/v2/registrations?group_id=%s", c.baseURL, url.QueryEscape(groupID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build twizzit request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twizzit request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("twizzit returned status %d for group %s: %s", resp.StatusCode, groupID, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Registrations []Registration `json:"registrations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode twizzit response: %w", err)
	}
	return payload.Registrations, nil
}
