// Package adsapi provides a client for the advertising-metrics backend API.
package adsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/marketingflorenza/onlinebornsong/internal/resilience"
)

// Client defines the ads-metrics operations.
type Client interface {
	// Totals fetches ad totals and campaign breakdowns for an inclusive
	// calendar-day window (ISO YYYY-MM-DD bounds).
	Totals(ctx context.Context, startISO, endISO string) (*Response, error)
}

// Response is the parsed ads API payload.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Totals  Totals `json:"totals"`
	Data    Data   `json:"data"`
}

// Totals holds the window-level advertising totals. The engine does not
// validate these; they are merged into funnel ratios downstream.
type Totals struct {
	Spend                  float64 `json:"spend"`
	Impressions            int64   `json:"impressions"`
	MessagingConversations int64   `json:"messaging_conversations"`
	CPM                    float64 `json:"cpm"`
	Purchases              int64   `json:"purchases"`
}

// Data carries the per-campaign and per-day breakdowns.
type Data struct {
	Campaigns  []Campaign   `json:"campaigns"`
	DailySpend []DailySpend `json:"dailySpend"`
}

// Campaign is a single ad campaign with its insight totals.
type Campaign struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Insights Insights `json:"insights"`
	Ads      []Ad     `json:"ads,omitempty"`
}

// Ad is a single ad within a campaign.
type Ad struct {
	Name         string   `json:"name"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Insights     Insights `json:"insights"`
}

// Insights holds spend and engagement metrics for a campaign or ad.
type Insights struct {
	Spend                  float64 `json:"spend"`
	Impressions            int64   `json:"impressions"`
	Purchases              int64   `json:"purchases"`
	MessagingConversations int64   `json:"messaging_conversations"`
	CPM                    float64 `json:"cpm"`
}

// DailySpend is one day's ad spend.
type DailySpend struct {
	Date  string  `json:"date"`
	Spend float64 `json:"spend"`
}

// Option configures the ads client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithEndpoint sets the billing endpoint name.
func WithEndpoint(endpoint string) Option {
	return func(c *httpClient) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetryPolicy overrides the retry policy for transient failures.
func WithRetryPolicy(p resilience.Policy) Option {
	return func(c *httpClient) {
		c.retry = p
	}
}

type httpClient struct {
	baseURL  string
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
	retry    resilience.Policy
}

// NewClient creates an ads-metrics client.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL:  baseURL,
		endpoint: "databillRam",
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(2, 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Totals(ctx context.Context, startISO, endISO string) (*Response, error) {
	reqURL := fmt.Sprintf("%s/%s?since=%s&until=%s",
		strings.TrimSuffix(c.baseURL, "/"), c.endpoint,
		reverseISODate(startISO), reverseISODate(endISO))

	return resilience.DoVal(ctx, c.retry, "ads totals", func(ctx context.Context) (*Response, error) {
		return c.fetch(ctx, reqURL)
	})
}

func (c *httpClient) fetch(ctx context.Context, reqURL string) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "adsapi: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "adsapi: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "adsapi: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "adsapi: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("adsapi: unexpected status %d: %s", resp.StatusCode, string(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "adsapi: unmarshal response")
	}
	if !result.Success {
		return nil, eris.Errorf("adsapi: backend error: %s", result.Error)
	}

	return &result, nil
}

// reverseISODate converts YYYY-MM-DD to the DD-MM-YYYY form the billing
// endpoint expects.
func reverseISODate(iso string) string {
	parts := strings.Split(iso, "-")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "-")
}
