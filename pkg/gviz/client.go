// Package gviz provides a client for the Google Visualization API JSON
// endpoint that Google Sheets exposes per sheet. It is the ledger's source
// of record: each fetch returns the full row set as label-keyed records.
package gviz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/marketingflorenza/onlinebornsong/internal/resilience"
)

// Client defines the sheet-fetch operations.
type Client interface {
	// Fetch downloads the named sheet and returns its column labels and
	// ordered rows as label-keyed records.
	Fetch(ctx context.Context, spreadsheetID, sheetName string) (*Table, error)
}

// Table is a parsed gviz response: ordered column labels plus one record
// per row. Record values are nil, string, float64, or bool as decoded from
// JSON; date cells arrive as "Date(y,m,d[,...])" wrapper strings that the
// ledger coercion layer decomposes.
type Table struct {
	Columns []string
	Records []map[string]any
}

// gvizPayload mirrors the JSON body inside the JS function-call padding.
type gvizPayload struct {
	Table struct {
		Cols []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
		} `json:"cols"`
		Rows []struct {
			C []*struct {
				V any `json:"v"`
			} `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

// Option configures the gviz client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(base string) Option {
	return func(c *httpClient) {
		c.baseURL = base
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
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.Policy
}

// NewClient creates a gviz client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://docs.google.com",
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(1, 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Fetch(ctx context.Context, spreadsheetID, sheetName string) (*Table, error) {
	reqURL := fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:json&sheet=%s",
		strings.TrimSuffix(c.baseURL, "/"), spreadsheetID, url.QueryEscape(sheetName))

	body, err := resilience.DoVal(ctx, c.retry, "gviz fetch", func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, reqURL)
	})
	if err != nil {
		return nil, err
	}
	return ParseResponse(body)
}

func (c *httpClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "gviz: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "gviz: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "gviz: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "gviz: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("gviz: unexpected status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}
	return body, nil
}

// ParseResponse decodes a raw gviz response body. The endpoint wraps the
// JSON in a JS function call ("google.visualization.Query.setResponse(...)"),
// so the body is trimmed to the outermost braces before decoding.
func ParseResponse(body []byte) (*Table, error) {
	text := string(body)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, eris.New("gviz: response contains no JSON object")
	}

	var payload gvizPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, eris.Wrap(err, "gviz: unmarshal payload")
	}

	cols := make([]string, len(payload.Table.Cols))
	for i, col := range payload.Table.Cols {
		label := col.Label
		if label == "" {
			label = col.ID
		}
		cols[i] = strings.TrimSpace(label)
	}

	records := make([]map[string]any, 0, len(payload.Table.Rows))
	for _, row := range payload.Table.Rows {
		rec := make(map[string]any, len(cols))
		for i, label := range cols {
			if i < len(row.C) && row.C[i] != nil {
				rec[label] = row.C[i].V
			} else {
				rec[label] = nil
			}
		}
		records = append(records, rec)
	}

	return &Table{Columns: cols, Records: records}, nil
}
