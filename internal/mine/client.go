// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/clingen/internal/httputil"
	"github.com/pdiddy/clingen/pkg/types"
)

// DefaultBaseURL is the MouseMine service root.
const DefaultBaseURL = "https://www.mousemine.org/mousemine/service"

const resultsPath = "/query/results"

// ServiceError reports a failed request: a non-200 status or a response
// with wasSuccessful=false.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("mine service returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("mine service returned HTTP %d: %s", e.StatusCode, e.Message)
}

// Row is one result row keyed by the view path it was requested with
// (relative to the query root). A nil value means the field was null.
type Row map[string]any

// String returns the value at path as a string. The second result is false
// when the column is absent or null. Numbers keep their literal form, so a
// numeric PubMed ID 12345 becomes "12345".
func (r Row) String(path string) (string, bool) {
	v, ok := r[path]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	default:
		return fmt.Sprint(t), true
	}
}

// Client runs path queries against an InterMine service.
type Client struct {
	HTTP *http.Client
	cfg  types.MineConfig
}

// NewClient returns a client for cfg.BaseURL (DefaultBaseURL when empty).
func NewClient(httpClient *http.Client, cfg types.MineConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = httputil.NewClient(cfg.HTTPConfig)
	}
	return &Client{HTTP: httpClient, cfg: cfg}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// Rows executes q and returns every result row. Transport failures,
// non-200 responses and malformed bodies are all errors; an empty slice
// means the query matched nothing.
func (c *Client) Rows(ctx context.Context, q *Query) ([]Row, error) {
	pq, err := q.XML()
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"query":  {pq},
		"format": {"json"},
	}
	reqURL := c.cfg.BaseURL + resultsPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Token "+c.cfg.Token)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("mine API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var rr resultsResponse
	if err := dec.Decode(&rr); err != nil {
		return nil, fmt.Errorf("parsing mine response: %w", err)
	}
	if !rr.WasSuccessful {
		status := rr.StatusCode
		if status == 0 {
			status = resp.StatusCode
		}
		return nil, &ServiceError{StatusCode: status, Message: rr.errorText()}
	}

	rows := make([]Row, 0, len(rr.Results))
	for i, values := range rr.Results {
		if len(values) != len(q.Views) {
			return nil, fmt.Errorf("parsing mine response: row %d has %d columns, want %d", i, len(values), len(q.Views))
		}
		row := make(Row, len(values))
		for j, v := range values {
			row[q.Views[j]] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// InterMine JSON result structures.
type resultsResponse struct {
	Results       [][]any `json:"results"`
	WasSuccessful bool    `json:"wasSuccessful"`
	Error         *string `json:"error"`
	StatusCode    int     `json:"statusCode"`
}

func (r resultsResponse) errorText() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// errorMessage pulls the "error" field out of an InterMine error body,
// falling back to the first line of the raw body.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var rr resultsResponse
	if json.Unmarshal(data, &rr) == nil && rr.Error != nil {
		return *rr.Error
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(data)), "\n")
	return line
}
