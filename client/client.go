// Package client talks to the archive HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tjarchive-backend/models"
)

// ErrNotFound matches API errors with a 404 status
var ErrNotFound = errors.New("not found")

// APIError represents an error envelope returned by the API
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// Is lets errors.Is match ErrNotFound
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// DecisionList is the response of the decision index endpoint
type DecisionList struct {
	Items   []models.DecisionIndexItem `json:"items"`
	Matched int                        `json:"matched"`
	Total   int                        `json:"total"`
}

// DecisionDetail is a decision with its derived tags
type DecisionDetail struct {
	Decision   models.Decision  `json:"decision"`
	Tags       models.TagResult `json:"tags"`
	CaseSerial string           `json:"case_serial"`
}

// RevocationList is one page of revocations plus per-category counts
type RevocationList struct {
	Page   models.RevocationPage `json:"page"`
	Counts map[string]int        `json:"counts"`
	Total  int                   `json:"total"`
}

// Stats is the response of the statistics endpoint
type Stats struct {
	Statistics models.Statistics     `json:"statistics"`
	Summary    models.ArchiveSummary `json:"summary"`
}

// RevocationQuery selects a page of revocations
type RevocationQuery struct {
	Search   string
	Category *models.RevocationCategory
	Page     int
	PageSize int
}

// Client is a reusable API client
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client for the API rooted at endpoint
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// ListDecisions fetches the index entries matching query
func (c *Client) ListDecisions(ctx context.Context, query string) (*DecisionList, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}

	var list DecisionList
	if err := c.get(ctx, "/api/decisions", params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetDecision fetches one decision with its tags
func (c *Client) GetDecision(ctx context.Context, id string) (*DecisionDetail, error) {
	var detail DecisionDetail
	if err := c.get(ctx, "/api/decisions/"+url.PathEscape(id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListRevocations fetches one page of revocations
func (c *Client) ListRevocations(ctx context.Context, q RevocationQuery) (*RevocationList, error) {
	params := url.Values{}
	if q.Search != "" {
		params.Set("q", q.Search)
	}
	if q.Category != nil {
		params.Set("category", strconv.Itoa(int(*q.Category)))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(q.PageSize))
	}

	var list RevocationList
	if err := c.get(ctx, "/api/revocations", params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Statistics fetches the aggregate views
func (c *Client) Statistics(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.get(ctx, "/api/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Tag asks the API to tag free text
func (c *Client) Tag(ctx context.Context, text string) (*models.TagResult, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	var tags models.TagResult
	if err := c.do(ctx, http.MethodPost, "/api/analysis/tag", nil, bytes.NewReader(body), &tags); err != nil {
		return nil, err
	}
	return &tags, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, v)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body io.Reader, v any) error {
	target := c.endpoint + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode, Code: "UNKNOWN", Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if !env.Success || resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if v == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
