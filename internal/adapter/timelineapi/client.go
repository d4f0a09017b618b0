// Package timelineapi is the HTTP client for the timeline REST API.
package timelineapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/siron93/moms-app/internal/domain"
	"github.com/siron93/moms-app/internal/service/timeline"
)

const retryDelay = 500 * time.Millisecond

// Client fetches timeline pages from the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client for the API at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "timelineapi"),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Aggregate fetches one timeline page.
func (c *Client) Aggregate(ctx context.Context, in timeline.PageInput) (*domain.TimelinePage, error) {
	q := url.Values{}
	if in.Cursor != "" {
		q.Set("cursor", in.Cursor)
	}
	if in.Limit > 0 {
		q.Set("limit", strconv.Itoa(in.Limit))
	}
	if len(in.Kinds) > 0 {
		kinds := make([]string, len(in.Kinds))
		for i, k := range in.Kinds {
			kinds[i] = string(k)
		}
		q.Set("kinds", strings.Join(kinds, ","))
	}

	reqURL := c.baseURL + "/v1/subjects/" + url.PathEscape(in.SubjectID) + "/timeline"
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	var page domain.TimelinePage
	if err := c.get(ctx, reqURL, &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []domain.TimelineItem{}
	}
	return &page, nil
}

// Item fetches a single timeline item by its namespaced id.
func (c *Client) Item(ctx context.Context, subjectID, itemID string) (domain.TimelineItem, error) {
	reqURL := c.baseURL + "/v1/subjects/" + url.PathEscape(subjectID) + "/timeline/items/" + url.PathEscape(itemID)

	var item domain.TimelineItem
	if err := c.get(ctx, reqURL, &item); err != nil {
		return domain.TimelineItem{}, err
	}
	return item, nil
}

// Ping checks the liveness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/live", nil)
	if err != nil {
		return fmt.Errorf("timelineapi: create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("timelineapi: ping: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("timelineapi: ping: status %d: %w", resp.StatusCode, domain.ErrUnavailable)
	}
	return nil
}

// get performs a GET and decodes a 200 response into dst. API errors map
// back onto the domain sentinels.
func (c *Client) get(ctx context.Context, reqURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("timelineapi: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		c.log.WarnContext(ctx, "timelineapi request failed", slog.String("url", reqURL), slog.String("error", err.Error()))
		return fmt.Errorf("timelineapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("timelineapi: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		json.Unmarshal(body, &e) //nolint:errcheck
		return statusError(resp.StatusCode, e.Error)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("timelineapi: decode json: %w", err)
	}
	return nil
}

func statusError(status int, msg string) error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch {
	case status == http.StatusBadRequest:
		return fmt.Errorf("timelineapi: %s: %w", msg, domain.ErrValidation)
	case status == http.StatusNotFound:
		return fmt.Errorf("timelineapi: %s: %w", msg, domain.ErrNotFound)
	case status >= 500:
		return fmt.Errorf("timelineapi: %s: %w", msg, domain.ErrUnavailable)
	default:
		return fmt.Errorf("timelineapi: unexpected status %d: %s", status, msg)
	}
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "timelineapi retry", slog.String("url", req.URL.String()), slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, errors.Join(ctx.Err(), domain.ErrUnavailable)
	case <-time.After(retryDelay):
	}

	resp, err = c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(err, domain.ErrUnavailable)
	}
	return resp, nil
}
