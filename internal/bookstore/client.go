package bookstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"bookstand/internal/book"
)

const defaultEndpoint = "/api/get-books-info"

// Client fetches the full book list from the catalog API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	endpoint   string
}

// NewClient creates an API client for the given base URL. Requests are rate
// limited to 2/sec so rapid navigation cannot hammer the endpoint.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 2),
		baseURL:    baseURL,
		endpoint:   defaultEndpoint,
	}
}

// FetchBooks retrieves every book record from the API. It returns a
// FetchError for transport failures and non-2xx statuses, and a FormatError
// when the payload is not a JSON array of records.
func (c *Client) FetchBooks(ctx context.Context) ([]book.Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	url := c.baseURL + c.endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewFetchError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, NewStatusError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewFetchError(err)
	}

	// The payload must be a JSON array; an object (error page, wrapped
	// response) is a format problem, not a transient one.
	var probe any
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, NewFormatError("invalid JSON", err)
	}
	if _, ok := probe.([]any); !ok {
		return nil, NewFormatError("payload is not an array of records", nil)
	}

	var books []book.Record
	if err := json.Unmarshal(body, &books); err != nil {
		return nil, NewFormatError("record shape mismatch", err)
	}
	return books, nil
}
