// Package searchapi queries the SearchApi.io Amazon search engine.
package searchapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"voice-bridge/internal/observability"
)

const (
	engineAmazonSearch = "amazon_search"
	requestTimeout     = 15 * time.Second
	maxErrorBodyBytes  = 64 << 10
)

var (
	ErrMissingAPIKey = errors.New("search api key is not configured")
	ErrSearchFailed  = errors.New("amazon search failed")
)

type OrganicResult struct {
	Position       int     `json:"position"`
	ASIN           string  `json:"asin"`
	Title          string  `json:"title"`
	Link           string  `json:"link"`
	Price          string  `json:"price"`
	ExtractedPrice float64 `json:"extracted_price"`
	Rating         float64 `json:"rating"`
	Reviews        int     `json:"reviews"`
	Thumbnail      string  `json:"thumbnail"`
}

type SearchResponse struct {
	OrganicResults    []OrganicResult `json:"organic_results"`
	SearchInformation map[string]any  `json:"search_information"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *observability.Logger
}

func NewClient(baseURL, apiKey string, logger *observability.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// SearchAmazon runs one Amazon product search.
func (c *Client) SearchAmazon(ctx context.Context, query string) (SearchResponse, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "search_query", Value: query})

	if c.apiKey == "" {
		c.logger.Error(ctx, "search api key missing", ErrMissingAPIKey)
		return SearchResponse{}, ErrMissingAPIKey
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("invalid search base url: %w", err)
	}
	q := u.Query()
	q.Set("engine", engineAmazonSearch)
	q.Set("q", query)
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "search request failed", err)
		return SearchResponse{}, fmt.Errorf("%w: %s", ErrSearchFailed, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		msg := http.StatusText(resp.StatusCode)
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil {
			if apiErr.Error != "" {
				msg = apiErr.Error
			} else if apiErr.Message != "" {
				msg = apiErr.Message
			}
		}
		err := fmt.Errorf("%w: status %d: %s", ErrSearchFailed, resp.StatusCode, msg)
		c.logger.Error(ctx, "search returned error status", err)
		return SearchResponse{}, err
	}

	var out SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.Error(ctx, "failed to decode search response", err)
		return SearchResponse{}, fmt.Errorf("%w: invalid response: %s", ErrSearchFailed, err.Error())
	}

	c.logger.Debug(ctx, fmt.Sprintf("search returned %d organic results", len(out.OrganicResults)))
	return out, nil
}
