package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"voice-bridge/internal/observability"
)

const (
	SearchToolName   = "searchAmazon"
	maxSearchResults = 5
	priceUnavailable = "Price not available"
)

type searchHit struct {
	Position int     `json:"position"`
	Title    string  `json:"title"`
	Price    string  `json:"price"`
	Rating   float64 `json:"rating,omitempty"`
	Reviews  int     `json:"reviews,omitempty"`
	ASIN     string  `json:"asin"`
	Link     string  `json:"link"`
	Image    string  `json:"image"`
}

type searchPayload struct {
	Message string      `json:"message"`
	Results []searchHit `json:"results"`
}

// SearchTool looks up products for the caller.
type SearchTool struct {
	catalog CatalogSearcher
	logger  *observability.Logger
}

func NewSearchTool(catalog CatalogSearcher, logger *observability.Logger) *SearchTool {
	return &SearchTool{catalog: catalog, logger: logger}
}

func (t *SearchTool) Name() string { return SearchToolName }

func (t *SearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query, _ := params["query"].(string)
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: search query is required", ErrInvalidArguments)
	}

	products, err := t.catalog.Search(ctx, query)
	if err != nil {
		return "", err
	}

	if len(products) == 0 {
		return fmt.Sprintf("No products found for %q", query), nil
	}

	top := products
	if len(top) > maxSearchResults {
		top = top[:maxSearchResults]
	}

	payload := searchPayload{
		Message: fmt.Sprintf("Found %d products for %q. Here are the top results:", len(products), query),
		Results: make([]searchHit, 0, len(top)),
	}
	for i, p := range top {
		price := p.Price
		if price == "" {
			price = priceUnavailable
		}
		payload.Results = append(payload.Results, searchHit{
			Position: i + 1,
			Title:    p.Title,
			Price:    price,
			Rating:   p.Rating,
			Reviews:  p.Reviews,
			ASIN:     p.ASIN,
			Link:     p.Link,
			Image:    p.Thumbnail,
		})
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode search results: %w", err)
	}

	t.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "result_count", Value: len(products)},
	), "search tool returned results")
	return string(b), nil
}
