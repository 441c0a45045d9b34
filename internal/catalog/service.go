// Package catalog searches the product catalog on behalf of the agent.
package catalog

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=mocks_test.go -package=catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"voice-bridge/internal/clients/searchapi"
	"voice-bridge/internal/observability"
)

const cacheKeyPrefix = "catalog:search:"

// Product is one catalog search hit.
type Product struct {
	Title     string  `json:"title"`
	Price     string  `json:"price"`
	Rating    float64 `json:"rating,omitempty"`
	Reviews   int     `json:"reviews,omitempty"`
	ASIN      string  `json:"asin"`
	Link      string  `json:"link"`
	Thumbnail string  `json:"thumbnail"`
}

// SearchClient runs a search against the upstream catalog
type SearchClient interface {
	SearchAmazon(ctx context.Context, query string) (searchapi.SearchResponse, error)
}

// Cache stores search results between calls
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

type Service struct {
	client SearchClient
	cache  Cache
	ttl    time.Duration
	logger *observability.Logger
}

// New creates a catalog service. cache may be nil.
func New(client SearchClient, cache Cache, ttl time.Duration, logger *observability.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Search returns every product matching query, in upstream ranking order.
func (s *Service) Search(ctx context.Context, query string) ([]Product, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "search_query", Value: query})
	key := cacheKey(query)

	if s.cache != nil {
		var cached []Product
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn(ctx, fmt.Sprintf("search cache read failed: %v", err))
		} else if found {
			s.logger.Debug(ctx, "search cache hit")
			return cached, nil
		}
	}

	resp, err := s.client.SearchAmazon(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}

	products := make([]Product, 0, len(resp.OrganicResults))
	for _, r := range resp.OrganicResults {
		products = append(products, Product{
			Title:     r.Title,
			Price:     r.Price,
			Rating:    r.Rating,
			Reviews:   r.Reviews,
			ASIN:      r.ASIN,
			Link:      r.Link,
			Thumbnail: r.Thumbnail,
		})
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, products, s.ttl); err != nil {
			s.logger.Warn(ctx, fmt.Sprintf("search cache write failed: %v", err))
		}
	}

	return products, nil
}

func cacheKey(query string) string {
	return cacheKeyPrefix + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
