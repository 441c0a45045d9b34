package tools

//go:generate go run go.uber.org/mock/mockgen@latest -source=interfaces.go -destination=mocks_test.go -package=tools

import (
	"context"

	"voice-bridge/internal/catalog"
	"voice-bridge/internal/email"
)

type CatalogSearcher interface {
	Search(ctx context.Context, query string) ([]catalog.Product, error)
}

type ProductNotifier interface {
	SendProductEmail(ctx context.Context, p email.ProductEmail) error
}
