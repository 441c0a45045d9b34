package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"voice-bridge/internal/clients/redis"
	"voice-bridge/internal/clients/searchapi"
	"voice-bridge/internal/config"
	"voice-bridge/internal/observability"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var slicerResponse = searchapi.SearchResponse{
	OrganicResults: []searchapi.OrganicResult{
		{Position: 1, ASIN: "B00004OCNS", Title: "Hutzler 571 Banana Slicer", Price: "$5.99", Rating: 4.6, Reviews: 12000,
			Link: "https://amazon.com/dp/B00004OCNS", Thumbnail: "https://img/1.jpg"},
		{Position: 2, ASIN: "B0TEST", Title: "Another Slicer"},
	},
}

func TestSearch_WithoutCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := NewMockSearchClient(ctrl)
	svc := New(mockClient, nil, time.Minute, observability.NewLogger())

	mockClient.EXPECT().SearchAmazon(gomock.Any(), "banana slicer").Return(slicerResponse, nil)

	products, err := svc.Search(context.Background(), "banana slicer")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, Product{
		Title:     "Hutzler 571 Banana Slicer",
		Price:     "$5.99",
		Rating:    4.6,
		Reviews:   12000,
		ASIN:      "B00004OCNS",
		Link:      "https://amazon.com/dp/B00004OCNS",
		Thumbnail: "https://img/1.jpg",
	}, products[0])
}

func TestSearch_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := NewMockSearchClient(ctrl)
	mockCache := NewMockCache(ctrl)
	svc := New(mockClient, mockCache, time.Minute, observability.NewLogger())

	mockCache.EXPECT().GetJSON(gomock.Any(), "catalog:search:banana slicer", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, dest any) (bool, error) {
			*(dest.(*[]Product)) = []Product{{Title: "cached", ASIN: "B1"}}
			return true, nil
		})

	products, err := svc.Search(context.Background(), "  Banana   SLICER ")
	require.NoError(t, err)
	assert.Equal(t, []Product{{Title: "cached", ASIN: "B1"}}, products)
}

func TestSearch_CacheMissStoresResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := NewMockSearchClient(ctrl)
	mockCache := NewMockCache(ctrl)
	svc := New(mockClient, mockCache, 5*time.Minute, observability.NewLogger())

	gomock.InOrder(
		mockCache.EXPECT().GetJSON(gomock.Any(), "catalog:search:banana slicer", gomock.Any()).Return(false, nil),
		mockClient.EXPECT().SearchAmazon(gomock.Any(), "banana slicer").Return(slicerResponse, nil),
		mockCache.EXPECT().SetJSON(gomock.Any(), "catalog:search:banana slicer", gomock.Len(2), 5*time.Minute).Return(nil),
	)

	products, err := svc.Search(context.Background(), "banana slicer")
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestSearch_CacheErrorsAreNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := NewMockSearchClient(ctrl)
	mockCache := NewMockCache(ctrl)
	svc := New(mockClient, mockCache, time.Minute, observability.NewLogger())

	mockCache.EXPECT().GetJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("connection refused"))
	mockClient.EXPECT().SearchAmazon(gomock.Any(), "kettle").Return(searchapi.SearchResponse{}, nil)
	mockCache.EXPECT().SetJSON(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	products, err := svc.Search(context.Background(), "kettle")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSearch_ClientError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := NewMockSearchClient(ctrl)
	svc := New(mockClient, nil, time.Minute, observability.NewLogger())

	mockClient.EXPECT().SearchAmazon(gomock.Any(), "kettle").
		Return(searchapi.SearchResponse{}, searchapi.ErrSearchFailed)

	_, err := svc.Search(context.Background(), "kettle")
	assert.True(t, errors.Is(err, searchapi.ErrSearchFailed))
}

func TestSearch_RedisCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mr := miniredis.RunT(t)
	logger := observability.NewLogger()
	cache, err := redis.NewClient(config.RedisConfig{Enabled: true, Addr: mr.Addr()}, logger)
	require.NoError(t, err)
	defer cache.Close()

	mockClient := NewMockSearchClient(ctrl)
	svc := New(mockClient, cache, time.Minute, logger)

	mockClient.EXPECT().SearchAmazon(gomock.Any(), "banana slicer").Return(slicerResponse, nil).Times(1)

	first, err := svc.Search(context.Background(), "banana slicer")
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), "Banana Slicer")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("catalog:search:banana slicer"))
}
