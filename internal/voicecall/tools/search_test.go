package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"voice-bridge/internal/catalog"
	"voice-bridge/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSearchTool_FormatsTopResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	products := make([]catalog.Product, 0, 7)
	for i := 1; i <= 7; i++ {
		products = append(products, catalog.Product{
			Title:     fmt.Sprintf("Slicer %d", i),
			Price:     "$5.99",
			Rating:    4.5,
			Reviews:   100,
			ASIN:      fmt.Sprintf("B%d", i),
			Link:      fmt.Sprintf("https://amazon.com/dp/B%d", i),
			Thumbnail: fmt.Sprintf("https://img/%d.jpg", i),
		})
	}
	products[1].Price = ""

	searcher := NewMockCatalogSearcher(ctrl)
	searcher.EXPECT().Search(gomock.Any(), "banana slicer").Return(products, nil)

	tool := NewSearchTool(searcher, observability.NewLogger())
	out, err := tool.Execute(context.Background(), map[string]any{"query": " banana slicer "})
	require.NoError(t, err)

	var payload searchPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, `Found 7 products for "banana slicer". Here are the top results:`, payload.Message)
	require.Len(t, payload.Results, 5)
	assert.Equal(t, searchHit{
		Position: 1,
		Title:    "Slicer 1",
		Price:    "$5.99",
		Rating:   4.5,
		Reviews:  100,
		ASIN:     "B1",
		Link:     "https://amazon.com/dp/B1",
		Image:    "https://img/1.jpg",
	}, payload.Results[0])
	assert.Equal(t, "Price not available", payload.Results[1].Price)
	assert.Equal(t, 5, payload.Results[4].Position)
}

func TestSearchTool_NoResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	searcher := NewMockCatalogSearcher(ctrl)
	searcher.EXPECT().Search(gomock.Any(), "unicorn saddle").Return(nil, nil)

	tool := NewSearchTool(searcher, observability.NewLogger())
	out, err := tool.Execute(context.Background(), map[string]any{"query": "unicorn saddle"})
	require.NoError(t, err)
	assert.Equal(t, `No products found for "unicorn saddle"`, out)
}

func TestSearchTool_MissingQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tool := NewSearchTool(NewMockCatalogSearcher(ctrl), observability.NewLogger())

	for _, params := range []map[string]any{{}, {"query": "   "}, {"query": 42}} {
		_, err := tool.Execute(context.Background(), params)
		assert.True(t, errors.Is(err, ErrInvalidArguments), "params %v", params)
	}
}

func TestSearchTool_CatalogError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	searcher := NewMockCatalogSearcher(ctrl)
	searcher.EXPECT().Search(gomock.Any(), "kettle").Return(nil, errors.New("search failed"))

	tool := NewSearchTool(searcher, observability.NewLogger())
	_, err := tool.Execute(context.Background(), map[string]any{"query": "kettle"})
	assert.EqualError(t, err, "search failed")
}

func TestDispatch_SearchThroughDispatcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	searcher := NewMockCatalogSearcher(ctrl)
	searcher.EXPECT().Search(gomock.Any(), "banana slicer").
		Return([]catalog.Product{{Title: "Hutzler 571", Price: "$5.99", ASIN: "B00004OCNS"}}, nil)

	logger := observability.NewLogger()
	d := NewDispatcher(logger, NewSearchTool(searcher, logger))

	res := d.Dispatch(context.Background(), Invocation{
		ToolName:   "searchAmazon",
		ToolCallID: "t1",
		Parameters: map[string]any{"query": "banana slicer"},
	})
	assert.Equal(t, "t1", res.ToolCallID)
	assert.False(t, res.IsError)
	assert.Contains(t, res.Payload, "Hutzler 571")
}
