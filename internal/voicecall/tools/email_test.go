package tools

import (
	"context"
	"errors"
	"testing"

	"voice-bridge/internal/email"
	"voice-bridge/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSendEmailTool_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	notifier := NewMockProductNotifier(ctrl)
	notifier.EXPECT().SendProductEmail(gomock.Any(), email.ProductEmail{
		To:       "caller@example.com",
		Title:    "Hutzler 571 Banana Slicer",
		ImageURL: "https://img.example.com/1.jpg",
		ASIN:     "B00004OCNS",
	}).Return(nil)

	tool := NewSendEmailTool(notifier, observability.NewLogger())
	out, err := tool.Execute(context.Background(), map[string]any{
		"to":            "caller@example.com",
		"title":         "Hutzler 571 Banana Slicer",
		"img_thumbnail": "https://img.example.com/1.jpg",
		"asin":          "B00004OCNS",
	})
	require.NoError(t, err)
	assert.Equal(t, "Email sent successfully to caller@example.com", out)
}

func TestSendEmailTool_InvalidArguments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tool := NewSendEmailTool(NewMockProductNotifier(ctrl), observability.NewLogger())

	tests := []struct {
		name    string
		params  map[string]any
		wantMsg string
	}{
		{
			name:    "missing everything",
			params:  map[string]any{},
			wantMsg: "to is required, title is required, asin is required",
		},
		{
			name:    "bad address",
			params:  map[string]any{"to": "not-an-address", "title": "x", "asin": "B1"},
			wantMsg: "to must be a valid email address",
		},
		{
			name:    "bad thumbnail",
			params:  map[string]any{"to": "a@example.com", "title": "x", "asin": "B1", "img_thumbnail": "nope"},
			wantMsg: "img_thumbnail must be a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tool.Execute(context.Background(), tt.params)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArguments))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSendEmailTool_DeliveryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	notifier := NewMockProductNotifier(ctrl)
	notifier.EXPECT().SendProductEmail(gomock.Any(), gomock.Any()).Return(email.ErrNotConfigured)

	tool := NewSendEmailTool(notifier, observability.NewLogger())
	_, err := tool.Execute(context.Background(), map[string]any{"to": "a@example.com", "title": "x", "asin": "B1"})
	assert.True(t, errors.Is(err, email.ErrNotConfigured))
}
