package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"voice-bridge/internal/observability"

	"github.com/resendlabs/resend-go"
)

const sendTimeout = 15 * time.Second

var ErrMissingAPIKey = errors.New("resend api key is not configured")

// Message is one outbound e-mail.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

type ResendClient struct {
	client *resend.Client
	logger *observability.Logger
}

func NewResendClient(apiKey string, logger *observability.Logger) (*ResendClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := resend.NewCustomClient(&http.Client{Timeout: sendTimeout}, apiKey)
	if client == nil {
		return nil, fmt.Errorf("failed to create Resend client")
	}

	return &ResendClient{
		client: client,
		logger: logger,
	}, nil
}

// SendEmail delivers msg and returns the provider message id.
func (c *ResendClient) SendEmail(ctx context.Context, msg Message) (string, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email_to", Value: msg.To},
		observability.Field{Key: "email_subject", Value: msg.Subject},
	)

	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	type sendResult struct {
		id  string
		err error
	}
	done := make(chan sendResult, 1)
	go func() {
		res, err := c.client.Emails.Send(params)
		if err != nil {
			done <- sendResult{err: err}
			return
		}
		done <- sendResult{id: res.Id}
	}()

	// The SDK call takes no context; stop waiting when the caller gives up.
	select {
	case r := <-done:
		if r.err != nil {
			c.logger.Error(ctx, "failed to send email", r.err)
			return "", fmt.Errorf("failed to send email: %w", r.err)
		}
		c.logger.Info(ctx, "email sent successfully")
		return r.id, nil
	case <-ctx.Done():
		err := fmt.Errorf("failed to send email: %w", ctx.Err())
		c.logger.Error(ctx, "email send abandoned", err)
		return "", err
	}
}
