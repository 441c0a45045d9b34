package email

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=mocks_test.go -package=email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"voice-bridge/internal/clients/mail"
	"voice-bridge/internal/observability"
)

var (
	ErrNotConfigured = errors.New("email delivery is not configured")
	ErrSendingEmail  = errors.New("error sending email")
	ErrRenderingBody = errors.New("error rendering email body")
)

const productEmailSubject = "Complete your purchase"

// MailSender delivers a rendered message
type MailSender interface {
	SendEmail(ctx context.Context, msg mail.Message) (string, error)
}

// ProductEmail describes a product the caller asked to receive by e-mail
type ProductEmail struct {
	To       string
	Title    string
	ImageURL string
	ASIN     string
}

type productTemplateData struct {
	Title       string
	ImageURL    string
	CheckoutURL template.URL
}

var productTemplate = template.Must(template.New("product").Parse(`
<html>
	<body style="font-family: sans-serif; text-align: center;">
		{{if .ImageURL}}<img src="{{.ImageURL}}" alt="Product" style="max-height: 200px; border-radius: 12px;" />{{end}}
		<h1>Complete your Morning Routine</h1>
		<p>{{.Title}}</p>
		<p>Complete your purchase now for fast delivery to your doorstep.</p>
		<p><a href="{{.CheckoutURL}}" style="background-color: #000; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 8px; display: inline-block;">Buy now</a></p>
	</body>
</html>
`))

// Service sends product e-mails
type Service struct {
	mailClient    MailSender
	checkout      CheckoutLinks
	defaultSender string
	logger        *observability.Logger
}

// New creates a Service. mailClient may be nil when delivery is not configured;
// sends then fail with ErrNotConfigured.
func New(mailClient MailSender, defaultSender string, checkout CheckoutLinks, logger *observability.Logger) *Service {
	return &Service{
		mailClient:    mailClient,
		checkout:      checkout,
		defaultSender: defaultSender,
		logger:        logger,
	}
}

// SendProductEmail mails a product summary with a checkout link.
func (s *Service) SendProductEmail(ctx context.Context, p ProductEmail) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email_type", Value: "product"},
		observability.Field{Key: "recipient", Value: p.To},
		observability.Field{Key: "asin", Value: p.ASIN},
	)

	if s.mailClient == nil {
		s.logger.Error(ctx, "cannot send product email", ErrNotConfigured)
		return ErrNotConfigured
	}

	checkoutURL, err := s.checkout.URL(p.ASIN)
	if err != nil {
		s.logger.Error(ctx, "failed to build checkout link", err)
		return fmt.Errorf("%w: %s", ErrRenderingBody, err.Error())
	}

	html, err := renderProductEmail(p, checkoutURL)
	if err != nil {
		s.logger.Error(ctx, "failed to render product email", err)
		return fmt.Errorf("%w: %s", ErrRenderingBody, err.Error())
	}

	_, err = s.mailClient.SendEmail(ctx, mail.Message{
		From:    s.defaultSender,
		To:      p.To,
		Subject: productEmailSubject,
		HTML:    html,
		Text:    fmt.Sprintf("%s\n\nComplete your purchase: %s", p.Title, checkoutURL),
	})
	if err != nil {
		s.logger.Error(ctx, "failed to send product email", err)
		return fmt.Errorf("%w: %s", ErrSendingEmail, err.Error())
	}

	s.logger.Info(ctx, "product email sent")
	return nil
}

func renderProductEmail(p ProductEmail, checkoutURL string) (string, error) {
	var buf bytes.Buffer
	if err := productTemplate.Execute(&buf, productTemplateData{
		Title:       p.Title,
		ImageURL:    p.ImageURL,
		CheckoutURL: template.URL(checkoutURL),
	}); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
