package tools

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"voice-bridge/internal/apierrors"
	"voice-bridge/internal/email"
	"voice-bridge/internal/observability"

	"github.com/go-playground/validator/v10"
)

const SendEmailToolName = "sendEmail"

type sendEmailArgs struct {
	To        string `param:"to" validate:"required,email"`
	Title     string `param:"title" validate:"required"`
	Thumbnail string `param:"img_thumbnail" validate:"omitempty,url"`
	ASIN      string `param:"asin" validate:"required"`
}

// SendEmailTool mails the caller a product with a checkout link.
type SendEmailTool struct {
	notifier ProductNotifier
	validate *validator.Validate
	logger   *observability.Logger
}

func NewSendEmailTool(notifier ProductNotifier, logger *observability.Logger) *SendEmailTool {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("param")
	})
	return &SendEmailTool{notifier: notifier, validate: v, logger: logger}
}

func (t *SendEmailTool) Name() string { return SendEmailToolName }

func (t *SendEmailTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	args := sendEmailArgs{
		To:        stringParam(params, "to"),
		Title:     stringParam(params, "title"),
		Thumbnail: stringParam(params, "img_thumbnail"),
		ASIN:      stringParam(params, "asin"),
	}
	if err := t.validate.Struct(args); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidArguments, apierrors.ValidationMessage(err))
	}

	err := t.notifier.SendProductEmail(ctx, email.ProductEmail{
		To:       args.To,
		Title:    args.Title,
		ImageURL: args.Thumbnail,
		ASIN:     args.ASIN,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Email sent successfully to %s", args.To), nil
}

func stringParam(params map[string]any, key string) string {
	switch v := params[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
