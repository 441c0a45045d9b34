package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"voice-bridge/internal/catalog"
	"voice-bridge/internal/clients/elevenlabs"
	"voice-bridge/internal/clients/mail"
	"voice-bridge/internal/clients/redis"
	"voice-bridge/internal/clients/searchapi"
	"voice-bridge/internal/config"
	"voice-bridge/internal/email"
	"voice-bridge/internal/observability"
	"voice-bridge/internal/voicecall/bridge"
	voiceCallHandler "voice-bridge/internal/voicecall/handler"
	"voice-bridge/internal/voicecall/tools"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	Logger *observability.Logger

	// Handlers
	VoiceCallHandler voiceCallHandler.Handler
	MetricsHandler   http.Handler

	// Clients (for cleanup)
	RedisClient *redis.Client
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger:         logger,
		MetricsHandler: observability.MetricsHandler(),
	}

	agentClient, err := elevenlabs.NewClient(cfg.Agent.BaseURL, cfg.Agent.AgentID, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent client: %w", err)
	}

	// Initialize the optional search cache
	deps.RedisClient, err = redis.NewClient(cfg.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	var cache catalog.Cache
	if deps.RedisClient != nil {
		cache = deps.RedisClient
	}

	searchClient := searchapi.NewClient(cfg.Services.SearchAPIBaseURL, cfg.Services.SearchAPIKey, logger)
	catalogService := catalog.New(searchClient, cache, cfg.Redis.CacheTTL, logger)

	// E-mail is optional; without a key the sendEmail tool reports an error to the agent
	var sender email.MailSender
	mailClient, err := mail.NewResendClient(cfg.Services.ResendAPIKey, logger)
	switch {
	case err == nil:
		sender = mailClient
	case errors.Is(err, mail.ErrMissingAPIKey):
		logger.Warn(ctx, "RESEND_API_KEY not set, product e-mails are disabled")
	default:
		return nil, fmt.Errorf("failed to create resend client: %w", err)
	}
	emailService := email.New(sender, cfg.Services.DefaultEmailSender, email.NewCheckoutLinks(cfg.Services.CheckoutAPIKey), logger)

	if cfg.Services.SearchAPIKey == "" {
		logger.Warn(ctx, "SEARCHAPI_KEY not set, product search will fail")
	}

	dispatcher := tools.NewDispatcher(logger,
		tools.NewSearchTool(catalogService, logger),
		tools.NewSendEmailTool(emailService, logger),
	)

	callBridge := bridge.New(bridge.NewElevenLabsConnector(agentClient), dispatcher, logger)
	deps.VoiceCallHandler = voiceCallHandler.New(callBridge, cfg.Server.PublicHost, logger)

	logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "agent_id", Value: cfg.Agent.AgentID},
		observability.Field{Key: "tools", Value: dispatcher.Names()},
		observability.Field{Key: "search_cache", Value: deps.RedisClient.IsEnabled()},
	), "dependencies initialized")

	return deps, nil
}

// Cleanup closes all resources that need cleanup
func (d *Dependencies) Cleanup() {
	if d.RedisClient != nil {
		if err := d.RedisClient.Close(); err != nil {
			d.Logger.Error(context.Background(), "failed to close redis client", err)
		}
	}
}
