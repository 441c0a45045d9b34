package handler

//go:generate go run go.uber.org/mock/mockgen@latest -source=handler.go -destination=mocks_test.go -package=handler

import (
	"context"
	"fmt"
	"net/http"

	"voice-bridge/internal/apierrors"
	"voice-bridge/internal/observability"
	"voice-bridge/internal/voicecall/bridge"
	"voice-bridge/internal/voicecall/twilio"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/twilio/twilio-go/twiml"
)

const MediaStreamPath = "/media-stream"

// SessionServer runs a bridged call over an accepted media stream
type SessionServer interface {
	Serve(ctx context.Context, telephony bridge.TelephonyLeg) bridge.Summary
}

type Handler struct {
	sessions   SessionServer
	publicHost string
	logger     *observability.Logger
}

func New(sessions SessionServer, publicHost string, logger *observability.Logger) Handler {
	return Handler{
		sessions:   sessions,
		publicHost: publicHost,
		logger:     logger,
	}
}

// Twilio media streams do not send an Origin header.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type inboundCallRequest struct {
	CallSid    string `form:"CallSid"`
	AccountSid string `form:"AccountSid"`
	From       string `form:"From"`
	To         string `form:"To"`
	CallStatus string `form:"CallStatus"`
	Direction  string `form:"Direction"`
}

// HandleInboundCall answers Twilio's call webhook with TwiML that connects the
// call to the media stream endpoint on this host.
func (h *Handler) HandleInboundCall(c *gin.Context) {
	ctx := c.Request.Context()

	var req inboundCallRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn(ctx, fmt.Sprintf("could not parse inbound call metadata: %v", err))
	}

	host := c.Request.Host
	if host == "" {
		host = h.publicHost
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_sid", Value: req.CallSid},
		observability.Field{Key: "from", Value: req.From},
		observability.Field{Key: "to", Value: req.To},
		observability.Field{Key: "stream_host", Value: host},
	)

	twimlResult, err := connectStreamTwiML(host)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	h.logger.Info(ctx, "inbound call connected to media stream")
	c.Header("Content-Type", "text/xml")
	c.String(http.StatusOK, twimlResult)
}

func connectStreamTwiML(host string) (string, error) {
	connect := twiml.VoiceConnect{
		InnerElements: []twiml.Element{
			twiml.VoiceStream{Url: fmt.Sprintf("wss://%s%s", host, MediaStreamPath)},
		},
	}

	result, err := twiml.Voice([]twiml.Element{connect})
	if err != nil {
		return "", fmt.Errorf("failed to render twiml: %w", err)
	}
	return result, nil
}

// HandleMediaStream upgrades Twilio's media stream request and bridges it to
// the agent until either side hangs up.
func (h *Handler) HandleMediaStream(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error(ctx, "WebSocket upgrade failed", err)
		return
	}

	h.logger.Info(ctx, "Twilio media stream connected")
	summary := h.sessions.Serve(ctx, twilio.NewMediaStream(conn))
	h.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "session_id", Value: summary.SessionID},
		observability.Field{Key: "reason", Value: summary.Reason},
	), "Twilio media stream finished")
}
