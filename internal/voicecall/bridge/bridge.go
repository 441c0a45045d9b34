// Package bridge relays one phone call between the Twilio media stream and a
// conversational agent.
package bridge

import (
	"context"

	"voice-bridge/internal/clients/elevenlabs"
	"voice-bridge/internal/observability"
	"voice-bridge/internal/voicecall/tools"
	"voice-bridge/internal/voicecall/twilio"
)

// TelephonyLeg is the caller side of a session.
type TelephonyLeg interface {
	ReadEvent() (twilio.Event, error)
	SendMedia(m twilio.OutboundMedia) error
	SendClear(c twilio.OutboundClear) error
	Close() error
}

// AgentLeg is the conversational agent side of a session.
type AgentLeg interface {
	ReadEvent() (elevenlabs.Event, error)
	SendUserAudio(chunk elevenlabs.UserAudioChunk) error
	SendPong(p elevenlabs.Pong) error
	SendToolResult(r elevenlabs.ClientToolResult) error
	Close() error
}

// AgentConnector opens a new agent leg for every session.
type AgentConnector interface {
	Connect(ctx context.Context) (AgentLeg, error)
}

type ToolDispatcher interface {
	Dispatch(ctx context.Context, inv tools.Invocation) tools.Result
}

type elevenLabsConnector struct {
	client *elevenlabs.Client
}

// NewElevenLabsConnector adapts an ElevenLabs client to AgentConnector.
func NewElevenLabsConnector(client *elevenlabs.Client) AgentConnector {
	return elevenLabsConnector{client: client}
}

func (c elevenLabsConnector) Connect(ctx context.Context) (AgentLeg, error) {
	conv, err := c.client.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Bridge holds what every session shares: immutable collaborators only.
type Bridge struct {
	connector  AgentConnector
	dispatcher ToolDispatcher
	logger     *observability.Logger
}

func New(connector AgentConnector, dispatcher ToolDispatcher, logger *observability.Logger) *Bridge {
	return &Bridge{
		connector:  connector,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Serve runs a session over an accepted telephony leg and blocks until both
// legs are closed and every goroutine of the session has exited.
func (b *Bridge) Serve(ctx context.Context, telephony TelephonyLeg) Summary {
	s := newSession(ctx, b, telephony)
	return s.run()
}
