package elevenlabs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Conversation event types.
const (
	TypeConversationInitiationMetadata = "conversation_initiation_metadata"
	TypeAudio                          = "audio"
	TypeInterruption                   = "interruption"
	TypePing                           = "ping"
	TypePong                           = "pong"
	TypeClientToolCall                 = "client_tool_call"
	TypeClientToolResult               = "client_tool_result"
	TypeAgentResponse                  = "agent_response"
	TypeUserTranscript                 = "user_transcript"
)

var ErrMalformedEvent = errors.New("malformed agent event")

// Event is one message received from the agent. The concrete type is one of
// the *Event types in this file or UnknownEvent.
type Event interface {
	EventType() string
}

type ConversationInitiationMetadataEvent struct {
	ConversationID         string
	AgentOutputAudioFormat string
	UserInputAudioFormat   string
}

// AudioEvent carries agent speech. Payload is empty when the agent sent an
// audio event without audio.
type AudioEvent struct {
	Payload string
	EventID json.RawMessage
}

type InterruptionEvent struct {
	EventID json.RawMessage
}

// PingEvent must be answered with a Pong echoing EventID.
type PingEvent struct {
	EventID json.RawMessage
	PingMs  int
}

// HasEventID reports whether the ping carried an identifier to echo.
func (p PingEvent) HasEventID() bool {
	return len(p.EventID) > 0 && !bytes.Equal(p.EventID, []byte("null"))
}

type ClientToolCallEvent struct {
	ToolName   string
	ToolCallID string
	Parameters map[string]any
}

type AgentResponseEvent struct {
	Text string
}

type UserTranscriptEvent struct {
	Text string
}

type UnknownEvent struct {
	Type string
}

func (ConversationInitiationMetadataEvent) EventType() string {
	return TypeConversationInitiationMetadata
}
func (AudioEvent) EventType() string          { return TypeAudio }
func (InterruptionEvent) EventType() string   { return TypeInterruption }
func (PingEvent) EventType() string           { return TypePing }
func (ClientToolCallEvent) EventType() string { return TypeClientToolCall }
func (AgentResponseEvent) EventType() string  { return TypeAgentResponse }
func (UserTranscriptEvent) EventType() string { return TypeUserTranscript }
func (e UnknownEvent) EventType() string      { return e.Type }

type inboundEnvelope struct {
	Type                                string `json:"type"`
	ConversationInitiationMetadataEvent *struct {
		ConversationID         string `json:"conversation_id"`
		AgentOutputAudioFormat string `json:"agent_output_audio_format"`
		UserInputAudioFormat   string `json:"user_input_audio_format"`
	} `json:"conversation_initiation_metadata_event"`
	AudioEvent *struct {
		AudioBase64 string          `json:"audio_base_64"`
		EventID     json.RawMessage `json:"event_id"`
	} `json:"audio_event"`
	InterruptionEvent *struct {
		EventID json.RawMessage `json:"event_id"`
	} `json:"interruption_event"`
	PingEvent *struct {
		EventID json.RawMessage `json:"event_id"`
		PingMs  int             `json:"ping_ms"`
	} `json:"ping_event"`
	ClientToolCall *struct {
		ToolName   string         `json:"tool_name"`
		ToolCallID string         `json:"tool_call_id"`
		Parameters map[string]any `json:"parameters"`
	} `json:"client_tool_call"`
	AgentResponseEvent *struct {
		AgentResponse string `json:"agent_response"`
	} `json:"agent_response_event"`
	UserTranscriptionEvent *struct {
		UserTranscript string `json:"user_transcript"`
	} `json:"user_transcription_event"`
}

// DecodeEvent parses one agent message using its "type" discriminator.
func DecodeEvent(data []byte) (Event, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedEvent, err.Error())
	}

	switch env.Type {
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrMalformedEvent)

	case TypeConversationInitiationMetadata:
		var ev ConversationInitiationMetadataEvent
		if m := env.ConversationInitiationMetadataEvent; m != nil {
			ev.ConversationID = m.ConversationID
			ev.AgentOutputAudioFormat = m.AgentOutputAudioFormat
			ev.UserInputAudioFormat = m.UserInputAudioFormat
		}
		return ev, nil

	case TypeAudio:
		var ev AudioEvent
		if a := env.AudioEvent; a != nil {
			ev.Payload = a.AudioBase64
			ev.EventID = a.EventID
		}
		return ev, nil

	case TypeInterruption:
		var ev InterruptionEvent
		if i := env.InterruptionEvent; i != nil {
			ev.EventID = i.EventID
		}
		return ev, nil

	case TypePing:
		var ev PingEvent
		if p := env.PingEvent; p != nil {
			ev.EventID = p.EventID
			ev.PingMs = p.PingMs
		}
		return ev, nil

	case TypeClientToolCall:
		call := env.ClientToolCall
		if call == nil {
			return nil, fmt.Errorf("%w: client_tool_call without payload", ErrMalformedEvent)
		}
		if call.ToolCallID == "" {
			return nil, fmt.Errorf("%w: client_tool_call without tool_call_id", ErrMalformedEvent)
		}
		params := call.Parameters
		if params == nil {
			params = map[string]any{}
		}
		return ClientToolCallEvent{
			ToolName:   call.ToolName,
			ToolCallID: call.ToolCallID,
			Parameters: params,
		}, nil

	case TypeAgentResponse:
		var ev AgentResponseEvent
		if r := env.AgentResponseEvent; r != nil {
			ev.Text = r.AgentResponse
		}
		return ev, nil

	case TypeUserTranscript:
		var ev UserTranscriptEvent
		if u := env.UserTranscriptionEvent; u != nil {
			ev.Text = u.UserTranscript
		}
		return ev, nil

	default:
		return UnknownEvent{Type: env.Type}, nil
	}
}

// UserAudioChunk streams caller audio to the agent.
type UserAudioChunk struct {
	UserAudioChunk string `json:"user_audio_chunk"`
}

type Pong struct {
	Type    string          `json:"type"`
	EventID json.RawMessage `json:"event_id"`
}

// ClientToolResult answers a ClientToolCallEvent with the same ToolCallID.
type ClientToolResult struct {
	Type       string `json:"type"`
	ToolCallID string `json:"tool_call_id"`
	Result     string `json:"result"`
	IsError    bool   `json:"is_error"`
}

func NewPong(eventID json.RawMessage) Pong {
	return Pong{Type: TypePong, EventID: eventID}
}

func NewClientToolResult(toolCallID, result string, isError bool) ClientToolResult {
	return ClientToolResult{
		Type:       TypeClientToolResult,
		ToolCallID: toolCallID,
		Result:     result,
		IsError:    isError,
	}
}
