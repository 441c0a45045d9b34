// Package twilio speaks the Twilio Media Streams WebSocket protocol.
package twilio

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Media stream event names.
const (
	EventConnected = "connected"
	EventStart     = "start"
	EventMedia     = "media"
	EventStop      = "stop"
	EventClear     = "clear"
)

var ErrMalformedEvent = errors.New("malformed twilio event")

// Event is one message received on a media stream. The concrete type is one
// of ConnectedEvent, StartEvent, MediaEvent, StopEvent or UnknownEvent.
type Event interface {
	EventName() string
}

type ConnectedEvent struct {
	Protocol string
	Version  string
}

// StartEvent announces the stream and carries the identifier every outbound
// message must be tagged with.
type StartEvent struct {
	StreamSid        string
	CallSid          string
	AccountSid       string
	Tracks           []string
	MediaFormat      MediaFormat
	CustomParameters map[string]string
}

type MediaFormat struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sampleRate"`
	Channels   int    `json:"channels"`
}

// MediaEvent carries one base64 encoded chunk of caller audio.
type MediaEvent struct {
	StreamSid string
	Track     string
	Chunk     string
	Timestamp string
	Payload   string
}

type StopEvent struct {
	StreamSid string
	CallSid   string
}

// UnknownEvent is any event this bridge does not act on.
type UnknownEvent struct {
	Name string
}

func (ConnectedEvent) EventName() string { return EventConnected }
func (StartEvent) EventName() string     { return EventStart }
func (MediaEvent) EventName() string     { return EventMedia }
func (StopEvent) EventName() string      { return EventStop }
func (e UnknownEvent) EventName() string { return e.Name }

type inboundEnvelope struct {
	Event          string `json:"event"`
	StreamSid      string `json:"streamSid"`
	SequenceNumber string `json:"sequenceNumber"`
	Protocol       string `json:"protocol"`
	Version        string `json:"version"`
	Start          *struct {
		StreamSid        string            `json:"streamSid"`
		CallSid          string            `json:"callSid"`
		AccountSid       string            `json:"accountSid"`
		Tracks           []string          `json:"tracks"`
		MediaFormat      MediaFormat       `json:"mediaFormat"`
		CustomParameters map[string]string `json:"customParameters"`
	} `json:"start"`
	Media *struct {
		Track     string `json:"track"`
		Chunk     string `json:"chunk"`
		Timestamp string `json:"timestamp"`
		Payload   string `json:"payload"`
	} `json:"media"`
	Stop *struct {
		AccountSid string `json:"accountSid"`
		CallSid    string `json:"callSid"`
	} `json:"stop"`
}

// DecodeEvent parses one media stream message using its "event" discriminator.
func DecodeEvent(data []byte) (Event, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedEvent, err.Error())
	}

	switch env.Event {
	case "":
		return nil, fmt.Errorf("%w: missing event name", ErrMalformedEvent)

	case EventConnected:
		return ConnectedEvent{Protocol: env.Protocol, Version: env.Version}, nil

	case EventStart:
		if env.Start == nil {
			return nil, fmt.Errorf("%w: start event without start block", ErrMalformedEvent)
		}
		streamSid := env.Start.StreamSid
		if streamSid == "" {
			streamSid = env.StreamSid
		}
		if streamSid == "" {
			return nil, fmt.Errorf("%w: start event without streamSid", ErrMalformedEvent)
		}
		return StartEvent{
			StreamSid:        streamSid,
			CallSid:          env.Start.CallSid,
			AccountSid:       env.Start.AccountSid,
			Tracks:           env.Start.Tracks,
			MediaFormat:      env.Start.MediaFormat,
			CustomParameters: env.Start.CustomParameters,
		}, nil

	case EventMedia:
		if env.Media == nil {
			return nil, fmt.Errorf("%w: media event without media block", ErrMalformedEvent)
		}
		return MediaEvent{
			StreamSid: env.StreamSid,
			Track:     env.Media.Track,
			Chunk:     env.Media.Chunk,
			Timestamp: env.Media.Timestamp,
			Payload:   env.Media.Payload,
		}, nil

	case EventStop:
		stop := StopEvent{StreamSid: env.StreamSid}
		if env.Stop != nil {
			stop.CallSid = env.Stop.CallSid
		}
		return stop, nil

	default:
		return UnknownEvent{Name: env.Event}, nil
	}
}

// OutboundMedia plays audio to the caller.
type OutboundMedia struct {
	Event     string       `json:"event"`
	StreamSid string       `json:"streamSid"`
	Media     MediaPayload `json:"media"`
}

type MediaPayload struct {
	Payload string `json:"payload"`
}

// OutboundClear discards audio Twilio has buffered but not yet played.
type OutboundClear struct {
	Event     string `json:"event"`
	StreamSid string `json:"streamSid"`
}

func NewMedia(streamSid, payload string) OutboundMedia {
	return OutboundMedia{
		Event:     EventMedia,
		StreamSid: streamSid,
		Media:     MediaPayload{Payload: payload},
	}
}

func NewClear(streamSid string) OutboundClear {
	return OutboundClear{Event: EventClear, StreamSid: streamSid}
}
