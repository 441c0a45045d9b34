// Package translator converts messages between the Twilio media stream
// protocol and the agent conversation protocol. Every function is pure.
package translator

import (
	"voice-bridge/internal/clients/elevenlabs"
	"voice-bridge/internal/voice/audio"
	"voice-bridge/internal/voicecall/tools"
	"voice-bridge/internal/voicecall/twilio"
)

// TelephonyToAgent turns caller audio into a user audio chunk. The payload is
// decoded and re-encoded so corrupt frames are rejected before reaching the
// agent.
func TelephonyToAgent(ev twilio.MediaEvent) (elevenlabs.UserAudioChunk, error) {
	frame, err := audio.DecodeFrame(ev.StreamSid, ev.Payload)
	if err != nil {
		return elevenlabs.UserAudioChunk{}, err
	}
	return elevenlabs.UserAudioChunk{UserAudioChunk: frame.Base64()}, nil
}

// AgentToTelephony wraps agent speech as a media message for streamSid. It
// reports false when the event carries no audio.
func AgentToTelephony(streamSid string, ev elevenlabs.AudioEvent) (twilio.OutboundMedia, bool) {
	if ev.Payload == "" {
		return twilio.OutboundMedia{}, false
	}
	return twilio.NewMedia(streamSid, ev.Payload), true
}

// InterruptionToClear builds the instruction that flushes audio queued on the
// telephony side when the caller barges in.
func InterruptionToClear(streamSid string) twilio.OutboundClear {
	return twilio.NewClear(streamSid)
}

// PingToPong answers a keep-alive ping. It reports false when the ping has no
// event id to echo.
func PingToPong(ev elevenlabs.PingEvent) (elevenlabs.Pong, bool) {
	if !ev.HasEventID() {
		return elevenlabs.Pong{}, false
	}
	return elevenlabs.NewPong(ev.EventID), true
}

func ToolCallToInvocation(ev elevenlabs.ClientToolCallEvent) tools.Invocation {
	return tools.Invocation{
		ToolName:   ev.ToolName,
		ToolCallID: ev.ToolCallID,
		Parameters: ev.Parameters,
	}
}

func ResultToMessage(r tools.Result) elevenlabs.ClientToolResult {
	return elevenlabs.NewClientToolResult(r.ToolCallID, r.Payload, r.IsError)
}
