// Package audio carries encoded call audio between transports without
// interpreting it.
package audio

import (
	"encoding/base64"
	"errors"
	"fmt"
)

var ErrInvalidPayload = errors.New("invalid audio payload")

// Frame is one opaque chunk of encoded audio belonging to a media stream.
type Frame struct {
	StreamSid string
	Payload   []byte
}

// DecodeFrame decodes a base64 transport payload into a frame.
func DecodeFrame(streamSid, payload string) (Frame, error) {
	data, err := Base64ToBytes(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %s", ErrInvalidPayload, err.Error())
	}
	return Frame{StreamSid: streamSid, Payload: data}, nil
}

// Base64 re-encodes the payload for transport.
func (f Frame) Base64() string {
	return BytesToBase64(f.Payload)
}

// Len returns the payload size in bytes.
func (f Frame) Len() int {
	return len(f.Payload)
}

func Base64ToBytes(base64String string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(base64String)
}

func BytesToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
