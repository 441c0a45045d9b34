package twilio

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const closeWriteTimeout = time.Second

// MediaStream is the telephony leg of a call: the WebSocket Twilio opened
// against /media-stream. Reads must happen from a single goroutine; sends are
// safe from any goroutine.
type MediaStream struct {
	conn       *websocket.Conn
	writeMutex sync.Mutex
	closeOnce  sync.Once
}

func NewMediaStream(conn *websocket.Conn) *MediaStream {
	return &MediaStream{conn: conn}
}

// ReadEvent blocks for the next event. Transport failures are returned as is;
// undecodable messages wrap ErrMalformedEvent and leave the stream usable.
func (s *MediaStream) ReadEvent() (Event, error) {
	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return DecodeEvent(msg)
}

func (s *MediaStream) SendMedia(m OutboundMedia) error {
	return s.writeJSON(m)
}

func (s *MediaStream) SendClear(c OutboundClear) error {
	return s.writeJSON(c)
}

func (s *MediaStream) writeJSON(v any) error {
	msgBytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal twilio message: %w", err)
	}

	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, msgBytes)
}

// Close sends a normal close frame and releases the connection. Safe to call
// more than once and concurrently with ReadEvent.
func (s *MediaStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		_ = s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeWriteTimeout),
		)
		err = s.conn.Close()
	})
	return err
}
