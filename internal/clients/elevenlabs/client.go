// Package elevenlabs connects to the ElevenLabs Conversational AI WebSocket.
package elevenlabs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"voice-bridge/internal/observability"

	"github.com/gorilla/websocket"
)

const (
	handshakeTimeout  = 10 * time.Second
	closeWriteTimeout = time.Second
)

// Client opens agent conversations for one configured agent.
type Client struct {
	baseURL string
	agentID string
	dialer  *websocket.Dialer
	logger  *observability.Logger
}

func NewClient(baseURL, agentID string, logger *observability.Logger) (*Client, error) {
	if agentID == "" {
		return nil, fmt.Errorf("agent id is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid agent base url: %w", err)
	}

	return &Client{
		baseURL: baseURL,
		agentID: agentID,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: handshakeTimeout,
		},
		logger: logger,
	}, nil
}

// ConversationURL returns the WebSocket URL for a new conversation.
func (c *Client) ConversationURL() string {
	u, _ := url.Parse(c.baseURL)
	q := u.Query()
	q.Set("agent_id", c.agentID)
	u.RawQuery = q.Encode()
	return u.String()
}

// Connect dials a new conversation. The returned Conversation is owned by
// the caller and must be closed.
func (c *Client) Connect(ctx context.Context) (*Conversation, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "agent_id", Value: c.agentID})

	conn, resp, err := c.dialer.DialContext(ctx, c.ConversationURL(), nil)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("%w (status %d)", err, resp.StatusCode)
		}
		c.logger.Error(ctx, "failed to connect to conversational agent", err)
		return nil, fmt.Errorf("failed to dial agent: %w", err)
	}

	c.logger.Info(ctx, "connected to conversational agent")
	return &Conversation{conn: conn}, nil
}

// Conversation is the agent leg of a call. Reads must happen from a single
// goroutine; sends are safe from any goroutine.
type Conversation struct {
	conn       *websocket.Conn
	writeMutex sync.Mutex
	closeOnce  sync.Once
}

// ReadEvent blocks for the next event. Transport failures are returned as is;
// undecodable messages wrap ErrMalformedEvent and leave the conversation usable.
func (c *Conversation) ReadEvent() (Event, error) {
	_, msg, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return DecodeEvent(msg)
}

func (c *Conversation) SendUserAudio(chunk UserAudioChunk) error {
	return c.writeJSON(chunk)
}

func (c *Conversation) SendPong(p Pong) error {
	return c.writeJSON(p)
}

func (c *Conversation) SendToolResult(r ClientToolResult) error {
	return c.writeJSON(r)
}

func (c *Conversation) writeJSON(v any) error {
	msgBytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal agent message: %w", err)
	}

	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msgBytes)
}

// Close ends the conversation. Safe to call more than once and concurrently
// with ReadEvent.
func (c *Conversation) Close() error {
	var err error
	c.closeOnce.Do(func() {
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeWriteTimeout),
		)
		err = c.conn.Close()
	})
	return err
}
