package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"voice-bridge/internal/clients/elevenlabs"
	"voice-bridge/internal/observability"
	"voice-bridge/internal/voicecall/tools"
	"voice-bridge/internal/voicecall/translator"
	"voice-bridge/internal/voicecall/twilio"

	"github.com/google/uuid"
)

// State is the lifecycle of a session.
type State int32

const (
	StateAwaitingStart State = iota
	StateStreaming
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAwaitingStart:
		return "awaiting_start"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Reasons a session ended.
const (
	ReasonTelephonyStop        = "telephony_stop"
	ReasonTelephonyClosed      = "telephony_closed"
	ReasonTelephonyWriteFailed = "telephony_write_failed"
	ReasonAgentClosed          = "agent_closed"
	ReasonAgentConnectFailed   = "agent_connect_failed"
	ReasonAgentWriteFailed     = "agent_write_failed"
	ReasonCanceled             = "canceled"
)

// Summary describes a finished session.
type Summary struct {
	SessionID         string
	StreamSid         string
	ConversationID    string
	Reason            string
	Duration          time.Duration
	FramesToAgent     int64
	FramesToTelephony int64
	FramesDropped     int64
	ToolCalls         int64
}

type sessionStats struct {
	framesToAgent     atomic.Int64
	framesToTelephony atomic.Int64
	framesDropped     atomic.Int64
	toolCalls         atomic.Int64
}

// Session is one bridged call. The telephony reader owns the telephony leg's
// reads and the agent reader owns the agent leg's reads; writes go through the
// legs' own serialization.
type Session struct {
	id        string
	bridge    *Bridge
	telephony TelephonyLeg
	startedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu             sync.RWMutex
	state          State
	streamSid      string
	conversationID string
	agent          AgentLeg
	reason         string

	results   chan tools.Result
	closeOnce sync.Once
	wg        sync.WaitGroup
	stats     sessionStats
}

func newSession(parent context.Context, b *Bridge, telephony TelephonyLeg) *Session {
	id := uuid.New().String()
	ctx, cancel := context.WithCancel(observability.WithFields(parent,
		observability.Field{Key: "session_id", Value: id},
	))

	return &Session{
		id:        id,
		bridge:    b,
		telephony: telephony,
		startedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
		state:     StateAwaitingStart,
		results:   make(chan tools.Result),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) StreamSid() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.streamSid
}

func (s *Session) run() Summary {
	observability.SessionOpened()
	s.bridge.logger.Info(s.ctx, "call session opened")

	s.wg.Add(3)
	go s.readTelephony()
	go s.connectAndReadAgent()
	go s.relayToolResults()

	s.wg.Wait()

	summary := s.summary()
	observability.SessionClosed(summary.Reason)
	s.bridge.logger.Info(observability.WithFields(s.logContext(),
		observability.Field{Key: "reason", Value: summary.Reason},
		observability.Field{Key: "duration_ms", Value: summary.Duration.Milliseconds()},
		observability.Field{Key: "frames_to_agent", Value: summary.FramesToAgent},
		observability.Field{Key: "frames_to_telephony", Value: summary.FramesToTelephony},
		observability.Field{Key: "frames_dropped", Value: summary.FramesDropped},
		observability.Field{Key: "tool_calls", Value: summary.ToolCalls},
	), "call session closed")
	return summary
}

func (s *Session) summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summary{
		SessionID:         s.id,
		StreamSid:         s.streamSid,
		ConversationID:    s.conversationID,
		Reason:            s.reason,
		Duration:          time.Since(s.startedAt),
		FramesToAgent:     s.stats.framesToAgent.Load(),
		FramesToTelephony: s.stats.framesToTelephony.Load(),
		FramesDropped:     s.stats.framesDropped.Load(),
		ToolCalls:         s.stats.toolCalls.Load(),
	}
}

// logContext returns the session context with the identifiers known so far.
func (s *Session) logContext() context.Context {
	s.mu.RLock()
	streamSid, conversationID := s.streamSid, s.conversationID
	s.mu.RUnlock()

	fields := make([]observability.Field, 0, 2)
	if streamSid != "" {
		fields = append(fields, observability.Field{Key: "stream_sid", Value: streamSid})
	}
	if conversationID != "" {
		fields = append(fields, observability.Field{Key: "conversation_id", Value: conversationID})
	}
	return observability.WithFields(s.ctx, fields...)
}

// close tears the session down. Only the first reason is kept.
func (s *Session) close(reason string) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = StateClosed
		s.reason = reason
		agent := s.agent
		s.mu.Unlock()

		s.cancel()

		if err := s.telephony.Close(); err != nil {
			s.bridge.logger.Debug(s.ctx, fmt.Sprintf("telephony leg close: %v", err))
		}
		if agent != nil {
			if err := agent.Close(); err != nil {
				s.bridge.logger.Debug(s.ctx, fmt.Sprintf("agent leg close: %v", err))
			}
		}
	})
}

func (s *Session) closed() bool {
	return s.ctx.Err() != nil
}

func (s *Session) readTelephony() {
	defer s.wg.Done()

	for {
		ev, err := s.telephony.ReadEvent()
		if err != nil {
			if errors.Is(err, twilio.ErrMalformedEvent) {
				s.bridge.logger.Warn(s.logContext(), fmt.Sprintf("dropping telephony message: %v", err))
				continue
			}
			if !s.closed() {
				s.bridge.logger.InfoWithError(s.logContext(), "telephony leg closed", err)
			}
			s.close(ReasonTelephonyClosed)
			return
		}

		if stop := s.handleTelephonyEvent(ev); stop {
			return
		}
	}
}

// handleTelephonyEvent reports true when the session has ended.
func (s *Session) handleTelephonyEvent(ev twilio.Event) bool {
	switch e := ev.(type) {
	case twilio.ConnectedEvent:
		s.bridge.logger.Debug(s.ctx, "telephony stream connected")
	case twilio.StartEvent:
		s.handleStart(e)
	case twilio.MediaEvent:
		return s.forwardCallerAudio(e)
	case twilio.StopEvent:
		s.bridge.logger.Info(s.logContext(), "telephony stream stopped")
		s.close(ReasonTelephonyStop)
		return true
	default:
		s.bridge.logger.Debug(s.logContext(), fmt.Sprintf("ignoring telephony event %q", ev.EventName()))
	}
	return false
}

func (s *Session) handleStart(e twilio.StartEvent) {
	s.mu.Lock()
	if s.state != StateAwaitingStart {
		current := s.streamSid
		s.mu.Unlock()
		s.bridge.logger.Warn(s.logContext(), fmt.Sprintf("ignoring repeated start for stream %s, keeping %s", e.StreamSid, current))
		return
	}
	s.streamSid = e.StreamSid
	s.state = StateStreaming
	s.mu.Unlock()

	s.bridge.logger.Info(observability.WithFields(s.logContext(),
		observability.Field{Key: "call_sid", Value: e.CallSid},
	), "telephony stream started")
}

func (s *Session) forwardCallerAudio(e twilio.MediaEvent) bool {
	s.mu.RLock()
	agent := s.agent
	s.mu.RUnlock()

	if agent == nil {
		s.dropFrame(observability.DirectionToAgent)
		return false
	}

	chunk, err := translator.TelephonyToAgent(e)
	if err != nil {
		s.bridge.logger.Warn(s.logContext(), fmt.Sprintf("dropping caller audio: %v", err))
		s.dropFrame(observability.DirectionToAgent)
		return false
	}

	if err := agent.SendUserAudio(chunk); err != nil {
		s.bridge.logger.Error(s.logContext(), "failed to send caller audio to agent", err)
		s.close(ReasonAgentWriteFailed)
		return true
	}

	s.stats.framesToAgent.Add(1)
	observability.FrameRelayed(observability.DirectionToAgent)
	return false
}

func (s *Session) dropFrame(direction string) {
	s.stats.framesDropped.Add(1)
	observability.FrameDropped(direction)
}

func (s *Session) connectAndReadAgent() {
	defer s.wg.Done()

	agent, err := s.bridge.connector.Connect(s.ctx)
	if err != nil {
		if !s.closed() {
			s.bridge.logger.Error(s.logContext(), "failed to open agent leg", err)
		}
		s.close(ReasonAgentConnectFailed)
		return
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		_ = agent.Close()
		return
	}
	s.agent = agent
	s.mu.Unlock()

	s.bridge.logger.Info(s.logContext(), "agent leg opened")
	s.readAgent(agent)
}

func (s *Session) readAgent(agent AgentLeg) {
	for {
		ev, err := agent.ReadEvent()
		if err != nil {
			if errors.Is(err, elevenlabs.ErrMalformedEvent) {
				s.bridge.logger.Warn(s.logContext(), fmt.Sprintf("dropping agent message: %v", err))
				continue
			}
			if !s.closed() {
				s.bridge.logger.InfoWithError(s.logContext(), "agent leg closed", err)
			}
			s.close(ReasonAgentClosed)
			return
		}

		if stop := s.handleAgentEvent(agent, ev); stop {
			return
		}
	}
}

// handleAgentEvent reports true when the session has ended.
func (s *Session) handleAgentEvent(agent AgentLeg, ev elevenlabs.Event) bool {
	switch e := ev.(type) {
	case elevenlabs.ConversationInitiationMetadataEvent:
		s.mu.Lock()
		s.conversationID = e.ConversationID
		s.mu.Unlock()
		s.bridge.logger.Info(s.logContext(), "agent conversation initiated")
	case elevenlabs.AudioEvent:
		return s.forwardAgentAudio(e)
	case elevenlabs.InterruptionEvent:
		return s.forwardInterruption()
	case elevenlabs.PingEvent:
		pong, ok := translator.PingToPong(e)
		if !ok {
			return false
		}
		if err := agent.SendPong(pong); err != nil {
			s.bridge.logger.Error(s.logContext(), "failed to answer agent ping", err)
			s.close(ReasonAgentWriteFailed)
			return true
		}
	case elevenlabs.ClientToolCallEvent:
		s.startToolCall(translator.ToolCallToInvocation(e))
	case elevenlabs.AgentResponseEvent:
		s.bridge.logger.Debug(s.logContext(), fmt.Sprintf("agent said: %s", e.Text))
	case elevenlabs.UserTranscriptEvent:
		s.bridge.logger.Debug(s.logContext(), fmt.Sprintf("caller said: %s", e.Text))
	default:
		s.bridge.logger.Debug(s.logContext(), fmt.Sprintf("ignoring agent event %q", ev.EventType()))
	}
	return false
}

func (s *Session) forwardAgentAudio(e elevenlabs.AudioEvent) bool {
	streamSid := s.StreamSid()
	if streamSid == "" {
		s.dropFrame(observability.DirectionToTelephony)
		return false
	}

	media, ok := translator.AgentToTelephony(streamSid, e)
	if !ok {
		return false
	}

	if err := s.telephony.SendMedia(media); err != nil {
		s.bridge.logger.Error(s.logContext(), "failed to send agent audio to telephony", err)
		s.close(ReasonTelephonyWriteFailed)
		return true
	}

	s.stats.framesToTelephony.Add(1)
	observability.FrameRelayed(observability.DirectionToTelephony)
	return false
}

func (s *Session) forwardInterruption() bool {
	streamSid := s.StreamSid()
	if streamSid == "" {
		s.bridge.logger.Debug(s.ctx, "ignoring interruption before stream start")
		return false
	}

	if err := s.telephony.SendClear(translator.InterruptionToClear(streamSid)); err != nil {
		s.bridge.logger.Error(s.logContext(), "failed to clear telephony audio", err)
		s.close(ReasonTelephonyWriteFailed)
		return true
	}

	s.bridge.logger.Debug(s.logContext(), "caller interrupted agent, cleared telephony audio")
	return false
}

// startToolCall dispatches on its own goroutine so audio relay continues while
// the tool runs.
func (s *Session) startToolCall(inv tools.Invocation) {
	s.stats.toolCalls.Add(1)
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		res := s.bridge.dispatcher.Dispatch(s.ctx, inv)
		select {
		case s.results <- res:
		case <-s.ctx.Done():
			s.bridge.logger.Debug(observability.WithFields(s.ctx,
				observability.Field{Key: "tool_call_id", Value: inv.ToolCallID},
			), "discarding tool result for closed session")
		}
	}()
}

func (s *Session) relayToolResults() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			s.close(ReasonCanceled)
			return
		case res := <-s.results:
			s.mu.RLock()
			agent := s.agent
			s.mu.RUnlock()

			if err := agent.SendToolResult(translator.ResultToMessage(res)); err != nil {
				s.bridge.logger.Error(s.logContext(), "failed to send tool result to agent", err)
				s.close(ReasonAgentWriteFailed)
				return
			}
		}
	}
}
