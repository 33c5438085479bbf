// Package live implements the duplex voice session: connection lifecycle,
// the capture→encode→send pump, gapless playback scheduling, interruption
// handling, and bounded automatic reconnection.
package live

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/medisage-ai/medisage-go/pkg/core"
	"github.com/medisage-ai/medisage-go/pkg/core/audio"
)

// Session owns exactly one duplex voice session: its capture device, its
// connection, and its playback queue. A session can be started again only
// from Idle or Failed; a stopped session stays Closed.
type Session struct {
	config    SessionConfig
	dialer    Dialer
	capture   CaptureSource
	scheduler *Scheduler
	logger    *slog.Logger

	sessionID string

	mu       sync.Mutex
	state    SessionState
	attempts int
	conn     Conn
	cancel   context.CancelFunc

	muted   atomic.Bool
	stopped atomic.Bool

	events chan Event
}

// NewSession creates a session. The dialer, capture source and sink are the
// session's external collaborators; it owns their lifecycle between Start and
// Stop.
func NewSession(config SessionConfig, dialer Dialer, capture CaptureSource, sink Sink) *Session {
	return &Session{
		config:    config.withDefaults(),
		dialer:    dialer,
		capture:   capture,
		scheduler: NewScheduler(sink),
		logger:    slog.Default(),
		sessionID: uuid.NewString(),
		state:     StateIdle,
		events:    make(chan Event, 64),
	}
}

// SetLogger replaces the session logger. Call before Start.
func (s *Session) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// SessionID returns the session identifier.
func (s *Session) SessionID() string {
	return s.sessionID
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Events returns the channel of session status events.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Mute toggles whether outgoing audio is replaced with silence. The pump
// keeps running either way so the stream stays alive.
func (s *Session) Mute(muted bool) {
	s.muted.Store(muted)
}

// Muted reports whether outgoing audio is currently muted.
func (s *Session) Muted() bool {
	return s.muted.Load()
}

// Start begins the session. Valid only from Idle or Failed; a no-op while
// already connecting or active. Connection progress and failures are reported
// through Events.
func (s *Session) Start(ctx context.Context) error {
	if s.stopped.Load() {
		return core.NewInvalidRequestError("session is closed")
	}

	s.mu.Lock()
	switch s.state {
	case StateIdle, StateFailed:
	case StateConnecting, StateActive, StateReconnecting:
		s.mu.Unlock()
		return nil
	default:
		s.mu.Unlock()
		return core.NewInvalidRequestError("session is closed")
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.attempts = 0
	s.setStateLocked(StateConnecting)
	s.mu.Unlock()

	go s.connect(ctx)
	return nil
}

// Stop ends the session. The manual-disconnect flag is set synchronously so
// no automatic reconnection can follow; all acquired resources are released
// and the playback queue is cleared. Idempotent.
func (s *Session) Stop() {
	if s.stopped.Swap(true) {
		return
	}

	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	cancel := s.cancel
	s.setStateLocked(StateClosed)
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close()
	}
	_ = s.capture.Close()
	s.scheduler.Flush()
	s.emit(&SessionClosedEvent{})
}

// connect acquires the capture device, dials the service and, on success,
// starts the pump and read loops. Failures feed the reconnection machine.
func (s *Session) connect(ctx context.Context) {
	if s.stopped.Load() {
		return
	}

	frames, err := s.capture.Start(ctx)
	if err != nil {
		_ = s.capture.Close()
		s.reconnect(ctx, core.NewConnectionError("acquire capture device", err))
		return
	}

	conn, err := s.dialer.Dial(ctx, LiveConfig{
		Model:             s.config.Model,
		Voice:             s.config.Voice,
		SystemInstruction: s.config.SystemInstruction,
		InputRate:         audio.InputRate,
		OutputRate:        s.config.PlaybackRate,
	})
	if err != nil {
		_ = s.capture.Close()
		if s.stopped.Load() {
			return
		}
		s.reconnect(ctx, err)
		return
	}

	s.mu.Lock()
	if s.stopped.Load() || s.state == StateClosed {
		s.mu.Unlock()
		_ = conn.Close()
		_ = s.capture.Close()
		return
	}
	s.conn = conn
	s.attempts = 0
	s.setStateLocked(StateActive)
	s.mu.Unlock()

	s.emit(&ConnectedEvent{SessionID: s.sessionID})
	go s.pumpLoop(ctx, conn, frames)
	go s.readLoop(ctx, conn)
}

// pumpLoop forwards capture frames to the wire on the capture cadence. While
// muted it substitutes silence of equal length but keeps transmitting.
func (s *Session) pumpLoop(ctx context.Context, conn Conn, frames <-chan []float32) {
	rate := s.capture.SampleRate()
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			if s.stopped.Load() || !s.isCurrent(conn) {
				return
			}

			var payload string
			if s.muted.Load() {
				s.emit(&InputLevelEvent{RMS: 0})
				payload = audio.EncodeOutbound(audio.Silence(len(frame)), rate, audio.InputRate)
			} else {
				s.emit(&InputLevelEvent{RMS: audio.RMS(frame)})
				payload = audio.EncodeOutbound(frame, rate, audio.InputRate)
			}
			if payload == "" {
				continue
			}

			if err := conn.Send(payload); err != nil {
				if s.config.ReconnectOnSendError {
					s.handleConnLost(ctx, conn, core.NewConnectionError("send audio frame", err))
					return
				}
				// Best-effort: connection-level events decide reconnection.
				s.logger.Warn("dropping outbound audio frame", "error", err)
			}
		}
	}
}

// readLoop consumes inbound server events until the connection ends.
func (s *Session) readLoop(ctx context.Context, conn Conn) {
	for event := range conn.Events() {
		if s.stopped.Load() {
			return
		}
		switch e := event.(type) {
		case ServerOpenedEvent:
			// Setup completion is implied by a successful dial.
		case ServerAudioEvent:
			buf, err := audio.DecodeInbound(e.Data, s.config.PlaybackRate, 1)
			if err != nil {
				s.logger.Warn("dropping malformed inbound frame", "error", err)
				continue
			}
			s.scheduler.Schedule(buf)
		case ServerInterruptedEvent:
			s.scheduler.Flush()
			s.emit(&PlaybackInterruptedEvent{})
		case ServerClosedEvent:
			s.handleConnLost(ctx, conn, e.Err)
			return
		}
	}

	// Event channel ended without a close frame; treat as connection loss.
	s.handleConnLost(ctx, conn, core.NewConnectionError("event stream ended", nil))
}

// handleConnLost tears down the given connection and enters the reconnection
// machine, unless the loss belongs to a stale connection or a manual stop.
func (s *Session) handleConnLost(ctx context.Context, conn Conn, cause error) {
	s.mu.Lock()
	if s.conn != conn {
		s.mu.Unlock()
		return
	}
	s.conn = nil
	s.mu.Unlock()

	_ = conn.Close()
	_ = s.capture.Close()

	if s.stopped.Load() {
		return
	}
	s.reconnect(ctx, cause)
}

// reconnect runs one step of the bounded backoff reconnection machine.
func (s *Session) reconnect(ctx context.Context, cause error) {
	s.mu.Lock()
	if s.stopped.Load() || s.state == StateClosed || s.state == StateFailed {
		s.mu.Unlock()
		return
	}
	if s.attempts >= s.config.MaxReconnectAttempts {
		s.setStateLocked(StateFailed)
		s.mu.Unlock()
		s.emit(&SessionErrorEvent{
			Err:      core.NewConnectionError("connection unstable", cause),
			Terminal: true,
		})
		return
	}
	s.attempts++
	attempt := s.attempts
	s.setStateLocked(StateReconnecting)
	s.mu.Unlock()

	delay := s.config.ReconnectBaseDelay * time.Duration(attempt)
	s.logger.Info("reconnecting live session", "attempt", attempt, "delay", delay, "cause", cause)
	s.emit(&ReconnectingEvent{Attempt: attempt, Delay: delay})

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return
	}
	if s.stopped.Load() {
		return
	}
	s.connect(ctx)
}

// isCurrent reports whether conn is still the session's active connection.
func (s *Session) isCurrent(conn Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn == conn
}

// setStateLocked transitions the state and emits the change. Caller holds mu.
func (s *Session) setStateLocked(to SessionState) {
	if s.state == to {
		return
	}
	from := s.state
	s.state = to
	s.emit(&StateChangedEvent{From: from, To: to})
}

// emit delivers an event without blocking the session loops.
func (s *Session) emit(event Event) {
	select {
	case s.events <- event:
	default:
		// Avoid deadlocking the loops if the caller stops consuming.
	}
}
