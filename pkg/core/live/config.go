package live

import "time"

// SessionState represents the current state of the live session.
type SessionState int

const (
	// StateIdle is the initial state before the session is started.
	StateIdle SessionState = iota
	// StateConnecting is while the first connection is being opened.
	StateConnecting
	// StateActive is when the duplex session is up and pumping audio.
	StateActive
	// StateReconnecting is the bounded backoff window after a connection loss.
	StateReconnecting
	// StateClosed is after a user-initiated stop.
	StateClosed
	// StateFailed is after the reconnection budget is exhausted.
	StateFailed
)

// String returns a human-readable state name.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateActive:
		return "ACTIVE"
	case StateReconnecting:
		return "RECONNECTING"
	case StateClosed:
		return "CLOSED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// SessionConfig holds all configuration for a live session.
type SessionConfig struct {
	// Model is the live model identifier.
	Model string

	// Voice selects the prebuilt voice persona.
	Voice string

	// SystemInstruction is the persona prompt for the session.
	SystemInstruction string

	// PlaybackRate is the inbound audio sample rate in Hz. Default: 24000.
	PlaybackRate int

	// MaxReconnectAttempts bounds consecutive automatic reconnections before
	// the session gives up. Default: 3.
	MaxReconnectAttempts int

	// ReconnectBaseDelay scales the wait before reconnect attempt n as
	// base * n. Default: 500ms.
	ReconnectBaseDelay time.Duration

	// ReconnectOnSendError treats a failed outbound send as a connection
	// loss. Off by default: sends are best-effort and only connection-level
	// close/error events trigger reconnection.
	ReconnectOnSendError bool
}

const (
	defaultMaxReconnectAttempts = 3
	defaultReconnectBaseDelay   = 500 * time.Millisecond
)

func (c SessionConfig) withDefaults() SessionConfig {
	if c.PlaybackRate <= 0 {
		c.PlaybackRate = 24000
	}
	if c.MaxReconnectAttempts <= 0 {
		c.MaxReconnectAttempts = defaultMaxReconnectAttempts
	}
	if c.ReconnectBaseDelay <= 0 {
		c.ReconnectBaseDelay = defaultReconnectBaseDelay
	}
	return c
}
