package live

import "time"

// Event is the interface for all live session status events.
type Event interface {
	// EventType returns the event type string for serialization.
	EventType() string
}

// StateChangedEvent is emitted on every session state transition.
type StateChangedEvent struct {
	From SessionState `json:"from"`
	To   SessionState `json:"to"`
}

func (e *StateChangedEvent) EventType() string { return "state.changed" }

// ConnectedEvent is emitted when a connection (or reconnection) succeeds.
type ConnectedEvent struct {
	SessionID string `json:"session_id"`
}

func (e *ConnectedEvent) EventType() string { return "session.connected" }

// ReconnectingEvent is emitted before an automatic reconnection attempt.
type ReconnectingEvent struct {
	Attempt int           `json:"attempt"`
	Delay   time.Duration `json:"delay"`
}

func (e *ReconnectingEvent) EventType() string { return "session.reconnecting" }

// InputLevelEvent reports the RMS level of the latest capture frame for UI
// feedback. Zero while muted.
type InputLevelEvent struct {
	RMS float64 `json:"rms"`
}

func (e *InputLevelEvent) EventType() string { return "input.level" }

// PlaybackInterruptedEvent is emitted when the server signals the user spoke
// over in-progress playback and the queue was flushed.
type PlaybackInterruptedEvent struct{}

func (e *PlaybackInterruptedEvent) EventType() string { return "playback.interrupted" }

// SessionErrorEvent reports a session failure. Terminal errors require
// explicit user action to restart the session.
type SessionErrorEvent struct {
	Err      error `json:"-"`
	Terminal bool  `json:"terminal"`
}

func (e *SessionErrorEvent) EventType() string { return "session.error" }

// SessionClosedEvent is emitted once after a user-initiated stop.
type SessionClosedEvent struct{}

func (e *SessionClosedEvent) EventType() string { return "session.closed" }
