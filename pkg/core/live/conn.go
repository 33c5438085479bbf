package live

import "context"

// LiveConfig holds the session parameters negotiated when opening a duplex
// connection.
type LiveConfig struct {
	Model             string
	Voice             string
	SystemInstruction string

	// InputRate and OutputRate are the wire sample rates for outbound and
	// inbound audio. Zero values default to 16000 and 24000.
	InputRate  int
	OutputRate int
}

// ServerEvent is the closed set of events a duplex connection can deliver.
type ServerEvent interface {
	serverEventType() string
}

// ServerOpenedEvent signals that session setup completed.
type ServerOpenedEvent struct{}

func (e ServerOpenedEvent) serverEventType() string { return "opened" }

// ServerAudioEvent carries one inbound audio frame in the transport encoding.
type ServerAudioEvent struct {
	Data string
}

func (e ServerAudioEvent) serverEventType() string { return "audio" }

// ServerInterruptedEvent signals that the user spoke over in-progress
// playback; all scheduled audio must be flushed immediately.
type ServerInterruptedEvent struct{}

func (e ServerInterruptedEvent) serverEventType() string { return "interrupted" }

// ServerClosedEvent signals that the connection ended. Err is nil on a clean
// close.
type ServerClosedEvent struct {
	Err error
}

func (e ServerClosedEvent) serverEventType() string { return "closed" }

// Conn is an open duplex channel to the live service. Events terminates with
// a ServerClosedEvent (and is then closed) exactly once.
type Conn interface {
	// Send transmits one outbound media frame. Best-effort during normal
	// operation; connection loss is reported through Events.
	Send(frame string) error

	Events() <-chan ServerEvent

	Close() error
}

// Dialer opens duplex connections. Implementations must respect ctx
// cancellation during the handshake.
type Dialer interface {
	Dial(ctx context.Context, cfg LiveConfig) (Conn, error)
}
