package live

import "context"

// CaptureSource is the minimal abstraction over the microphone. Start
// acquires the device and returns a channel of fixed-size sample frames in
// [-1, 1]; Close releases the device and ends the channel. A source must
// support repeated Start/Close cycles so the session can re-acquire it across
// reconnections, and Close must be safe when the device was never started.
type CaptureSource interface {
	Start(ctx context.Context) (<-chan []float32, error)

	// SampleRate reports the native capture rate of the frames.
	SampleRate() int

	Close() error
}
