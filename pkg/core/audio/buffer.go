package audio

import "time"

// Buffer is a decoded block of playback samples.
type Buffer struct {
	Data       []float32
	SampleRate int
	Channels   int
}

// Duration returns the playback duration of the buffer.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 || b.Channels <= 0 || len(b.Data) == 0 {
		return 0
	}
	frames := len(b.Data) / b.Channels
	return time.Duration(frames) * time.Second / time.Duration(b.SampleRate)
}

// Silence returns a frame of n zero samples. Used to keep the outbound stream
// alive while the session is muted.
func Silence(n int) []float32 {
	return make([]float32, n)
}
