package main

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gen2brain/malgo"

	"github.com/medisage-ai/medisage-go/pkg/core"
	"github.com/medisage-ai/medisage-go/pkg/core/audio"
)

// micCapture implements the session's capture source on top of malgo. Each
// Start/Close cycle owns its own audio context so the device can be
// re-acquired across reconnections.
type micCapture struct {
	mu      sync.Mutex
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	frames  chan []float32
	started bool
}

func newMicCapture() *micCapture {
	return &micCapture{}
}

func (m *micCapture) Start(_ context.Context) (<-chan []float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return nil, core.NewInvalidRequestError("capture device already acquired")
	}

	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{ThreadPriority: malgo.ThreadPriorityRealtime}, nil)
	if err != nil {
		return nil, core.NewConnectionError("init audio context", err)
	}

	frames := make(chan []float32, 16)

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(audio.InputRate)
	deviceConfig.PeriodSizeInMilliseconds = 20

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			select {
			case frames <- decodeS16(input):
			default:
				// Drop the frame when the consumer lags; capture must not block.
			}
		},
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, callbacks)
	if err != nil {
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
		return nil, core.NewConnectionError("init microphone", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
		return nil, core.NewConnectionError("start microphone", err)
	}

	m.ctx = malgoCtx
	m.device = device
	m.frames = frames
	m.started = true
	return frames, nil
}

func (m *micCapture) SampleRate() int { return audio.InputRate }

func (m *micCapture) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return nil
	}
	m.device.Uninit()
	_ = m.ctx.Uninit()
	m.ctx.Free()
	close(m.frames)
	m.device, m.ctx, m.frames = nil, nil, nil
	m.started = false
	return nil
}

// speakerSink implements the session's playback sink on top of oto. Buffers
// arrive already ordered back-to-back, so they are appended to a pull buffer
// the player drains; StopAll clears it for interruptions.
type speakerSink struct {
	otoCtx *oto.Context

	mu      sync.Mutex
	cond    *sync.Cond
	buf     []byte
	player  *oto.Player
	playing bool
	closed  bool
}

func newSpeakerSink() (*speakerSink, error) {
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   audio.OutputRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   100 * time.Millisecond,
	})
	if err != nil {
		return nil, core.NewConnectionError("init speaker", err)
	}
	<-ready

	s := &speakerSink{otoCtx: otoCtx}
	s.cond = sync.NewCond(&s.mu)
	return s, nil
}

func (s *speakerSink) PlayAt(buf audio.Buffer, _ time.Time) {
	data := encodeS16(buf.Data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.buf = append(s.buf, data...)
	if !s.playing {
		s.playing = true
		s.player = s.otoCtx.NewPlayer(s)
		s.player.Play()
	}
	s.cond.Signal()
}

func (s *speakerSink) StopAll() {
	s.mu.Lock()
	s.buf = s.buf[:0]
	if s.player != nil && s.playing {
		s.playing = false
		player := s.player
		s.player = nil
		s.mu.Unlock()

		// Reset clears oto's internal buffer so stale audio cannot overlap
		// whatever plays next.
		player.Pause()
		player.Reset()
		player.Close()
		return
	}
	s.mu.Unlock()
}

// Read implements io.Reader for oto.Player; it blocks until audio is
// available or the sink closes.
func (s *speakerSink) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.buf) == 0 && !s.closed {
		s.cond.Wait()
	}
	if s.closed && len(s.buf) == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

func (s *speakerSink) Close() {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	player := s.player
	s.player = nil
	s.mu.Unlock()

	if player != nil {
		player.Close()
	}
}

func decodeS16(data []byte) []float32 {
	samples := make([]float32, len(data)/2)
	for i := range samples {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(data[i*2:]))) / 32768
	}
	return samples
}

func encodeS16(samples []float32) []byte {
	data := make([]byte, len(samples)*2)
	for i, sample := range samples {
		switch {
		case sample > 1:
			sample = 1
		case sample < -1:
			sample = -1
		}
		var value int16
		if sample < 0 {
			value = int16(sample * 32768)
		} else {
			value = int16(sample * 32767)
		}
		binary.LittleEndian.PutUint16(data[i*2:], uint16(value))
	}
	return data
}
