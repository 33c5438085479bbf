package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/medisage-ai/medisage-go/pkg/core"
)

func TestEncodeOutbound_EmptyInput(t *testing.T) {
	if got := EncodeOutbound(nil, InputRate, InputRate); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestEncodeOutbound_Quantization(t *testing.T) {
	tests := []struct {
		name     string
		sample   float32
		expected int16
	}{
		{name: "zero", sample: 0, expected: 0},
		{name: "full positive", sample: 1.0, expected: 32767},
		{name: "full negative", sample: -1.0, expected: -32768},
		{name: "half positive", sample: 0.5, expected: 16383},
		{name: "half negative", sample: -0.5, expected: -16384},
		{name: "clamped above", sample: 1.7, expected: 32767},
		{name: "clamped below", sample: -2.3, expected: -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := EncodeOutbound([]float32{tt.sample}, InputRate, InputRate)
			pcm, err := base64.StdEncoding.DecodeString(out)
			if err != nil {
				t.Fatalf("output is not valid base64: %v", err)
			}
			if len(pcm) != 2 {
				t.Fatalf("expected 2 bytes, got %d", len(pcm))
			}
			got := int16(binary.LittleEndian.Uint16(pcm))
			if got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestEncodeOutbound_Resample(t *testing.T) {
	// 48kHz -> 16kHz keeps every third sample via truncated index mapping.
	in := make([]float32, 12)
	for i := range in {
		in[i] = float32(i) / 100
	}
	out := EncodeOutbound(in, 48000, 16000)
	pcm, err := base64.StdEncoding.DecodeString(out)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	if len(pcm) != 8 {
		t.Fatalf("expected 4 samples (8 bytes), got %d bytes", len(pcm))
	}
	for i := 0; i < 4; i++ {
		got := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		want := int16(in[i*3] * 32767)
		if got != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestRoundTrip_IdentityRate(t *testing.T) {
	in := []float32{0, 0.25, -0.25, 0.99, -0.99, 0.001, -0.001}
	encoded := EncodeOutbound(in, InputRate, InputRate)
	buf, err := DecodeInbound(encoded, InputRate, 1)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(buf.Data) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(buf.Data))
	}
	for i := range in {
		if diff := math.Abs(float64(buf.Data[i] - in[i])); diff > 1.0/32768 {
			t.Errorf("sample %d: expected %.6f within 1/32768, got %.6f", i, in[i], buf.Data[i])
		}
	}
}

func TestDecodeInbound_OddLength(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte{0x01, 0x02, 0x03})
	_, err := DecodeInbound(payload, OutputRate, 1)
	if err == nil {
		t.Fatal("expected decode error for odd-length payload")
	}
	var coreErr *core.Error
	if !errors.As(err, &coreErr) || coreErr.Type != core.ErrDecode {
		t.Errorf("expected decode_error, got %v", err)
	}
}

func TestDecodeInbound_InvalidBase64(t *testing.T) {
	_, err := DecodeInbound("not base64!!", OutputRate, 1)
	if err == nil {
		t.Fatal("expected decode error for invalid base64")
	}
}

func TestBufferDuration(t *testing.T) {
	buf := Buffer{Data: make([]float32, OutputRate/2), SampleRate: OutputRate, Channels: 1}
	if got := buf.Duration().Milliseconds(); got != 500 {
		t.Errorf("expected 500ms, got %dms", got)
	}
}

func TestRMS(t *testing.T) {
	tests := []struct {
		name     string
		samples  []float32
		expected float64
	}{
		{name: "silence", samples: []float32{0, 0, 0, 0}, expected: 0},
		{name: "full scale", samples: []float32{1, 1, 1, 1}, expected: 1},
		{name: "half scale", samples: []float32{0.5, -0.5, 0.5, -0.5}, expected: 0.5},
		{name: "empty", samples: nil, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RMS(tt.samples); math.Abs(got-tt.expected) > 0.01 {
				t.Errorf("expected RMS %.3f, got %.3f", tt.expected, got)
			}
		})
	}
}
