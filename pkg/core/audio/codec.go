// Package audio provides stateless conversions between raw capture-rate float
// samples and the wire's base64-wrapped 16-bit little-endian PCM encoding.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/medisage-ai/medisage-go/pkg/core"
)

const (
	// InputRate is the sample rate the service expects for outbound audio.
	InputRate = 16000
	// OutputRate is the sample rate of inbound playback audio.
	OutputRate = 24000

	bytesPerSample = 2
)

// EncodeOutbound converts capture samples in [-1, 1] at sourceRate to the
// transport encoding: nearest-neighbor resample to targetRate, clamp, scale to
// signed 16-bit, serialize little-endian and base64-wrap. Empty input yields
// an empty string.
func EncodeOutbound(samples []float32, sourceRate, targetRate int) string {
	if len(samples) == 0 {
		return ""
	}
	if targetRate <= 0 {
		targetRate = InputRate
	}
	if sourceRate <= 0 {
		sourceRate = targetRate
	}

	outLen := len(samples)
	if sourceRate != targetRate {
		outLen = len(samples) * targetRate / sourceRate
		if outLen == 0 {
			return ""
		}
	}

	pcm := make([]byte, outLen*bytesPerSample)
	for i := 0; i < outLen; i++ {
		idx := i * sourceRate / targetRate
		if idx >= len(samples) {
			idx = len(samples) - 1
		}
		binary.LittleEndian.PutUint16(pcm[i*bytesPerSample:], uint16(quantize(samples[idx])))
	}
	return base64.StdEncoding.EncodeToString(pcm)
}

// quantize clamps a sample to [-1, 1] and scales it to the signed 16-bit
// range. Negative values scale by 32768 so -1.0 maps exactly to -32768.
func quantize(s float32) int16 {
	if s < -1 {
		s = -1
	}
	if s > 1 {
		s = 1
	}
	if s < 0 {
		return int16(s * 32768)
	}
	return int16(s * 32767)
}

// DecodeInbound converts a base64 transport payload of 16-bit little-endian
// PCM into a playback Buffer at the given rate. Returns a decode error when
// the payload is not valid base64 or the byte length is not a multiple of the
// sample size.
func DecodeInbound(transport string, sampleRate, channels int) (Buffer, error) {
	if sampleRate <= 0 {
		sampleRate = OutputRate
	}
	if channels <= 0 {
		channels = 1
	}

	pcm, err := base64.StdEncoding.DecodeString(transport)
	if err != nil {
		return Buffer{}, core.NewDecodeError(fmt.Sprintf("invalid audio payload: %v", err))
	}
	if len(pcm)%bytesPerSample != 0 {
		return Buffer{}, core.NewDecodeError(fmt.Sprintf("pcm payload length %d is not a multiple of %d", len(pcm), bytesPerSample))
	}

	data := make([]float32, len(pcm)/bytesPerSample)
	for i := range data {
		sample := int16(binary.LittleEndian.Uint16(pcm[i*bytesPerSample:]))
		data[i] = float32(sample) / 32768.0
	}
	return Buffer{Data: data, SampleRate: sampleRate, Channels: channels}, nil
}
