// Package audio turns synthesized speech into something a client can play:
// PCM decoding, WAV framing and a deck that allows one playback at a time.
package audio

import (
	"encoding/binary"
	"math"
	"time"
)

const pcm16Scale = 32768

// DecodePCM16 converts little-endian signed 16-bit samples to floats in
// [-1, 1). A trailing odd byte is ignored.
func DecodePCM16(b []byte) []float32 {
	n := len(b) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(b[2*i:]))
		out[i] = float32(s) / pcm16Scale
	}
	return out
}

// EncodePCM16 is the inverse of DecodePCM16; samples are clamped to [-1, 1].
func EncodePCM16(samples []float32) []byte {
	out := make([]byte, 2*len(samples))
	for i, f := range samples {
		v := math.Round(float64(f) * pcm16Scale)
		if v > math.MaxInt16 {
			v = math.MaxInt16
		}
		if v < math.MinInt16 {
			v = math.MinInt16
		}
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(v)))
	}
	return out
}

// Duration of a 16-bit PCM buffer of byteLen bytes.
func Duration(byteLen, sampleRate, channels int) time.Duration {
	if sampleRate <= 0 || channels <= 0 {
		return 0
	}
	frames := byteLen / (2 * channels)
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}

// Peak returns the largest absolute sample value.
func Peak(samples []float32) float32 {
	var p float32
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > p {
			p = s
		}
	}
	return p
}
