// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds generated audio used by tests across the module:
// in-memory sources and WAV fixtures written to disk.
package audiotest

import (
	"io"
	"math"
)

// MockSource generates audio on demand. It satisfies audio.Source without
// importing it, so every package's tests can use it.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int // frames to generate per channel
	generated  int
	waveform   func(frame int, channel int) float32
}

func NewMockSource(sampleRate, channels, frames int, waveform func(frame int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 {
		return value
	})
}

// NewSplitSource emits a distinct constant on each stereo side, which makes
// any cross-channel leakage visible.
func NewSplitSource(sampleRate, frames int, left, right float32) *MockSource {
	return NewMockSource(sampleRate, 2, frames, func(_ int, channel int) float32 {
		if channel == 0 {
			return left
		}
		return right
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }

// Reset rewinds the generator.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.frames {
		return 0, io.EOF
	}

	toWrite := min(len(dst)/m.channels, m.frames-m.generated)
	for f := range toWrite {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}

	m.generated += toWrite
	written := toWrite * m.channels

	if m.generated >= m.frames {
		return written, io.EOF
	}

	return written, nil
}
