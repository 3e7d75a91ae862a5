// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestQuantizer_Interleaves(t *testing.T) {
	t.Parallel()

	b := &Buffer{
		SampleRate: 48000,
		Data: [][]float32{
			{0, 0.5, -0.5},
			{1, -1, 0},
		},
	}

	got, err := Quantizer{}.Quantize16(b)
	if err != nil {
		t.Fatalf("Quantize16() error = %v", err)
	}

	want := []int{0, 32767, 16383, -32767, -16383, 0}
	if !slices.Equal(got, want) {
		t.Errorf("Quantize16() = %v, want %v", got, want)
	}
}

func TestQuantizer_DitherBounds(t *testing.T) {
	t.Parallel()

	frames := 10000
	silence := make([]float32, frames)
	full := make([]float32, frames)
	for i := range full {
		full[i] = 1.2
	}

	b := &Buffer{SampleRate: 48000, Data: [][]float32{silence, full}}
	got, err := Quantizer{Dither: true, Seed: 7}.Quantize16(b)
	if err != nil {
		t.Fatalf("Quantize16() error = %v", err)
	}

	for f := range frames {
		s := got[f*2]
		if s < -1 || s > 1 {
			t.Fatalf("dithered silence at %d = %d, want within +/-1 LSB", f, s)
		}
		if v := got[f*2+1]; v != math.MaxInt16 {
			t.Fatalf("clipped sample at %d = %d, want %d", f, v, math.MaxInt16)
		}
	}
}

func TestQuantizer_DitherIsDeterministic(t *testing.T) {
	t.Parallel()

	ch := make([]float32, 1000)
	for i := range ch {
		ch[i] = float32(math.Sin(float64(i) * 0.01))
	}
	b := &Buffer{SampleRate: 48000, Data: [][]float32{ch}}

	q := Quantizer{Dither: true, Seed: 42}
	a, _ := q.Quantize16(b)
	c, _ := q.Quantize16(b)
	if !slices.Equal(a, c) {
		t.Error("same seed produced different output")
	}
}

func TestQuantizer_Errors(t *testing.T) {
	t.Parallel()

	if _, err := (Quantizer{}).Quantize16(&Buffer{}); !errors.Is(err, ErrNoChannels) {
		t.Errorf("error = %v, want ErrNoChannels", err)
	}

	ragged := &Buffer{Data: [][]float32{{0, 0}, {0}}}
	if _, err := (Quantizer{}).Quantize16(ragged); !errors.Is(err, ErrChannelLenMismatch) {
		t.Errorf("error = %v, want ErrChannelLenMismatch", err)
	}
}

func BenchmarkQuantizer_Dither(b *testing.B) {
	ch := make([]float32, 48000)
	buf := &Buffer{SampleRate: 48000, Data: [][]float32{ch, ch}}
	q := Quantizer{Dither: true, Seed: 1}

	b.ReportAllocs()
	for b.Loop() {
		_, _ = q.Quantize16(buf)
	}
}
