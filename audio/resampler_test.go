// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/padkit/internal/audiotest"
)

func readBuffer(t *testing.T, src Source) *Buffer {
	t.Helper()

	buf, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return buf
}

func TestOutputFrames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		n, src, dst, want int
	}{
		{"same rate", 1234, 48000, 48000, 1234},
		{"44.1k to 48k two seconds", 88200, 44100, 48000, 96000},
		{"96k to 48k", 9600, 96000, 48000, 4800},
		{"22.05k to 48k", 22050, 22050, 48000, 48000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := OutputFrames(tt.n, tt.src, tt.dst); got != tt.want {
				t.Errorf("OutputFrames(%d, %d, %d) = %d, want %d", tt.n, tt.src, tt.dst, got, tt.want)
			}
		})
	}
}

func TestResampler_SameRateCopies(t *testing.T) {
	t.Parallel()

	r := NewResampler(0, 0)
	in := []float32{0.1, 0.2, 0.3}
	out := r.ResampleChannel(in, 48000, 48000)

	in[0] = 9
	if out[0] != 0.1 || len(out) != 3 {
		t.Errorf("ResampleChannel() = %v, want independent copy of input", out)
	}
}

func TestResampler_PreservesDC(t *testing.T) {
	t.Parallel()

	r := NewResampler(0, 0)
	buf := readBuffer(t, audiotest.NewConstantSource(44100, 1, 44100, 0.5))

	out, err := r.Resample(buf, 48000)
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}

	if out.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", out.SampleRate)
	}
	if out.Frames() != 48000 {
		t.Fatalf("Frames() = %d, want 48000", out.Frames())
	}

	// Away from the edges the kernel sums to unity.
	for i := 1000; i < out.Frames()-1000; i++ {
		if math.Abs(float64(out.Data[0][i]-0.5)) > 0.005 {
			t.Fatalf("out[%d] = %v, want ≈0.5", i, out.Data[0][i])
		}
	}
}

func TestResampler_KeepsChannelsApart(t *testing.T) {
	t.Parallel()

	r := NewResampler(0, 0)
	buf := readBuffer(t, audiotest.NewSplitSource(22050, 22050, 0.8, -0.2))

	out, err := r.Resample(buf, 48000)
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}

	if out.Channels() != 2 {
		t.Fatalf("Channels() = %d, want 2", out.Channels())
	}

	mid := out.Frames() / 2
	if l := out.Data[0][mid]; math.Abs(float64(l-0.8)) > 0.01 {
		t.Errorf("left = %v, want ≈0.8", l)
	}
	if r := out.Data[1][mid]; math.Abs(float64(r+0.2)) > 0.01 {
		t.Errorf("right = %v, want ≈-0.2", r)
	}
}

// A tone above the destination Nyquist frequency must be removed when
// downsampling, not folded back into the audible band.
func TestResampler_DownsamplingRejectsAliases(t *testing.T) {
	t.Parallel()

	r := NewResampler(0, 0)
	buf := readBuffer(t, audiotest.NewSineSource(96000, 1, 96000, 36000))

	out, err := r.Resample(buf, 48000)
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}

	var peak float64
	for i := 2000; i < out.Frames()-2000; i++ {
		peak = max(peak, math.Abs(float64(out.Data[0][i])))
	}
	if peak > 0.01 {
		t.Errorf("alias peak = %v, want < 0.01", peak)
	}
}

func TestResampler_PassbandTone(t *testing.T) {
	t.Parallel()

	r := NewResampler(0, 0)
	buf := readBuffer(t, audiotest.NewSineSource(44100, 1, 44100, 1000))

	out, err := r.Resample(buf, 48000)
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}

	for i := 2000; i < out.Frames()-2000; i += 97 {
		want := math.Sin(2 * math.Pi * 1000 * float64(i) / 48000)
		if diff := math.Abs(float64(out.Data[0][i]) - want); diff > 0.01 {
			t.Fatalf("out[%d] = %v, want ≈%v", i, out.Data[0][i], want)
		}
	}
}

func TestResampler_Errors(t *testing.T) {
	t.Parallel()

	r := NewResampler(0, 0)

	if _, err := r.Resample(&Buffer{SampleRate: 0, Data: [][]float32{{0}}}, 48000); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("error = %v, want ErrInvalidRate", err)
	}
	if _, err := r.Resample(&Buffer{SampleRate: 44100}, 48000); !errors.Is(err, ErrNoChannels) {
		t.Errorf("error = %v, want ErrNoChannels", err)
	}
}

func BenchmarkResampler_44k1To48k(b *testing.B) {
	r := NewResampler(0, 0)
	ch := make([]float32, 44100)
	for i := range ch {
		ch[i] = float32(math.Sin(float64(i) * 0.05))
	}

	b.ReportAllocs()
	for b.Loop() {
		_ = r.ResampleChannel(ch, 44100, 48000)
	}
}
