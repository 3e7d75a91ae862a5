// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// pcmStream serves little-endian int16 stereo in chunks of at most chunk
// bytes, the way go-mp3 hands out decoded frames.
type pcmStream struct {
	*bytes.Reader
	rate  int
	chunk int
	err   error
}

func newPCMStream(rate, chunk int, samples ...int16) *pcmStream {
	raw := make([]byte, 2*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(v))
	}
	return &pcmStream{Reader: bytes.NewReader(raw), rate: rate, chunk: chunk}
}

func (p *pcmStream) SampleRate() int { return p.rate }

func (p *pcmStream) Read(b []byte) (int, error) {
	if p.err != nil && p.Len() == 0 {
		return 0, p.err
	}
	if p.chunk > 0 && len(b) > p.chunk {
		b = b[:p.chunk]
	}
	return p.Reader.Read(b)
}

func drain(t *testing.T, s *source, size int) ([]float32, error) {
	t.Helper()

	var out []float32
	dst := make([]float32, size)
	for range 1000 {
		n, err := s.ReadSamples(dst)
		out = append(out, dst[:n]...)
		if err != nil {
			return out, err
		}
	}
	t.Fatal("source never reached EOF")
	return nil, nil
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	pcm := []int16{0, 0, 16384, -16384, 32767, -32768, 1, -1, 8192, 4096}
	want := []float32{0, 0, 0.5, -0.5, 32767.0 / 32768, -1, 1.0 / 32768, -1.0 / 32768, 0.25, 0.125}

	tests := []struct {
		name  string
		chunk int
		size  int
	}{
		{"one read", 0, 64},
		{"odd chunks", 3, 64},
		{"frame at a time", 4, 2},
		{"buffer smaller than stream", 0, 4},
		{"odd destination", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &source{dec: newPCMStream(44100, tt.chunk, pcm...), rate: 44100, channels: 2}
			got, err := drain(t, s, tt.size)
			if err != io.EOF {
				t.Fatalf("final error = %v, want io.EOF", err)
			}
			if len(got) != len(want) {
				t.Fatalf("got %d samples, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestSource_TrailingHalfFrame(t *testing.T) {
	t.Parallel()

	// Three samples: the last frame is incomplete and only its left half
	// is delivered.
	s := &source{dec: newPCMStream(48000, 0, 100, 200, 300), rate: 48000, channels: 2}
	got, err := drain(t, s, 8)
	if err != io.EOF || len(got) != 3 {
		t.Errorf("got %d samples, err %v; want 3, io.EOF", len(got), err)
	}
}

func TestSource_MonoKeepsLeft(t *testing.T) {
	t.Parallel()

	// go-mp3 duplicates mono samples; the right copies here are marked so a
	// wrong stride shows up.
	pcm := []int16{16384, 7, -16384, 7, 8192, 7, 100}
	want := []float32{0.5, -0.5, 0.25}

	for _, size := range []int{1, 2, 64} {
		s := &source{dec: newPCMStream(44100, 3, pcm...), rate: 44100, channels: 1}
		got, err := drain(t, s, size)
		if err != io.EOF {
			t.Fatalf("size %d: final error = %v, want io.EOF", size, err)
		}
		if len(got) != len(want) {
			t.Fatalf("size %d: got %v, want %v", size, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("size %d: sample %d = %v, want %v", size, i, got[i], want[i])
			}
		}
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	stream := newPCMStream(44100, 0)
	stream.err = boom

	s := &source{dec: stream, rate: 44100, channels: 2}
	if _, err := s.ReadSamples(make([]float32, 8)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	s := &source{dec: newPCMStream(22050, 0), rate: 22050, channels: 2, raw: make([]byte, 8192)}
	if s.SampleRate() != 22050 || s.Channels() != 2 || s.BufSize() != 4096 || s.Close() != nil {
		t.Errorf("rate=%d channels=%d bufsize=%d", s.SampleRate(), s.Channels(), s.BufSize())
	}
	if n, err := s.ReadSamples(make([]float32, 1)); n != 0 || err != nil {
		t.Errorf("ReadSamples(1) = %d, %v; want 0, nil", n, err)
	}
}

func TestSource_MonoMetadata(t *testing.T) {
	t.Parallel()

	s := &source{dec: newPCMStream(44100, 0), rate: 44100, channels: 1, raw: make([]byte, 8192)}
	if s.Channels() != 1 || s.BufSize() != 2048 {
		t.Errorf("channels=%d bufsize=%d, want 1, 2048", s.Channels(), s.BufSize())
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := map[string][]byte{
		"garbage": []byte("This is not MP3 data"),
		"empty":   {},
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(data)); !errors.Is(err, ErrNotMP3File) {
				t.Errorf("Decode() error = %v, want ErrNotMP3File", err)
			}
			if _, err := (Decoder{}).Probe(bytes.NewReader(data)); !errors.Is(err, ErrNotMP3File) {
				t.Errorf("Probe() error = %v, want ErrNotMP3File", err)
			}
		})
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	pcm := make([]int16, 2*44100)
	for i := range pcm {
		pcm[i] = int16(i)
	}
	dst := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		s := &source{dec: newPCMStream(44100, 0, pcm...), rate: 44100, channels: 2, raw: make([]byte, 8192)}
		for {
			if _, err := s.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
