// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/padkit/audio"
	"github.com/ik5/padkit/internal/audiotest"
	"github.com/mewkiz/flac/frame"
)

type mockStream struct {
	frames []*frame.Frame
	failAt int
	closed bool
}

func (m *mockStream) ParseNext() (*frame.Frame, error) {
	if m.failAt == 1 {
		return nil, io.ErrUnexpectedEOF
	}
	if m.failAt > 0 {
		m.failAt--
	}

	if len(m.frames) == 0 {
		return nil, io.EOF
	}

	f := m.frames[0]
	m.frames = m.frames[1:]
	return f, nil
}

func (m *mockStream) Close() error {
	m.closed = true
	return nil
}

func stereoFrame(left, right []int32) *frame.Frame {
	return &frame.Frame{
		Subframes: []*frame.Subframe{
			{Samples: left},
			{Samples: right},
		},
	}
}

func TestSource_ReadSamples_Interleaves(t *testing.T) {
	t.Parallel()

	stream := &mockStream{frames: []*frame.Frame{
		stereoFrame([]int32{0, 16384}, []int32{-16384, -32768}),
		stereoFrame([]int32{8192}, []int32{-8192}),
	}}
	src := &source{stream: stream, sampleRate: 44100, channels: 2, scale: 32768}

	var got []float32
	buf := make([]float32, 3)
	for {
		n, err := src.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	want := []float32{0, -0.5, 0.5, -1, 0.25, -0.25}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}

	if err := src.Close(); err != nil || !stream.closed {
		t.Errorf("Close() = %v, closed = %v", err, stream.closed)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := &source{stream: &mockStream{failAt: 1}, channels: 1, scale: 32768}

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	data := []byte("RIFF but not flac at all")

	if _, err := (Decoder{}).Decode(bytes.NewReader(data)); !errors.Is(err, ErrNotFlacFile) {
		t.Errorf("Decode() error = %v, want ErrNotFlacFile", err)
	}
	if _, err := (Decoder{}).Probe(bytes.NewReader(data)); !errors.Is(err, ErrNotFlacFile) {
		t.Errorf("Probe() error = %v, want ErrNotFlacFile", err)
	}
}

func TestDecoder_EncodedStream(t *testing.T) {
	t.Parallel()

	frames := audiotest.FramesFor(44100, 250)
	pcm := audiotest.Sine16(44100, 2, frames, 440)
	data, err := audiotest.FLACBytes(44100, 2, pcm)
	if err != nil {
		t.Fatal(err)
	}

	info, err := Decoder{}.Probe(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if info.SampleRate != 44100 || info.Channels != 2 || info.BitDepth != 16 || info.Frames != int64(frames) {
		t.Errorf("Probe() = %+v", info)
	}

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	buf, err := audio.ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if buf.Channels() != 2 || buf.Frames() != frames {
		t.Fatalf("decoded %d ch x %d frames, want 2 x %d", buf.Channels(), buf.Frames(), frames)
	}
	if got, want := buf.Data[0][100], float32(pcm[200])/32768; got != want {
		t.Errorf("left sample 100 = %v, want %v", got, want)
	}
}
