// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/padkit/audio"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// ErrNotFlacFile indicates the input has no valid fLaC signature or STREAMINFO.
var ErrNotFlacFile = errors.New("not a FLAC file")

// frameParser is the part of flac.Stream the source needs, to allow testing
type frameParser interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	stream     frameParser
	sampleRate int
	channels   int
	scale      float32
	// pending holds interleaved samples of the last frame not yet returned.
	pending []float32
	done    bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return s.stream.Close() }
func (s *source) BufSize() int    { return 4096 * s.channels }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	for len(s.pending) == 0 {
		if s.done {
			return 0, io.EOF
		}

		f, err := s.stream.ParseNext()
		if errors.Is(err, io.EOF) {
			s.done = true
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("parsing flac frame: %w", err)
		}

		s.fill(f)
	}

	n := copy(dst, s.pending)
	s.pending = s.pending[n:]

	return n, nil
}

// fill interleaves the subframes of f into pending.
func (s *source) fill(f *frame.Frame) {
	if len(f.Subframes) == 0 {
		return
	}

	frames := len(f.Subframes[0].Samples)
	need := frames * s.channels
	if cap(s.pending) < need {
		s.pending = make([]float32, need)
	}
	s.pending = s.pending[:need]

	for c := range s.channels {
		if c >= len(f.Subframes) {
			break
		}
		for i, v := range f.Subframes[c].Samples {
			s.pending[i*s.channels+c] = float32(v) / s.scale
		}
	}
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	info := stream.Info
	if info.NChannels == 0 {
		stream.Close()
		return nil, audio.ErrNoChannels
	}

	return &source{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		scale:      float32(int64(1) << (info.BitsPerSample - 1)),
	}, nil
}

// Probe reads STREAMINFO. A total sample count of zero means the encoder
// did not know the length up front.
func (Decoder) Probe(r io.ReadSeeker) (audio.Info, error) {
	stream, err := flac.New(r)
	if err != nil {
		return audio.Info{}, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}
	defer stream.Close()

	info := stream.Info
	if info.NSamples == 0 {
		return audio.Info{}, audio.ErrUnknownLength
	}

	return audio.Info{
		Format:     "flac",
		SampleRate: int(info.SampleRate),
		Channels:   int(info.NChannels),
		BitDepth:   int(info.BitsPerSample),
		Frames:     int64(info.NSamples),
	}, nil
}
