// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/padkit/audio"
	"github.com/jfreymuth/oggvorbis"
)

// ErrNotVorbisFile indicates the input is not an Ogg Vorbis stream.
var ErrNotVorbisFile = errors.New("not an Ogg Vorbis file")

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	// Read fills p with interleaved samples and returns how many values
	// were written.
	Read(p []float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	// Whole frames only, so channels stay aligned across calls.
	usable := len(dst) - len(dst)%s.channels
	if usable == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst[:usable])
	if n == 0 && err == nil {
		return 0, nil
	}

	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}

	if dec.Channels() <= 0 {
		return nil, audio.ErrNoChannels
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}

// Probe reads the identification header and the last granule position.
func (Decoder) Probe(r io.ReadSeeker) (audio.Info, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return audio.Info{}, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}

	frames := dec.Length()
	if frames <= 0 {
		return audio.Info{}, audio.ErrUnknownLength
	}

	return audio.Info{
		Format:     "ogg",
		SampleRate: dec.SampleRate(),
		Channels:   dec.Channels(),
		Frames:     frames,
	}, nil
}
