// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/padkit/audio"
)

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source wraps go-audio aiff.Decoder to implement audio.Source
type source struct {
	dec        aiffReader
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	// AIFF PCM is signed at every depth, 8-bit included.
	maxVal := float32(int64(1) << (s.bitDepth - 1))
	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]) / maxVal
	}

	if n < len(dst) && err == nil {
		return n, io.EOF
	}

	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := audio.Seekable(r)
	if err != nil {
		return nil, err
	}

	dec, err := open(rs)
	if err != nil {
		return nil, err
	}

	format := dec.Format()
	if format == nil {
		return nil, ErrUnsupportedAiffLayout
	}

	return &source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   int(dec.BitDepth),
	}, nil
}

// Probe reads the COMM chunk only.
func (Decoder) Probe(r io.ReadSeeker) (audio.Info, error) {
	dec, err := open(r)
	if err != nil {
		return audio.Info{}, err
	}

	d, err := dec.Duration()
	if err != nil {
		return audio.Info{}, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, err)
	}

	return audio.Info{
		Format:     "aiff",
		SampleRate: dec.SampleRate,
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		Frames:     int64(math.Round(d.Seconds() * float64(dec.SampleRate))),
		PCM:        true,
	}, nil
}

func open(rs io.ReadSeeker) (*aiff.Decoder, error) {
	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, ErrUnsupportedBitDepth
	}

	if dec.SampleRate <= 0 || dec.NumChans == 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	return dec, nil
}
