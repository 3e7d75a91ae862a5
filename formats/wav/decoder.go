// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/padkit/audio"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// pcmReader is the part of gowav.Decoder the source needs, to allow testing
type pcmReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type wavSource struct {
	dec        pcmReader
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer
}

func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int   { return s.channels }
func (s *wavSource) Close() error    { return nil }

func (s *wavSource) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
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
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("%w", err)
		}
		return 0, io.EOF
	}

	scale := fullScale(s.bitDepth)
	for i := range n {
		v := s.intBuf.Data[i]
		if s.bitDepth == 8 {
			// 8-bit WAV is unsigned
			v -= 128
		}
		dst[i] = float32(v) / scale
	}

	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w", err)
	}
	if err == io.EOF {
		return n, io.EOF
	}

	return n, nil
}

func fullScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
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

	return &wavSource{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   int(dec.BitDepth),
	}, nil
}

// Probe reads the fmt chunk and the data chunk size; no samples are decoded.
func (Decoder) Probe(r io.ReadSeeker) (audio.Info, error) {
	dec, err := open(r)
	if err != nil {
		return audio.Info{}, err
	}

	if err := dec.FwdToPCM(); err != nil {
		return audio.Info{}, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}

	frameSize := int64(dec.NumChans) * int64(dec.BitDepth/8)

	return audio.Info{
		Format:     "wav",
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		Frames:     dec.PCMLen() / frameSize,
		PCM:        true,
	}, nil
}

// open validates the header and returns a decoder positioned after it.
func open(rs io.ReadSeeker) (*gowav.Decoder, error) {
	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
		}
		return nil, ErrNotWavFile
	}

	dec.ReadInfo()

	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return nil, ErrOnlyPCMSupported
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, ErrUnsupportedBitDepth
	}

	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	return dec, nil
}
