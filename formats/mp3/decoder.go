// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/padkit/audio"
)

// ErrNotMP3File indicates that no MPEG audio frame could be decoded.
var ErrNotMP3File = errors.New("not an MP3 file")

// go-mp3 always emits 16-bit little-endian stereo; mono streams come out
// with the sample duplicated on both sides.
const bytesPerFrame = 4

// pcmReader is the part of gomp3.Decoder the source reads from.
type pcmReader interface {
	io.Reader
	SampleRate() int
}

// source reads whole 16-bit stereo frames and scales them to [-1, 1). For
// mono streams only the left copy of each frame is kept.
type source struct {
	dec      pcmReader
	rate     int
	channels int
	raw      []byte
}

func (s *source) SampleRate() int { return s.rate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.raw) / s.stride() }

// stride is the byte distance between two emitted samples.
func (s *source) stride() int { return bytesPerFrame / s.channels }

func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) / s.channels * bytesPerFrame
	if want == 0 {
		return 0, nil
	}
	if cap(s.raw) < want {
		s.raw = make([]byte, want)
	}
	raw := s.raw[:want]

	n, err := io.ReadFull(s.dec, raw)
	switch {
	case err == io.EOF:
		return 0, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		// A short final read ends the stream.
		err = io.EOF
	case err != nil && n == 0:
		return 0, err
	}

	stride := s.stride()
	samples := n / stride
	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(raw[stride*i:]))) / 32768
	}

	return samples, err
}

// Decoder decodes MPEG-1/2 Layer III through go-mp3.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := audio.Seekable(r)
	if err != nil {
		return nil, err
	}

	dec, channels, err := open(rs)
	if err != nil {
		return nil, err
	}

	return &source{
		dec:      dec,
		rate:     dec.SampleRate(),
		channels: channels,
		raw:      make([]byte, 8192),
	}, nil
}

// open reads the channel mode and rewinds rs for go-mp3.
func open(rs io.ReadSeeker) (*gomp3.Decoder, int, error) {
	channels, err := channelCount(rs)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, 0, err
	}

	dec, err := gomp3.NewDecoder(rs)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return dec, channels, nil
}

// Probe scans frame headers to find the decoded length. go-mp3 can only do
// this on a seekable reader.
func (Decoder) Probe(r io.ReadSeeker) (audio.Info, error) {
	dec, channels, err := open(r)
	if err != nil {
		return audio.Info{}, err
	}

	length := dec.Length()
	if length < 0 {
		return audio.Info{}, audio.ErrUnknownLength
	}

	return audio.Info{
		Format:     "mp3",
		SampleRate: dec.SampleRate(),
		Channels:   channels,
		BitDepth:   16,
		Frames:     length / bytesPerFrame,
	}, nil
}
