// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Info is what a container header says about the stream, read without
// decoding any audio.
type Info struct {
	// Format is the registry key of the container ("wav", "mp3", ...).
	Format     string
	SampleRate int
	Channels   int
	// BitDepth is 0 for lossy codecs that have no native integer depth.
	BitDepth int
	// Frames is the number of samples per channel.
	Frames int64
	// PCM is true for uncompressed integer PCM payloads.
	PCM bool
}

// Duration is computed from the frame count so it is exact for PCM input.
func (i Info) Duration() time.Duration {
	if i.SampleRate <= 0 {
		return 0
	}

	return time.Duration(i.Frames) * time.Second / time.Duration(i.SampleRate)
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Prober reads stream properties from container headers only.
type Prober interface {
	Probe(r io.ReadSeeker) (Info, error)
}

// Codec is what the Registry stores: every supported container can be
// probed, and all but probe-only ones can be decoded.
type Codec interface {
	Decoder
	Prober
}

// Registry for codecs by format key (e.g., "wav", "mp3", "ogg").
type Registry struct {
	codecs map[string]Codec

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Codec),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, c Codec) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = c
}

func (r *Registry) Get(format string) (Codec, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	c, ok := r.codecs[format]
	return c, ok
}

// Formats returns the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	keys := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

// Seekable returns r itself when it can seek, otherwise it buffers the whole
// stream in memory. Several codec libraries need io.ReadSeeker.
func Seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}

	return bytes.NewReader(data), nil
}
