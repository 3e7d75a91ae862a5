// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"time"
)

// maxEmptyReads bounds how many (0, nil) reads ReadAll tolerates in a row
// before treating the stream as finished.
const maxEmptyReads = 64

// Buffer is a fully decoded clip kept in planar layout: Data[c] holds every
// sample of channel c. A Buffer belongs to the conversion that produced it.
type Buffer struct {
	SampleRate int
	// BitDepth of the source material; 0 when unknown or lossy.
	BitDepth int
	Data     [][]float32
}

func (b *Buffer) Channels() int { return len(b.Data) }

func (b *Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}

	return len(b.Data[0])
}

func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}

	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// ReadAll drains src and splits the interleaved stream into channels.
// A trailing partial frame is dropped.
func ReadAll(src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrNoChannels
	}
	if src.SampleRate() <= 0 {
		return nil, ErrInvalidRate
	}

	size := max(src.BufSize(), 4096)
	size -= size % channels
	buf := make([]float32, size)

	var interleaved []float32
	empty := 0

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			interleaved = append(interleaved, buf[:n]...)
			empty = 0
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}

		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				break
			}
		}
	}

	frames := len(interleaved) / channels
	out := &Buffer{
		SampleRate: src.SampleRate(),
		Data:       make([][]float32, channels),
	}
	for c := range channels {
		out.Data[c] = make([]float32, frames)
	}
	for f := range frames {
		base := f * channels
		for c := range channels {
			out.Data[c][f] = interleaved[base+c]
		}
	}

	return out, nil
}
