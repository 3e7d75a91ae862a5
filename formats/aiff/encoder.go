// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
)

// WriteAIFF16 writes interleaved 16-bit samples as an uncompressed AIFF.
// The encoder patches chunk sizes on Close, hence io.WriteSeeker.
func WriteAIFF16(ws io.WriteSeeker, sampleRate, channels int, samples []int) error {
	if channels <= 0 || len(samples)%channels != 0 {
		return ErrInvalidChannels
	}

	enc := aiff.NewEncoder(ws, sampleRate, 16, channels)

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing aiff samples: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing aiff: %w", err)
	}

	return nil
}
