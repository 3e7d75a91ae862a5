// SPDX-License-Identifier: EPL-2.0

package m4a

import (
	"errors"
	"fmt"
	"io"

	"github.com/abema/go-mp4"
	"github.com/ik5/padkit/audio"
)

// ErrNotM4AFile indicates the input has no MPEG-4 audio track.
var ErrNotM4AFile = errors.New("not an M4A file")

// Decoder reads MPEG-4 audio containers. No AAC decoder is available, so
// only Probe is functional.
type Decoder struct{}

func (Decoder) Decode(io.Reader) (audio.Source, error) {
	return nil, fmt.Errorf("m4a: %w", audio.ErrDecodeUnsupported)
}

// Probe walks the box structure and reports the first mp4a track. The track
// timescale of an AAC stream is its sample rate, so the track duration is
// already a frame count.
func (Decoder) Probe(r io.ReadSeeker) (audio.Info, error) {
	info, err := mp4.Probe(r)
	if err != nil {
		return audio.Info{}, fmt.Errorf("%w: %w", ErrNotM4AFile, err)
	}

	for _, track := range info.Tracks {
		if track.Codec != mp4.CodecMP4A || track.Timescale == 0 {
			continue
		}

		channels := 2
		if track.MP4A != nil && track.MP4A.ChannelCount > 0 {
			channels = int(track.MP4A.ChannelCount)
		}

		return audio.Info{
			Format:     "m4a",
			SampleRate: int(track.Timescale),
			Channels:   channels,
			Frames:     int64(track.Duration),
		}, nil
	}

	return audio.Info{}, ErrNotM4AFile
}
