// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// MP3FrameSize is the byte length of an unpadded MPEG-1 Layer III frame at
// 128 kbit/s and 44.1 kHz.
const MP3FrameSize = 144 * 128000 / 44100

// MP3FrameSamples is the number of PCM frames one MPEG-1 Layer III frame
// decodes to.
const MP3FrameSamples = 1152

// MP3Frames returns n silent MPEG-1 Layer III frames at 44.1 kHz and
// 128 kbit/s. With mono set the frames use the single channel mode.
// Zeroed side info and main data decode to silence.
func MP3Frames(n int, mono bool) []byte {
	mode := byte(0x00) // stereo
	if mono {
		mode = 0xc0
	}

	out := make([]byte, n*MP3FrameSize)
	for i := range n {
		f := out[i*MP3FrameSize:]
		f[0], f[1], f[2], f[3] = 0xff, 0xfb, 0x90, mode
	}

	return out
}

// WriteMP3 writes n silent frames to path, see MP3Frames.
func WriteMP3(path string, n int, mono bool) error {
	return WriteFile(path, MP3Frames(n, mono))
}

// flacBlock is the block size the FLAC fixtures are cut into.
const flacBlock = 4096

// FLACBytes encodes interleaved 16-bit samples as a verbatim FLAC stream.
func FLACBytes(sampleRate, channels int, samples []int16) ([]byte, error) {
	frames := len(samples) / channels
	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlock,
		BlockSizeMax:  flacBlock,
		SampleRate:    uint32(sampleRate),
		NChannels:     uint8(channels),
		BitsPerSample: 16,
		NSamples:      uint64(frames),
	}

	buf := new(bytes.Buffer)
	enc, err := flac.NewEncoder(buf, info)
	if err != nil {
		return nil, err
	}

	layout := frame.ChannelsMono
	if channels == 2 {
		layout = frame.ChannelsLR
	}

	for start := 0; start < frames; start += flacBlock {
		n := min(flacBlock, frames-start)
		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(n),
				SampleRate:        uint32(sampleRate),
				Channels:          layout,
				BitsPerSample:     16,
			},
		}
		for c := range channels {
			sub := &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   make([]int32, n),
				NSamples:  n,
			}
			for i := range n {
				sub.Samples[i] = int32(samples[(start+i)*channels+c])
			}
			f.Subframes = append(f.Subframes, sub)
		}

		if err := enc.WriteFrame(f); err != nil {
			return nil, err
		}
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteSineFLAC writes a 16-bit sine FLAC of ms milliseconds to path.
func WriteSineFLAC(path string, sampleRate, channels, ms int) error {
	samples := Sine16(sampleRate, channels, FramesFor(sampleRate, ms), 440)
	data, err := FLACBytes(sampleRate, channels, samples)
	if err != nil {
		return err
	}

	return WriteFile(path, data)
}
