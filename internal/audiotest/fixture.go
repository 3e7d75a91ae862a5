// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
)

// Sine16 returns interleaved 16-bit frames of a sine tone at half scale,
// the same tone on every channel.
func Sine16(sampleRate, channels, frames int, frequency float64) []int16 {
	out := make([]int16, frames*channels)
	for f := range frames {
		v := int16(16384 * math.Sin(2*math.Pi*frequency*float64(f)/float64(sampleRate)))
		for c := range channels {
			out[f*channels+c] = v
		}
	}

	return out
}

// FramesFor is the frame count of ms milliseconds at sampleRate.
func FramesFor(sampleRate, ms int) int {
	return sampleRate * ms / 1000
}

// WAVBytes builds a canonical 44-byte-header PCM WAV in memory.
func WAVBytes(sampleRate, channels, bitsPerSample int, samples []int16) []byte {
	buf := new(bytes.Buffer)

	numChannels := uint16(channels)
	bits := uint16(bitsPerSample)
	byteRate := uint32(sampleRate) * uint32(numChannels) * uint32(bits/8)
	blockAlign := numChannels * (bits / 8)
	dataSize := uint32(len(samples) * 2)

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, numChannels)
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, byteRate)
	binary.Write(buf, binary.LittleEndian, blockAlign)
	binary.Write(buf, binary.LittleEndian, bits)

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	for _, s := range samples {
		binary.Write(buf, binary.LittleEndian, s)
	}

	return buf.Bytes()
}

// WriteSineWAV writes a 16-bit sine WAV of ms milliseconds to path,
// creating parent directories.
func WriteSineWAV(path string, sampleRate, channels, ms int) error {
	samples := Sine16(sampleRate, channels, FramesFor(sampleRate, ms), 440)
	return WriteFile(path, WAVBytes(sampleRate, channels, 16, samples))
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
