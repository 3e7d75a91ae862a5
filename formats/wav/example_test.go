// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ik5/padkit/formats/wav"
)

// Example_probe demonstrates reading stream properties without decoding.
func Example_probe() {
	// 100ms of stereo silence at 48kHz
	data := new(bytes.Buffer)
	wav.WriteWAV16(data, 48000, 2, make([]int, 4800*2))

	info, err := wav.Decoder{}.Probe(bytes.NewReader(data.Bytes()))
	if err != nil {
		fmt.Printf("Probe error: %v\n", err)
		return
	}

	fmt.Printf("Sample rate: %d Hz\n", info.SampleRate)
	fmt.Printf("Channels: %d\n", info.Channels)
	fmt.Printf("Bit depth: %d\n", info.BitDepth)
	fmt.Printf("Duration: %v\n", info.Duration())
	// Output:
	// Sample rate: 48000 Hz
	// Channels: 2
	// Bit depth: 16
	// Duration: 100ms
}

// Example_encoding demonstrates writing a WAV file.
func Example_encoding() {
	samples := make([]int, 1000)
	for i := range samples {
		samples[i] = (i % 100) * 100
	}

	output := new(bytes.Buffer)
	if err := wav.WriteWAV16(output, 48000, 2, samples); err != nil {
		fmt.Printf("Write error: %v\n", err)
		return
	}

	fmt.Printf("Wrote %d bytes\n", output.Len())
	// Output:
	// Wrote 2044 bytes
}

// Example_errorNotWAV shows handling of invalid WAV files.
func Example_errorNotWAV() {
	_, err := wav.Decoder{}.Decode(bytes.NewReader([]byte("This is not a WAV file")))

	if errors.Is(err, wav.ErrNotWavFile) {
		fmt.Println("Detected: Not a valid WAV file")
	} else if err != nil {
		fmt.Printf("Other error: %v\n", err)
	}
	// Output: Detected: Not a valid WAV file
}
