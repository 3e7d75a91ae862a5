// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"

	"github.com/ik5/padkit/audio"
	"github.com/ik5/padkit/internal/audiotest"
)

// Example_resampler demonstrates converting a decoded clip to 48 kHz.
func Example_resampler() {
	// Two seconds of stereo at 44.1kHz
	source := audiotest.NewSineSource(44100, 2, 88200, 440.0)

	buf, err := audio.ReadAll(source)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	out, err := audio.NewResampler(audio.DefaultHalfWidth, audio.DefaultKaiserBeta).Resample(buf, 48000)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Output sample rate: %d Hz\n", out.SampleRate)
	fmt.Printf("Channels: %d\n", out.Channels())
	fmt.Printf("Frames: %d\n", out.Frames())
	fmt.Printf("Duration: %v\n", out.Duration())
	// Output:
	// Output sample rate: 48000 Hz
	// Channels: 2
	// Frames: 96000
	// Duration: 2s
}

// Example_quantizer shows the 16-bit conversion step.
func Example_quantizer() {
	buf := &audio.Buffer{
		SampleRate: 48000,
		Data:       [][]float32{{0, 0.5, 1}},
	}

	pcm, err := audio.Quantizer{}.Quantize16(buf)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println(pcm)
	// Output:
	// [0 16383 32767]
}

// Example_registry shows looking up a codec by format key.
func Example_registry() {
	registry := audio.NewRegistry()

	_, ok := registry.Get("wav")
	fmt.Println("wav registered:", ok)
	fmt.Println("formats:", registry.Formats())
	// Output:
	// wav registered: false
	// formats: []
}
