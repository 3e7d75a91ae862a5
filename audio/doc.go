// SPDX-License-Identifier: EPL-2.0

// Package audio provides the processing primitives of the export pipeline.
//
// This package contains the core building blocks:
//   - Source interface for decoded, interleaved float32 audio
//   - Codec (Decoder + Prober) interfaces and a Registry keyed by format
//   - Buffer, a fully decoded clip in planar (per-channel) layout
//   - Resampler, a Kaiser-windowed sinc sample rate converter
//   - Quantizer, float to 16-bit PCM with optional TPDF dither
//
// # Source Interface
//
// Every format decoder returns a Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadAll drains a Source into a Buffer:
//
//	buf, err := audio.ReadAll(src)
//
// # Probing
//
// A Prober reads sample rate, channel count, bit depth and frame count from
// container headers only. The validator uses it to check duration without
// decoding the file.
//
// # Resampling
//
// The Resampler filters every channel independently with a band-limited
// interpolation kernel. When downsampling the kernel cutoff follows the
// destination Nyquist frequency so content above it is removed instead of
// aliased:
//
//	r := audio.NewResampler(audio.DefaultHalfWidth, audio.DefaultKaiserBeta)
//	out, err := r.Resample(buf, 48000)
//
// Channel count is always preserved; nothing in this package downmixes.
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// # Error Handling
//
// Sources return io.EOF when no more data is available. Other errors are
// wrapped and returned as is; sentinel errors live in errors.go.
package audio
