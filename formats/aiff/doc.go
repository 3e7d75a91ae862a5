// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding,
// probing and 16-bit encoding on top of github.com/go-audio/aiff.
//
// # Supported Input
//
//   - Uncompressed AIFF
//   - 8, 16, 24 and 32 bit signed PCM
//   - Any channel count and sample rate
//
// Samples are returned as float32 in [-1.0, 1.0]. Unlike WAV, 8-bit AIFF
// is signed, so no offset is removed.
//
// # Writing
//
// WriteAIFF16 needs an io.WriteSeeker because the chunk sizes are patched
// once all samples are written:
//
//	f, _ := os.Create("out.aiff")
//	err := aiff.WriteAIFF16(f, 48000, 2, samples)
//
// # Errors
//
//   - ErrNotAiffFile: the input is not a valid AIFF file
//   - ErrUnsupportedBitDepth: sample size outside 8/16/24/32
//   - ErrUnsupportedAiffLayout: missing rate or channel information
package aiff
