// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV decoding, probing and 16-bit encoding.
//
// Decoding and probing use github.com/go-audio/wav, which walks the RIFF
// chunk list so files with LIST, bext or other extra chunks are accepted.
//
// # Supported Input
//
//   - Integer PCM (format tag 1 or WAVE_FORMAT_EXTENSIBLE)
//   - 8, 16, 24 and 32 bits per sample
//   - Any channel count and sample rate
//
// # Probing
//
// Probe reads only the headers and the data chunk size:
//
//	info, err := wav.Decoder{}.Probe(file)
//	fmt.Println(info.Duration())
//
// # Writing WAV Files
//
// WriteWAV16 writes interleaved 16-bit PCM with any channel count:
//
//	err := wav.WriteWAV16(file, 48000, 2, samples)
package wav
