// SPDX-License-Identifier: EPL-2.0

// Package padkit exports audio samples for hardware samplers.
//
// It turns arbitrary sample files into 48 kHz / 16-bit PCM WAV or AIFF,
// checks them against the device constraints, and lays them out on disk
// either as a plain library (flat, by genre, by BPM) or as a bank/pad kit.
//
// This root package wires every container decoder into one registry:
//
//	reg := padkit.NewRegistry()
//	info, err := padkit.ProbeFile(reg, "kick.flac")
//	fmt.Println(info.Duration())
//
// The pipeline itself lives in the subpackages:
//   - validate: pre-flight checks (readable, supported, long enough)
//   - convert: decode, resample, dither and write the target container
//   - sanitize: hardware-safe filenames
//   - organize: destination directory per organization strategy
//   - export: single, batch and kit exports with per-item isolation
//   - archive: zip of an export's output tree
//
// # Supported Input
//
//   - WAV, PCM 8/16/24/32 bit (formats/wav)
//   - AIFF, PCM 8/16/24/32 bit (formats/aiff)
//   - MP3 (formats/mp3)
//   - FLAC (formats/flac)
//   - Ogg Vorbis (formats/vorbis)
//   - M4A, probe only (formats/m4a)
package padkit
