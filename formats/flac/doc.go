// SPDX-License-Identifier: EPL-2.0

// Package flac provides FLAC decoding and probing via github.com/mewkiz/flac.
//
// Frames are decoded one at a time and their subframes interleaved into
// float32 samples scaled by the stream's bits per sample. Probe only reads
// the STREAMINFO block.
package flac
