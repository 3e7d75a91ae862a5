// SPDX-License-Identifier: EPL-2.0

// Package sanitize turns human file names into names every sampler
// filesystem accepts.
//
// The pipeline is: Unicode NFKD folding with combining marks removed
// (golang.org/x/text), lower-casing, whitespace runs to '_', removal of
// anything outside [a-z0-9_.-], collapsing of '_'/'-' runs, trimming of
// leading '.'/'-', the "sample" fallback for empty stems and truncation to
// 255 bytes that shortens the stem rather than the extension.
//
//	sanitize.Filename("Café Beat (2024)!.wav") // "cafe_beat_2024.wav"
package sanitize
