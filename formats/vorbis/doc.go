// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis decoding and probing via
// github.com/jfreymuth/oggvorbis.
//
// Vorbis decodes straight to float32, so samples are passed through
// without conversion. Probe takes the length from the granule position of
// the last page, which requires a seekable reader.
package vorbis
