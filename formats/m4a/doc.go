// SPDX-License-Identifier: EPL-2.0

// Package m4a probes MPEG-4 audio (.m4a) files with github.com/abema/go-mp4.
//
// Only the container is parsed. Decode always fails with
// audio.ErrDecodeUnsupported, so m4a input can be validated but not
// converted.
package m4a
