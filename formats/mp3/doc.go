// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 decoding and probing via
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit stereo, so decoded sources report two
// channels even for mono files, and Probe reports BitDepth 16 with PCM
// false.
//
// Probe needs an io.ReadSeeker: the decoded length is found by scanning
// every frame header, which is much cheaper than decoding:
//
//	info, err := mp3.Decoder{}.Probe(file)
//	fmt.Println(info.Duration())
//
// MP3 writing is not supported.
package mp3
