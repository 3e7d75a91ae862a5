// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bufio"
	"errors"
	"io"
)

// maxSyncScan bounds the search for the first frame after any ID3v2 tag.
const maxSyncScan = 64 << 10

// modeSingleChannel is the channel_mode value of a mono frame.
const modeSingleChannel = 3

var errNoFrame = errors.New("no Layer III frame header found")

// channelCount reads the channel mode of the first Layer III frame in rs.
// It starts at the beginning of rs and leaves the offset anywhere.
func channelCount(rs io.ReadSeeker) (int, error) {
	start, err := tagEnd(rs)
	if err != nil {
		return 0, err
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return 0, err
	}

	br := bufio.NewReader(io.LimitReader(rs, maxSyncScan))
	var h [4]byte
	for n := 0; ; n++ {
		b, err := br.ReadByte()
		if err != nil {
			return 0, errNoFrame
		}
		h[0], h[1], h[2], h[3] = h[1], h[2], h[3], b

		if n >= 3 && isLayer3Header(h) {
			if h[3]>>6 == modeSingleChannel {
				return 1, nil
			}
			return 2, nil
		}
	}
}

// tagEnd is the offset just past a leading ID3v2 tag, or 0.
func tagEnd(rs io.ReadSeeker) (int64, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	var hdr [10]byte
	if _, err := io.ReadFull(rs, hdr[:]); err != nil {
		// Shorter than a tag header; let the sync scan report it.
		return 0, nil
	}
	if string(hdr[:3]) != "ID3" {
		return 0, nil
	}

	size := int64(hdr[6]&0x7f)<<21 | int64(hdr[7]&0x7f)<<14 | int64(hdr[8]&0x7f)<<7 | int64(hdr[9]&0x7f)
	end := 10 + size
	if hdr[5]&0x10 != 0 {
		// footer present
		end += 10
	}
	return end, nil
}

// isLayer3Header applies the validity rules go-mp3 uses, restricted to
// Layer III.
func isLayer3Header(h [4]byte) bool {
	version := (h[1] >> 3) & 0x03
	layer := (h[1] >> 1) & 0x03
	bitrate := h[2] >> 4
	rate := (h[2] >> 2) & 0x03
	emphasis := h[3] & 0x03

	return h[0] == 0xff && h[1]&0xe0 == 0xe0 &&
		version != 1 &&
		layer == 1 &&
		bitrate != 15 &&
		rate != 3 &&
		emphasis != 2
}
