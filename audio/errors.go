// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize     = errors.New("dst size must be multiple of channels")
	ErrInvalidRate        = errors.New("sample rate must be positive")
	ErrNoChannels         = errors.New("stream has no channels")
	ErrDecodeUnsupported  = errors.New("decoding is not supported for this format")
	ErrUnknownLength      = errors.New("stream length is unknown")
	ErrChannelLenMismatch = errors.New("channels have different lengths")
)
