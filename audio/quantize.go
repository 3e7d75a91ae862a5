// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"
	"math/rand/v2"

	"github.com/ik5/padkit/utils"
)

// Quantizer turns float samples into interleaved signed 16-bit values.
//
// With Dither set, triangular (TPDF) noise of +/-1 LSB is added before
// rounding so low-level material decays into noise instead of truncation
// distortion. The noise generator is seeded, so output is reproducible.
type Quantizer struct {
	Dither bool
	Seed   uint64
}

// Quantize16 interleaves b and returns one int per sample, in the range of
// int16, ready for a 16-bit encoder.
func (q Quantizer) Quantize16(b *Buffer) ([]int, error) {
	channels := b.Channels()
	if channels == 0 {
		return nil, ErrNoChannels
	}

	frames := b.Frames()
	for _, ch := range b.Data {
		if len(ch) != frames {
			return nil, ErrChannelLenMismatch
		}
	}

	out := make([]int, frames*channels)

	if !q.Dither {
		for f := range frames {
			for c := range channels {
				out[f*channels+c] = int(utils.Float32ToInt16(b.Data[c][f]))
			}
		}
		return out, nil
	}

	rng := rand.New(rand.NewPCG(q.Seed, q.Seed^0x9e3779b97f4a7c15))
	for f := range frames {
		for c := range channels {
			x := float64(b.Data[c][f]) * math.MaxInt16
			x += rng.Float64() - rng.Float64()
			out[f*channels+c] = clamp16(math.Round(x))
		}
	}

	return out, nil
}

func clamp16(v float64) int {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}

	return int(v)
}
