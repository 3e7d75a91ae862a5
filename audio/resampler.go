// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/padkit/utils"
)

const (
	// DefaultHalfWidth is the number of sinc zero crossings kept on each side.
	DefaultHalfWidth = 16
	// DefaultKaiserBeta gives roughly 80 dB stopband attenuation.
	DefaultKaiserBeta = 8.6
	// kernelResolution is the number of table entries per zero crossing.
	kernelResolution = 512
)

// Resampler converts sample rates with a Kaiser-windowed sinc kernel.
// Each channel is filtered on its own; channels are never mixed.
// When downsampling the kernel is stretched so its cutoff sits at the
// destination Nyquist frequency.
//
// A Resampler holds only its precomputed kernel and is safe for concurrent use.
type Resampler struct {
	halfWidth int
	table     []float64
}

func NewResampler(halfWidth int, beta float64) *Resampler {
	if halfWidth <= 0 {
		halfWidth = DefaultHalfWidth
	}
	if beta <= 0 {
		beta = DefaultKaiserBeta
	}

	// Two extra entries so interpolation at the very edge stays in bounds.
	table := make([]float64, halfWidth*kernelResolution+2)
	for i := range table {
		x := float64(i) / kernelResolution
		table[i] = utils.Sinc(x) * utils.KaiserWindow(x/float64(halfWidth), beta)
	}

	return &Resampler{halfWidth: halfWidth, table: table}
}

// kernel evaluates the windowed sinc at x zero crossings from the centre.
func (r *Resampler) kernel(x float64) float64 {
	x = math.Abs(x)
	if x >= float64(r.halfWidth) {
		return 0
	}

	pos := x * kernelResolution
	i := int(pos)
	frac := pos - float64(i)

	return r.table[i] + frac*(r.table[i+1]-r.table[i])
}

// OutputFrames is the length a channel of n frames has after conversion.
func OutputFrames(n, srcRate, dstRate int) int {
	if srcRate == dstRate {
		return n
	}

	return int(math.Round(float64(n) * float64(dstRate) / float64(srcRate)))
}

// ResampleChannel converts one channel from srcRate to dstRate.
// Samples outside the input are treated as silence.
func (r *Resampler) ResampleChannel(in []float32, srcRate, dstRate int) []float32 {
	if srcRate == dstRate {
		out := make([]float32, len(in))
		copy(out, in)
		return out
	}

	ratio := float64(dstRate) / float64(srcRate)
	step := 1 / ratio
	cutoff := min(1.0, ratio)
	reach := float64(r.halfWidth) / cutoff
	last := len(in) - 1

	out := make([]float32, OutputFrames(len(in), srcRate, dstRate))
	for n := range out {
		t := float64(n) * step

		lo := max(int(math.Ceil(t-reach)), 0)
		hi := min(int(math.Floor(t+reach)), last)

		var acc float64
		for k := lo; k <= hi; k++ {
			acc += float64(in[k]) * r.kernel((t-float64(k))*cutoff)
		}

		out[n] = float32(acc * cutoff)
	}

	return out
}

// Resample returns a new Buffer at dstRate with the same channel count.
func (r *Resampler) Resample(b *Buffer, dstRate int) (*Buffer, error) {
	if b.SampleRate <= 0 || dstRate <= 0 {
		return nil, ErrInvalidRate
	}
	if b.Channels() == 0 {
		return nil, ErrNoChannels
	}

	out := &Buffer{
		SampleRate: dstRate,
		BitDepth:   b.BitDepth,
		Data:       make([][]float32, b.Channels()),
	}
	for c, ch := range b.Data {
		out.Data[c] = r.ResampleChannel(ch, b.SampleRate, dstRate)
	}

	return out, nil
}
