// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Sinc is the normalized sinc function sin(pi*x)/(pi*x).
func Sinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	px := math.Pi * x
	return math.Sin(px) / px
}

// KaiserWindow evaluates the Kaiser window at u, where u is the position
// relative to the window half-width in [-1, 1]. Outside that range it is 0.
func KaiserWindow(u, beta float64) float64 {
	if u < -1 || u > 1 {
		return 0
	}

	return BesselI0(beta*math.Sqrt(1-u*u)) / BesselI0(beta)
}

// BesselI0 is the zeroth-order modified Bessel function of the first kind,
// summed from its power series until terms stop contributing.
func BesselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	half := x / 2

	for k := 1; k < 64; k++ {
		term *= (half / float64(k)) * (half / float64(k))
		sum += term
		if term < sum*1e-16 {
			break
		}
	}

	return sum
}
