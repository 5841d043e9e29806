package kinematics

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Normalize scales all speeds by one factor so the speed with the largest
// magnitude lands on hi, or on lo when that speed is negative. Sign and
// ratios between wheels are kept. All-zero speeds stay zero.
//
// Only the bound on the side of the peak is enforced. With asymmetric
// bounds a speed of the opposite sign may end up outside the other bound,
// e.g. {3, -2} in [-0.4, 0.8] gives {0.8, -0.53}. The controller always
// passes symmetric bounds.
func Normalize(speeds WheelSet[float64], lo, hi float64) WheelSet[float64] {
	mags := make([]float64, NumWheels)
	for n, v := range speeds {
		mags[n] = math.Abs(v)
	}
	peak := floats.MaxIdx(mags)
	if mags[peak] == 0 {
		return WheelSet[float64]{}
	}
	bound := math.Abs(hi)
	if speeds[peak] < 0 {
		bound = math.Abs(lo)
	}
	peakMag := mags[peak]
	floats.Scale(bound/peakMag, mags)
	var out WheelSet[float64]
	for n, v := range speeds {
		if math.Abs(v) == peakMag {
			// pinned, so rounding can't move the peak off the bound.
			out[n] = math.Copysign(bound, v)
			continue
		}
		out[n] = math.Copysign(math.Min(mags[n], bound), v)
	}
	return out
}
