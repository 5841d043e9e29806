package geom

import "math"

// Angle is an angle in radians normalized to (-Pi, Pi].
type Angle float64

// AngleFromDegrees creates Angle from degrees.
func AngleFromDegrees(d float64) Angle {
	return Angle(normalizeRadians(Radians(d)))
}

// AddDegrees adds degrees to current angle.
func (a Angle) AddDegrees(d float64) Angle {
	return Angle(normalizeRadians(float64(a) + Radians(d)))
}

// Radians gets angle in radians.
func (a Angle) Radians() float64 {
	return float64(a)
}

// Degrees gets angle in degrees, within [0, 360).
func (a Angle) Degrees() float64 {
	return Wrap360(Degrees(float64(a)))
}

// Project projects distance into X and Y.
func (a Angle) Project(dist float64) Point2 {
	return Point2{X: dist * math.Cos(float64(a)), Y: dist * math.Sin(float64(a))}
}

// Degrees converts radians to degrees.
func Degrees(r float64) float64 {
	return r * 180 / math.Pi
}

// Radians converts degrees to radians.
func Radians(d float64) float64 {
	return d * math.Pi / 180
}

// Wrap360 maps degrees into [0, 360).
func Wrap360(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	// -1e-15 + 360 rounds to 360.
	if d >= 360 {
		d = 0
	}
	return d
}

// CircularDistance is the shortest rotation in degrees between a and b,
// always within [0, 180].
func CircularDistance(a, b float64) float64 {
	d := math.Abs(Wrap360(a) - Wrap360(b))
	return math.Min(d, 360-d)
}

// Lerp linearly interpolates from a to b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func normalizeRadians(r float64) float64 {
	if r >= 2*math.Pi || r <= -2*math.Pi {
		r = math.Remainder(r, 2*math.Pi)
	}
	if r > math.Pi {
		r -= 2 * math.Pi
	} else if r <= -math.Pi {
		r += 2 * math.Pi
	}
	return r
}
