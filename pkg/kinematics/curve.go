package kinematics

import (
	"fmt"
	"math"
	"sort"
)

// SpeedCurve maps normalized time in [0, 1] to a speed factor in [0, 1].
type SpeedCurve func(t float64) float64

// Trapezoidal ramps up over the first 20%, holds, then ramps down over
// the last 20%.
func Trapezoidal(t float64) float64 {
	switch t = clampUnit(t); {
	case t < 0.2:
		return t * 5
	case t < 0.8:
		return 1
	default:
		return 1 - (t-0.8)*5
	}
}

// Sinusoidal follows a half sine wave.
func Sinusoidal(t float64) float64 {
	return math.Sin(math.Pi * clampUnit(t))
}

// Linear holds half speed all the way.
func Linear(t float64) float64 {
	return 0.5
}

var curves = map[string]SpeedCurve{
	"linear":      Linear,
	"trapezoidal": Trapezoidal,
	"sinusoidal":  Sinusoidal,
}

// CurveByName looks up a speed curve.
func CurveByName(name string) (SpeedCurve, error) {
	if c, ok := curves[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown speed curve %q", name)
}

// CurveNames lists known speed curves.
func CurveNames() []string {
	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clampUnit(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
