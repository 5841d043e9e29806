package kinematics

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/swerve.go/pkg/geom"
	"github.com/robotalks/swerve.go/pkg/path"
)

func mustLine(t *testing.T, x0, y0, x1, y1 float64) *path.Line {
	l, err := path.NewLine(geom.Pt(x0, y0), geom.Pt(x1, y1), 1)
	require.NoError(t, err)
	return l
}

func mustArc(t *testing.T, cx, cy, r, start, end float64) *path.Arc {
	a, err := path.NewArc(geom.Pt(cx, cy), r, start, end, 1)
	require.NoError(t, err)
	return a
}

func TestWheelIDs(t *testing.T) {
	steer, drive := make([]int, 0, NumWheels), make([]int, 0, NumWheels)
	for _, w := range Wheels {
		steer = append(steer, w.SteerMotor())
		drive = append(drive, w.DriveMotor())
	}
	require.Equal(t, []int{1, 3, 5, 7}, steer)
	require.Equal(t, []int{2, 4, 6, 8}, drive)

	for _, s := range []string{"back-left", "5", "6"} {
		w, err := ParseWheel(s)
		require.NoError(t, err)
		require.Equal(t, BackLeft, w)
	}
	_, err := ParseWheel("9")
	require.Error(t, err)
	require.Equal(t, "wheel(7)", WheelID(7).String())
}

func TestChassisOffset(t *testing.T) {
	c := Chassis{Width: 120, Height: 80}
	require.Equal(t, geom.Pt(-60, -40), c.Offset(FrontLeft))
	require.Equal(t, geom.Pt(60, -40), c.Offset(FrontRight))
	require.Equal(t, geom.Pt(-60, 40), c.Offset(BackLeft))
	require.Equal(t, geom.Pt(60, 40), c.Offset(BackRight))
}

func TestTangent(t *testing.T) {
	testCases := []struct {
		name   string
		seg    path.Segment
		pos    geom.Point2
		expect float64
	}{
		{"line east", mustLine(t, 0, 0, 100, 0), geom.Pt(3, 4), 0},
		{"line south-west", mustLine(t, 0, 0, -1, -1), geom.Pt(0, 0), 225},
		{"line north", mustLine(t, 5, 5, 5, 50), geom.Pt(0, 0), 90},
		{"clockwise arc top", mustArc(t, 0, 0, 50, math.Pi, 0), geom.Pt(0, 50), 0},
		{"clockwise arc start", mustArc(t, 0, 0, 50, math.Pi, 0), geom.Pt(-50, 0), 90},
		{"counter-clockwise arc east", mustArc(t, 0, 0, 50, -math.Pi/2, math.Pi/2), geom.Pt(50, 0), 90},
		{"counter-clockwise arc north", mustArc(t, 0, 0, 50, 0, math.Pi), geom.Pt(0, 50), 180},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.expect, Tangent(tc.seg, tc.pos), 1e-9)
		})
	}
	require.InDelta(t, 90, StartTangent(mustArc(t, 150, 0, 50, math.Pi, 0)), 1e-9)
	require.InDelta(t, 270, StartTangent(mustArc(t, 0, 0, 50, 0, -math.Pi)), 1e-9)
	require.InDelta(t, 0, StartTangent(mustLine(t, 0, 0, 100, 0)), 1e-9)
}

func TestResolveAngle(t *testing.T) {
	testCases := []struct {
		name     string
		current  float64
		tangent  float64
		expect   float64
		reversed bool
	}{
		{"tie prefers tangent", 0, 90, 90, false},
		{"tie prefers tangent reversed", 0, 270, 270, false},
		{"closer forward", 10, 20, 20, false},
		{"closer reversed", 10, 200, 20, true},
		{"across zero", 350, 5, 5, false},
		{"across zero reversed", 350, 185, 5, true},
		{"exact opposite", 180, 0, 180, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			angle, reversed := ResolveAngle(tc.current, tc.tangent)
			require.InDelta(t, tc.expect, angle, 1e-9)
			require.Equal(t, tc.reversed, reversed)
		})
	}
}

func TestChassisAngle(t *testing.T) {
	require.Equal(t, 0.0, ChassisAngle(90, 90))
	require.Equal(t, 270.0, ChassisAngle(0, 90))
	require.Equal(t, 45.0, ChassisAngle(405, 0))
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name   string
		speeds WheelSet[float64]
		lo, hi float64
		peak   float64
	}{
		{"scale up", WheelSet[float64]{0.1, 0.2, 0.3, 0.15}, -1, 1, 1},
		{"scale down", WheelSet[float64]{1.3, 0.7, -2.6, 2.1}, -1, 1, -1},
		{"negative peak uses lo", WheelSet[float64]{-3, 1, 2, -0.5}, -0.4, 0.8, -0.4},
		{"positive peak uses hi", WheelSet[float64]{3, 1, -2, -0.5}, -0.4, 0.8, 0.8},
		{"equal speeds", WheelSet[float64]{0.3, 0.3, 0.3, 0.3}, -1, 1, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := Normalize(tc.speeds, tc.lo, tc.hi)
			maxAbs := 0.0
			for n := range out {
				maxAbs = math.Max(maxAbs, math.Abs(out[n]))
				require.Equal(t, math.Signbit(tc.speeds[n]), math.Signbit(out[n]))
				require.InDelta(t, tc.speeds[n]/tc.speeds[0], out[n]/out[0], 1e-9)
			}
			require.Equal(t, math.Abs(tc.peak), maxAbs)
			require.Equal(t, order(tc.speeds), order(out))
		})
	}
	require.Equal(t, WheelSet[float64]{}, Normalize(WheelSet[float64]{}, -1, 1))

	// the scale comes from the peak side only.
	out := Normalize(WheelSet[float64]{3, 1, -2, -0.5}, -0.4, 0.8)
	require.InDelta(t, -1.6/3, out[2], 1e-12)
	require.Less(t, out[2], -0.4)
}

func order(speeds WheelSet[float64]) []int {
	idx := []int{0, 1, 2, 3}
	sort.SliceStable(idx, func(i, j int) bool { return speeds[idx[i]] < speeds[idx[j]] })
	return idx
}

func TestProfileWithoutRotation(t *testing.T) {
	route, err := path.NewRoute(mustLine(t, 0, 0, 100, 0), mustArc(t, 150, 0, 50, math.Pi, 0))
	require.NoError(t, err)
	p, err := NewProfile(route, Chassis{Width: 120, Height: 120}, 30, 30)
	require.NoError(t, err)
	require.Equal(t, 2, p.Segments())
	for _, w := range Wheels {
		require.InDelta(t, p.CenterPathLength(), p.WheelPathLength(w), 1e-6)
		for _, progress := range []float64{0, 0.1, 0.5, 0.75, 1} {
			require.InDelta(t, 1, p.Ratio(w, progress), 1e-9)
		}
		require.Len(t, p.Locus(w), 2*SamplesPerSegment)
	}
	speeds := p.SpeedsAt(0.3, 0.5)
	for _, s := range speeds {
		require.InDelta(t, 0.5, s, 1e-9)
	}
	require.InDelta(t, route.Length(), p.CenterPathLength(), 0.1)
}

func TestProfileRotatingOnLine(t *testing.T) {
	route, err := path.NewRoute(mustLine(t, 0, 0, 100, 0))
	require.NoError(t, err)
	p, err := NewProfile(route, Chassis{Width: 120, Height: 120}, 0, 90)
	require.NoError(t, err)

	locus := p.Locus(FrontLeft)
	end := locus[len(locus)-1]
	require.InDelta(t, 160, end.X, 1e-9)
	require.InDelta(t, -60, end.Y, 1e-9)
	require.InDelta(t, 45, p.HeadingAt(0.5), 1e-12)

	// midway the front-left wheel swings with the travel, the back-right
	// wheel against it.
	require.InDelta(t, 1+math.Pi/2*60*math.Sqrt2/100, p.Ratio(FrontLeft, 0.5), 0.01)
	require.InDelta(t, math.Pi/2*60*math.Sqrt2/100-1, p.Ratio(BackRight, 0.5), 0.01)
	require.Greater(t, p.WheelPathLength(FrontLeft), p.CenterPathLength())
	require.Less(t, p.WheelPathLength(BackRight), p.WheelPathLength(FrontLeft))

	speeds := p.SpeedsAt(0.5, 0.5)
	require.InDelta(t, 0.5*p.Ratio(FrontRight, 0.5), speeds[FrontRight], 1e-12)
}

func TestProfileInvalidRoute(t *testing.T) {
	_, err := NewProfile(nil, Chassis{}, 0, 0)
	require.True(t, errors.Is(err, ErrInvalidRoute))
	degenerate := path.Route{&path.Line{Start: geom.Pt(1, 1), End: geom.Pt(1, 1)}}
	_, err = NewProfile(degenerate, Chassis{Width: 10, Height: 10}, 0, 90)
	require.True(t, errors.Is(err, ErrInvalidRoute))
}

func TestOverallProgress(t *testing.T) {
	require.Equal(t, 0.0, OverallProgress(0, 2, 0))
	require.Equal(t, 0.75, OverallProgress(1, 2, 0.5))
	require.Equal(t, 1.0, OverallProgress(2, 2, 0))
	require.Equal(t, 0.0, OverallProgress(0, 0, 0.5))
}

func TestSpeedCurves(t *testing.T) {
	require.InDelta(t, 0.5, Trapezoidal(0.1), 1e-12)
	require.Equal(t, 1.0, Trapezoidal(0.5))
	require.InDelta(t, 0.5, Trapezoidal(0.9), 1e-9)
	require.InDelta(t, 0, Trapezoidal(1), 1e-9)
	require.InDelta(t, 1, Sinusoidal(0.5), 1e-12)
	require.InDelta(t, 0, Sinusoidal(0), 1e-12)
	require.Equal(t, 0.5, Linear(0.7))

	c, err := CurveByName("trapezoidal")
	require.NoError(t, err)
	require.Equal(t, 1.0, c(0.5))
	_, err = CurveByName("cubic")
	require.Error(t, err)
	require.Equal(t, []string{"linear", "sinusoidal", "trapezoidal"}, CurveNames())
}
