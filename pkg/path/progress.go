package path

import (
	"math"

	"github.com/robotalks/swerve.go/pkg/geom"
)

// Completion thresholds. Arcs are held to a tighter window around the end
// because angular progress is more sensitive to lateral error.
const (
	LineCompleteAt     = 0.98
	ArcCompleteEpsilon = 0.02
)

// Progress implements Segment by projecting pos onto the line.
func (l *Line) Progress(pos geom.Point2) float64 {
	d := l.End.Sub(l.Start)
	length := d.Norm()
	if length == 0 {
		return 0
	}
	dot := pos.Sub(l.Start).Dot(d.Mul(1 / length))
	return geom.Clamp(dot/length, 0, 1)
}

// Complete implements Segment.
func (l *Line) Complete(progress float64) bool {
	return progress >= LineCompleteAt
}

// Progress implements Segment using the polar angle of pos around the
// center, unwrapped into the sweep of the arc.
func (a *Arc) Progress(pos geom.Point2) float64 {
	sweep := a.EndAngle - a.StartAngle
	if sweep == 0 {
		return 0
	}
	// offset from the start in the sweep direction, within one turn, or
	// one turn behind the start when the pose is past the end.
	d := math.Mod(math.Atan2(pos.Y-a.Center.Y, pos.X-a.Center.X)-a.StartAngle, 2*math.Pi)
	if sweep > 0 {
		if d < 0 {
			d += 2 * math.Pi
		}
		if d > sweep {
			d -= 2 * math.Pi
		}
	} else {
		if d > 0 {
			d -= 2 * math.Pi
		}
		if d < sweep {
			d += 2 * math.Pi
		}
	}
	return geom.Clamp(d/sweep, 0, 1)
}

// Complete implements Segment.
func (a *Arc) Complete(progress float64) bool {
	return math.Abs(progress-1) < ArcCompleteEpsilon
}
