package kinematics

import (
	"math"

	"github.com/robotalks/swerve.go/pkg/geom"
	"github.com/robotalks/swerve.go/pkg/path"
)

// Tangent is the direction of travel in degrees [0, 360) along seg for
// a base at pos.
func Tangent(seg path.Segment, pos geom.Point2) float64 {
	switch s := seg.(type) {
	case *path.Line:
		return geom.Wrap360(geom.Degrees(s.Direction()))
	case *path.Arc:
		return arcTangent(s, math.Atan2(pos.Y-s.Center.Y, pos.X-s.Center.X))
	default:
		// a generic segment is approximated by its chord around pos.
		p := seg.Progress(pos)
		a, b := seg.PointAt(math.Max(p-0.01, 0)), seg.PointAt(math.Min(p+0.01, 1))
		d := b.Sub(a)
		return geom.Wrap360(geom.Degrees(math.Atan2(d.Y, d.X)))
	}
}

// StartTangent is the direction of travel at the start of seg.
func StartTangent(seg path.Segment) float64 {
	if arc, ok := seg.(*path.Arc); ok {
		return arcTangent(arc, arc.StartAngle)
	}
	return Tangent(seg, seg.PointAt(0))
}

func arcTangent(arc *path.Arc, centerAngle float64) float64 {
	deg := geom.Degrees(centerAngle)
	if arc.Clockwise() {
		return geom.Wrap360(deg - 90)
	}
	return geom.Wrap360(deg + 90)
}

// ResolveAngle picks the wheel heading closest to current between
// tangent and its opposite. A wheel steered to the opposite must drive in
// reverse, which is reported by reversed. On a tie tangent is chosen.
func ResolveAngle(current, tangent float64) (angle float64, reversed bool) {
	tangent = geom.Wrap360(tangent)
	opposite := geom.Wrap360(tangent + 180)
	if geom.CircularDistance(current, opposite) < geom.CircularDistance(current, tangent) {
		return opposite, true
	}
	return tangent, false
}

// ChassisAngle converts a world bearing into the chassis frame.
func ChassisAngle(world, headingDeg float64) float64 {
	return geom.Wrap360(world - headingDeg)
}
