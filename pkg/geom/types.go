package geom

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// Point2 is a point (or vector) on the 2D plane.
type Point2 = r2.Point

// Pt is a shortcut to create Point2.
func Pt(x, y float64) Point2 {
	return Point2{X: x, Y: y}
}

// Pose is the position and heading reported by localization.
type Pose struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	HeadingDeg float64 `json:"heading"`
}

// Point returns the position part of the pose.
func (p Pose) Point() Point2 {
	return Point2{X: p.X, Y: p.Y}
}

// Heading returns the heading as Angle.
func (p Pose) Heading() Angle {
	return AngleFromDegrees(p.HeadingDeg)
}

// Moved returns the pose translated by d and rotated by deg.
func (p Pose) Moved(d Point2, deg float64) Pose {
	return Pose{X: p.X + d.X, Y: p.Y + d.Y, HeadingDeg: Wrap360(p.HeadingDeg + deg)}
}

func (p Pose) String() string {
	return fmt.Sprintf("(%.2f,%.2f)@%.1f°", p.X, p.Y, p.HeadingDeg)
}

// Rotate rotates v counter-clockwise by deg around the origin.
func Rotate(v Point2, deg float64) Point2 {
	s, c := math.Sincos(Radians(deg))
	return Point2{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// IsFinite reports whether both coordinates are finite numbers.
func IsFinite(p Point2) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
