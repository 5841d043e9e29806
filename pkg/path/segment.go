// Package path defines the route geometry followed by the swerve base:
// straight lines and circular arcs, and how far along them a pose is.
package path

import (
	"errors"
	"math"

	pkgerrors "github.com/pkg/errors"

	"github.com/robotalks/swerve.go/pkg/geom"
)

// DefaultVelocity is the nominal traversal velocity of a segment
// created without one.
const DefaultVelocity = 0.5

// Segment kinds.
const (
	KindLine = "line"
	KindArc  = "arc"
)

var (
	// ErrInvalidGeometry rejects a segment which can't be traversed.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrInvalidRoute rejects a route which can't be followed.
	ErrInvalidRoute = errors.New("invalid route")
)

// Segment is one immutable piece of a route.
type Segment interface {
	// Kind returns KindLine or KindArc.
	Kind() string
	// PointAt evaluates the segment at t in [0, 1].
	PointAt(t float64) geom.Point2
	// Length is the length of the segment.
	Length() float64
	// Velocity is the nominal traversal velocity.
	Velocity() float64
	// Progress estimates the fraction of the segment covered
	// when the base is at pos, clamped to [0, 1].
	Progress(pos geom.Point2) float64
	// Complete tells whether progress reached the end of the segment.
	Complete(progress float64) bool
}

// Line is a straight segment.
type Line struct {
	Start geom.Point2
	End   geom.Point2
	Speed float64
}

// Arc is a circular segment. The sign of EndAngle-StartAngle gives the
// turning direction, positive for counter-clockwise.
type Arc struct {
	Center     geom.Point2
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Speed      float64
}

// NewLine creates a Line. velocity 0 means DefaultVelocity.
func NewLine(start, end geom.Point2, velocity float64) (*Line, error) {
	if !geom.IsFinite(start) || !geom.IsFinite(end) || !isFinite(velocity) {
		return nil, pkgerrors.Wrapf(ErrInvalidGeometry, "line %v -> %v: non-finite value", start, end)
	}
	if start == end {
		return nil, pkgerrors.Wrapf(ErrInvalidGeometry, "line %v -> %v: zero length", start, end)
	}
	return &Line{Start: start, End: end, Speed: velocity}, nil
}

// NewArc creates an Arc. velocity 0 means DefaultVelocity.
func NewArc(center geom.Point2, radius, startAngle, endAngle, velocity float64) (*Arc, error) {
	if !geom.IsFinite(center) || !isFinite(radius) || !isFinite(startAngle) ||
		!isFinite(endAngle) || !isFinite(velocity) {
		return nil, pkgerrors.Wrapf(ErrInvalidGeometry, "arc around %v: non-finite value", center)
	}
	if radius <= 0 {
		return nil, pkgerrors.Wrapf(ErrInvalidGeometry, "arc around %v: radius %v", center, radius)
	}
	if startAngle == endAngle {
		return nil, pkgerrors.Wrapf(ErrInvalidGeometry, "arc around %v: empty sweep at %v", center, startAngle)
	}
	return &Arc{
		Center:     center,
		Radius:     radius,
		StartAngle: startAngle,
		EndAngle:   endAngle,
		Speed:      velocity,
	}, nil
}

// Kind implements Segment.
func (l *Line) Kind() string { return KindLine }

// PointAt implements Segment.
func (l *Line) PointAt(t float64) geom.Point2 {
	return l.Start.Add(l.End.Sub(l.Start).Mul(t))
}

// Length implements Segment.
func (l *Line) Length() float64 {
	return l.End.Sub(l.Start).Norm()
}

// Velocity implements Segment.
func (l *Line) Velocity() float64 {
	return velocityOrDefault(l.Speed)
}

// Direction is the bearing of the line in radians.
func (l *Line) Direction() float64 {
	d := l.End.Sub(l.Start)
	return math.Atan2(d.Y, d.X)
}

// Kind implements Segment.
func (a *Arc) Kind() string { return KindArc }

// PointAt implements Segment.
func (a *Arc) PointAt(t float64) geom.Point2 {
	angle := a.StartAngle + (a.EndAngle-a.StartAngle)*t
	s, c := math.Sincos(angle)
	return geom.Point2{X: a.Center.X + a.Radius*c, Y: a.Center.Y + a.Radius*s}
}

// Length implements Segment.
func (a *Arc) Length() float64 {
	return a.Radius * math.Abs(a.EndAngle-a.StartAngle)
}

// Velocity implements Segment.
func (a *Arc) Velocity() float64 {
	return velocityOrDefault(a.Speed)
}

// Clockwise tells the turning direction.
func (a *Arc) Clockwise() bool {
	return a.EndAngle < a.StartAngle
}

// Sample returns n points evenly spaced by t, including both ends.
func Sample(seg Segment, n int) []geom.Point2 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []geom.Point2{seg.PointAt(0)}
	}
	pts := make([]geom.Point2, n)
	for i := range pts {
		pts[i] = seg.PointAt(float64(i) / float64(n-1))
	}
	return pts
}

func velocityOrDefault(v float64) float64 {
	if v == 0 {
		return DefaultVelocity
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
