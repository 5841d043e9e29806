package kinematics

import (
	pkgerrors "github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/robotalks/swerve.go/pkg/geom"
	"github.com/robotalks/swerve.go/pkg/path"
)

// SamplesPerSegment is the resolution of wheel loci.
const SamplesPerSegment = 100

// ErrInvalidRoute is returned when no profile can be built for a route.
var ErrInvalidRoute = path.ErrInvalidRoute

// Profile holds the speed ratio of each wheel along a route while the
// chassis heading blends from an initial to a final value.
//
// The heading blends linearly per segment index: segment i of N turns the
// chassis from h(i/N) to h((i+1)/N), regardless of segment length. A
// wheel off the rotation center then traces its own locus, longer or
// shorter than the center path, and the ratio between the two step
// lengths is the wheel speed relative to the nominal speed.
type Profile struct {
	chassis        Chassis
	initialHeading float64
	finalHeading   float64
	segments       int

	loci         WheelSet[[]geom.Point2]
	lengths      WheelSet[float64]
	centerLength float64
	ratios       WheelSet[*interp.PiecewiseLinear]
}

// NewProfile builds the Profile of route.
func NewProfile(route path.Route, chassis Chassis, initialHeadingDeg, finalHeadingDeg float64) (*Profile, error) {
	if len(route) == 0 {
		return nil, pkgerrors.Wrap(ErrInvalidRoute, "no segments")
	}
	p := &Profile{
		chassis:        chassis,
		initialHeading: initialHeadingDeg,
		finalHeading:   finalHeadingDeg,
		segments:       len(route),
	}
	var xs []float64
	var ys WheelSet[[]float64]
	var steps []float64
	last := float64(SamplesPerSegment - 1)
	for i, seg := range route {
		center := path.Sample(seg, SamplesPerSegment)
		start := len(p.loci[FrontLeft])
		for j, c := range center {
			heading := p.HeadingAt((float64(i) + float64(j)/last) / float64(p.segments))
			for _, w := range Wheels {
				p.loci[w] = append(p.loci[w], c.Add(geom.Rotate(chassis.Offset(w), heading)))
			}
		}
		for j := 1; j < len(center); j++ {
			step := center[j].Sub(center[j-1]).Norm()
			if step == 0 {
				return nil, pkgerrors.Wrapf(ErrInvalidRoute, "segment %d (%s) is degenerate", i, seg.Kind())
			}
			steps = append(steps, step)
			xs = append(xs, (float64(i)+(float64(j)-0.5)/last)/float64(p.segments))
			for _, w := range Wheels {
				locus := p.loci[w][start:]
				ys[w] = append(ys[w], locus[j].Sub(locus[j-1]).Norm()/step)
			}
		}
	}
	p.centerLength = floats.Sum(steps)
	if p.centerLength == 0 {
		return nil, pkgerrors.Wrap(ErrInvalidRoute, "zero length")
	}
	for _, w := range Wheels {
		locus := p.loci[w]
		for n := 1; n < len(locus); n++ {
			p.lengths[w] += locus[n].Sub(locus[n-1]).Norm()
		}
		pl := &interp.PiecewiseLinear{}
		if err := pl.Fit(xs, ys[w]); err != nil {
			return nil, pkgerrors.Wrapf(ErrInvalidRoute, "speed ratio of %s: %v", w, err)
		}
		p.ratios[w] = pl
	}
	return p, nil
}

// Segments is the number of segments in the route.
func (p *Profile) Segments() int {
	return p.segments
}

// HeadingAt is the blended chassis heading in degrees at overall route
// progress in [0, 1].
func (p *Profile) HeadingAt(progress float64) float64 {
	return geom.Lerp(p.initialHeading, p.finalHeading, geom.Clamp(progress, 0, 1))
}

// Ratio is the speed of wheel w relative to the center at overall route
// progress in [0, 1].
func (p *Profile) Ratio(w WheelID, progress float64) float64 {
	return p.ratios[w].Predict(geom.Clamp(progress, 0, 1))
}

// SpeedsAt returns the speed of each wheel for the base speed at overall
// route progress.
func (p *Profile) SpeedsAt(progress, baseSpeed float64) (speeds WheelSet[float64]) {
	for _, w := range Wheels {
		speeds[w] = baseSpeed * p.Ratio(w, progress)
	}
	return
}

// WheelPathLength is the total length of the locus of wheel w.
func (p *Profile) WheelPathLength(w WheelID) float64 {
	return p.lengths[w]
}

// CenterPathLength is the total length of the sampled center path.
func (p *Profile) CenterPathLength() float64 {
	return p.centerLength
}

// Locus returns the sampled locus of wheel w.
func (p *Profile) Locus(w WheelID) []geom.Point2 {
	return append([]geom.Point2(nil), p.loci[w]...)
}

// OverallProgress combines the index of the active segment and the
// progress along it into route progress in [0, 1].
func OverallProgress(index, segments int, progress float64) float64 {
	if segments <= 0 {
		return 0
	}
	return geom.Clamp((float64(index)+progress)/float64(segments), 0, 1)
}
