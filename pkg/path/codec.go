package path

import (
	"encoding/json"
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"

	"github.com/robotalks/swerve.go/pkg/geom"
)

// segmentJSON is the on-disk form of a segment in a route file:
//
//	[{"type": "line", "start": [0, 0], "end": [100, 0], "velocity": 1},
//	 {"type": "arc", "center": [150, 0], "radius": 50, "start_angle": 3.14159, "end_angle": 0}]
type segmentJSON struct {
	Type       string      `json:"type"`
	Start      *[2]float64 `json:"start,omitempty"`
	End        *[2]float64 `json:"end,omitempty"`
	Center     *[2]float64 `json:"center,omitempty"`
	Radius     float64     `json:"radius,omitempty"`
	StartAngle float64     `json:"start_angle,omitempty"`
	EndAngle   float64     `json:"end_angle,omitempty"`
	Velocity   float64     `json:"velocity,omitempty"`
}

// ParseRoute decodes a route from JSON.
func ParseRoute(data []byte) (Route, error) {
	var segs []segmentJSON
	if err := json.Unmarshal(data, &segs); err != nil {
		return nil, pkgerrors.Wrap(err, "decode route")
	}
	route := make([]Segment, 0, len(segs))
	for n, s := range segs {
		seg, err := s.segment()
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "segment %d", n)
		}
		route = append(route, seg)
	}
	return NewRoute(route...)
}

// ReadRoute decodes a route from r.
func ReadRoute(r io.Reader) (Route, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseRoute(data)
}

// LoadRoute loads a route file.
func LoadRoute(fn string) (Route, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRoute(f)
}

// MarshalJSON encodes the route in the same form ParseRoute accepts.
func (r Route) MarshalJSON() ([]byte, error) {
	segs := make([]segmentJSON, 0, len(r))
	for _, seg := range r {
		switch s := seg.(type) {
		case *Line:
			segs = append(segs, segmentJSON{
				Type:     KindLine,
				Start:    &[2]float64{s.Start.X, s.Start.Y},
				End:      &[2]float64{s.End.X, s.End.Y},
				Velocity: s.Speed,
			})
		case *Arc:
			segs = append(segs, segmentJSON{
				Type:       KindArc,
				Center:     &[2]float64{s.Center.X, s.Center.Y},
				Radius:     s.Radius,
				StartAngle: s.StartAngle,
				EndAngle:   s.EndAngle,
				Velocity:   s.Speed,
			})
		default:
			return nil, pkgerrors.Errorf("unsupported segment %T", seg)
		}
	}
	return json.Marshal(segs)
}

func (s *segmentJSON) segment() (Segment, error) {
	switch s.Type {
	case KindLine:
		if s.Start == nil || s.End == nil {
			return nil, pkgerrors.Wrap(ErrInvalidGeometry, "line requires start and end")
		}
		return NewLine(pt(s.Start), pt(s.End), s.Velocity)
	case KindArc, "curve":
		if s.Center == nil {
			return nil, pkgerrors.Wrap(ErrInvalidGeometry, "arc requires center")
		}
		return NewArc(pt(s.Center), s.Radius, s.StartAngle, s.EndAngle, s.Velocity)
	default:
		return nil, pkgerrors.Errorf("unknown segment type %q", s.Type)
	}
}

func pt(v *[2]float64) geom.Point2 {
	return geom.Pt(v[0], v[1])
}
