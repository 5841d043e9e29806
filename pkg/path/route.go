package path

import (
	pkgerrors "github.com/pkg/errors"
)

// Route is an ordered list of segments, traversed in order.
type Route []Segment

// NewRoute validates and creates a Route.
func NewRoute(segs ...Segment) (Route, error) {
	if len(segs) == 0 {
		return nil, pkgerrors.Wrap(ErrInvalidRoute, "no segments")
	}
	for n, seg := range segs {
		if seg == nil {
			return nil, pkgerrors.Wrapf(ErrInvalidRoute, "segment %d is nil", n)
		}
		if seg.Length() <= 0 {
			return nil, pkgerrors.Wrapf(ErrInvalidRoute, "segment %d (%s) has zero length", n, seg.Kind())
		}
	}
	return Route(append([]Segment(nil), segs...)), nil
}

// Length is the total length of the route.
func (r Route) Length() (l float64) {
	for _, seg := range r {
		l += seg.Length()
	}
	return
}

// Kinds lists the kind of each segment.
func (r Route) Kinds() []string {
	kinds := make([]string, len(r))
	for n, seg := range r {
		kinds[n] = seg.Kind()
	}
	return kinds
}
