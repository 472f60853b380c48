package engine

import (
	"fmt"
	"slices"

	"github.com/Garsondee/Claimline/internal/geom"
)

// Capture describes one completed trace.
type Capture struct {
	Polygon geom.Polygon
	Trace   []geom.Point
	Trapped []int // indices into the hazard list that ended up inside Polygon
}

// close splits the unclaimed region along trace and claims one side. The
// side without a hazard is claimed; when both or neither hold one, the
// smaller side goes. The border is cut so it keeps enclosing the other side.
func (f *Field) close(trace []geom.Point, hazards []geom.Point) (Capture, error) {
	if len(trace) < 2 {
		return Capture{}, ErrTraceTooShort
	}
	a, b := trace[0], trace[len(trace)-1]
	forward, err := f.Border.Walk(a, b)
	if err != nil {
		return Capture{}, err
	}
	back, err := f.Border.Walk(b, a)
	if err != nil {
		return Capture{}, err
	}
	reversed := slices.Clone(trace)
	slices.Reverse(reversed)

	// r1 follows the trace out and the border home; r2 is the border span
	// the trace cuts off.
	r1pts := append(slices.Clone(trace), back[1:len(back)-1]...)
	r2pts := append(slices.Clone(forward), reversed[1:len(reversed)-1]...)

	frameArea := f.Frame.Area()
	r1, err := geom.NewPolygon(geom.Simplify(r1pts), frameArea)
	if err != nil {
		return Capture{}, fmt.Errorf("closing trace %v: %w", trace, err)
	}
	r2, err := geom.NewPolygon(geom.Simplify(r2pts), frameArea)
	if err != nil {
		return Capture{}, fmt.Errorf("closing trace %v: %w", trace, err)
	}

	claimR1 := chooseSide(r1, r2, hazards)
	claimed := r2
	if claimR1 {
		claimed = r1
		err = f.Border.Cut(b, a, reversed)
	} else {
		err = f.Border.Cut(a, b, trace)
	}
	if err != nil {
		return Capture{}, err
	}

	c := Capture{Polygon: claimed, Trace: slices.Clone(trace)}
	for i, h := range hazards {
		if geom.PointInPolygon(h, claimed) || claimed.OnBoundary(h) {
			c.Trapped = append(c.Trapped, i)
		}
	}
	return c, nil
}

// chooseSide reports whether r1 is the side to claim.
func chooseSide(r1, r2 geom.Polygon, hazards []geom.Point) bool {
	in1, in2 := false, false
	for _, h := range hazards {
		in1 = in1 || geom.PointInPolygon(h, r1)
		in2 = in2 || geom.PointInPolygon(h, r2)
	}
	switch {
	case in1 && !in2:
		return false
	case in2 && !in1:
		return true
	default:
		return r1.Area() <= r2.Area()
	}
}
