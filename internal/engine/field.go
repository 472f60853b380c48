package engine

import "github.com/Garsondee/Claimline/internal/geom"

// Claimed is the set of captured polygons.
type Claimed struct {
	polys   []geom.Polygon
	percent float64
}

// Add records a newly captured polygon.
func (c *Claimed) Add(p geom.Polygon) {
	c.polys = append(c.polys, p)
	c.percent += p.Percent()
}

// Polygons returns the captured polygons in capture order.
func (c *Claimed) Polygons() []geom.Polygon {
	return append([]geom.Polygon(nil), c.polys...)
}

func (c *Claimed) Len() int { return len(c.polys) }

// Percent is the summed percentage of the frame that has been captured.
func (c *Claimed) Percent() float64 { return c.percent }

// PointOnLine reports whether p lies on the outline of any captured polygon.
func (c *Claimed) PointOnLine(p geom.Point) bool {
	for _, poly := range c.polys {
		if poly.OnBoundary(p) {
			return true
		}
	}
	return false
}

// PointWithinPolygon reports whether p lies strictly inside any captured
// polygon.
func (c *Claimed) PointWithinPolygon(p geom.Point) bool {
	for _, poly := range c.polys {
		if geom.PointInPolygon(p, poly) {
			return true
		}
	}
	return false
}

// Field is the play-field geometry: the frame, the border of the unclaimed
// region and everything captured so far.
type Field struct {
	Frame   geom.Rect
	Border  *Border
	Claimed *Claimed
}

func newField(frame geom.Rect) *Field {
	return &Field{
		Frame:   frame,
		Border:  NewBorder(frame),
		Claimed: &Claimed{},
	}
}

// Open reports whether p is strictly inside the unclaimed region and clear of
// every captured polygon.
func (f *Field) Open(p geom.Point) bool {
	if !f.Border.Inside(p) {
		return false
	}
	return !f.Claimed.PointWithinPolygon(p) && !f.Claimed.PointOnLine(p)
}

// clearPath reports whether the straight move a->b ends in open space
// without touching any border edge on the way. edges is the border's current
// edge list.
func (f *Field) clearPath(a, b geom.Point, edges []geom.Line) bool {
	if !f.Open(b) {
		return false
	}
	path := geom.Ln(a, b)
	for _, e := range edges {
		if geom.CollisionLineSegments(path, e) {
			return false
		}
	}
	return true
}
