package geom

import "math"

// Polygon is a closed ring of points. The last point connects back to the
// first; Lines always includes that closing line.
type Polygon struct {
	points  []Point
	lines   []Line
	area    float64
	percent float64
}

// NewPolygon builds a polygon from an ordered ring of points and caches its
// area as a percentage of frameArea. Pass frameArea <= 0 to skip the percent.
func NewPolygon(points []Point, frameArea float64) (Polygon, error) {
	if countDistinct(points) < 3 {
		return Polygon{}, ErrDegeneratePolygon
	}
	p := Polygon{
		points: append([]Point(nil), points...),
		lines:  make([]Line, len(points)),
	}
	for i, a := range p.points {
		p.lines[i] = Line{A: a, B: p.points[(i+1)%len(p.points)]}
	}
	p.area = math.Abs(signedArea(p.points))
	if frameArea > 0 {
		p.percent = p.area / frameArea * 100
	}
	return p, nil
}

func countDistinct(points []Point) int {
	seen := make(map[Point]struct{}, len(points))
	for _, p := range points {
		seen[p] = struct{}{}
	}
	return len(seen)
}

// signedArea is the shoelace sum; positive for clockwise rings in screen
// coordinates (y down).
func signedArea(points []Point) float64 {
	var s float64
	for i, a := range points {
		b := points[(i+1)%len(points)]
		s += a.X*b.Y - b.X*a.Y
	}
	return s / 2
}

// Points returns a copy of the ring.
func (p Polygon) Points() []Point {
	return append([]Point(nil), p.points...)
}

// Lines returns a copy of the boundary lines, closing line included.
func (p Polygon) Lines() []Line {
	return append([]Line(nil), p.lines...)
}

func (p Polygon) Len() int         { return len(p.points) }
func (p Polygon) Area() float64    { return p.area }
func (p Polygon) Percent() float64 { return p.percent }

// Bounds returns the axis-aligned bounding rectangle.
func (p Polygon) Bounds() Rect {
	if len(p.points) == 0 {
		return Rect{}
	}
	minX, minY := p.points[0].X, p.points[0].Y
	maxX, maxY := minX, minY
	for _, q := range p.points[1:] {
		minX = math.Min(minX, q.X)
		minY = math.Min(minY, q.Y)
		maxX = math.Max(maxX, q.X)
		maxY = math.Max(maxY, q.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// OnBoundary reports whether pt lies on any boundary line.
func (p Polygon) OnBoundary(pt Point) bool {
	for _, l := range p.lines {
		if PointOnLine(pt, l) {
			return true
		}
	}
	return false
}

// PointInPolygon reports whether pt is strictly inside poly. Points on the
// boundary are not inside.
//
// A ray is cast from pt to the polygon's rightmost x extent. Horizontal lines
// lying on the ray's y are degenerate and never counted; other lines count
// when they cross pt's y under the half-open rule, so a shared vertex is not
// counted twice.
func PointInPolygon(pt Point, poly Polygon) bool {
	if poly.OnBoundary(pt) {
		return false
	}
	maxX := poly.Bounds().Max().X
	if pt.X >= maxX {
		return false
	}
	crossings := 0
	for _, l := range poly.lines {
		if l.Horizontal() {
			continue
		}
		if (l.A.Y > pt.Y) == (l.B.Y > pt.Y) {
			continue
		}
		x := l.A.X + (pt.Y-l.A.Y)*(l.B.X-l.A.X)/(l.B.Y-l.A.Y)
		if x > pt.X && x <= maxX {
			crossings++
		}
	}
	return crossings%2 == 1
}

// Simplify drops repeated points and the middle point of any collinear run,
// wrapping around the ring.
func Simplify(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}

	changed := true
	for changed && len(out) >= 3 {
		changed = false
		for i := 0; i < len(out); i++ {
			prev := out[(i+len(out)-1)%len(out)]
			next := out[(i+1)%len(out)]
			if orientation(prev, out[i], next) == 0 {
				out = append(out[:i], out[i+1:]...)
				changed = true
				break
			}
		}
	}
	return out
}
