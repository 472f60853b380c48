// Package geom holds the 2D primitives the claim engine is built on: points,
// line segments, polygons and axis-aligned rectangles.
//
// Containment and subtraction are only defined for horizontal and vertical
// lines. Every shape the player can produce is axis-aligned, so a diagonal
// reaching those functions is a caller bug and is reported as ErrDiagonal.
package geom

import (
	"errors"
	"math"
)

// eps absorbs float noise in orientation and projection tests.
const eps = 1e-9

// VerticalSlope is returned by Slope for vertical lines.
var VerticalSlope = math.Inf(1)

var (
	ErrDiagonal          = errors.New("geom: operation only defined for horizontal or vertical lines")
	ErrNotContained      = errors.New("geom: inner line is not contained in outer line")
	ErrDegeneratePolygon = errors.New("geom: polygon needs at least 3 distinct points")
)

// Point is a position on the play-field plane.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p multiplied by k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Line is an ordered segment from A to B.
type Line struct {
	A, B Point
}

// Ln is shorthand for Line{A: a, B: b}.
func Ln(a, b Point) Line {
	return Line{A: a, B: b}
}

func (l Line) Horizontal() bool { return l.A.Y == l.B.Y }
func (l Line) Vertical() bool   { return l.A.X == l.B.X }

// AxisAligned reports whether l is horizontal or vertical.
func (l Line) AxisAligned() bool {
	return l.Horizontal() || l.Vertical()
}

// Length returns the euclidean length of l.
func (l Line) Length() float64 {
	return l.A.Dist(l.B)
}

// Reverse returns l with its endpoints swapped.
func Reverse(l Line) Line {
	return Line{A: l.B, B: l.A}
}

// SameSpan reports whether a and b cover the same points regardless of
// direction.
func SameSpan(a, b Line) bool {
	return (a.A == b.A && a.B == b.B) || (a.A == b.B && a.B == b.A)
}

// Slope returns rise over run, or VerticalSlope when the line is vertical.
func Slope(l Line) float64 {
	dx := l.B.X - l.A.X
	if dx == 0 {
		return VerticalSlope
	}
	return (l.B.Y - l.A.Y) / dx
}

// Intercept returns the y-intercept of the line through l, NaN for verticals.
func Intercept(l Line) float64 {
	m := Slope(l)
	if math.IsInf(m, 1) {
		return math.NaN()
	}
	return l.A.Y - m*l.A.X
}

// cross is the z component of (b-a) x (c-a).
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func orientation(a, b, c Point) int {
	v := cross(a, b, c)
	switch {
	case v > eps:
		return 1
	case v < -eps:
		return -1
	default:
		return 0
	}
}

// withinBox reports whether p lies in the bounding box of l.
func withinBox(l Line, p Point) bool {
	return p.X >= math.Min(l.A.X, l.B.X)-eps && p.X <= math.Max(l.A.X, l.B.X)+eps &&
		p.Y >= math.Min(l.A.Y, l.B.Y)-eps && p.Y <= math.Max(l.A.Y, l.B.Y)+eps
}

// PointOnLine reports whether p lies on the closed segment l.
func PointOnLine(p Point, l Line) bool {
	if l.A == l.B {
		return p == l.A
	}
	return orientation(l.A, l.B, p) == 0 && withinBox(l, p)
}

// CollisionLineSegments reports whether the two closed segments share at
// least one point. Crossings, touching endpoints and collinear overlap all
// count.
func CollisionLineSegments(a, b Line) bool {
	o1 := orientation(a.A, a.B, b.A)
	o2 := orientation(a.A, a.B, b.B)
	o3 := orientation(b.A, b.B, a.A)
	o4 := orientation(b.A, b.B, a.B)

	if o1 != o2 && o3 != o4 {
		return true
	}
	if o1 == 0 && withinBox(a, b.A) {
		return true
	}
	if o2 == 0 && withinBox(a, b.B) {
		return true
	}
	if o3 == 0 && withinBox(b, a.A) {
		return true
	}
	return o4 == 0 && withinBox(b, a.B)
}

// LineContainsLine reports whether every point of inner lies on the closed
// span of outer. Stored direction of either line is irrelevant.
func LineContainsLine(outer, inner Line) (bool, error) {
	if !outer.AxisAligned() || !inner.AxisAligned() {
		return false, ErrDiagonal
	}
	if outer.A == outer.B {
		return inner.A == outer.A && inner.B == outer.A, nil
	}
	if outer.Horizontal() {
		y := outer.A.Y
		if inner.A.Y != y || inner.B.Y != y {
			return false, nil
		}
		lo, hi := math.Min(outer.A.X, outer.B.X), math.Max(outer.A.X, outer.B.X)
		return between(inner.A.X, lo, hi) && between(inner.B.X, lo, hi), nil
	}
	x := outer.A.X
	if inner.A.X != x || inner.B.X != x {
		return false, nil
	}
	lo, hi := math.Min(outer.A.Y, outer.B.Y), math.Max(outer.A.Y, outer.B.Y)
	return between(inner.A.Y, lo, hi) && between(inner.B.Y, lo, hi), nil
}

func between(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// SubtractLinesWhereContains returns outer minus inner as zero, one or two
// residual lines. Residuals keep outer's direction and are ordered from
// outer.A to outer.B.
func SubtractLinesWhereContains(outer, inner Line) ([]Line, error) {
	ok, err := LineContainsLine(outer, inner)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotContained
	}

	// Orient inner the same way as outer.
	if outer.A.Dist(inner.A) > outer.A.Dist(inner.B) {
		inner = Reverse(inner)
	}

	var out []Line
	if outer.A != inner.A {
		out = append(out, Line{A: outer.A, B: inner.A})
	}
	if inner.B != outer.B {
		out = append(out, Line{A: inner.B, B: outer.B})
	}
	return out, nil
}

// Project returns the point on l closest to p.
func Project(p Point, l Line) Point {
	d := l.B.Sub(l.A)
	den := d.X*d.X + d.Y*d.Y
	if den == 0 {
		return l.A
	}
	t := ((p.X-l.A.X)*d.X + (p.Y-l.A.Y)*d.Y) / den
	t = math.Max(0, math.Min(1, t))
	return l.A.Add(d.Scale(t))
}
