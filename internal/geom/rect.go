package geom

import "math"

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }
func (r Rect) Max() Point { return Point{X: r.X + r.W, Y: r.Y + r.H} }

func (r Rect) Area() float64 { return r.W * r.H }

// Center returns the middle of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r or on its edges.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// ContainsStrict reports whether p lies inside r and off its edges.
func (r Rect) ContainsStrict(p Point) bool {
	return p.X > r.X && p.X < r.X+r.W && p.Y > r.Y && p.Y < r.Y+r.H
}

// Edges returns the four edges clockwise (y down) starting at the top-left
// corner: top, right, bottom, left.
func (r Rect) Edges() [4]Line {
	tl := r.Min()
	tr := Point{X: r.X + r.W, Y: r.Y}
	br := r.Max()
	bl := Point{X: r.X, Y: r.Y + r.H}
	return [4]Line{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}}
}

// Around returns the square of half-size radius centred on p.
func Around(p Point, radius float64) Rect {
	return Rect{X: p.X - radius, Y: p.Y - radius, W: 2 * radius, H: 2 * radius}
}

// SegmentIntersectsRect reports whether the closed segment l touches r.
func SegmentIntersectsRect(l Line, r Rect) bool {
	_, hit := segmentRectHitT(l, r)
	return hit
}

// segmentRectHitT returns the first segment parameter t in [0,1] where l
// enters r. The bool is false when no hit exists.
func segmentRectHitT(l Line, r Rect) (float64, bool) {
	ox, oy := l.A.X, l.A.Y
	dx := l.B.X - ox
	dy := l.B.Y - oy
	minX, minY := r.X, r.Y
	maxX, maxY := r.X+r.W, r.Y+r.H

	tMin := 0.0
	tMax := 1.0

	// X slab
	if math.Abs(dx) < 1e-12 {
		if ox < minX || ox > maxX {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (minX - ox) * invD
		t2 := (maxX - ox) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Y slab
	if math.Abs(dy) < 1e-12 {
		if oy < minY || oy > maxY {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (minY - oy) * invD
		t2 := (maxY - oy) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return tMin, true
}
