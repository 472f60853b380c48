package engine

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/Garsondee/Claimline/internal/geom"
)

var (
	ErrOffBorder     = errors.New("engine: point is not on the border")
	ErrBrokenBorder  = errors.New("engine: border is not a simple closed cycle")
	ErrTraceTooShort = errors.New("engine: trace needs at least two points")
)

// edge is one slot of the border arena.
type edge struct {
	line       geom.Line
	next, prev int
	live       bool
}

// Border is the boundary of the unclaimed region: a single clockwise cycle
// of axis-aligned edges where each edge ends where the next begins.
//
// Edges live in an arena and link to each other by index. Removed slots go
// on a free list and are reused by later cuts.
type Border struct {
	edges []edge
	free  []int
	head  int
	count int

	poly   geom.Polygon
	polyOK bool
}

// NewBorder returns the border of an untouched frame.
func NewBorder(frame geom.Rect) *Border {
	b := &Border{head: -1}
	es := frame.Edges()
	order := make([]int, 0, len(es))
	for _, l := range es {
		order = append(order, b.add(l))
	}
	b.relink(order)
	return b
}

func (b *Border) add(l geom.Line) int {
	e := edge{line: l, live: true}
	b.count++
	if n := len(b.free); n > 0 {
		i := b.free[n-1]
		b.free = b.free[:n-1]
		b.edges[i] = e
		return i
	}
	b.edges = append(b.edges, e)
	return len(b.edges) - 1
}

func (b *Border) remove(i int) {
	b.edges[i] = edge{next: -1, prev: -1}
	b.free = append(b.free, i)
	b.count--
}

// relink closes order into a cycle starting at order[0].
func (b *Border) relink(order []int) {
	n := len(order)
	for k, i := range order {
		b.edges[i].next = order[(k+1)%n]
		b.edges[i].prev = order[(k+n-1)%n]
	}
	if n > 0 {
		b.head = order[0]
	} else {
		b.head = -1
	}
	b.polyOK = false
}

// order returns live edge indices in cycle order from head.
func (b *Border) order() []int {
	out := make([]int, 0, b.count)
	if b.head < 0 {
		return out
	}
	i := b.head
	for range b.count {
		out = append(out, i)
		i = b.edges[i].next
		if i == b.head {
			break
		}
	}
	return out
}

// Len returns the number of edges.
func (b *Border) Len() int { return b.count }

// Edges returns the edges in cycle order.
func (b *Border) Edges() []geom.Line {
	idx := b.order()
	out := make([]geom.Line, len(idx))
	for k, i := range idx {
		out[k] = b.edges[i].line
	}
	return out
}

// Points returns the start point of every edge in cycle order.
func (b *Border) Points() []geom.Point {
	idx := b.order()
	out := make([]geom.Point, len(idx))
	for k, i := range idx {
		out[k] = b.edges[i].line.A
	}
	return out
}

// Polygon returns the region enclosed by the border. The result is cached
// until the next cut.
func (b *Border) Polygon() geom.Polygon {
	if !b.polyOK {
		p, err := geom.NewPolygon(b.Points(), 0)
		if err != nil {
			return geom.Polygon{}
		}
		b.poly, b.polyOK = p, true
	}
	return b.poly
}

// Contains reports whether p lies on any border edge.
func (b *Border) Contains(p geom.Point) bool {
	for _, i := range b.order() {
		if geom.PointOnLine(p, b.edges[i].line) {
			return true
		}
	}
	return false
}

// ContainsStep reports whether the whole step from a to c runs along a
// single border edge.
func (b *Border) ContainsStep(a, c geom.Point) bool {
	step := geom.Ln(a, c)
	for _, i := range b.order() {
		ok, err := geom.LineContainsLine(b.edges[i].line, step)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// Inside reports whether p lies strictly inside the border.
func (b *Border) Inside(p geom.Point) bool {
	return geom.PointInPolygon(p, b.Polygon())
}

// locateFrom returns the edge holding p in [A,B).
func (b *Border) locateFrom(p geom.Point) (int, bool) {
	for _, i := range b.order() {
		l := b.edges[i].line
		if p != l.B && geom.PointOnLine(p, l) {
			return i, true
		}
	}
	return -1, false
}

// locateTo returns the edge holding p in (A,B].
func (b *Border) locateTo(p geom.Point) (int, bool) {
	for _, i := range b.order() {
		l := b.edges[i].line
		if p != l.A && geom.PointOnLine(p, l) {
			return i, true
		}
	}
	return -1, false
}

func (b *Border) along(i int, p geom.Point) float64 {
	return b.edges[i].line.A.Dist(p)
}

// Nearest returns the index of the edge closest to p and the closest point
// on it.
func (b *Border) Nearest(p geom.Point) (int, geom.Point) {
	best, bestPt, bestD := -1, geom.Point{}, math.Inf(1)
	for _, i := range b.order() {
		q := geom.Project(p, b.edges[i].line)
		if d := p.Dist(q); d < bestD {
			best, bestPt, bestD = i, q, d
		}
	}
	return best, bestPt
}

// Walk returns the border path from one border point forward to another,
// endpoints and every corner in between included.
func (b *Border) Walk(from, to geom.Point) ([]geom.Point, error) {
	ix, ok := b.locateFrom(from)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrOffBorder, from)
	}
	iy, ok := b.locateTo(to)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrOffBorder, to)
	}
	if ix == iy && b.along(ix, from) < b.along(ix, to) {
		return []geom.Point{from, to}, nil
	}
	pts := []geom.Point{from, b.edges[ix].line.B}
	for e := b.edges[ix].next; e != iy; e = b.edges[e].next {
		pts = append(pts, b.edges[e].line.B)
	}
	return append(pts, to), nil
}

// Cut replaces the forward border span from x to y with chain. chain must
// start at x, end at y and otherwise run strictly inside the border.
func (b *Border) Cut(x, y geom.Point, chain []geom.Point) error {
	if len(chain) < 2 {
		return ErrTraceTooShort
	}
	if chain[0] != x || chain[len(chain)-1] != y {
		return fmt.Errorf("engine: chain %v does not run from %v to %v", chain, x, y)
	}
	ix, ok := b.locateFrom(x)
	if !ok {
		return fmt.Errorf("%w: %v", ErrOffBorder, x)
	}
	iy, ok := b.locateTo(y)
	if !ok {
		return fmt.Errorf("%w: %v", ErrOffBorder, y)
	}

	saved := b.snapshot()
	var tailLines, headLines []geom.Line
	var kept, removed []int
	ex, ey := b.edges[ix].line, b.edges[iy].line

	if ix == iy && b.along(ix, x) > b.along(ix, y) {
		// The span wraps the whole cycle; only [y,x] of the shared edge stays.
		tailLines = []geom.Line{geom.Ln(y, x)}
		removed = b.order()
	} else {
		if ix == iy {
			res, err := geom.SubtractLinesWhereContains(ex, geom.Ln(x, y))
			if err != nil {
				return err
			}
			for _, r := range res {
				if r.B == x {
					headLines = append(headLines, r)
				} else {
					tailLines = append(tailLines, r)
				}
			}
		} else {
			var err error
			if tailLines, err = geom.SubtractLinesWhereContains(ey, geom.Ln(ey.A, y)); err != nil {
				return err
			}
			if headLines, err = geom.SubtractLinesWhereContains(ex, geom.Ln(x, ex.B)); err != nil {
				return err
			}
		}
		for e := b.edges[iy].next; e != ix; e = b.edges[e].next {
			kept = append(kept, e)
		}
		for e := ix; ; e = b.edges[e].next {
			removed = append(removed, e)
			if e == iy {
				break
			}
		}
	}

	for _, i := range removed {
		b.remove(i)
	}

	// New cycle: tail residual, kept edges, head residual, chain.
	order := make([]int, 0, len(tailLines)+len(kept)+len(headLines)+len(chain))
	for _, l := range tailLines {
		order = append(order, b.add(l))
	}
	order = append(order, kept...)
	for _, l := range headLines {
		order = append(order, b.add(l))
	}
	for i := 0; i+1 < len(chain); i++ {
		order = append(order, b.add(geom.Ln(chain[i], chain[i+1])))
	}
	b.relink(order)
	b.mergeCollinear()
	if err := b.Validate(); err != nil {
		b.restore(saved)
		return err
	}
	return nil
}

// borderState is a copy of the arena taken before a mutation.
type borderState struct {
	edges []edge
	free  []int
	head  int
	count int
}

func (b *Border) snapshot() borderState {
	return borderState{edges: slices.Clone(b.edges), free: slices.Clone(b.free), head: b.head, count: b.count}
}

func (b *Border) restore(st borderState) {
	b.edges, b.free, b.head, b.count = st.edges, st.free, st.head, st.count
	b.polyOK = false
}

// mergeCollinear folds consecutive edges running the same way into one.
func (b *Border) mergeCollinear() {
	for {
		merged := false
		for _, i := range b.order() {
			j := b.edges[i].next
			if i == j || !sameHeading(b.edges[i].line, b.edges[j].line) {
				continue
			}
			b.edges[i].line.B = b.edges[j].line.B
			order := b.order()
			out := order[:0]
			for _, e := range order {
				if e != j {
					out = append(out, e)
				}
			}
			b.remove(j)
			b.relink(out)
			merged = true
			break
		}
		if !merged {
			return
		}
	}
}

func sameHeading(a, c geom.Line) bool {
	da, dc := a.B.Sub(a.A), c.B.Sub(c.A)
	if da.Y == 0 && dc.Y == 0 {
		return sign(da.X) == sign(dc.X)
	}
	if da.X == 0 && dc.X == 0 {
		return sign(da.Y) == sign(dc.Y)
	}
	return false
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Validate checks that the border is a simple closed cycle of axis-aligned,
// non-empty edges.
func (b *Border) Validate() error {
	if b.count < 4 {
		return fmt.Errorf("%w: %d edges", ErrBrokenBorder, b.count)
	}
	order := b.order()
	if len(order) != b.count || b.edges[order[len(order)-1]].next != b.head {
		return fmt.Errorf("%w: cycle visits %d of %d edges", ErrBrokenBorder, len(order), b.count)
	}
	for k, i := range order {
		e := b.edges[i]
		if !e.live || !e.line.AxisAligned() || e.line.A == e.line.B {
			return fmt.Errorf("%w: bad edge %v", ErrBrokenBorder, e.line)
		}
		nx := b.edges[e.next]
		if nx.prev != i || nx.line.A != e.line.B {
			return fmt.Errorf("%w: edge %d %v does not meet %v", ErrBrokenBorder, k, e.line, nx.line)
		}
	}
	for a := 0; a < len(order); a++ {
		for c := a + 2; c < len(order); c++ {
			if a == 0 && c == len(order)-1 {
				continue
			}
			if geom.CollisionLineSegments(b.edges[order[a]].line, b.edges[order[c]].line) {
				return fmt.Errorf("%w: %v crosses %v", ErrBrokenBorder,
					b.edges[order[a]].line, b.edges[order[c]].line)
			}
		}
	}
	return nil
}
