package engine

import (
	"errors"
	"testing"

	"github.com/Garsondee/Claimline/internal/geom"
)

var frame100 = geom.Rect{X: 0, Y: 0, W: 100, H: 100}

func pts(xy ...float64) []geom.Point {
	out := make([]geom.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, geom.Pt(xy[i], xy[i+1]))
	}
	return out
}

func samePoints(a, b []geom.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewBorder_Frame(t *testing.T) {
	b := NewBorder(frame100)
	if b.Len() != 4 {
		t.Fatalf("edges = %d, want 4", b.Len())
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if a := b.Polygon().Area(); a != 10000 {
		t.Fatalf("area = %v", a)
	}
	want := pts(0, 0, 100, 0, 100, 100, 0, 100)
	if got := b.Points(); !samePoints(got, want) {
		t.Fatalf("points = %v, want %v", got, want)
	}
}

func TestBorder_ContainsAndSteps(t *testing.T) {
	b := NewBorder(frame100)
	if !b.Contains(geom.Pt(100, 50)) || b.Contains(geom.Pt(50, 50)) {
		t.Fatal("Contains wrong")
	}
	if !b.ContainsStep(geom.Pt(0, 0), geom.Pt(1, 0)) || !b.ContainsStep(geom.Pt(0, 0), geom.Pt(0, 1)) {
		t.Fatal("steps along frame edges should be contained")
	}
	if b.ContainsStep(geom.Pt(1, 0), geom.Pt(1, 1)) {
		t.Fatal("step off the top edge reported as along the border")
	}
	if !b.Inside(geom.Pt(50, 50)) || b.Inside(geom.Pt(0, 50)) {
		t.Fatal("Inside wrong")
	}
}

func TestBorder_Nearest(t *testing.T) {
	b := NewBorder(frame100)
	for _, p := range []geom.Point{geom.Pt(50, -3), geom.Pt(50, 3)} {
		e, q := b.Nearest(p)
		if q != geom.Pt(50, 0) {
			t.Fatalf("Nearest(%v) = %v", p, q)
		}
		if b.edges[e].line != geom.Ln(geom.Pt(0, 0), geom.Pt(100, 0)) {
			t.Fatalf("Nearest(%v) picked edge %v", p, b.edges[e].line)
		}
	}
}

func TestBorderWalk(t *testing.T) {
	b := NewBorder(frame100)
	cases := []struct {
		from, to geom.Point
		want     []geom.Point
	}{
		{geom.Pt(10, 0), geom.Pt(0, 10), pts(10, 0, 100, 0, 100, 100, 0, 100, 0, 10)},
		{geom.Pt(20, 0), geom.Pt(40, 0), pts(20, 0, 40, 0)},
		{geom.Pt(40, 0), geom.Pt(20, 0), pts(40, 0, 100, 0, 100, 100, 0, 100, 0, 0, 20, 0)},
		{geom.Pt(0, 10), geom.Pt(10, 0), pts(0, 10, 0, 0, 10, 0)},
	}
	for _, c := range cases {
		got, err := b.Walk(c.from, c.to)
		if err != nil {
			t.Fatalf("Walk(%v,%v): %v", c.from, c.to, err)
		}
		if !samePoints(got, c.want) {
			t.Fatalf("Walk(%v,%v) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
	if _, err := b.Walk(geom.Pt(5, 5), geom.Pt(0, 0)); !errors.Is(err, ErrOffBorder) {
		t.Fatalf("expected ErrOffBorder, got %v", err)
	}
}

func TestBorderCut_Corner(t *testing.T) {
	b := NewBorder(frame100)
	if err := b.Cut(geom.Pt(0, 10), geom.Pt(10, 0), pts(0, 10, 10, 10, 10, 0)); err != nil {
		t.Fatalf("Cut: %v", err)
	}
	want := pts(10, 0, 100, 0, 100, 100, 0, 100, 0, 10, 10, 10)
	if got := b.Points(); !samePoints(got, want) {
		t.Fatalf("points = %v, want %v", got, want)
	}
	if a := b.Polygon().Area(); a != 9900 {
		t.Fatalf("area = %v, want 9900", a)
	}
}

func TestBorderCut_WithinOneEdge(t *testing.T) {
	b := NewBorder(frame100)
	if err := b.Cut(geom.Pt(20, 0), geom.Pt(40, 0), pts(20, 0, 20, 10, 40, 10, 40, 0)); err != nil {
		t.Fatalf("Cut: %v", err)
	}
	want := pts(40, 0, 100, 0, 100, 100, 0, 100, 0, 0, 20, 0, 20, 10, 40, 10)
	if got := b.Points(); !samePoints(got, want) {
		t.Fatalf("points = %v, want %v", got, want)
	}
	if b.Inside(geom.Pt(30, 5)) {
		t.Fatal("notch should be outside the border")
	}
}

// The forward span from x to y covers the whole cycle except the piece
// between them on their shared edge.
func TestBorderCut_WrapAround(t *testing.T) {
	b := NewBorder(frame100)
	if err := b.Cut(geom.Pt(40, 0), geom.Pt(20, 0), pts(40, 0, 40, 10, 20, 10, 20, 0)); err != nil {
		t.Fatalf("Cut: %v", err)
	}
	want := pts(20, 0, 40, 0, 40, 10, 20, 10)
	if got := b.Points(); !samePoints(got, want) {
		t.Fatalf("points = %v, want %v", got, want)
	}
	if !b.Inside(geom.Pt(30, 5)) || b.Inside(geom.Pt(50, 50)) {
		t.Fatal("border should now enclose only the small box")
	}
}

func TestBorderCut_MergesCollinearEdges(t *testing.T) {
	b := NewBorder(frame100)
	if err := b.Cut(geom.Pt(0, 10), geom.Pt(10, 0), pts(0, 10, 10, 10, 10, 0)); err != nil {
		t.Fatal(err)
	}
	// The new chain ends running up into the existing (10,10)->(10,0) edge.
	if err := b.Cut(geom.Pt(0, 20), geom.Pt(10, 10), pts(0, 20, 10, 20, 10, 10)); err != nil {
		t.Fatalf("Cut: %v", err)
	}
	if b.Len() != 6 {
		t.Fatalf("edges = %d, want 6: %v", b.Len(), b.Edges())
	}
	found := false
	for _, l := range b.Edges() {
		if l == geom.Ln(geom.Pt(10, 20), geom.Pt(10, 0)) {
			found = true
		}
	}
	if !found {
		t.Fatalf("collinear edges not merged: %v", b.Edges())
	}
	if a := b.Polygon().Area(); a != 9800 {
		t.Fatalf("area = %v, want 9800", a)
	}
}

func TestBorderCut_Errors(t *testing.T) {
	b := NewBorder(frame100)
	if err := b.Cut(geom.Pt(0, 10), geom.Pt(10, 0), pts(0, 10)); !errors.Is(err, ErrTraceTooShort) {
		t.Fatalf("expected ErrTraceTooShort, got %v", err)
	}
	if err := b.Cut(geom.Pt(5, 5), geom.Pt(10, 0), pts(5, 5, 10, 5, 10, 0)); !errors.Is(err, ErrOffBorder) {
		t.Fatalf("expected ErrOffBorder, got %v", err)
	}
	if err := b.Cut(geom.Pt(0, 10), geom.Pt(10, 0), pts(0, 10, 10, 10)); err == nil {
		t.Fatal("chain not ending at y should fail")
	}
	if err := b.Validate(); err != nil || b.Len() != 4 {
		t.Fatalf("failed cuts must leave the border untouched: %v", err)
	}
}

func TestBorder_ReusesFreedSlots(t *testing.T) {
	b := NewBorder(frame100)
	if err := b.Cut(geom.Pt(0, 10), geom.Pt(10, 0), pts(0, 10, 10, 10, 10, 0)); err != nil {
		t.Fatal(err)
	}
	if len(b.edges) > b.Len()+len(b.free) {
		t.Fatalf("arena leaked: %d slots, %d live, %d free", len(b.edges), b.Len(), len(b.free))
	}
	if len(b.edges) > 6 {
		t.Fatalf("arena grew to %d slots for 6 edges", len(b.edges))
	}
}

func TestBorderCut_RollsBackCrossingChain(t *testing.T) {
	b := NewBorder(frame100)
	before := b.Points()
	_ = b.Polygon()
	// The chain climbs back over the top edge at (50,0) before rejoining it.
	err := b.Cut(geom.Pt(10, 0), geom.Pt(20, 0), pts(10, 0, 10, 50, 50, 50, 50, -10, 20, -10, 20, 0))
	if !errors.Is(err, ErrBrokenBorder) {
		t.Fatalf("err = %v, want ErrBrokenBorder", err)
	}
	if !samePoints(b.Points(), before) {
		t.Fatalf("border not restored: %v, want %v", b.Points(), before)
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("restored border invalid: %v", err)
	}
	if a := b.Polygon().Area(); a != 10000 {
		t.Fatalf("polygon cache kept the broken cut: area %v", a)
	}
	if err := b.Cut(geom.Pt(10, 0), geom.Pt(0, 10), pts(10, 0, 10, 10, 0, 10)); err != nil {
		t.Fatalf("cut after rollback: %v", err)
	}
}
