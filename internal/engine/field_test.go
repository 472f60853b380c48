package engine

import (
	"math"
	"testing"

	"github.com/Garsondee/Claimline/internal/geom"
)

func TestClose_ClaimsSmallerSideWithoutHazards(t *testing.T) {
	f := newField(frame100)
	c, err := f.close(pts(10, 0, 10, 10, 0, 10), nil)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if c.Polygon.Area() != 100 || c.Polygon.Percent() != 1 {
		t.Fatalf("claimed area %v (%v%%), want 100 (1%%)", c.Polygon.Area(), c.Polygon.Percent())
	}
	if f.Border.Len() != 6 {
		t.Fatalf("border edges = %d, want 6", f.Border.Len())
	}
	if f.Border.Inside(geom.Pt(5, 5)) || !f.Border.Inside(geom.Pt(50, 50)) {
		t.Fatal("border does not enclose the unclaimed side")
	}
}

func TestClose_ClaimsSideWithoutQix(t *testing.T) {
	f := newField(frame100)
	c, err := f.close(pts(60, 0, 60, 100), []geom.Point{geom.Pt(80, 50)})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if c.Polygon.Percent() != 60 {
		t.Fatalf("claimed %v%%, want the 60%% side without the qix", c.Polygon.Percent())
	}
	if len(c.Trapped) != 0 {
		t.Fatalf("nothing should be trapped: %v", c.Trapped)
	}
	if !f.Border.Inside(geom.Pt(80, 50)) || f.Border.Len() != 4 {
		t.Fatalf("border should be the right-hand box: %v", f.Border.Edges())
	}
}

func TestClose_NoHazardsPicksSmaller(t *testing.T) {
	f := newField(frame100)
	c, err := f.close(pts(60, 0, 60, 100), nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Polygon.Percent() != 40 {
		t.Fatalf("claimed %v%%, want 40", c.Polygon.Percent())
	}
}

func TestClose_HazardsBothSidesTrapsSmaller(t *testing.T) {
	f := newField(frame100)
	c, err := f.close(pts(60, 0, 60, 100), []geom.Point{geom.Pt(30, 50), geom.Pt(80, 50)})
	if err != nil {
		t.Fatal(err)
	}
	if c.Polygon.Percent() != 40 {
		t.Fatalf("claimed %v%%, want 40", c.Polygon.Percent())
	}
	if len(c.Trapped) != 1 || c.Trapped[0] != 1 {
		t.Fatalf("trapped = %v, want [1]", c.Trapped)
	}
}

func TestFieldOpen(t *testing.T) {
	f := newField(frame100)
	c, err := f.close(pts(10, 0, 10, 10, 0, 10), nil)
	if err != nil {
		t.Fatal(err)
	}
	f.Claimed.Add(c.Polygon)
	cases := map[geom.Point]bool{
		geom.Pt(50, 50): true,
		geom.Pt(5, 5):   false, // claimed
		geom.Pt(10, 5):  false, // claimed outline, now border
		geom.Pt(0, 50):  false, // frame edge
		geom.Pt(11, 11): true,
	}
	for p, want := range cases {
		if got := f.Open(p); got != want {
			t.Fatalf("Open(%v) = %v, want %v", p, got, want)
		}
	}
	if f.Claimed.Percent() != 1 || f.Claimed.Len() != 1 {
		t.Fatalf("claimed %v%% in %d polygons", f.Claimed.Percent(), f.Claimed.Len())
	}
}

func TestPercent_SecondCaptureAddsItsArea(t *testing.T) {
	ts := NewTestSim()
	ts.RunMoves(Right(10), Down(10), Left(10))
	s := ts.Session
	before := s.PercentClaimed()
	if before != 1 || s.PercentClaimed() != before {
		t.Fatalf("percent after first capture = %v, then %v", before, s.PercentClaimed())
	}

	ts.RunMoves(Down(10), Right(20), Up(20))
	polys := s.Claimed()
	if len(polys) != 2 {
		t.Fatalf("claimed polygons = %d, want 2", len(polys))
	}
	last := polys[1]
	if last.Area() != 300 {
		t.Fatalf("second capture area = %v, want 300", last.Area())
	}
	want := last.Area() / ts.Cfg.Frame.Area() * 100
	if got := s.PercentClaimed() - before; math.Abs(got-want) > 1e-9 {
		t.Fatalf("percent rose by %v, want %v", got, want)
	}
	if s.PercentClaimed() != s.Field().Claimed.Percent() {
		t.Fatal("repeated percent reads disagree")
	}
}
