package engine

import (
	"math"

	"github.com/Garsondee/Claimline/internal/geom"
)

// Sparky patrols the border and ends a life on contact with the player.
type Sparky struct {
	ID      int
	pos     geom.Point
	edge    int
	forward bool
	path    []geom.Point // points visited during the last tick, corners included
}

func (s *Sparky) Position() geom.Point { return s.pos }
func (s *Sparky) Forward() bool        { return s.forward }

// Path returns the swept path of the last tick.
func (s *Sparky) Path() []geom.Point { return append([]geom.Point(nil), s.path...) }

// newSparky seats a Sparky on the border point nearest the top centre of
// the frame. Even IDs run against the border direction, odd IDs with it.
func newSparky(id int, f *Field) *Sparky {
	top := geom.Pt(f.Frame.X+math.Floor(f.Frame.W/2), f.Frame.Y)
	e, p := f.Border.Nearest(top)
	return &Sparky{ID: id, pos: p, edge: e, forward: id%2 == 1, path: []geom.Point{p}}
}

// idle records a tick without movement.
func (s *Sparky) idle() {
	s.path = append(s.path[:0], s.pos)
}

// advance walks dist units along the border, turning at corners.
func (s *Sparky) advance(b *Border, dist float64) {
	s.path = append(s.path[:0], s.pos)
	for dist > 0 {
		l := b.edges[s.edge].line
		target := l.A
		if s.forward {
			target = l.B
		}
		rem := s.pos.Dist(target)
		if dist < rem {
			dir := target.Sub(s.pos).Scale(1 / rem)
			s.pos = s.pos.Add(dir.Scale(dist))
			break
		}
		s.pos = target
		dist -= rem
		s.path = append(s.path, s.pos)
		if s.forward {
			s.edge = b.edges[s.edge].next
		} else {
			s.edge = b.edges[s.edge].prev
		}
	}
	if s.path[len(s.path)-1] != s.pos {
		s.path = append(s.path, s.pos)
	}
}

// reseat moves the Sparky to the nearest point of a changed border.
func (s *Sparky) reseat(b *Border) {
	e, p := b.Nearest(s.pos)
	s.edge, s.pos = e, p
	s.path = append(s.path[:0], p)
}

// touches reports whether the last swept path meets the player's contact
// box or crosses the player's own path.
func (s *Sparky) touches(p *Player, radius float64) bool {
	box := geom.Around(p.Position(), radius)
	mine := geom.Ln(p.Previous(), p.Position())
	if len(s.path) == 1 {
		return box.Contains(s.path[0]) || geom.PointOnLine(s.path[0], mine)
	}
	for i := 0; i+1 < len(s.path); i++ {
		seg := geom.Ln(s.path[i], s.path[i+1])
		if geom.SegmentIntersectsRect(seg, box) || geom.CollisionLineSegments(seg, mine) {
			return true
		}
	}
	return false
}
