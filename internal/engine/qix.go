package engine

import (
	"math"
	"math/rand"

	"github.com/Garsondee/Claimline/internal/geom"
)

// Qix is the free-roaming enemy. It moves inside the unclaimed region and
// destroys any trace it touches.
type Qix struct {
	ID        int
	pos, prev geom.Point
	vel       geom.Point
}

func (q *Qix) Position() geom.Point { return q.pos }
func (q *Qix) Velocity() geom.Point { return q.vel }

// Path is the segment swept during the last tick.
func (q *Qix) Path() geom.Line { return geom.Ln(q.prev, q.pos) }

// step moves the Qix one tick, reflecting each velocity component whose
// move would leave open space or sweep across the border. When the combined
// move is still blocked the Qix reverses and holds position for the tick.
func (q *Qix) step(f *Field) {
	q.prev = q.pos
	edges := f.Border.Edges()
	if !f.clearPath(q.pos, q.pos.Add(geom.Pt(q.vel.X, 0)), edges) {
		q.vel.X = -q.vel.X
	}
	if !f.clearPath(q.pos, q.pos.Add(geom.Pt(0, q.vel.Y)), edges) {
		q.vel.Y = -q.vel.Y
	}
	next := q.pos.Add(q.vel)
	if !f.clearPath(q.pos, next, edges) {
		q.vel = q.vel.Scale(-1)
		return
	}
	q.pos = next
}

// hitsTrace reports whether the last swept path touches any trace segment.
func (q *Qix) hitsTrace(trace []geom.Point) bool {
	path := q.Path()
	for i := 0; i+1 < len(trace); i++ {
		if geom.CollisionLineSegments(path, geom.Ln(trace[i], trace[i+1])) {
			return true
		}
	}
	return false
}

// spawnQixes places count Qixes around the frame centre with diagonal
// headings picked from rng.
func spawnQixes(f *Field, count int, speed float64, rng *rand.Rand) []*Qix {
	out := make([]*Qix, 0, count)
	c := f.Frame.Center()
	spacing := math.Min(f.Frame.W, f.Frame.H) / float64(4*max(count, 1))
	for i := range count {
		offset := (float64(i) - float64(count-1)/2) * spacing
		pos := c.Add(geom.Pt(offset, offset/2))
		if !f.Open(pos) {
			pos = c
		}
		// Diagonal quadrant plus up to 22.5 degrees either way keeps the
		// heading off the axes.
		theta := math.Pi/4 + float64(rng.Intn(4))*math.Pi/2 + (rng.Float64()-0.5)*math.Pi/4
		vel := geom.Pt(math.Cos(theta)*speed, math.Sin(theta)*speed)
		out = append(out, &Qix{ID: i, pos: pos, prev: pos, vel: vel})
	}
	return out
}
