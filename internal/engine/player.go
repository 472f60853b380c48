package engine

import (
	"slices"
	"time"

	"github.com/Garsondee/Claimline/internal/geom"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Direction is one movement intent.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Vector is the unit step for d in screen coordinates (y down).
func (d Direction) Vector() geom.Point {
	switch d {
	case DirUp:
		return geom.Pt(0, -1)
	case DirDown:
		return geom.Pt(0, 1)
	case DirLeft:
		return geom.Pt(-1, 0)
	case DirRight:
		return geom.Pt(1, 0)
	default:
		return geom.Point{}
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// Directions lists the four movement directions.
var Directions = [4]Direction{DirUp, DirRight, DirDown, DirLeft}

// TraceState is whether the player is riding the border or drawing.
type TraceState int

const (
	OnGraph TraceState = iota
	Drawing
)

func (s TraceState) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "on_graph"
}

// MoveVerdict is the legality of one unit step.
type MoveVerdict int

const (
	MoveOK MoveVerdict = iota
	MoveIdle
	MoveOutsideFrame
	MoveIntoClaimed
	MoveOffEdge
	MoveReverse
	MoveSelfIntersect
)

func (v MoveVerdict) String() string {
	switch v {
	case MoveOK:
		return "ok"
	case MoveIdle:
		return "idle"
	case MoveOutsideFrame:
		return "outside_frame"
	case MoveIntoClaimed:
		return "into_claimed"
	case MoveOffEdge:
		return "off_edge"
	case MoveReverse:
		return "reverse"
	case MoveSelfIntersect:
		return "self_intersect"
	default:
		return "unknown"
	}
}

type stepKind int

const (
	stepAlong stepKind = iota // along a border edge
	stepLeave                 // off the border into open space
	stepDraw                  // extending the trace
	stepClose                 // trace reaches the border again
)

// MoveResult summarises one tick of player movement.
type MoveResult struct {
	Verdict MoveVerdict // verdict of the first rejected unit step, MoveOK otherwise
	Steps   int         // unit steps applied
	Left    bool        // the trace started this tick
	Closed  bool        // the trace reached the border this tick
	Trace   []geom.Point
}

// Player is the marker the user steers.
type Player struct {
	pos, prev geom.Point
	speed     int
	hasMoved  bool
	state     TraceState
	trace     []geom.Point
	lastDir   Direction

	boost    *gween.Tween
	boostMul int
	boostDur float32
	boostAt  float32
}

func newPlayer(start geom.Point, speed int) *Player {
	return &Player{pos: start, prev: start, speed: speed, boostMul: 1}
}

func (p *Player) Position() geom.Point { return p.pos }
func (p *Player) Previous() geom.Point { return p.prev }
func (p *Player) State() TraceState    { return p.state }
func (p *Player) HasMoved() bool       { return p.hasMoved }
func (p *Player) LastDirection() Direction {
	return p.lastDir
}

// Trace returns a copy of the live trace. While drawing its last point is
// the player position.
func (p *Player) Trace() []geom.Point {
	return slices.Clone(p.trace)
}

// Speed is unit steps per tick with any boost applied.
func (p *Player) Speed() int {
	return p.speed * p.boostMul
}

func (p *Player) MovingLeft() bool  { return p.pos.X < p.prev.X }
func (p *Player) MovingRight() bool { return p.pos.X > p.prev.X }
func (p *Player) MovingUp() bool    { return p.pos.Y < p.prev.Y }
func (p *Player) MovingDown() bool  { return p.pos.Y > p.prev.Y }
func (p *Player) Moving() bool      { return p.pos != p.prev }

// Boosted reports whether a speed boost is running.
func (p *Player) Boosted() bool { return p.boost != nil }

// BoostRemaining is the time left on the running boost.
func (p *Player) BoostRemaining() time.Duration {
	if p.boost == nil {
		return 0
	}
	left := p.boostDur - p.boostAt
	return time.Duration(float64(left) * float64(time.Second))
}

// activateBoost starts a boost, replacing any boost already running.
func (p *Player) activateBoost(mult int, d time.Duration) {
	secs := float32(d.Seconds())
	p.boost = gween.New(0, secs, secs, ease.Linear)
	p.boostDur = secs
	p.boostAt = 0
	p.boostMul = mult
}

// tickBoost advances the boost clock and reports whether it ran out.
func (p *Player) tickBoost(dt float64) bool {
	if p.boost == nil {
		return false
	}
	at, done := p.boost.Update(float32(dt))
	p.boostAt = at
	if !done {
		return false
	}
	p.boost = nil
	p.boostMul = 1
	return true
}

// probe classifies the unit step in direction d without moving.
func (p *Player) probe(d Direction, f *Field) (geom.Point, MoveVerdict, stepKind) {
	if d == DirNone {
		return p.pos, MoveIdle, stepAlong
	}
	q := p.pos.Add(d.Vector())
	if !f.Frame.Contains(q) {
		return q, MoveOutsideFrame, stepAlong
	}
	if p.state == OnGraph {
		switch {
		case f.Border.ContainsStep(p.pos, q):
			return q, MoveOK, stepAlong
		case f.Border.Contains(q):
			return q, MoveOffEdge, stepAlong
		case f.Open(q):
			return q, MoveOK, stepLeave
		}
		return q, MoveIntoClaimed, stepAlong
	}

	if d == p.lastDir.Opposite() {
		return q, MoveReverse, stepDraw
	}
	if p.selfIntersects(q) {
		return q, MoveSelfIntersect, stepDraw
	}
	if f.Border.Contains(q) {
		return q, MoveOK, stepClose
	}
	if f.Open(q) {
		return q, MoveOK, stepDraw
	}
	return q, MoveIntoClaimed, stepDraw
}

// selfIntersects reports whether the step to q touches the trace anywhere
// but the segment it extends.
func (p *Player) selfIntersects(q geom.Point) bool {
	step := geom.Ln(p.pos, q)
	n := len(p.trace)
	for i := 0; i < n-2; i++ {
		if geom.CollisionLineSegments(step, geom.Ln(p.trace[i], p.trace[i+1])) {
			return true
		}
	}
	return false
}

// advance moves up to Speed unit steps in direction d. It stops early on a
// rejected step or when the trace closes.
func (p *Player) advance(d Direction, f *Field) MoveResult {
	var res MoveResult
	p.prev = p.pos
	for i := range p.Speed() {
		q, verdict, kind := p.probe(d, f)
		if verdict != MoveOK {
			if i == 0 {
				res.Verdict = verdict
			}
			break
		}
		p.apply(d, q, kind)
		res.Steps++
		switch kind {
		case stepLeave:
			res.Left = true
		case stepClose:
			res.Closed = true
			res.Trace = p.Trace()
			return res
		}
	}
	return res
}

func (p *Player) apply(d Direction, q geom.Point, kind stepKind) {
	switch kind {
	case stepLeave:
		p.state = Drawing
		p.trace = []geom.Point{p.pos, q}
	case stepDraw, stepClose:
		if len(p.trace) >= 2 && d == p.lastDir {
			p.trace[len(p.trace)-1] = q
		} else {
			p.trace = append(p.trace, q)
		}
	}
	p.pos = q
	p.lastDir = d
	p.hasMoved = true
}

// commit returns the player to the border after a successful closure.
func (p *Player) commit() {
	p.state = OnGraph
	p.trace = nil
}

// abort discards the trace and puts the player back where it started.
func (p *Player) abort() {
	if len(p.trace) > 0 {
		p.pos = p.trace[0]
	}
	p.prev = p.pos
	p.state = OnGraph
	p.trace = nil
	p.lastDir = DirNone
}
