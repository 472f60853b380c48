package engine

import "math/rand"

// leg is a planned run in one direction for a number of ticks.
type leg struct {
	dir   Direction
	ticks int
}

// Autopilot steers the player with rectangular excursions: leave the
// border, run sideways, then head back. It only looks at Session.Probe, so
// it never issues a step the engine would reject.
type Autopilot struct {
	rng        *rand.Rand
	legs       []leg
	home       Direction
	patrol     Direction
	patrolLeft int

	MinDepth, MaxDepth int // ticks spent heading inward
	MinWidth, MaxWidth int // ticks spent running sideways
	Eagerness          float64
}

// NewAutopilot returns an autopilot with its own deterministic RNG.
func NewAutopilot(seed int64) *Autopilot {
	return &Autopilot{
		rng:       rand.New(rand.NewSource(seed)), // #nosec G404 -- bot randomness
		MinDepth:  6,
		MaxDepth:  30,
		MinWidth:  6,
		MaxWidth:  40,
		Eagerness: 0.35,
	}
}

// Next returns the intent for the coming tick.
func (a *Autopilot) Next(s *Session) Direction {
	if s.State() != StatePlaying {
		a.legs = nil
		return DirNone
	}
	if s.Player().State() == Drawing {
		return a.draw(s)
	}
	a.legs = nil

	if a.patrolLeft > 0 {
		a.patrolLeft--
		if d := a.along(s); d != DirNone {
			return d
		}
	}
	if in := a.inward(s); in != DirNone && a.rng.Float64() < a.Eagerness {
		side := perpendicular(in, a.rng.Intn(2) == 0)
		depth := a.MinDepth + a.rng.Intn(max(1, a.MaxDepth-a.MinDepth+1))
		width := a.MinWidth + a.rng.Intn(max(1, a.MaxWidth-a.MinWidth+1))
		a.home = in.Opposite()
		a.legs = []leg{{in, depth - 1}, {side, width}, {a.home, 1 << 20}}
		return in
	}
	a.patrolLeft = 5 + a.rng.Intn(30)
	return a.along(s)
}

// draw follows the planned legs and falls back to any legal step once the
// plan runs dry.
func (a *Autopilot) draw(s *Session) Direction {
	for len(a.legs) > 0 {
		l := &a.legs[0]
		if l.ticks > 0 {
			if v, _ := s.Probe(l.dir); v == MoveOK {
				l.ticks--
				return l.dir
			}
		}
		a.legs = a.legs[1:]
	}
	candidates := []Direction{a.home, perpendicular(a.home, true), perpendicular(a.home, false), a.home.Opposite()}
	for _, d := range candidates {
		if v, _ := s.Probe(d); v == MoveOK {
			return d
		}
	}
	return DirNone
}

// along keeps patrolling in the current direction or picks a new legal one.
func (a *Autopilot) along(s *Session) Direction {
	if v, leaves := s.Probe(a.patrol); a.patrol != DirNone && v == MoveOK && !leaves {
		return a.patrol
	}
	for _, k := range a.rng.Perm(len(Directions)) {
		d := Directions[k]
		if v, leaves := s.Probe(d); v == MoveOK && !leaves {
			a.patrol = d
			return d
		}
	}
	return DirNone
}

// inward returns a random direction that would leave the border.
func (a *Autopilot) inward(s *Session) Direction {
	for _, k := range a.rng.Perm(len(Directions)) {
		d := Directions[k]
		if v, leaves := s.Probe(d); v == MoveOK && leaves {
			return d
		}
	}
	return DirNone
}

func perpendicular(d Direction, clockwise bool) Direction {
	switch d {
	case DirUp, DirDown:
		if clockwise == (d == DirUp) {
			return DirRight
		}
		return DirLeft
	case DirLeft, DirRight:
		if clockwise == (d == DirRight) {
			return DirDown
		}
		return DirUp
	}
	return DirNone
}
