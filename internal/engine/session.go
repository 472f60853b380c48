package engine

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/Garsondee/Claimline/internal/geom"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// winTolerance absorbs float drift when comparing claimed area to target.
const winTolerance = 1e-9

// Stats are cumulative counters for one game, carried across levels.
type Stats struct {
	Ticks           int // ticks spent in StatePlaying
	Captures        int
	LargestCapture  float64
	TracesStarted   int
	TracesAborted   int
	QixTrapped      int
	SparkiesSpawned int
	LivesLost       int
	LevelsCleared   int
	MovesRejected   int
	BoostsUsed      int
}

// Session owns one game: the current level's field and actors, the run
// state and the level/lives bookkeeping.
type Session struct {
	base  Config
	cfg   Config
	level int
	lives int
	state State
	tick  int

	field    *Field
	player   *Player
	qixes    []*Qix
	sparkies []*Sparky

	spawnElapsed float64
	spawned      int
	sparkyClock  int

	pending         Outcome
	outcomeTween    *gween.Tween
	outcomeProgress float64

	// Events raised by commands between ticks, handed out by the next Step.
	queued []Event

	rng   *rand.Rand
	log   *SimLog
	stats Stats
}

// NewSession validates cfg and starts level 1.
func NewSession(cfg Config) (*Session, error) {
	return newSession(cfg, NewSimLog(false))
}

func newSession(cfg Config, log *SimLog) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base := cfg
	base.SparkySpawnSeconds = slices.Clone(cfg.SparkySpawnSeconds)
	s := &Session{
		base:  base,
		cfg:   cfg,
		level: 1,
		lives: cfg.Lives,
		rng:   rand.New(rand.NewSource(cfg.Seed)), // #nosec G404 -- gameplay randomness
		log:   log,
	}
	s.resetLevel()
	return s, nil
}

// resetLevel rebuilds the field and actors from the current config.
func (s *Session) resetLevel() {
	s.field = newField(s.cfg.Frame)
	s.player = newPlayer(s.cfg.Frame.Min(), s.cfg.PlayerSpeed)
	s.qixes = spawnQixes(s.field, s.cfg.QixCount, s.cfg.QixSpeed, s.rng)
	s.sparkies = nil
	s.spawnElapsed = 0
	s.spawned = 0
	s.sparkyClock = 0
	s.pending = OutcomeNone
	s.outcomeTween = nil
	s.outcomeProgress = 0
	s.state = StatePlaying
}

// Step advances the session by one fixed tick with the given intent.
func (s *Session) Step(intent Direction) TickResult {
	s.tick++
	res := TickResult{Tick: s.tick}
	if len(s.queued) > 0 {
		res.Events = append(res.Events, s.queued...)
		s.queued = s.queued[:0]
	}
	switch s.state {
	case StatePlaying:
		s.stepPlaying(intent, &res)
	case StatePausedForOutcome:
		s.stepOutcome(&res)
	}
	res.State = s.state
	return res
}

func (s *Session) stepPlaying(intent Direction, res *TickResult) {
	s.stats.Ticks++
	dt := s.cfg.dt()

	// Player.
	mv := s.player.advance(intent, s.field)
	res.Move = mv
	if mv.Steps == 0 && mv.Verdict != MoveOK && mv.Verdict != MoveIdle {
		s.stats.MovesRejected++
		s.log.AddVerbose(s.tick, "P", "move", "rejected",
			fmt.Sprintf("%s %s", intent, mv.Verdict), 0)
	}
	if mv.Left {
		s.stats.TracesStarted++
		s.emit(res, Event{Kind: EventTraceStarted, At: s.player.Trace()[0]})
		s.log.Add(s.tick, "P", "trace", "started", pointStr(s.player.Trace()[0]), 0)
	}
	if mv.Closed {
		s.closeTrace(mv.Trace, res)
	}
	if s.player.tickBoost(dt) {
		s.emit(res, Event{Kind: EventBoostExpired, At: s.player.Position()})
		s.log.Add(s.tick, "P", "boost", "expired", "", 0)
	}

	// Spawns.
	if s.player.HasMoved() {
		s.spawnElapsed += dt
		for s.spawned < len(s.cfg.SparkySpawnSeconds) && s.spawnElapsed >= s.cfg.SparkySpawnSeconds[s.spawned] {
			s.spawnSparky(res)
		}
	}

	// Enemies.
	for _, q := range s.qixes {
		q.step(s.field)
	}
	s.sparkyClock++
	moveSparkies := s.sparkyClock%s.cfg.SparkyStepTicks == 0
	for _, sp := range s.sparkies {
		if moveSparkies {
			sp.advance(s.field.Border, float64(s.cfg.SparkySpeed))
		} else {
			sp.idle()
		}
	}

	// Collisions.
	lost := false
	if s.player.State() == Drawing {
		trace := s.player.Trace()
		for _, q := range s.qixes {
			if !q.hitsTrace(trace) {
				continue
			}
			s.stats.TracesAborted++
			s.emit(res, Event{Kind: EventTraceAborted, At: q.Position()})
			s.log.Add(s.tick, qixLabel(q), "enemy", "trace_hit",
				fmt.Sprintf("qix at %s cut a %d-point trace", pointStr(q.Position()), len(trace)), 0)
			s.player.abort()
			if s.cfg.QixTraceCostsLife {
				lost = true
			}
			break
		}
	}
	for _, sp := range s.sparkies {
		if sp.touches(s.player, s.cfg.ContactRadius) {
			s.emit(res, Event{Kind: EventSparkyContact, At: sp.Position()})
			s.log.Add(s.tick, sparkyLabel(sp), "enemy", "contact", pointStr(sp.Position()), 0)
			lost = true
			break
		}
	}

	// Outcome. A win on the same tick as a contact still counts.
	switch {
	case s.field.Claimed.Percent() >= s.cfg.CoverageTarget-winTolerance:
		s.beginOutcome(OutcomeWin, res)
	case lost:
		s.lives--
		s.stats.LivesLost++
		if s.lives <= 0 {
			s.beginOutcome(OutcomeGameOver, res)
		} else {
			s.beginOutcome(OutcomeLoss, res)
		}
	}
}

func (s *Session) closeTrace(trace []geom.Point, res *TickResult) {
	hazards := make([]geom.Point, len(s.qixes))
	for i, q := range s.qixes {
		hazards[i] = q.Position()
	}
	c, err := s.field.close(trace, hazards)
	if err != nil {
		s.stats.TracesAborted++
		s.log.Add(s.tick, "P", "trace", "close_failed", err.Error(), 0)
		s.emit(res, Event{Kind: EventTraceAborted, At: trace[0]})
		s.player.abort()
		return
	}
	s.field.Claimed.Add(c.Polygon)
	s.player.commit()

	pct := c.Polygon.Percent()
	s.stats.Captures++
	s.stats.LargestCapture = max(s.stats.LargestCapture, pct)
	s.emit(res, Event{Kind: EventCapture, At: trace[len(trace)-1], Value: pct})
	s.log.Add(s.tick, "P", "capture", "claimed",
		fmt.Sprintf("%.2f%% at %s, total %.2f%%", pct, pointStr(trace[len(trace)-1]), s.field.Claimed.Percent()), pct)

	for k := len(c.Trapped) - 1; k >= 0; k-- {
		i := c.Trapped[k]
		q := s.qixes[i]
		s.stats.QixTrapped++
		s.emit(res, Event{Kind: EventQixTrapped, At: q.Position()})
		s.log.Add(s.tick, qixLabel(q), "enemy", "trapped", pointStr(q.Position()), 0)
		s.qixes = slices.Delete(s.qixes, i, i+1)
	}
	for _, sp := range s.sparkies {
		sp.reseat(s.field.Border)
	}
}

func (s *Session) spawnSparky(res *TickResult) {
	sp := newSparky(s.spawned, s.field)
	s.sparkies = append(s.sparkies, sp)
	s.spawned++
	s.stats.SparkiesSpawned++
	s.emit(res, Event{Kind: EventSparkySpawned, At: sp.Position(), Value: s.spawnElapsed})
	s.log.Add(s.tick, sparkyLabel(sp), "enemy", "spawned",
		fmt.Sprintf("%s after %.2fs", pointStr(sp.Position()), s.spawnElapsed), s.spawnElapsed)
}

func (s *Session) beginOutcome(o Outcome, res *TickResult) {
	s.state = StatePausedForOutcome
	s.pending = o
	delay := s.cfg.LossDelay
	if o == OutcomeWin {
		delay = s.cfg.WinDelay
	}
	s.outcomeTween = gween.New(0, 1, float32(delay.Seconds()), ease.OutCubic)
	s.outcomeProgress = 0
	res.Outcome = o
	s.emit(res, Event{Kind: EventOutcome, Outcome: o, At: s.player.Position(), Value: s.field.Claimed.Percent()})
	s.log.Add(s.tick, "--", "outcome", o.String(),
		fmt.Sprintf("level %d at %.2f%%, lives %d", s.level, s.field.Claimed.Percent(), s.lives), s.field.Claimed.Percent())
}

func (s *Session) stepOutcome(res *TickResult) {
	v, done := s.outcomeTween.Update(float32(s.cfg.dt()))
	s.outcomeProgress = float64(v)
	if !done {
		return
	}
	switch s.pending {
	case OutcomeWin:
		s.stats.LevelsCleared++
		s.level++
		s.cfg = s.cfg.Next()
		s.resetLevel()
		s.emit(res, Event{Kind: EventLevelStarted, Value: float64(s.level)})
		s.log.Add(s.tick, "--", "state", "level_started",
			fmt.Sprintf("level %d target %.2f%%", s.level, s.cfg.CoverageTarget), float64(s.level))
	case OutcomeLoss:
		s.resetLevel()
		s.emit(res, Event{Kind: EventLevelStarted, Value: float64(s.level)})
		s.log.Add(s.tick, "--", "state", "level_retry",
			fmt.Sprintf("level %d lives %d", s.level, s.lives), float64(s.level))
	case OutcomeGameOver:
		s.state = StateOver
		s.outcomeTween = nil
		s.log.Add(s.tick, "--", "state", "game_over", fmt.Sprintf("reached level %d", s.level), float64(s.level))
	}
}

func (s *Session) emit(res *TickResult, e Event) {
	e.Tick = s.tick
	res.Events = append(res.Events, e)
}

// queue holds an event raised outside Step until the next tick reports it.
func (s *Session) queue(e Event) {
	e.Tick = s.tick
	s.queued = append(s.queued, e)
}

// TogglePause flips between playing and a manual pause. It reports false
// and does nothing in any other state.
func (s *Session) TogglePause() bool {
	switch s.state {
	case StatePlaying:
		s.state = StatePausedManual
		s.queue(Event{Kind: EventPaused, At: s.player.Position()})
		s.log.Add(s.tick, "--", "state", "paused", "", 0)
	case StatePausedManual:
		s.state = StatePlaying
		s.queue(Event{Kind: EventResumed, At: s.player.Position()})
		s.log.Add(s.tick, "--", "state", "resumed", "", 0)
	default:
		return false
	}
	return true
}

// Restart rebuilds the current level. After game over it starts a new game
// from level 1.
func (s *Session) Restart() {
	if s.state == StateOver {
		s.cfg = s.base
		s.cfg.SparkySpawnSeconds = slices.Clone(s.base.SparkySpawnSeconds)
		s.level = 1
		s.lives = s.base.Lives
		s.stats = Stats{}
	}
	s.resetLevel()
	s.queue(Event{Kind: EventRestart, Value: float64(s.level)})
	s.log.Add(s.tick, "--", "state", "restart", fmt.Sprintf("level %d lives %d", s.level, s.lives), float64(s.level))
}

// ActivateBoost starts or renews the speed boost. It reports false outside
// StatePlaying.
func (s *Session) ActivateBoost() bool {
	if s.state != StatePlaying {
		return false
	}
	s.player.activateBoost(s.cfg.BoostMultiplier, s.cfg.BoostDuration)
	s.stats.BoostsUsed++
	s.queue(Event{Kind: EventBoostStarted, At: s.player.Position(), Value: float64(s.cfg.BoostMultiplier)})
	s.log.Add(s.tick, "P", "boost", "started",
		fmt.Sprintf("x%d for %s", s.cfg.BoostMultiplier, s.cfg.BoostDuration), float64(s.cfg.BoostMultiplier))
	return true
}

// Probe reports whether a step in direction d would be accepted right now,
// and whether it would leave the border.
func (s *Session) Probe(d Direction) (MoveVerdict, bool) {
	_, v, kind := s.player.probe(d, s.field)
	return v, v == MoveOK && kind == stepLeave
}

func (s *Session) Config() Config           { return s.cfg }
func (s *Session) Level() int               { return s.level }
func (s *Session) Lives() int               { return s.lives }
func (s *Session) State() State             { return s.state }
func (s *Session) Tick() int                { return s.tick }
func (s *Session) Target() float64          { return s.cfg.CoverageTarget }
func (s *Session) PercentClaimed() float64  { return s.field.Claimed.Percent() }
func (s *Session) Player() *Player          { return s.player }
func (s *Session) Field() *Field            { return s.field }
func (s *Session) Log() *SimLog             { return s.log }
func (s *Session) Stats() Stats             { return s.stats }
func (s *Session) PendingOutcome() Outcome  { return s.pending }
func (s *Session) Border() []geom.Line      { return s.field.Border.Edges() }
func (s *Session) Claimed() []geom.Polygon  { return s.field.Claimed.Polygons() }
func (s *Session) Qixes() []*Qix            { return slices.Clone(s.qixes) }
func (s *Session) Sparkies() []*Sparky      { return slices.Clone(s.sparkies) }
func (s *Session) SpawnElapsed() float64    { return s.spawnElapsed }
func (s *Session) OutcomeProgress() float64 { return s.outcomeProgress }

// PlayTime is the simulated time spent playing in this game.
func (s *Session) PlayTime() time.Duration {
	return time.Duration(float64(s.stats.Ticks) / float64(s.cfg.TickRate) * float64(time.Second))
}

func pointStr(p geom.Point) string {
	return fmt.Sprintf("(%.0f,%.0f)", p.X, p.Y)
}

func qixLabel(q *Qix) string       { return fmt.Sprintf("Q%d", q.ID) }
func sparkyLabel(s *Sparky) string { return fmt.Sprintf("S%d", s.ID) }
