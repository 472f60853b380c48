package engine

import (
	"fmt"
	"time"

	"github.com/Garsondee/Claimline/internal/geom"
)

// TestSim is a headless session harness for tests and batch runs. It has no
// Ebiten dependency and builds a small, enemy-free field unless options say
// otherwise.
type TestSim struct {
	Cfg      Config
	Session  *Session
	SimLog   *SimLog
	Reporter *Reporter
	Results  []TickResult

	reportEvery int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptConfig    simOptionKind = iota // frame, speeds, schedule, seed, verbose: applied first
	simOptPlacement                      // actors placed after the session is built
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithFrame sets the play-field rectangle.
func WithFrame(x, y, w, h float64) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.Cfg.Frame = geom.Rect{X: x, Y: y, W: w, H: h}
	}}
}

// WithConfig replaces the whole config.
func WithConfig(cfg Config) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.Cfg = cfg
	}}
}

// WithTarget sets the coverage target in percent.
func WithTarget(pct float64) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.Cfg.CoverageTarget = pct
	}}
}

// WithLives sets the starting lives.
func WithLives(n int) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.Cfg.Lives = n
	}}
}

// WithPlayerSpeed sets unit steps per tick.
func WithPlayerSpeed(n int) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.Cfg.PlayerSpeed = n
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.Cfg.Seed = seed
	}}
}

// WithQixes spawns n Qixes at the given speed when the level is built.
func WithQixes(n int, speed float64) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.Cfg.QixCount = n
		ts.Cfg.QixSpeed = speed
	}}
}

// WithSparkies sets the Sparky spawn schedule and pace.
func WithSparkies(speed, stepTicks int, spawnSeconds ...float64) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.Cfg.SparkySpeed = speed
		ts.Cfg.SparkyStepTicks = stepTicks
		ts.Cfg.SparkySpawnSeconds = spawnSeconds
	}}
}

// WithDelays sets the win and loss pauses.
func WithDelays(win, loss time.Duration) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.Cfg.WinDelay = win
		ts.Cfg.LossDelay = loss
	}}
}

// WithQixTraceCostsLife makes a Qix hit on the trace cost a life.
func WithQixTraceCostsLife() SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.Cfg.QixTraceCostsLife = true
	}}
}

// WithVerbose enables verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithReportEvery collects a Reporter snapshot every n ticks.
func WithReportEvery(n int) SimOption {
	return SimOption{simOptConfig, func(ts *TestSim) {
		ts.reportEvery = n
	}}
}

// WithQixAt adds a Qix at (x,y) moving (vx,vy) per tick.
func WithQixAt(x, y, vx, vy float64) SimOption {
	return SimOption{simOptPlacement, func(ts *TestSim) {
		s := ts.Session
		p := geom.Pt(x, y)
		s.qixes = append(s.qixes, &Qix{ID: len(s.qixes), pos: p, prev: p, vel: geom.Pt(vx, vy)})
	}}
}

// testConfig is a 100x100 field with unit speed, no enemies and one-second
// outcome pauses.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Frame = geom.Rect{X: 0, Y: 0, W: 100, H: 100}
	cfg.PlayerSpeed = 1
	cfg.QixCount = 0
	cfg.SparkySpawnSeconds = nil
	cfg.BoostDuration = time.Second
	cfg.WinDelay = time.Second
	cfg.LossDelay = time.Second
	return cfg
}

// NewTestSim constructs a TestSim from the given options in two ordered passes:
//  1. Config (frame, speeds, spawn schedule, seed, verbose)
//  2. Build the session, then placements
//
// It panics if the resulting config does not validate.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Cfg:         testConfig(),
		SimLog:      NewSimLog(false),
		reportEvery: 60,
	}
	for _, o := range opts {
		if o.kind == simOptConfig {
			o.fn(ts)
		}
	}
	if ts.reportEvery <= 0 {
		ts.reportEvery = 60
	}
	s, err := newSession(ts.Cfg, ts.SimLog)
	if err != nil {
		panic(fmt.Sprintf("NewTestSim: %v", err))
	}
	ts.Session = s
	ts.Reporter = NewReporter(reportWindowTicks)
	for _, o := range opts {
		if o.kind == simOptPlacement {
			o.fn(ts)
		}
	}
	return ts
}

// Move is a direction held for a number of ticks.
type Move struct {
	Dir   Direction
	Ticks int
}

func Up(n int) Move    { return Move{DirUp, n} }
func Down(n int) Move  { return Move{DirDown, n} }
func Left(n int) Move  { return Move{DirLeft, n} }
func Right(n int) Move { return Move{DirRight, n} }
func Idle(n int) Move  { return Move{DirNone, n} }

// Step advances one tick with intent d.
func (ts *TestSim) Step(d Direction) TickResult {
	res := ts.Session.Step(d)
	ts.Results = append(ts.Results, res)
	if res.Tick%ts.reportEvery == 0 {
		ts.Reporter.Collect(ts.Session.Snapshot())
	}
	return res
}

// RunMoves plays the moves in order and returns the result of every tick.
func (ts *TestSim) RunMoves(moves ...Move) []TickResult {
	var out []TickResult
	for _, m := range moves {
		for range m.Ticks {
			out = append(out, ts.Step(m.Dir))
		}
	}
	return out
}

// RunTicks advances the session n ticks with no input.
func (ts *TestSim) RunTicks(n int) {
	for range n {
		ts.Step(DirNone)
	}
}

// RunUntil advances the session up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for range maxTicks {
		ts.Step(DirNone)
		if predicate(ts) {
			return ts.Session.Tick()
		}
	}
	return -1
}

// RunAutopilot lets the autopilot play for up to maxTicks or until the game
// is over. Returns the number of ticks run.
func (ts *TestSim) RunAutopilot(ap *Autopilot, maxTicks int) int {
	for i := range maxTicks {
		if ts.Session.State() == StateOver {
			return i
		}
		ts.Step(ap.Next(ts.Session))
	}
	return maxTicks
}

// Events returns every event emitted so far, in order.
func (ts *TestSim) Events() []Event {
	var out []Event
	for _, r := range ts.Results {
		out = append(out, r.Events...)
	}
	return out
}

// CurrentTick returns the current session tick.
func (ts *TestSim) CurrentTick() int {
	return ts.Session.Tick()
}

// TicksFor returns how many ticks d lasts at the session tick rate.
func (ts *TestSim) TicksFor(d time.Duration) int {
	return int(d.Seconds()*float64(ts.Cfg.TickRate) + 0.5)
}
