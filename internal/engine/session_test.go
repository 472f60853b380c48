package engine

import (
	"testing"

	"github.com/Garsondee/Claimline/internal/geom"
)

func TestQix_BouncesOffBorder(t *testing.T) {
	ts := NewTestSim(WithQixAt(98.5, 50, 1, 0))
	ts.RunTicks(2)
	q := ts.Session.Qixes()[0]
	if q.Velocity().X != -1 {
		t.Fatalf("vx = %v, want -1 after hitting the right edge", q.Velocity().X)
	}
	if q.Position() != geom.Pt(98.5, 50) {
		t.Fatalf("pos = %v, want (98.5,50)", q.Position())
	}
}

func TestQix_ReflectsPerAxis(t *testing.T) {
	ts := NewTestSim(WithQixAt(98.5, 50, 1, 1))
	ts.RunTicks(2)
	q := ts.Session.Qixes()[0]
	if q.Velocity() != geom.Pt(-1, 1) {
		t.Fatalf("vel = %v, want only x reflected", q.Velocity())
	}
	if q.Position() != geom.Pt(98.5, 52) {
		t.Fatalf("pos = %v, want (98.5,52)", q.Position())
	}
}

func TestQix_StaysOutOfClaimedSpace(t *testing.T) {
	ts := NewTestSim(WithQixAt(50, 50, 0, 0))
	ts.RunMoves(Right(20), Down(20), Left(20))
	q := ts.Session.qixes[0]
	q.pos, q.prev, q.vel = geom.Pt(21.5, 10), geom.Pt(21.5, 10), geom.Pt(-1, 0)
	ts.RunTicks(4)
	if p := q.Position(); p.X <= 20 {
		t.Fatalf("qix entered the claimed corner: %v", p)
	}
}

func TestQix_BouncesOffNarrowClaimedStrip(t *testing.T) {
	ts := NewTestSim(WithQixAt(39.8, 20, 0, 0))
	ts.RunMoves(Right(40), Down(50), Right(1), Up(50))
	if got := ts.Session.PercentClaimed(); got != 0.5 {
		t.Fatalf("claimed %v%%, want the 0.5%% strip", got)
	}
	q := ts.Session.qixes[0]
	q.vel = geom.Pt(1.5, 0)

	ts.RunTicks(1)
	if q.Velocity().X != -1.5 || q.Position().X >= 40 {
		t.Fatalf("qix crossed the strip: path %v -> %v vel %v", q.Path().A, q.Position(), q.Velocity())
	}
	for i := 0; i < 80; i++ {
		ts.RunTicks(1)
		p := q.Position()
		if p.X >= 40 && p.X <= 41 && p.Y <= 50 {
			t.Fatalf("tick %d: qix inside the claimed strip at %v", ts.CurrentTick(), p)
		}
		if !ts.Session.Field().Open(p) {
			t.Fatalf("tick %d: qix left open space at %v", ts.CurrentTick(), p)
		}
	}
}

func TestQix_InvalidatesTrace(t *testing.T) {
	ts := NewTestSim(WithQixAt(41.5, 30, 0, 0))
	ts.RunMoves(Right(40), Down(60))
	p := ts.Session.Player()
	if p.State() != Drawing || p.Position() != geom.Pt(40, 60) {
		t.Fatalf("setup: state=%s pos=%v", p.State(), p.Position())
	}
	ts.Session.qixes[0].vel = geom.Pt(-1, 0)
	ts.RunTicks(2)

	if p.State() != OnGraph || p.Position() != geom.Pt(40, 0) || len(p.Trace()) != 0 {
		t.Fatalf("trace not aborted: state=%s pos=%v trace=%v", p.State(), p.Position(), p.Trace())
	}
	if ts.Session.Field().Border.Len() != 4 {
		t.Fatalf("border changed: %v", ts.Session.Border())
	}
	if ts.Session.Lives() != 3 || ts.Session.State() != StatePlaying {
		t.Fatalf("abort should not cost a life: lives=%d state=%s", ts.Session.Lives(), ts.Session.State())
	}
	if !ts.SimLog.HasEntry("enemy", "trace_hit", "") {
		t.Fatalf("no trace_hit entry\n%s", ts.SimLog.Format())
	}
}

func TestQix_HitsLiveSegment(t *testing.T) {
	ts := NewTestSim(WithQixAt(50, 30.5, 0, 0))
	ts.RunMoves(Right(40), Down(30), Right(5))
	ts.Session.qixes[0].pos = geom.Pt(42.5, 31.5)
	ts.Session.qixes[0].prev = geom.Pt(42.5, 31.5)
	ts.Session.qixes[0].vel = geom.Pt(0, -1)
	ts.RunTicks(2)
	if ts.Session.Player().State() != OnGraph {
		t.Fatal("qix crossing the segment ending at the player should abort the trace")
	}
}

func TestQix_TraceCostsLife(t *testing.T) {
	ts := NewTestSim(WithQixAt(41.5, 30, 0, 0), WithQixTraceCostsLife())
	ts.RunMoves(Right(40), Down(60))
	ts.Session.qixes[0].vel = geom.Pt(-1, 0)
	ts.RunTicks(2)
	if ts.Session.Lives() != 2 || ts.Session.State() != StatePausedForOutcome {
		t.Fatalf("lives=%d state=%s", ts.Session.Lives(), ts.Session.State())
	}
	if ts.Session.PendingOutcome() != OutcomeLoss {
		t.Fatalf("pending = %s", ts.Session.PendingOutcome())
	}
}

func TestCapture_TrapsQixOnSmallerSide(t *testing.T) {
	ts := NewTestSim(WithQixAt(30, 50, 0, 0), WithQixAt(80, 50, 0, 0))
	ts.RunMoves(Right(60), Down(100))
	if got := ts.Session.PercentClaimed(); got != 40 {
		t.Fatalf("claimed %v%%, want 40", got)
	}
	qs := ts.Session.Qixes()
	if len(qs) != 1 || qs[0].Position() != geom.Pt(30, 50) {
		t.Fatalf("qixes after capture: %d", len(qs))
	}
	if ts.Session.Stats().QixTrapped != 1 {
		t.Fatalf("stats = %+v", ts.Session.Stats())
	}
}

func TestWin_AdvancesLevel(t *testing.T) {
	ts := NewTestSim(WithTarget(60), WithQixAt(80, 50, 0, 0))
	rs := ts.RunMoves(Right(60), Down(100))
	r := lastResult(t, rs)
	if r.Outcome != OutcomeWin || r.State != StatePausedForOutcome {
		t.Fatalf("closing tick: outcome=%s state=%s", r.Outcome, r.State)
	}
	if got := ts.Session.PercentClaimed(); got != 60 {
		t.Fatalf("claimed %v%%, want the 60%% side without the qix", got)
	}
	baseQix := ts.Session.Config().QixSpeed

	ts.RunTicks(ts.TicksFor(ts.Cfg.WinDelay) / 2)
	if prog := ts.Session.OutcomeProgress(); prog <= 0 || prog >= 1 {
		t.Fatalf("outcome progress = %v mid-delay", prog)
	}
	if ts.Session.Level() != 1 {
		t.Fatal("level advanced before the win delay ran out")
	}

	ts.RunTicks(ts.TicksFor(ts.Cfg.WinDelay)/2 + 2)
	s := ts.Session
	if s.Level() != 2 || s.State() != StatePlaying {
		t.Fatalf("level=%d state=%s", s.Level(), s.State())
	}
	if s.Config().QixSpeed != baseQix+ts.Cfg.Difficulty.QixSpeedStep {
		t.Fatalf("qix speed %v not raised", s.Config().QixSpeed)
	}
	if s.PercentClaimed() != 0 || s.Player().Position() != geom.Pt(0, 0) {
		t.Fatal("new level should start fresh")
	}
	if s.Lives() != 3 || s.Stats().LevelsCleared != 1 {
		t.Fatalf("lives=%d stats=%+v", s.Lives(), s.Stats())
	}
}

func TestSparky_SpawnWaitsForFirstMove(t *testing.T) {
	ts := NewTestSim(WithSparkies(1, 1, 0))
	ts.RunTicks(100)
	if n := len(ts.Session.Sparkies()); n != 0 {
		t.Fatalf("%d sparkies spawned before the player moved", n)
	}
	ts.RunMoves(Right(1))
	sp := ts.Session.Sparkies()
	if len(sp) != 1 {
		t.Fatalf("sparkies = %d, want 1", len(sp))
	}
	if sp[0].Forward() {
		t.Fatal("first sparky should run against the border direction")
	}
	if sp[0].Position() != geom.Pt(49, 0) {
		t.Fatalf("sparky at %v, want (49,0) after its first step", sp[0].Position())
	}
}

func TestSparky_ContactCostsLife(t *testing.T) {
	ts := NewTestSim(WithSparkies(1, 1, 0))
	rs := ts.RunMoves(Right(30))
	lossAt := -1
	for _, r := range rs {
		if r.Outcome == OutcomeLoss {
			lossAt = r.Tick
		}
	}
	if lossAt != 25 {
		t.Fatalf("loss at tick %d, want 25\n%s", lossAt, ts.SimLog.Format())
	}
	s := ts.Session
	if s.State() != StatePausedForOutcome || s.Lives() != 2 {
		t.Fatalf("state=%s lives=%d", s.State(), s.Lives())
	}
	target := s.Target()

	ts.RunTicks(ts.TicksFor(ts.Cfg.LossDelay) + 2)
	if s.State() != StatePlaying || s.Level() != 1 || s.Lives() != 2 {
		t.Fatalf("after loss: state=%s level=%d lives=%d", s.State(), s.Level(), s.Lives())
	}
	if s.Target() != target || len(s.Sparkies()) != 0 || s.Player().Position() != geom.Pt(0, 0) {
		t.Fatal("level should restart with the same config")
	}
}

func TestSparky_AlternatesDirection(t *testing.T) {
	ts := NewTestSim(WithSparkies(1, 1000, 0, 0))
	ts.RunMoves(Down(1))
	sp := ts.Session.Sparkies()
	if len(sp) != 2 || sp[0].Forward() || !sp[1].Forward() {
		t.Fatalf("want one backward and one forward sparky, got %d", len(sp))
	}
}

func TestSparky_WalksRoundCorners(t *testing.T) {
	ts := NewTestSim(WithSparkies(30, 1, 0))
	ts.RunMoves(Down(1))
	sp := ts.Session.Sparkies()[0]
	if sp.Position() != geom.Pt(20, 0) {
		t.Fatalf("pos = %v", sp.Position())
	}
	ts.RunMoves(Down(1))
	if sp.Position() != geom.Pt(0, 10) {
		t.Fatalf("after the corner pos = %v, want (0,10)", sp.Position())
	}
	path := sp.Path()
	if len(path) != 3 || path[1] != geom.Pt(0, 0) {
		t.Fatalf("path should include the corner: %v", path)
	}
}

func TestSparky_ReseatedAfterCapture(t *testing.T) {
	ts := NewTestSim(WithSparkies(1, 1000, 0))
	ts.RunMoves(Down(10), Right(100))
	if got := ts.Session.PercentClaimed(); got != 10 {
		t.Fatalf("claimed %v%%, want the 10%% top strip", got)
	}
	sp := ts.Session.Sparkies()[0]
	if sp.Position() != geom.Pt(50, 10) {
		t.Fatalf("sparky at %v, want reseated to (50,10)", sp.Position())
	}
	if !ts.Session.Field().Border.Contains(sp.Position()) {
		t.Fatal("sparky off the border")
	}
}

func TestGameOver_AndRestart(t *testing.T) {
	ts := NewTestSim(WithLives(1), WithSparkies(1, 1, 0))
	rs := ts.RunMoves(Right(30))
	found := false
	for _, r := range rs {
		if r.Outcome == OutcomeGameOver {
			found = true
		}
	}
	if !found {
		t.Fatal("losing the last life should end the game")
	}
	ts.RunTicks(ts.TicksFor(ts.Cfg.LossDelay) + 2)
	s := ts.Session
	if s.State() != StateOver {
		t.Fatalf("state = %s, want over", s.State())
	}
	ts.RunMoves(Right(5))
	if s.Player().Position() != geom.Pt(25, 0) && s.Player().Position() != geom.Pt(24, 0) {
		t.Fatalf("player moved after game over: %v", s.Player().Position())
	}

	s.Restart()
	if s.State() != StatePlaying || s.Level() != 1 || s.Lives() != 1 || s.Stats().LivesLost != 0 {
		t.Fatalf("restart from over: state=%s level=%d lives=%d", s.State(), s.Level(), s.Lives())
	}
}

func TestRestart_RebuildsLevel(t *testing.T) {
	ts := NewTestSim()
	ts.RunMoves(Right(10), Down(10), Left(10))
	ts.Session.Restart()
	s := ts.Session
	if s.PercentClaimed() != 0 || s.Field().Border.Len() != 4 || s.Player().HasMoved() {
		t.Fatal("restart should rebuild the level")
	}
	if s.Lives() != 3 || s.Level() != 1 {
		t.Fatalf("restart mid-game keeps lives and level: lives=%d level=%d", s.Lives(), s.Level())
	}
}

func TestPause_FreezesEverything(t *testing.T) {
	ts := NewTestSim(WithSparkies(1, 1, 0.5), WithQixAt(50, 50, 1, 0))
	ts.RunMoves(Right(1))
	if !ts.Session.TogglePause() {
		t.Fatal("pause refused while playing")
	}
	elapsed := ts.Session.SpawnElapsed()
	qpos := ts.Session.Qixes()[0].Position()
	ts.RunMoves(Right(120))
	s := ts.Session
	if s.SpawnElapsed() != elapsed || len(s.Sparkies()) != 0 {
		t.Fatal("spawn clock ran while paused")
	}
	if s.Qixes()[0].Position() != qpos || s.Player().Position() != geom.Pt(1, 0) {
		t.Fatal("actors moved while paused")
	}
	if !s.TogglePause() || s.State() != StatePlaying {
		t.Fatal("resume failed")
	}
	ts.RunTicks(ts.TicksFor(ts.Cfg.WinDelay))
	if len(s.Sparkies()) != 1 {
		t.Fatal("sparky should spawn once play resumes")
	}
}

func TestCommands_ReportedByNextTick(t *testing.T) {
	ts := NewTestSim()
	s := ts.Session
	s.TogglePause()
	r := ts.Step(DirNone)
	if !r.Has(EventPaused) {
		t.Fatalf("pause not reported: %v", r.Events)
	}
	if ts.Step(DirNone).Has(EventPaused) {
		t.Fatal("pause reported twice")
	}

	s.TogglePause()
	s.ActivateBoost()
	r = ts.Step(DirNone)
	if !r.Has(EventResumed) || !r.Has(EventBoostStarted) {
		t.Fatalf("resume and boost not reported: %v", r.Events)
	}

	s.Restart()
	r = ts.Step(DirNone)
	if !r.Has(EventRestart) || r.Events[0].Value != 1 {
		t.Fatalf("restart not reported: %v", r.Events)
	}
	if r.Events[0].Tick != r.Tick-1 {
		t.Fatalf("restart stamped tick %d, issued at %d", r.Events[0].Tick, r.Tick-1)
	}
}

func TestPause_RefusedDuringOutcome(t *testing.T) {
	ts := NewTestSim(WithSparkies(1, 1, 0))
	ts.RunMoves(Right(26))
	s := ts.Session
	if s.State() != StatePausedForOutcome {
		t.Fatalf("setup: state = %s", s.State())
	}
	if s.TogglePause() || s.State() != StatePausedForOutcome {
		t.Fatal("TogglePause must be a no-op during an outcome sequence")
	}
	if s.ActivateBoost() {
		t.Fatal("boost should be refused outside play")
	}
}

func TestWin_CheckedBeforeLoss(t *testing.T) {
	// A sparky parked on the closing point touches the player on the same
	// tick the capture reaches the target.
	ts := NewTestSim(WithTarget(1), WithSparkies(1, 1000, 0))
	ts.RunMoves(Right(10), Down(10), Left(9))
	ts.Session.sparkies[0].pos = geom.Pt(0, 10)
	ts.Session.sparkies[0].path = []geom.Point{geom.Pt(0, 10)}
	r := lastResult(t, ts.RunMoves(Left(1)))
	if r.Outcome != OutcomeWin {
		t.Fatalf("outcome = %s, want the win to take priority", r.Outcome)
	}
	if ts.Session.Lives() != 3 {
		t.Fatalf("lives = %d", ts.Session.Lives())
	}
}

func TestSnapshotAndSummary(t *testing.T) {
	ts := NewTestSim(WithReportEvery(10))
	ts.RunMoves(Right(10), Down(10), Left(10))
	snap := ts.Session.Snapshot()
	if snap.Polygons != 1 || snap.Percent != 1 || snap.BorderEdges != 6 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if len(ts.Reporter.History()) != 3 {
		t.Fatalf("history = %d samples, want 3", len(ts.Reporter.History()))
	}
	wr := ts.Reporter.WindowSummary()
	if wr.Captures != 1 || wr.PercentTo != 1 {
		t.Fatalf("window = %+v", wr)
	}
	t.Log(wr.Format())
	t.Log(ts.SimLog.Summary(snap))
}
