package engine

import (
	"fmt"
	"strings"

	"github.com/Garsondee/Claimline/internal/geom"
)

// reportWindowTicks is the default aggregation window (10 s at 60 TPS).
const reportWindowTicks = 600

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	Tick        int
	Level       int
	Lives       int
	State       State
	Percent     float64
	Target      float64
	Polygons    int
	BorderEdges int
	Player      geom.Point
	Trace       TraceState
	TracePoints int
	Boosted     bool
	Qixes       int
	Sparkies    int
	Stats       Stats
}

// Snapshot captures the current session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Tick:        s.tick,
		Level:       s.level,
		Lives:       s.lives,
		State:       s.state,
		Percent:     s.field.Claimed.Percent(),
		Target:      s.cfg.CoverageTarget,
		Polygons:    s.field.Claimed.Len(),
		BorderEdges: s.field.Border.Len(),
		Player:      s.player.Position(),
		Trace:       s.player.State(),
		TracePoints: len(s.player.trace),
		Boosted:     s.player.Boosted(),
		Qixes:       len(s.qixes),
		Sparkies:    len(s.sparkies),
		Stats:       s.stats,
	}
}

// Reporter keeps a rolling history of snapshots and summarises the most
// recent window of them.
type Reporter struct {
	history     []Snapshot
	windowTicks int
}

// NewReporter creates a Reporter. windowTicks <= 0 selects the default.
func NewReporter(windowTicks int) *Reporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &Reporter{windowTicks: windowTicks}
}

// Collect appends a snapshot. Call it periodically (e.g. every 60 ticks).
func (r *Reporter) Collect(snap Snapshot) {
	r.history = append(r.history, snap)

	// Prune old history beyond 2x window to prevent unbounded growth.
	maxKeep := r.windowTicks / 60 * 2
	if maxKeep < 100 {
		maxKeep = 100
	}
	if len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

// Latest returns the most recent snapshot, or nil.
func (r *Reporter) Latest() *Snapshot {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns the retained snapshots, oldest first.
func (r *Reporter) History() []Snapshot {
	return r.history
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	PercentFrom, PercentTo float64
	LevelFrom, LevelTo     int

	// Deltas of the cumulative counters across the window.
	Captures      int
	TracesAborted int
	LivesLost     int
	QixTrapped    int

	// Averages over the window.
	AvgTracePoints float64
	AvgSparkies    float64
	DrawingShare   float64 // fraction of samples spent drawing
}

// WindowSummary aggregates the snapshots within the last window.
func (r *Reporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	latest := r.history[len(r.history)-1]
	cutoff := latest.Tick - r.windowTicks
	var window []Snapshot
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}
	first := window[len(window)-1]

	wr := &WindowReport{
		FromTick:      first.Tick,
		ToTick:        latest.Tick,
		SampleCount:   len(window),
		PercentFrom:   first.Percent,
		PercentTo:     latest.Percent,
		LevelFrom:     first.Level,
		LevelTo:       latest.Level,
		Captures:      latest.Stats.Captures - first.Stats.Captures,
		TracesAborted: latest.Stats.TracesAborted - first.Stats.TracesAborted,
		LivesLost:     latest.Stats.LivesLost - first.Stats.LivesLost,
		QixTrapped:    latest.Stats.QixTrapped - first.Stats.QixTrapped,
	}
	drawing := 0
	for _, snap := range window {
		wr.AvgTracePoints += float64(snap.TracePoints)
		wr.AvgSparkies += float64(snap.Sparkies)
		if snap.Trace == Drawing {
			drawing++
		}
	}
	n := float64(len(window))
	wr.AvgTracePoints /= n
	wr.AvgSparkies /= n
	wr.DrawingShare = float64(drawing) / n
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Session Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)
	if wr.LevelFrom == wr.LevelTo {
		fmt.Fprintf(&sb, "Level %d: %.2f%% -> %.2f%%\n", wr.LevelTo, wr.PercentFrom, wr.PercentTo)
	} else {
		fmt.Fprintf(&sb, "Levels %d -> %d, now at %.2f%%\n", wr.LevelFrom, wr.LevelTo, wr.PercentTo)
	}
	fmt.Fprintf(&sb, "Captures %d  aborted %d  lives lost %d  qix trapped %d\n",
		wr.Captures, wr.TracesAborted, wr.LivesLost, wr.QixTrapped)
	fmt.Fprintf(&sb, "Drawing %.0f%% of samples, avg trace %.1f points, avg sparkies %.1f\n",
		wr.DrawingShare*100, wr.AvgTracePoints, wr.AvgSparkies)
	return sb.String()
}

// FormatLatest returns a one-line status from the newest snapshot.
func (r *Reporter) FormatLatest() string {
	snap := r.Latest()
	if snap == nil {
		return "no snapshot"
	}
	return fmt.Sprintf("T=%d L%d %s %.2f/%.2f%% lives=%d qix=%d sparky=%d",
		snap.Tick, snap.Level, snap.State, snap.Percent, snap.Target, snap.Lives, snap.Qixes, snap.Sparkies)
}
