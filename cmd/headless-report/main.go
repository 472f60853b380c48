package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/remeh/sizedwaitgroup"

	"github.com/Garsondee/Claimline/internal/engine"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	level    int
	lives    int
	percent  float64
	gameOver bool
	playTime time.Duration

	firstTraceTick   int
	firstCaptureTick int
	firstClearTick   int
	firstLossTick    int

	stats         engine.Stats
	closeFailures int
	largestByLvl  map[int]float64

	windowSummary *engine.WindowReport
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var workers int
	var qixes int
	var costsLife bool

	flag.IntVar(&runs, "runs", 5, "number of headless autopilot runs")
	flag.IntVar(&ticks, "ticks", 3600*5, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&workers, "workers", 4, "runs simulated in parallel")
	flag.IntVar(&qixes, "qix", 1, "qixes per level")
	flag.BoolVar(&costsLife, "qix-kills", false, "a qix touching the trace costs a life")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if workers <= 0 {
		workers = 1
	}

	cfg := engine.DefaultConfig()
	cfg.QixCount = qixes
	cfg.QixTraceCostsLife = costsLife
	if err := cfg.Validate(); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Printf("=== Headless Autopilot Report ===\n")
	fmt.Printf("runs=%d ticks=%s seed_base=%d seed_step=%d workers=%d qix=%d\n\n",
		runs, humanize.Comma(int64(ticks)), seedBase, seedStep, workers, qixes)

	all := make([]runStats, runs)
	swg := sizedwaitgroup.New(workers)
	for i := 0; i < runs; i++ {
		swg.Add()
		go func(i int) {
			defer swg.Done()
			seed := seedBase + int64(i)*seedStep
			all[i] = runAutopilot(i+1, seed, ticks, cfg)
		}(i)
	}
	swg.Wait()

	for _, rs := range all {
		printRun(rs)
	}
	printAggregate(all)
}

func runAutopilot(runIndex int, seed int64, ticks int, cfg engine.Config) runStats {
	cfg.Seed = seed
	ts := engine.NewTestSim(engine.WithConfig(cfg))
	ran := ts.RunAutopilot(engine.NewAutopilot(seed), ticks)

	s := ts.Session
	entries := ts.SimLog.Entries()
	largest := map[int]float64{}
	level := 1
	for _, e := range entries {
		switch {
		case e.Category == "state" && e.Key == "level_started":
			level = int(e.NumVal)
		case e.Category == "capture" && e.Key == "claimed":
			largest[level] = max(largest[level], e.NumVal)
		}
	}

	return runStats{
		runIndex:         runIndex,
		seed:             seed,
		ticks:            ran,
		level:            s.Level(),
		lives:            s.Lives(),
		percent:          s.PercentClaimed(),
		gameOver:         s.State() == engine.StateOver,
		playTime:         s.PlayTime(),
		firstTraceTick:   firstTick(entries, "trace", "started", ""),
		firstCaptureTick: firstTick(entries, "capture", "claimed", ""),
		firstClearTick:   firstTick(entries, "outcome", engine.OutcomeWin.String(), ""),
		firstLossTick:    firstTick(entries, "outcome", engine.OutcomeLoss.String(), ""),
		stats:            s.Stats(),
		closeFailures:    ts.SimLog.CountCategory("trace", "close_failed"),
		largestByLvl:     largest,
		windowSummary:    ts.Reporter.WindowSummary(),
	}
}

func firstTick(entries []engine.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	end := "running"
	if rs.gameOver {
		end = "game_over"
	}
	fmt.Printf("end_state=%s ticks=%s play_time=%s level=%d lives=%d claimed=%.2f%%\n",
		end, humanize.Comma(int64(rs.ticks)), formatDuration(rs.playTime), rs.level, rs.lives, rs.percent)
	fmt.Printf("phase_markers: first_trace=%d first_capture=%d first_clear=%d first_loss=%d\n",
		rs.firstTraceTick, rs.firstCaptureTick, rs.firstClearTick, rs.firstLossTick)
	st := rs.stats
	fmt.Printf("event_totals: traces=%d captures=%d aborted=%d close_failed=%d qix_trapped=%d sparkies=%d lives_lost=%d cleared=%d boosts=%d rejected=%d\n",
		st.TracesStarted, st.Captures, st.TracesAborted, rs.closeFailures, st.QixTrapped,
		st.SparkiesSpawned, st.LivesLost, st.LevelsCleared, st.BoostsUsed, st.MovesRejected)
	fmt.Printf("largest_capture_by_level: %s\n", formatLargest(rs.largestByLvl))
	if rs.windowSummary != nil {
		fmt.Printf("window_samples=%d window_tick_range=%d..%d drawing_share=%.2f avg_trace_points=%.1f\n",
			rs.windowSummary.SampleCount, rs.windowSummary.FromTick, rs.windowSummary.ToTick,
			rs.windowSummary.DrawingShare, rs.windowSummary.AvgTracePoints)
	}
	fmt.Println()
}

func formatLargest(m map[int]float64) string {
	if len(m) == 0 {
		return "none"
	}
	levels := make([]int, 0, len(m))
	for lvl := range m {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)
	parts := make([]string, 0, len(levels))
	for _, lvl := range levels {
		parts = append(parts, fmt.Sprintf("L%d=%.2f%%", lvl, m[lvl]))
	}
	return strings.Join(parts, " ")
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "0 seconds"
	}
	return durafmt.Parse(d.Truncate(time.Second)).LimitFirstN(2).String()
}

type aggregate struct {
	runs         int
	gameOvers    int
	maxLevel     int
	meanLevel    float64
	captures     int
	aborted      int
	livesLost    int
	cleared      int
	qixTrapped   int
	largest      float64
	meanPlayTime time.Duration
}

func summarize(all []runStats) aggregate {
	agg := aggregate{runs: len(all)}
	if len(all) == 0 {
		return agg
	}
	var total time.Duration
	levels := 0
	for _, rs := range all {
		if rs.gameOver {
			agg.gameOvers++
		}
		agg.maxLevel = max(agg.maxLevel, rs.level)
		levels += rs.level
		agg.captures += rs.stats.Captures
		agg.aborted += rs.stats.TracesAborted
		agg.livesLost += rs.stats.LivesLost
		agg.cleared += rs.stats.LevelsCleared
		agg.qixTrapped += rs.stats.QixTrapped
		agg.largest = max(agg.largest, rs.stats.LargestCapture)
		total += rs.playTime
	}
	agg.meanLevel = float64(levels) / float64(len(all))
	agg.meanPlayTime = total / time.Duration(len(all))
	return agg
}

func printAggregate(all []runStats) {
	agg := summarize(all)
	fmt.Printf("=== Aggregate (%d runs) ===\n", agg.runs)
	fmt.Printf("game_overs=%d max_level=%d mean_level=%.2f mean_play_time=%s\n",
		agg.gameOvers, agg.maxLevel, agg.meanLevel, formatDuration(agg.meanPlayTime))
	fmt.Printf("captures=%s aborted=%s lives_lost=%s levels_cleared=%s qix_trapped=%s largest_capture=%.2f%%\n",
		humanize.Comma(int64(agg.captures)), humanize.Comma(int64(agg.aborted)),
		humanize.Comma(int64(agg.livesLost)), humanize.Comma(int64(agg.cleared)),
		humanize.Comma(int64(agg.qixTrapped)), agg.largest)
}
