package engine

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a session.
type SimLogEntry struct {
	Tick     int
	Actor    string  // "P" for the player, "Q0", "S1", or "--" for global events
	Category string  // move, trace, capture, enemy, boost, state, outcome
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] P    capture   claimed          1.00% at (0,10)
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Actor, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a session. It is unbounded and
// machine-readable; the on-screen event panel keeps its own ring buffer.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick movement and
// rejected-step entries are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Verbose reports whether verbose entries are recorded.
func (sl *SimLog) Verbose() bool { return sl.verbose }

// Add records a new entry.
func (sl *SimLog) Add(tick int, actor, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Actor:    actor,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, actor, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, actor, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Len returns the number of recorded entries.
func (sl *SimLog) Len() int { return len(sl.entries) }

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterActor returns entries for a specific actor label.
func (sl *SimLog) FilterActor(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Actor == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of a session snapshot.
func (sl *SimLog) Summary(snap Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", snap.Tick)
	fmt.Fprintf(&sb, "Level %d  state=%s  lives=%d\n", snap.Level, snap.State, snap.Lives)
	fmt.Fprintf(&sb, "Claimed: %.2f%% of %.2f%% target (%d polygons)\n",
		snap.Percent, snap.Target, snap.Polygons)
	fmt.Fprintf(&sb, "Player: (%.0f,%.0f) %s", snap.Player.X, snap.Player.Y, snap.Trace)
	if snap.Trace == Drawing {
		fmt.Fprintf(&sb, " trace=%d points", snap.TracePoints)
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "Enemies: qix=%d sparky=%d  border edges=%d\n",
		snap.Qixes, snap.Sparkies, snap.BorderEdges)

	counts := map[string]int{}
	for _, e := range sl.entries {
		counts[e.Category]++
	}
	sb.WriteString("Log: ")
	for _, c := range []string{"trace", "capture", "enemy", "boost", "state", "outcome"} {
		if n := counts[c]; n > 0 {
			fmt.Fprintf(&sb, "%s=%d  ", c, n)
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}
