package game

import (
	"fmt"
	"image/color"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Claimline/internal/engine"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 11
)

// EventEntry is a single line in the event log.
type EventEntry struct {
	Tick    int
	Label   string // "P", "Q", "S" or "--"
	Kind    engine.EventKind
	Message string
}

// EventLog is a ring buffer of session events rendered on-screen.
type EventLog struct {
	entries []EventEntry
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]EventEntry, logMaxEntries),
	}
}

// Add appends a session event.
func (el *EventLog) Add(e engine.Event) {
	label, msg := describeEvent(e)
	el.push(EventEntry{Tick: e.Tick, Label: label, Kind: e.Kind, Message: msg})
}

// Note appends a host-side line that has no session event behind it.
func (el *EventLog) Note(tick int, label, msg string) {
	el.push(EventEntry{Tick: tick, Label: label, Kind: -1, Message: msg})
}

func (el *EventLog) push(e EventEntry) {
	el.entries[el.head] = e
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// Len returns the number of buffered entries.
func (el *EventLog) Len() int { return el.count }

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []EventEntry {
	result := make([]EventEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

// describeEvent renders one event as an actor label and a short message.
func describeEvent(e engine.Event) (string, string) {
	at := fmt.Sprintf("(%.0f,%.0f)", e.At.X, e.At.Y)
	switch e.Kind {
	case engine.EventTraceStarted:
		return "P", "leaves border at " + at
	case engine.EventCapture:
		return "P", fmt.Sprintf("claims %s%%", humanize.FormatFloat("#,###.##", e.Value))
	case engine.EventTraceAborted:
		return "P", "trace lost at " + at
	case engine.EventQixTrapped:
		return "Q", "trapped at " + at
	case engine.EventSparkySpawned:
		return "S", fmt.Sprintf("spawns at %s after %.0fs", at, e.Value)
	case engine.EventSparkyContact:
		return "S", "hits player at " + at
	case engine.EventBoostStarted:
		return "P", fmt.Sprintf("boost x%.0f", e.Value)
	case engine.EventPaused:
		return "--", "paused"
	case engine.EventResumed:
		return "--", "resumed"
	case engine.EventRestart:
		return "--", fmt.Sprintf("restart level %d", int(e.Value))
	case engine.EventBoostExpired:
		return "P", "boost over"
	case engine.EventOutcome:
		return "--", bannerText(e.Outcome)
	case engine.EventLevelStarted:
		return "--", fmt.Sprintf("level %d", int(e.Value))
	default:
		return "--", e.Kind.String()
	}
}

func entryColor(k engine.EventKind) color.RGBA {
	switch k {
	case engine.EventCapture:
		return color.RGBA{R: 120, G: 220, B: 140, A: 255}
	case engine.EventTraceAborted, engine.EventSparkyContact:
		return color.RGBA{R: 240, G: 100, B: 90, A: 255}
	case engine.EventQixTrapped:
		return color.RGBA{R: 250, G: 200, B: 80, A: 255}
	case engine.EventOutcome, engine.EventLevelStarted:
		return color.RGBA{R: 200, G: 200, B: 255, A: 255}
	default:
		return color.RGBA{R: 170, G: 170, B: 180, A: 255}
	}
}

// Draw renders the event log panel on the right side of the screen.
func (el *EventLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	// Panel background.
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 10, B: 14, A: 248}, false)
	// Left separator line.
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 55, B: 80, A: 255}, false)

	// Title bar.
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 20, G: 22, B: 34, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 55, B: 90, A: 200}, false)

	entries := el.Recent()

	// Draw from bottom up so newest is at bottom.
	maxLines := (panelH - 22) / logLineHeight
	start := 0
	if len(entries) > maxLines {
		start = len(entries) - maxLines
	}
	y := 20
	for _, e := range entries[start:] {
		// Colour tick marker per kind.
		vector.FillRect(screen, float32(panelX+4), float32(y+3), 3, 5, entryColor(e.Kind), false)
		line := fmt.Sprintf("%05d %-3s %s", e.Tick, e.Label, e.Message)
		if len(line) > 48 {
			line = line[:48]
		}
		ebitenutil.DebugPrintAt(screen, line, panelX+10, y-2)
		y += logLineHeight
	}
}
