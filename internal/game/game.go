package game

import (
	"fmt"
	"image/color"
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/time/rate"

	"github.com/Garsondee/Claimline/internal/engine"
)

const borderWidth = 24

// hudScale is the factor the HUD buffer is blown up by when composited.
const hudScale = 2

// reportEvery is how often (in ticks) the reporter samples the session.
const reportEvery = 60

// Game is the ebiten host around an engine.Session.
type Game struct {
	width      int
	height     int
	worldScale int // screen pixels per frame unit
	offX       int // pixel offset from window left to frame left
	offY       int // pixel offset from window top to frame top

	session  *engine.Session
	pilot    *engine.Autopilot
	reporter *engine.Reporter
	eventLog *EventLog

	autopilot bool
	showHUD   bool
	heldDir   engine.Direction
	keys      keyEdges

	// Offscreen buffer for the frame at 1 unit per pixel, scaled on blit.
	worldBuf *ebiten.Image
	// Offscreen buffer for HUD text, rendered at 1x then blitted at hudScale.
	hudBuf *ebiten.Image

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds

	rejectLimiter *rate.Limiter
	copyNotice    string
	copyNoticeAt  int
}

// New builds a game around a fresh session. It fails when cfg does not
// validate.
func New(cfg engine.Config) (*Game, error) {
	s, err := engine.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	fw, fh := int(cfg.Frame.W), int(cfg.Frame.H)
	scale := worldScaleFor(fw, fh)
	g := &Game{
		width:         borderWidth + fw*scale + borderWidth + logPanelWidth,
		height:        borderWidth + fh*scale + borderWidth,
		worldScale:    scale,
		offX:          borderWidth,
		offY:          borderWidth,
		session:       s,
		pilot:         engine.NewAutopilot(cfg.Seed),
		reporter:      engine.NewReporter(reportEvery * 10),
		eventLog:      NewEventLog(),
		showHUD:       true,
		keys:          newKeyEdges(),
		simSpeed:      1,
		rejectLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
	g.worldBuf = ebiten.NewImage(fw+1, fh+1)
	// HUD buffer: 1/hudScale of screen so it renders crisply when scaled up.
	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	g.eventLog.Note(0, "--", fmt.Sprintf("level 1, claim %.0f%%", s.Target()))
	return g, nil
}

// worldScaleFor picks the largest integer zoom that keeps the frame within
// a 1280x900 playfield, never below 1.
func worldScaleFor(w, h int) int {
	const maxW, maxH = 1280, 900
	scale := 1
	for (scale+1)*w <= maxW && (scale+1)*h <= maxH {
		scale++
	}
	return scale
}

// Session exposes the underlying engine session.
func (g *Game) Session() *engine.Session { return g.session }

func (g *Game) Update() error {
	// Handle input every frame regardless of sim speed.
	intent := g.handleInput()

	// Paused and finished sessions still step so command events come
	// through; Step leaves their state alone.
	// For speeds > 1 run multiple sim ticks per frame.
	// For speeds < 1 accumulate fractions.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.simTick(intent)
	}
	return nil
}

// simTick advances the session once and routes its result.
func (g *Game) simTick(intent engine.Direction) {
	if g.autopilot && g.session.State() == engine.StatePlaying {
		intent = g.pilot.Next(g.session)
	}
	res := g.session.Step(intent)
	for _, e := range res.Events {
		g.eventLog.Add(e)
	}
	if v := res.Move.Verdict; v != engine.MoveOK && v != engine.MoveIdle && g.rejectLimiter.Allow() {
		log.Printf("tick %d: move %s rejected: %s", res.Tick, intent, v)
	}
	if res.Outcome != engine.OutcomeNone {
		log.Printf("tick %d: %s (level %d, %.2f%% claimed)", res.Tick, res.Outcome, g.session.Level(), g.session.PercentClaimed())
	}
	if res.Tick%reportEvery == 0 {
		g.reporter.Collect(g.session.Snapshot())
	}
}

// handleInput processes keys and returns the movement intent for this frame.
func (g *Game) handleInput() engine.Direction {
	g.keys.begin()

	g.heldDir = heldDirection(ebiten.IsKeyPressed, g.heldDir)

	// P: pause / resume.
	if g.keys.justPressed(ebiten.KeyP, ebiten.IsKeyPressed(ebiten.KeyP)) {
		g.session.TogglePause()
	}

	// R: restart the level, or a new game after game over.
	if g.keys.justPressed(ebiten.KeyR, ebiten.IsKeyPressed(ebiten.KeyR)) {
		g.session.Restart()
		g.pilot = engine.NewAutopilot(g.session.Config().Seed)
	}

	// Space: speed boost.
	if g.keys.justPressed(ebiten.KeySpace, ebiten.IsKeyPressed(ebiten.KeySpace)) {
		g.session.ActivateBoost()
	}

	// Tab: autopilot.
	if g.keys.justPressed(ebiten.KeyTab, ebiten.IsKeyPressed(ebiten.KeyTab)) {
		g.autopilot = !g.autopilot
		g.eventLog.Note(g.session.Tick(), "AP", onOff(g.autopilot))
	}

	// H: toggle HUD.
	if g.keys.justPressed(ebiten.KeyH, ebiten.IsKeyPressed(ebiten.KeyH)) {
		g.showHUD = !g.showHUD
	}

	// C: copy the current report to the clipboard.
	if g.keys.justPressed(ebiten.KeyC, ebiten.IsKeyPressed(ebiten.KeyC)) {
		g.copyReport()
	}

	// Sim speed: ,=slower .=faster.
	if g.keys.justPressed(ebiten.KeyComma, ebiten.IsKeyPressed(ebiten.KeyComma)) {
		g.simSpeed = stepSpeed(g.simSpeed, -1)
	}
	if g.keys.justPressed(ebiten.KeyPeriod, ebiten.IsKeyPressed(ebiten.KeyPeriod)) {
		g.simSpeed = stepSpeed(g.simSpeed, +1)
	}

	return g.heldDir
}

// copyReport puts the latest snapshot, the window summary and the recent
// log on the clipboard.
func (g *Game) copyReport() {
	text := g.reportText()
	if err := clipboard.WriteAll(text); err != nil {
		log.Printf("clipboard: %v", err)
		g.copyNotice = "copy failed"
	} else {
		g.copyNotice = "report copied"
	}
	g.copyNoticeAt = g.session.Tick()
}

func (g *Game) reportText() string {
	var sb strings.Builder
	sb.WriteString(g.reporter.FormatLatest())
	if wr := g.reporter.WindowSummary(); wr != nil {
		sb.WriteString("\n")
		sb.WriteString(wr.Format())
	}
	sb.WriteString("\n")
	sb.WriteString(g.session.Log().FormatRange(g.session.Tick()-600, g.session.Tick()))
	return sb.String()
}

var simSpeeds = []float64{0.5, 1, 2, 4}

// stepSpeed moves one notch through simSpeeds in direction dir.
func stepSpeed(cur float64, dir int) float64 {
	idx := 1
	for i, s := range simSpeeds {
		if s == cur {
			idx = i
		}
	}
	idx += dir
	if idx < 0 {
		idx = 0
	}
	if idx >= len(simSpeeds) {
		idx = len(simSpeeds) - 1
	}
	return simSpeeds[idx]
}

func onOff(b bool) string {
	if b {
		return "autopilot on"
	}
	return "autopilot off"
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Window background: very dark, outside the frame.
	screen.Fill(color.RGBA{R: 12, G: 12, B: 16, A: 255})

	g.worldBuf.Clear()
	g.drawWorld(g.worldBuf)

	var blit ebiten.DrawImageOptions
	blit.GeoM.Scale(float64(g.worldScale), float64(g.worldScale))
	blit.GeoM.Translate(float64(g.offX), float64(g.offY))
	screen.DrawImage(g.worldBuf, &blit)

	// Frame outline (drawn at screen coords, not scaled).
	frame := g.session.Config().Frame
	ox, oy := float32(g.offX), float32(g.offY)
	fw := float32(frame.W) * float32(g.worldScale)
	fh := float32(frame.H) * float32(g.worldScale)
	vector.StrokeRect(screen, ox-3, oy-3, fw+6, fh+6, 1.0, color.RGBA{R: 50, G: 60, B: 90, A: 120}, false)

	g.drawOutcome(screen, fw, fh)

	logX := g.offX + int(fw) + borderWidth
	g.eventLog.Draw(screen, logX, g.height)

	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
