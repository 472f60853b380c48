package game

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hako/durafmt"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Garsondee/Claimline/internal/engine"
)

var (
	titleCaser    = cases.Title(language.English)
	shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

	monoSource *text.GoTextFaceSource
	monoFaces  = map[float64]*text.GoTextFace{}
)

// monoFace returns the Go Mono face at size, loading the source on first use.
func monoFace(size float64) *text.GoTextFace {
	if f, ok := monoFaces[size]; ok {
		return f
	}
	if monoSource == nil {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
		if err != nil {
			log.Fatalf("gomono: %v", err)
		}
		monoSource = src
	}
	f := &text.GoTextFace{Source: monoSource, Size: size}
	monoFaces[size] = f
	return f
}

// bannerText is the headline shown for an outcome, e.g. "Level Cleared".
func bannerText(o engine.Outcome) string {
	return titleCaser.String(strings.ReplaceAll(o.String(), "_", " "))
}

// playTime renders a duration as its two largest units.
func playTime(d time.Duration) string {
	if d < time.Second {
		return "0 s"
	}
	return durafmt.Parse(d.Truncate(time.Second)).LimitFirstN(2).Format(shortUnits)
}

// hudLines builds the status block from the session state.
func hudLines(s *engine.Session, autopilot bool, speed float64) []string {
	st := s.Stats()
	p := s.Player()
	lines := []string{
		fmt.Sprintf("Level %d  Lives %d  %s", s.Level(), s.Lives(), strings.ToUpper(s.State().String())),
		fmt.Sprintf("Claimed %s%% of %s%%",
			humanize.FormatFloat("#,###.#", s.PercentClaimed()),
			humanize.FormatFloat("#,###.", s.Target())),
		fmt.Sprintf("Captures %s  best %s%%", humanize.Comma(int64(st.Captures)),
			humanize.FormatFloat("#,###.#", st.LargestCapture)),
		fmt.Sprintf("Time %s  tick %s", playTime(s.PlayTime()), humanize.Comma(int64(s.Tick()))),
	}
	if p.Boosted() {
		lines = append(lines, fmt.Sprintf("BOOST x%d  %.1fs", s.Config().BoostMultiplier, p.BoostRemaining().Seconds()))
	}
	mode := "manual"
	if autopilot {
		mode = "autopilot"
	}
	lines = append(lines,
		fmt.Sprintf("%s  sim %gx", mode, speed),
		"arrows/WASD move  Space boost",
		"P pause  R restart  Tab autopilot",
		"C copy report  ,/. speed  H hud",
	)
	return lines
}

// drawHUD renders the status block in the bottom-left corner.
// Text is drawn into hudBuf at 1x then composited onto the screen at hudScale.
func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := hudLines(g.session, g.autopilot, g.simSpeed)
	if g.copyNotice != "" && g.session.Tick()-g.copyNoticeAt < 180 {
		lines = append(lines, g.copyNotice)
	}

	const lineH = 10
	const fontSize = 8
	const padX = 5
	const padY = 4

	face := monoFace(fontSize)
	maxW := 0.0
	for _, l := range lines {
		if w, _ := text.Measure(l, face, lineH); w > maxW {
			maxW = w
		}
	}
	boxW := float32(maxW) + padX*2
	boxH := float32(len(lines)*lineH + padY*2)

	// Position in unscaled coordinates (hudBuf is screen/hudScale).
	bufH := float32(g.height / hudScale)
	bx := float32(4)
	by := bufH - boxH - 4

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 6, G: 6, B: 12, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 70, B: 110, A: 180}, false)

	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(bx)+padX, float64(by)+padY+float64(i*lineH))
		op.ColorScale.ScaleWithColor(colBorder)
		text.Draw(g.hudBuf, line, face, op)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}

// drawCentered draws s with its centre at (cx, cy).
func drawCentered(dst *ebiten.Image, s string, cx, cy, size float64, col color.Color) {
	face := monoFace(size)
	op := &text.DrawOptions{}
	op.GeoM.Translate(cx, cy)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(col)
	text.Draw(dst, s, face, op)
}
