package game

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Claimline/internal/engine"
	"github.com/Garsondee/Claimline/internal/geom"
)

var (
	colUnclaimed = color.RGBA{R: 18, G: 20, B: 30, A: 255}
	colClaimed   = color.RGBA{R: 40, G: 90, B: 140, A: 255}
	colBorder    = color.RGBA{R: 200, G: 210, B: 230, A: 255}
	colTrace     = color.RGBA{R: 250, G: 170, B: 60, A: 255}
	colPlayer    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colBoosted   = color.RGBA{R: 120, G: 255, B: 160, A: 255}
	colQix       = color.RGBA{R: 230, G: 60, B: 200, A: 255}
	colSparky    = color.RGBA{R: 255, G: 230, B: 60, A: 255}
)

// whiteSubImage is the 1x1 source texture for DrawTriangles fills.
var whiteSubImage *ebiten.Image

func solidTexture() *ebiten.Image {
	if whiteSubImage == nil {
		white := ebiten.NewImage(3, 3)
		white.Fill(color.White)
		whiteSubImage = white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// toBuf maps a frame point to worldBuf pixel coordinates.
func toBuf(frame geom.Rect, p geom.Point) (float32, float32) {
	return float32(p.X - frame.X), float32(p.Y - frame.Y)
}

func (g *Game) drawWorld(dst *ebiten.Image) {
	s := g.session
	frame := s.Config().Frame
	dst.Fill(colUnclaimed)

	for _, poly := range s.Claimed() {
		fillPolygon(dst, frame, poly.Points(), colClaimed)
	}

	for _, e := range s.Border() {
		x0, y0 := toBuf(frame, e.A)
		x1, y1 := toBuf(frame, e.B)
		vector.StrokeLine(dst, x0, y0, x1, y1, 1, colBorder, false)
	}

	p := s.Player()
	if tr := p.Trace(); len(tr) > 1 {
		for i := 1; i < len(tr); i++ {
			x0, y0 := toBuf(frame, tr[i-1])
			x1, y1 := toBuf(frame, tr[i])
			vector.StrokeLine(dst, x0, y0, x1, y1, 1, colTrace, false)
		}
	}

	for _, q := range s.Qixes() {
		path := q.Path()
		x0, y0 := toBuf(frame, path.A)
		x1, y1 := toBuf(frame, path.B)
		vector.StrokeLine(dst, x0, y0, x1, y1, 2, colQix, false)
		vector.FillCircle(dst, x1, y1, 3, colQix, false)
	}

	for _, sp := range s.Sparkies() {
		x, y := toBuf(frame, sp.Position())
		vector.FillCircle(dst, x, y, 2, colSparky, false)
	}

	pc := colPlayer
	if p.Boosted() {
		pc = colBoosted
	}
	px, py := toBuf(frame, p.Position())
	vector.FillCircle(dst, px, py, 2, pc, false)
	if p.State() == engine.Drawing {
		vector.StrokeCircle(dst, px, py, 3.5, 1, colTrace, false)
	}
}

// fillPolygon fills a closed outline with a solid colour.
func fillPolygon(dst *ebiten.Image, frame geom.Rect, pts []geom.Point, col color.RGBA) {
	if len(pts) < 3 {
		return
	}
	var path vector.Path
	x, y := toBuf(frame, pts[0])
	path.MoveTo(x, y)
	for _, q := range pts[1:] {
		x, y = toBuf(frame, q)
		path.LineTo(x, y)
	}
	path.Close()

	vertices, indices := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vertices {
		vertices[i].SrcX = 1
		vertices[i].SrcY = 1
		vertices[i].ColorR = float32(col.R) / 255
		vertices[i].ColorG = float32(col.G) / 255
		vertices[i].ColorB = float32(col.B) / 255
		vertices[i].ColorA = float32(col.A) / 255
	}
	op := &ebiten.DrawTrianglesOptions{FillRule: ebiten.FillRuleNonZero}
	dst.DrawTriangles(vertices, indices, solidTexture(), op)
}

// drawOutcome dims the frame while an outcome is pending and shows its
// banner.
func (g *Game) drawOutcome(screen *ebiten.Image, fw, fh float32) {
	s := g.session
	var o engine.Outcome
	switch s.State() {
	case engine.StatePausedForOutcome:
		o = s.PendingOutcome()
	case engine.StateOver:
		o = engine.OutcomeGameOver
	case engine.StatePausedManual:
		vector.FillRect(screen, float32(g.offX), float32(g.offY), fw, fh, color.RGBA{A: 120}, false)
		drawCentered(screen, "Paused", float64(g.offX)+float64(fw)/2, float64(g.offY)+float64(fh)/2, 28, colPlayer)
		return
	default:
		return
	}
	progress := s.OutcomeProgress()
	if s.State() == engine.StateOver {
		progress = 1
	}
	vector.FillRect(screen, float32(g.offX), float32(g.offY), fw, fh, color.RGBA{A: uint8(160 * progress)}, false)
	cx, cy := float64(g.offX)+float64(fw)/2, float64(g.offY)+float64(fh)/2
	drawCentered(screen, bannerText(o), cx, cy, 32, outcomeColor(o))
	if s.State() == engine.StateOver {
		drawCentered(screen, "R to play again", cx, cy+40, 16, colBorder)
	}
}

func outcomeColor(o engine.Outcome) color.RGBA {
	switch o {
	case engine.OutcomeWin:
		return colBoosted
	case engine.OutcomeLoss:
		return colTrace
	default:
		return color.RGBA{R: 240, G: 80, B: 80, A: 255}
	}
}
