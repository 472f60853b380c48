package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Claimline/internal/engine"
	"github.com/Garsondee/Claimline/internal/game"
)

func main() {
	cfg := engine.DefaultConfig()
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "RNG seed for the first level")
	flag.Float64Var(&cfg.Frame.W, "width", cfg.Frame.W, "frame width in units")
	flag.Float64Var(&cfg.Frame.H, "height", cfg.Frame.H, "frame height in units")
	flag.Float64Var(&cfg.CoverageTarget, "target", cfg.CoverageTarget, "percent of the frame to claim")
	flag.IntVar(&cfg.Lives, "lives", cfg.Lives, "lives per game")
	flag.IntVar(&cfg.PlayerSpeed, "speed", cfg.PlayerSpeed, "player unit steps per tick")
	flag.IntVar(&cfg.QixCount, "qix", cfg.QixCount, "number of qixes")
	flag.BoolVar(&cfg.QixTraceCostsLife, "qix-kills", cfg.QixTraceCostsLife, "a qix touching the trace costs a life")
	flag.Parse()

	g, err := game.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	w, h := g.Layout(0, 0)
	ebiten.SetWindowTitle("Claimline")
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(cfg.TickRate)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
