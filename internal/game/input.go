package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Claimline/internal/engine"
)

// keyEdges turns level-triggered key state into press edges.
type keyEdges struct {
	prev map[ebiten.Key]bool
	cur  map[ebiten.Key]bool
}

func newKeyEdges() keyEdges {
	return keyEdges{prev: map[ebiten.Key]bool{}, cur: map[ebiten.Key]bool{}}
}

// begin starts a new frame: this frame's state becomes the previous one.
func (k *keyEdges) begin() {
	k.prev, k.cur = k.cur, k.prev
	clear(k.cur)
}

// justPressed records k as down or up for this frame and reports whether it
// went down since the last frame.
func (k *keyEdges) justPressed(key ebiten.Key, down bool) bool {
	k.cur[key] = down
	return down && !k.prev[key]
}

var dirKeys = [...]struct {
	dir  engine.Direction
	keys [2]ebiten.Key
}{
	{engine.DirUp, [2]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}},
	{engine.DirDown, [2]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}},
	{engine.DirLeft, [2]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}},
	{engine.DirRight, [2]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}},
}

// heldDirection maps arrow/WASD state to one direction. The previously held
// direction wins while its key stays down, so pressing a second key does
// not steal the move until the first is released.
func heldDirection(pressed func(ebiten.Key) bool, last engine.Direction) engine.Direction {
	down := func(d engine.Direction) bool {
		for _, dk := range dirKeys {
			if dk.dir == d {
				return pressed(dk.keys[0]) || pressed(dk.keys[1])
			}
		}
		return false
	}
	if last != engine.DirNone && down(last) {
		return last
	}
	for _, dk := range dirKeys {
		if down(dk.dir) {
			return dk.dir
		}
	}
	return engine.DirNone
}
