package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Garsondee/Claimline/internal/geom"
)

// ErrInvalidConfig wraps every Validate failure.
var ErrInvalidConfig = errors.New("engine: invalid config")

// Difficulty holds the per-level increments applied by Config.Next.
type Difficulty struct {
	QixSpeedStep       float64 // added to QixSpeed
	SparkySpeedStep    int     // added to SparkySpeed
	SparkyStepTicksDec int     // removed from SparkyStepTicks, floor 1
	SpawnScale         float64 // multiplies every spawn threshold; 0 keeps them
	TargetStep         float64 // added to CoverageTarget
	MaxTarget          float64 // CoverageTarget ceiling
}

// Config is the full parameter set for one level.
type Config struct {
	Frame    geom.Rect
	TickRate int // simulation ticks per second

	CoverageTarget float64 // percent of the frame to claim
	Lives          int

	PlayerSpeed     int // unit steps per tick
	BoostMultiplier int
	BoostDuration   time.Duration

	QixCount          int
	QixSpeed          float64 // units per tick
	QixTraceCostsLife bool

	SparkySpeed        int // units per movement step
	SparkyStepTicks    int // ticks between movement steps
	SparkySpawnSeconds []float64
	ContactRadius      float64

	WinDelay  time.Duration
	LossDelay time.Duration

	Difficulty Difficulty
	Seed       int64
}

// DefaultConfig returns the configuration of the first level.
func DefaultConfig() Config {
	return Config{
		Frame:              geom.Rect{X: 0, Y: 0, W: 480, H: 360},
		TickRate:           60,
		CoverageTarget:     75,
		Lives:              3,
		PlayerSpeed:        2,
		BoostMultiplier:    2,
		BoostDuration:      4 * time.Second,
		QixCount:           1,
		QixSpeed:           1.5,
		SparkySpeed:        1,
		SparkyStepTicks:    2,
		SparkySpawnSeconds: []float64{5, 20, 45},
		ContactRadius:      0.5,
		WinDelay:           3 * time.Second,
		LossDelay:          2 * time.Second,
		Difficulty: Difficulty{
			QixSpeedStep:       0.25,
			SparkyStepTicksDec: 1,
			SpawnScale:         0.85,
			TargetStep:         0,
			MaxTarget:          90,
		},
		Seed: 1,
	}
}

// Next returns the configuration of the following level. The receiver is
// left untouched.
func (c Config) Next() Config {
	n := c
	n.SparkySpawnSeconds = append([]float64(nil), c.SparkySpawnSeconds...)
	d := c.Difficulty

	n.QixSpeed += d.QixSpeedStep
	n.SparkySpeed += d.SparkySpeedStep
	n.SparkyStepTicks = max(1, c.SparkyStepTicks-d.SparkyStepTicksDec)
	if d.SpawnScale > 0 {
		for i := range n.SparkySpawnSeconds {
			n.SparkySpawnSeconds[i] *= d.SpawnScale
		}
	}
	n.CoverageTarget += d.TargetStep
	if d.MaxTarget > 0 && n.CoverageTarget > d.MaxTarget {
		n.CoverageTarget = d.MaxTarget
	}
	n.Seed = c.Seed + 1
	return n
}

// Validate checks the config for values the engine cannot run with.
func (c Config) Validate() error {
	f := c.Frame
	switch {
	case f.W <= 0 || f.H <= 0:
		return fmt.Errorf("%w: frame %vx%v must have positive size", ErrInvalidConfig, f.W, f.H)
	case !integral(f.X) || !integral(f.Y) || !integral(f.W) || !integral(f.H):
		return fmt.Errorf("%w: frame %+v must sit on integer coordinates", ErrInvalidConfig, f)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick rate %d", ErrInvalidConfig, c.TickRate)
	case c.CoverageTarget <= 0 || c.CoverageTarget > 100:
		return fmt.Errorf("%w: coverage target %.2f outside (0,100]", ErrInvalidConfig, c.CoverageTarget)
	case c.Lives < 1:
		return fmt.Errorf("%w: lives %d", ErrInvalidConfig, c.Lives)
	case c.PlayerSpeed < 1:
		return fmt.Errorf("%w: player speed %d", ErrInvalidConfig, c.PlayerSpeed)
	case c.BoostMultiplier < 1:
		return fmt.Errorf("%w: boost multiplier %d", ErrInvalidConfig, c.BoostMultiplier)
	case c.BoostDuration < 0 || c.WinDelay < 0 || c.LossDelay < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	case c.QixCount < 0 || c.QixSpeed < 0:
		return fmt.Errorf("%w: qix count %d speed %.2f", ErrInvalidConfig, c.QixCount, c.QixSpeed)
	case c.SparkyStepTicks < 1:
		return fmt.Errorf("%w: sparky step ticks %d", ErrInvalidConfig, c.SparkyStepTicks)
	case len(c.SparkySpawnSeconds) > 0 && c.SparkySpeed < 1:
		return fmt.Errorf("%w: sparky speed %d", ErrInvalidConfig, c.SparkySpeed)
	case c.ContactRadius <= 0:
		return fmt.Errorf("%w: contact radius %.2f", ErrInvalidConfig, c.ContactRadius)
	}
	prev := 0.0
	for i, s := range c.SparkySpawnSeconds {
		if s < prev {
			return fmt.Errorf("%w: spawn threshold %d (%.2fs) not ascending", ErrInvalidConfig, i, s)
		}
		prev = s
	}
	return nil
}

// dt is the fixed simulation step in seconds.
func (c Config) dt() float64 {
	return 1 / float64(c.TickRate)
}

func integral(v float64) bool {
	return v == math.Trunc(v)
}
