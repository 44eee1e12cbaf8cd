package coverer

import (
	"errors"
	"fmt"

	"github.com/hupe1980/geoterm/cell"
)

// DefaultMaxCells is used when Options.MaxCells is zero.
const DefaultMaxCells = 8

// ErrInvalidOptions is returned by Validate.
var ErrInvalidOptions = errors.New("invalid coverer options")

// Options controls the shape of a covering.
type Options struct {
	// MaxCells is the cell budget. Zero selects DefaultMaxCells. MinLevel
	// may force a covering above the budget.
	MaxCells int
	// MinLevel is the coarsest level emitted.
	MinLevel int
	// MaxLevel is the finest level considered. The finest level actually
	// emitted is TrueMaxLevel.
	MaxLevel int
	// LevelMod restricts levels to MinLevel plus multiples of LevelMod.
	// Zero behaves like 1.
	LevelMod int
}

// Validate checks the level configuration.
func (o Options) Validate() error {
	switch {
	case o.MinLevel < 0 || o.MinLevel > cell.MaxLevel:
		return fmt.Errorf("%w: min level %d out of range", ErrInvalidOptions, o.MinLevel)
	case o.MaxLevel < o.MinLevel || o.MaxLevel > cell.MaxLevel:
		return fmt.Errorf("%w: max level %d must be in [%d, %d]", ErrInvalidOptions, o.MaxLevel, o.MinLevel, cell.MaxLevel)
	case o.LevelMod < 0 || o.LevelMod > 3:
		return fmt.Errorf("%w: level mod %d must be in [1, 3]", ErrInvalidOptions, o.LevelMod)
	case o.MaxCells < 0:
		return fmt.Errorf("%w: max cells %d is negative", ErrInvalidOptions, o.MaxCells)
	}
	return nil
}

// ForcedCells estimates how many cells a covering of a region with the
// given area in steradians needs at minLevel, before any budget applies.
func ForcedCells(area float64, minLevel int) float64 {
	return area / cell.AverageArea(minLevel)
}

func (o Options) levelMod() int {
	return max(o.LevelMod, 1)
}

func (o Options) maxCells() int {
	if o.MaxCells == 0 {
		return DefaultMaxCells
	}
	return o.MaxCells
}

// TrueMaxLevel returns the finest level that is MinLevel plus a multiple of
// LevelMod and not above MaxLevel.
func (o Options) TrueMaxLevel() int {
	mod := o.levelMod()
	if mod == 1 {
		return o.MaxLevel
	}
	return o.MaxLevel - (o.MaxLevel-o.MinLevel)%mod
}

// adjustLevel rounds level down onto the stride.
func (o Options) adjustLevel(level int) int {
	mod := o.levelMod()
	if mod > 1 && level > o.MinLevel {
		level -= (level - o.MinLevel) % mod
	}
	return level
}
