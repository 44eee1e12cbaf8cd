package terms

import (
	"errors"
	"fmt"

	"github.com/hupe1980/geoterm/cell"
	"github.com/hupe1980/geoterm/coverer"
	"github.com/hupe1980/geoterm/region"
)

// Marker prefixes covering terms.
const Marker = "$"

// ErrInvalidOptions is returned by New for an unusable configuration.
var ErrInvalidOptions = errors.New("invalid term indexer options")

// Options configures an Indexer. The level triple must be identical for
// index and query side.
type Options struct {
	MinLevel int
	MaxLevel int
	LevelMod int // 1, 2 or 3

	// MaxCellsIndex and MaxCellsQuery are the default cell budgets for
	// region coverings on the index and query side.
	MaxCellsIndex int
	MaxCellsQuery int

	// PointsOnly drops the covering terms of query cell ancestors. Only
	// valid when every indexed document is a point.
	PointsOnly bool
}

// DefaultOptions returns the options used for field-sized polygons.
func DefaultOptions() Options {
	return Options{
		MinLevel:      18,
		MaxLevel:      25,
		LevelMod:      2,
		MaxCellsIndex: 100,
		MaxCellsQuery: 25,
	}
}

func (o Options) levels() coverer.Options {
	return coverer.Options{MinLevel: o.MinLevel, MaxLevel: o.MaxLevel, LevelMod: o.LevelMod}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.LevelMod < 1 || o.LevelMod > 3 {
		return fmt.Errorf("%w: level mod %d must be in [1, 3]", ErrInvalidOptions, o.LevelMod)
	}
	if o.MaxCellsIndex < 0 || o.MaxCellsQuery < 0 {
		return fmt.Errorf("%w: negative cell budget", ErrInvalidOptions)
	}
	if err := o.levels().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}

// Indexer generates index and query terms. It is immutable and safe for
// concurrent use.
type Indexer struct {
	opts         Options
	trueMaxLevel int
}

// New returns an Indexer for opts.
func New(opts Options) (*Indexer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Indexer{
		opts:         opts,
		trueMaxLevel: opts.levels().TrueMaxLevel(),
	}, nil
}

// Options returns the indexer configuration.
func (ix *Indexer) Options() Options { return ix.opts }

// TrueMaxLevel returns the finest level on the LevelMod stride.
func (ix *Indexer) TrueMaxLevel() int { return ix.trueMaxLevel }

// Signature identifies the level triple, e.g. "18:25:2".
func (ix *Indexer) Signature() string {
	return fmt.Sprintf("%d:%d:%d", ix.opts.MinLevel, ix.opts.MaxLevel, ix.opts.LevelMod)
}

// CoverOptions returns the coverer options for a budget of maxCells.
func (ix *Indexer) CoverOptions(maxCells int) coverer.Options {
	o := ix.opts.levels()
	o.MaxCells = maxCells
	return o
}

// AncestorTerm returns the ancestor term of id.
func AncestorTerm(id cell.ID) string { return id.ToToken() }

// CoveringTerm returns the covering term of id.
func CoveringTerm(id cell.ID) string { return Marker + id.ToToken() }

// IndexTerms returns the terms to store for a document covering. The
// covering must be sorted and non-overlapping with levels in
// [MinLevel, TrueMaxLevel] on the stride, as produced by coverer.Covering
// with this indexer's CoverOptions.
func (ix *Indexer) IndexTerms(covering cell.Union) []string {
	minLevel, levelMod := ix.opts.MinLevel, ix.opts.LevelMod

	var terms []string
	var prev cell.ID
	for _, id := range covering {
		level := id.Level()
		if level < ix.trueMaxLevel {
			terms = append(terms, CoveringTerm(id))
		}
		terms = append(terms, AncestorTerm(id))
		for level -= levelMod; level >= minLevel; level -= levelMod {
			ancestor := id.MustParent(level)
			if prev != 0 && prev.Level() > level && prev.MustParent(level) == ancestor {
				break
			}
			terms = append(terms, AncestorTerm(ancestor))
		}
		prev = id
	}
	return terms
}

// QueryTerms returns the terms to look up for a query covering, under the
// same preconditions as IndexTerms.
func (ix *Indexer) QueryTerms(covering cell.Union) []string {
	minLevel, levelMod := ix.opts.MinLevel, ix.opts.LevelMod

	var terms []string
	var prev cell.ID
	for _, id := range covering {
		terms = append(terms, AncestorTerm(id))
		if ix.opts.PointsOnly {
			continue
		}
		for level := id.Level() - levelMod; level >= minLevel; level -= levelMod {
			ancestor := id.MustParent(level)
			if prev != 0 && prev.Level() > level && prev.MustParent(level) == ancestor {
				break
			}
			terms = append(terms, CoveringTerm(ancestor))
		}
		prev = id
	}
	return terms
}

// Cover returns the covering of r used for terms, with a budget of
// maxCells.
func (ix *Indexer) Cover(r region.Region, maxCells int) cell.Union {
	return coverer.Covering(r, ix.CoverOptions(maxCells))
}

// IndexTermsForRegion covers r and returns its index terms. A maxCells of
// zero selects MaxCellsIndex.
func (ix *Indexer) IndexTermsForRegion(r region.Region, maxCells int) []string {
	if maxCells == 0 {
		maxCells = ix.opts.MaxCellsIndex
	}
	return ix.IndexTerms(ix.Cover(r, maxCells))
}

// QueryTermsForRegion covers r and returns its query terms. A maxCells of
// zero selects MaxCellsQuery.
func (ix *Indexer) QueryTermsForRegion(r region.Region, maxCells int) []string {
	if maxCells == 0 {
		maxCells = ix.opts.MaxCellsQuery
	}
	return ix.QueryTerms(ix.Cover(r, maxCells))
}

// IndexTermsForPoint returns the index terms of a point document: the
// ancestor terms of its cell at every stride level.
func (ix *Indexer) IndexTermsForPoint(p cell.Point) []string {
	leaf := cell.IDFromPoint(p)
	var terms []string
	for level := ix.opts.MinLevel; level <= ix.opts.MaxLevel; level += ix.opts.LevelMod {
		terms = append(terms, AncestorTerm(leaf.MustParent(level)))
	}
	return terms
}

// QueryTermsForPoint returns the query terms for a point.
func (ix *Indexer) QueryTermsForPoint(p cell.Point) []string {
	id := cell.IDFromPoint(p).MustParent(ix.trueMaxLevel)
	terms := []string{AncestorTerm(id)}
	if ix.opts.PointsOnly {
		return terms
	}
	for level := ix.trueMaxLevel - ix.opts.LevelMod; level >= ix.opts.MinLevel; level -= ix.opts.LevelMod {
		terms = append(terms, CoveringTerm(id.MustParent(level)))
	}
	return terms
}
