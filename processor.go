package geoterm

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/hupe1980/geoterm/cell"
	"github.com/hupe1980/geoterm/coverer"
	"github.com/hupe1980/geoterm/earth"
	"github.com/hupe1980/geoterm/region"
	"github.com/hupe1980/geoterm/terms"
	"github.com/hupe1980/geoterm/wkt"
)

// RejectReason says why AddWKT refused a polygon.
type RejectReason int

const (
	// RejectNone means the polygon was accepted.
	RejectNone RejectReason = iota
	// RejectOptions means the level configuration is invalid.
	RejectOptions
	// RejectParse means the text is not a POLYGON or MULTIPOLYGON.
	RejectParse
	// RejectZeroArea means the polygon has no planar area.
	RejectZeroArea
	// RejectInvalidLoop means the rings do not form a spherical polygon,
	// for example because they span more than a hemisphere.
	RejectInvalidLoop
	// RejectTooManyFaces means the polygon touches five or more cube faces.
	RejectTooManyFaces
	// RejectTooLarge means MinLevel alone would force far more cells than
	// the budget.
	RejectTooLarge
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectOptions:
		return "invalid options"
	case RejectParse:
		return "parse error"
	case RejectZeroArea:
		return "zero area"
	case RejectInvalidLoop:
		return "invalid loop"
	case RejectTooManyFaces:
		return "too many faces"
	case RejectTooLarge:
		return "too large"
	default:
		return fmt.Sprintf("RejectReason(%d)", int(r))
	}
}

// maxFaces is the exclusive bound on the number of cube faces a polygon may
// touch before it is considered degenerate.
const maxFaces = 5

// DefaultCellLimitFactor is the multiple of the cell budget a region may
// need at MinLevel before it is rejected as too large.
const DefaultCellLimitFactor = 100

// CoverConfig is the per-request covering configuration.
type CoverConfig struct {
	MinLevel int
	MaxLevel int
	LevelMod int
	// MaxCells is the cell budget; 0 selects coverer.DefaultMaxCells.
	MaxCells int

	// CellLimitFactor rejects regions whose area would need more than
	// CellLimitFactor * MaxCells cells at MinLevel. 0 selects
	// DefaultCellLimitFactor, a negative value disables the check.
	CellLimitFactor int
}

// DefaultCoverConfig mirrors terms.DefaultOptions with the index budget.
func DefaultCoverConfig() CoverConfig {
	o := terms.DefaultOptions()
	return CoverConfig{
		MinLevel: o.MinLevel,
		MaxLevel: o.MaxLevel,
		LevelMod: o.LevelMod,
		MaxCells: o.MaxCellsIndex,
	}
}

// checkSize returns an error when a region of area steradians exceeds the
// cell limit.
func (c CoverConfig) checkSize(area float64) error {
	factor := c.CellLimitFactor
	if factor < 0 {
		return nil
	}
	if factor == 0 {
		factor = DefaultCellLimitFactor
	}
	budget := c.MaxCells
	if budget == 0 {
		budget = coverer.DefaultMaxCells
	}
	limit := float64(factor) * float64(budget)
	if n := coverer.ForcedCells(area, c.MinLevel); n > limit {
		return fmt.Errorf("about %.0f cells at level %d exceed the limit of %.0f", n, c.MinLevel, limit)
	}
	return nil
}

func (c CoverConfig) termOptions() terms.Options {
	o := terms.DefaultOptions()
	o.MinLevel, o.MaxLevel, o.LevelMod = c.MinLevel, c.MaxLevel, c.LevelMod
	return o
}

// Processor covers one polygon and exposes its cells in the shapes
// downstream systems expect. A Processor holds per-request state and is not
// safe for concurrent use; create one per request.
type Processor struct {
	shape   *wkt.Shape
	polygon *region.Polygon
	union   cell.Union
	indexer *terms.Indexer

	reason RejectReason
	err    error
}

// NewProcessor returns an empty processor.
func NewProcessor() *Processor {
	return &Processor{}
}

func (p *Processor) reject(reason RejectReason, err error) bool {
	p.shape, p.polygon, p.union, p.indexer = nil, nil, nil, nil
	p.reason = reason
	p.err = &ErrRejected{Reason: reason, cause: err}
	return false
}

// AddWKT parses and covers a polygon, replacing any previous one. It
// returns false when the polygon fails a sanity check; Reason and Err
// describe the failure.
func (p *Processor) AddWKT(text string, cfg CoverConfig) bool {
	indexer, err := terms.New(cfg.termOptions())
	if err != nil {
		return p.reject(RejectOptions, err)
	}
	shape, err := wkt.Parse(text)
	if err != nil {
		return p.reject(RejectParse, err)
	}
	if shape.PlanarArea() <= 0 {
		return p.reject(RejectZeroArea, nil)
	}
	poly, err := shape.Region()
	if err != nil {
		return p.reject(RejectInvalidLoop, err)
	}
	if n := coverer.FaceCount(poly); n >= maxFaces {
		return p.reject(RejectTooManyFaces, fmt.Errorf("polygon touches %d faces", n))
	}
	if err := cfg.checkSize(poly.Area()); err != nil {
		return p.reject(RejectTooLarge, err)
	}

	p.shape, p.polygon, p.indexer = shape, poly, indexer
	p.union = coverer.Covering(poly, indexer.CoverOptions(cfg.MaxCells))
	p.reason, p.err = RejectNone, nil
	return true
}

// Reason returns why the last AddWKT failed, or RejectNone.
func (p *Processor) Reason() RejectReason { return p.reason }

// Err returns the error of the last failed AddWKT as *ErrRejected, or nil.
func (p *Processor) Err() error { return p.err }

// Loaded reports whether a polygon is currently covered.
func (p *Processor) Loaded() bool { return p.polygon != nil }

// Union returns the covering.
func (p *Processor) Union() cell.Union { return p.union }

// Polygon returns the spherical polygon, or nil.
func (p *Processor) Polygon() *region.Polygon { return p.polygon }

// IDs returns the covering cell ids.
func (p *Processor) IDs() []uint64 { return p.union.IDs() }

// DecimalIDs returns the covering cell ids as decimal strings.
func (p *Processor) DecimalIDs() []string {
	out := make([]string, len(p.union))
	for i, id := range p.union {
		out[i] = strconv.FormatUint(uint64(id), 10)
	}
	return out
}

// Tokens returns the covering cell tokens.
func (p *Processor) Tokens() []string { return p.union.Tokens() }

// Levels returns the level of every covering cell.
func (p *Processor) Levels() []int { return p.union.Levels() }

// CellAreas returns the area of every covering cell in square meters.
func (p *Processor) CellAreas() []float64 {
	out := make([]float64, len(p.union))
	for i, id := range p.union {
		out[i] = earth.CellArea(id)
	}
	return out
}

// RawCellAreas returns the area of every covering cell on the unit sphere.
func (p *Processor) RawCellAreas() []float64 {
	out := make([]float64, len(p.union))
	for i, id := range p.union {
		out[i] = cell.FromID(id).ExactArea()
	}
	return out
}

// Centroids returns the center of every covering cell as a WKT POINT.
func (p *Processor) Centroids() []string {
	out := make([]string, len(p.union))
	for i, id := range p.union {
		out[i] = wkt.FormatPoint(id.LatLng())
	}
	return out
}

// IndexTerms returns the index terms of the covering.
func (p *Processor) IndexTerms() []string {
	if p.indexer == nil {
		return nil
	}
	return p.indexer.IndexTerms(p.union)
}

// QueryTerms returns the query terms of the covering.
func (p *Processor) QueryTerms() []string {
	if p.indexer == nil {
		return nil
	}
	return p.indexer.QueryTerms(p.union)
}

// PolygonArea returns the spherical area of the polygon on the unit sphere.
func (p *Processor) PolygonArea() float64 {
	if p.polygon == nil {
		return 0
	}
	return p.polygon.Area()
}

// PolygonAreaM2 returns the polygon area in square meters, scaled with the
// earth radius at the polygon centroid.
func (p *Processor) PolygonAreaM2() float64 {
	if p.polygon == nil {
		return 0
	}
	return earth.Area(p.polygon.Area(), p.polygon.Centroid().Lat.Radians())
}

// WKTArea returns the planar area of the parsed geometry in square degrees.
func (p *Processor) WKTArea() float64 {
	if p.shape == nil {
		return 0
	}
	return p.shape.PlanarArea()
}

// CoveringArea returns the exact covering area in square meters.
func (p *Processor) CoveringArea() float64 { return earth.UnionArea(p.union) }

// CoveringWKT returns the covering as a WKT MULTIPOLYGON.
func (p *Processor) CoveringWKT() string {
	if p.polygon == nil {
		return ""
	}
	return wkt.FormatUnion(p.union)
}

// Centroid returns the covering centroid as a WKT POINT.
func (p *Processor) Centroid() (string, error) {
	if p.polygon == nil {
		return "", ErrNoRegion
	}
	return CentroidWKT(p.union), nil
}

// HighLevelCell returns the cell at level containing the covering centroid.
func (p *Processor) HighLevelCell(level int) (cell.ID, error) {
	if p.polygon == nil {
		return 0, ErrNoRegion
	}
	return HighLevelCell(p.union, level)
}

// SingleResolution returns the covering expanded to cells at level. Cells
// finer than level cannot be expressed and produce *ErrMixedResolution.
func (p *Processor) SingleResolution(level int) ([]cell.ID, error) {
	if p.polygon == nil {
		return nil, ErrNoRegion
	}
	if level < 0 || level > cell.MaxLevel {
		return nil, &cell.ErrLevel{Level: -1, Requested: level}
	}
	ids := p.union.Denormalize(level)
	var finer []int
	for _, id := range ids {
		if l := id.Level(); l != level && !slices.Contains(finer, l) {
			finer = append(finer, l)
		}
	}
	if len(finer) > 0 {
		slices.Sort(finer)
		return nil, &ErrMixedResolution{Level: level, Finer: finer}
	}
	return ids, nil
}

// SingleResolutionIDs is SingleResolution as raw ids.
func (p *Processor) SingleResolutionIDs(level int) ([]uint64, error) {
	ids, err := p.SingleResolution(level)
	if err != nil {
		return nil, err
	}
	return cell.UnionFromNormalized(ids).IDs(), nil
}

// SingleResolutionTokens is SingleResolution as tokens.
func (p *Processor) SingleResolutionTokens(level int) ([]string, error) {
	ids, err := p.SingleResolution(level)
	if err != nil {
		return nil, err
	}
	return cell.UnionFromNormalized(ids).Tokens(), nil
}
