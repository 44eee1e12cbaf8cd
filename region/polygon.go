package region

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/hupe1980/geoterm/cell"
)

var (
	// ErrInvalidLoop is returned for loops with fewer than three distinct vertices.
	ErrInvalidLoop = errors.New("loop needs at least three distinct vertices")

	// ErrNotHemispherical is returned when a polygon does not fit in an open hemisphere.
	ErrNotHemispherical = errors.New("polygon does not fit in a hemisphere")
)

// Polygon is a set of loops interpreted with the even-odd rule.
type Polygon struct {
	loops [][]cell.Point
	poly  *s2.Polygon
}

// NewPolygon builds a polygon from loops of unit vectors. A closing vertex
// equal to the first is dropped. Vertex order does not matter: every loop
// is taken to enclose the smaller of the two regions it bounds.
func NewPolygon(loops [][]cell.Point) (*Polygon, error) {
	if len(loops) == 0 {
		return nil, ErrInvalidLoop
	}

	p := &Polygon{loops: make([][]cell.Point, 0, len(loops))}
	s2loops := make([]*s2.Loop, 0, len(loops))
	for i, loop := range loops {
		clean := dedupe(loop)
		if len(clean) < 3 {
			return nil, fmt.Errorf("loop %d: %w", i, ErrInvalidLoop)
		}
		l := s2.LoopFromPoints(clean)
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("loop %d: %w: %v", i, ErrInvalidLoop, err)
		}
		l.Normalize()
		p.loops = append(p.loops, clean)
		s2loops = append(s2loops, l)
	}

	p.poly = s2.PolygonFromLoops(s2loops)
	if err := p.poly.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLoop, err)
	}
	if p.poly.CapBound().Radius() >= s1.Angle(math.Pi/2) {
		return nil, ErrNotHemispherical
	}
	return p, nil
}

// FromRings builds a polygon from rings of [lng, lat] pairs in degrees.
func FromRings(rings [][][2]float64) (*Polygon, error) {
	loops := make([][]cell.Point, len(rings))
	for i, ring := range rings {
		loop := make([]cell.Point, len(ring))
		for k, c := range ring {
			loop[k] = cell.PointFromLatLng(cell.LatLngFromDegrees(c[1], c[0]))
		}
		loops[i] = loop
	}
	return NewPolygon(loops)
}

func dedupe(loop []cell.Point) []cell.Point {
	out := make([]cell.Point, 0, len(loop))
	for _, v := range loop {
		v = cell.PointFromVector(v.Vector)
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// Loops returns the polygon loops without closing vertices, in input order.
func (p *Polygon) Loops() [][]cell.Point { return p.loops }

// NumVertices returns the total number of vertices.
func (p *Polygon) NumVertices() int {
	var n int
	for _, l := range p.loops {
		n += len(l)
	}
	return n
}

// Center returns the center of the polygon's bounding cap.
func (p *Polygon) Center() cell.Point { return p.poly.CapBound().Center() }

// ContainsPoint reports whether q lies inside the polygon.
func (p *Polygon) ContainsPoint(q cell.Point) bool { return p.poly.ContainsPoint(q) }

// IntersectsCell implements Region.
func (p *Polygon) IntersectsCell(c cell.Cell) bool { return p.poly.IntersectsCell(c.S2()) }

// ContainsCell implements Region.
func (p *Polygon) ContainsCell(c cell.Cell) bool { return p.poly.ContainsCell(c.S2()) }

// Area returns the area of the polygon on the unit sphere. Loops nested an
// odd number of times count as holes.
func (p *Polygon) Area() float64 { return p.poly.Area() }

// Centroid returns the area-weighted center of the polygon.
func (p *Polygon) Centroid() cell.LatLng {
	return cell.LatLngFromPoint(cell.PointFromVector(p.poly.Centroid().Vector))
}
