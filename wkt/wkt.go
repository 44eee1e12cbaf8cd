// Package wkt reads polygons from Well-Known Text and writes cells and
// cell unions back as WKT. Parsing and formatting are done by orb; this
// package maps between orb geometries and geoterm regions.
package wkt

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	orbwkt "github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/planar"

	"github.com/hupe1980/geoterm/cell"
	"github.com/hupe1980/geoterm/region"
)

// ErrUnsupportedGeometry is returned for WKT that is not a POLYGON or MULTIPOLYGON.
var ErrUnsupportedGeometry = errors.New("unsupported geometry type")

// Shape is a parsed polygonal geometry in lng/lat degrees.
type Shape struct {
	geom orb.MultiPolygon
}

// Parse reads a POLYGON or MULTIPOLYGON.
func Parse(s string) (*Shape, error) {
	g, err := orbwkt.Unmarshal(s)
	if err != nil {
		return nil, fmt.Errorf("parse wkt: %w", err)
	}
	switch g := g.(type) {
	case orb.Polygon:
		return &Shape{geom: orb.MultiPolygon{g}}, nil
	case orb.MultiPolygon:
		return &Shape{geom: g}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
}

// Geometry returns the parsed geometry.
func (s *Shape) Geometry() orb.MultiPolygon { return s.geom }

// PlanarArea returns the area in square degrees. A zero area marks a
// degenerate shape.
func (s *Shape) PlanarArea() float64 {
	return planar.Area(s.geom)
}

// Bound returns the lng/lat bounding box.
func (s *Shape) Bound() orb.Bound {
	return s.geom.Bound()
}

// Rings returns every ring of every polygon as [lng, lat] pairs.
func (s *Shape) Rings() [][][2]float64 {
	var rings [][][2]float64
	for _, poly := range s.geom {
		for _, ring := range poly {
			r := make([][2]float64, len(ring))
			for i, p := range ring {
				r[i] = [2]float64{p[0], p[1]}
			}
			rings = append(rings, r)
		}
	}
	return rings
}

// Region converts the shape into a spherical polygon.
func (s *Shape) Region() (*region.Polygon, error) {
	return region.FromRings(s.Rings())
}

// CellPolygon returns the boundary of a cell as a closed polygon.
func CellPolygon(id cell.ID) orb.Polygon {
	c := cell.FromID(id)
	ring := make(orb.Ring, 0, 5)
	for k := range 4 {
		ring = append(ring, toOrb(cell.LatLngFromPoint(c.Vertex(k))))
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

// FormatCell returns the WKT POLYGON of a cell.
func FormatCell(id cell.ID) string {
	return orbwkt.MarshalString(CellPolygon(id))
}

// FormatUnion returns the WKT MULTIPOLYGON of every cell in u.
func FormatUnion(u cell.Union) string {
	mp := make(orb.MultiPolygon, 0, len(u))
	for _, id := range u {
		mp = append(mp, CellPolygon(id))
	}
	return orbwkt.MarshalString(mp)
}

// FormatPoint returns the WKT POINT of ll.
func FormatPoint(ll cell.LatLng) string {
	return orbwkt.MarshalString(toOrb(ll))
}

func toOrb(ll cell.LatLng) orb.Point {
	return orb.Point{ll.Lng.Degrees(), ll.Lat.Degrees()}
}
