package cell

import "github.com/golang/geo/s2"

// Cell is an ID together with its spherical bounds. It is cheap to build
// and is what regions are tested against.
type Cell struct {
	id   ID
	geom s2.Cell
}

// FromID returns the Cell for id.
func FromID(id ID) Cell {
	return Cell{id: id, geom: s2.CellFromCellID(id.CellID())}
}

// FromFace returns the level-0 cell of face.
func FromFace(face int) Cell {
	return FromID(IDFromFace(face))
}

// ID returns the cell ID.
func (c Cell) ID() ID { return c.id }

// S2 returns the cell geometry for use with s2 regions.
func (c Cell) S2() s2.Cell { return c.geom }

// Face returns the cube face.
func (c Cell) Face() int { return c.geom.Face() }

// Level returns the cell level.
func (c Cell) Level() int { return c.geom.Level() }

// IsLeaf reports whether c is a leaf cell.
func (c Cell) IsLeaf() bool { return c.geom.IsLeaf() }

// Vertex returns corner k (0..3) in counterclockwise order.
func (c Cell) Vertex(k int) Point { return c.geom.Vertex(k) }

// Vertices returns the four corners of c.
func (c Cell) Vertices() [4]Point {
	return [4]Point{c.Vertex(0), c.Vertex(1), c.Vertex(2), c.Vertex(3)}
}

// Center returns the center of c on the sphere.
func (c Cell) Center() Point { return c.geom.Center() }

// ContainsPoint reports whether p lies inside c or on its boundary.
func (c Cell) ContainsPoint(p Point) bool { return c.geom.ContainsPoint(p) }

// BoundRadius returns the angle in radians of a cap around c.
func (c Cell) BoundRadius() float64 {
	return c.geom.CapBound().Radius().Radians()
}

// ExactArea returns the area of c on the unit sphere.
func (c Cell) ExactArea() float64 { return c.geom.ExactArea() }

// ApproxArea returns an approximation of the area of c on the unit sphere,
// accurate to within 3% for all levels.
func (c Cell) ApproxArea() float64 { return c.geom.ApproxArea() }

// AverageArea returns the mean area of cells at level on the unit sphere.
func AverageArea(level int) float64 {
	return s2.AvgAreaMetric.Value(level)
}
