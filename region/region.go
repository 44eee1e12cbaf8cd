package region

import "github.com/hupe1980/geoterm/cell"

// Region is a subset of the sphere that can be tested against cells.
// Implementations must be conservative for IntersectsCell: returning true
// for a disjoint cell costs precision, returning false for an intersecting
// cell breaks coverings.
type Region interface {
	ContainsCell(c cell.Cell) bool
	IntersectsCell(c cell.Cell) bool
}

// CellUnion adapts a normalized cell.Union as a Region.
type CellUnion cell.Union

// ContainsCell implements Region.
func (u CellUnion) ContainsCell(c cell.Cell) bool {
	return cell.Union(u).ContainsID(c.ID())
}

// Area returns the area of the union on the unit sphere.
func (u CellUnion) Area() float64 {
	return cell.Union(u).ExactArea()
}

// IntersectsCell implements Region.
func (u CellUnion) IntersectsCell(c cell.Cell) bool {
	return cell.Union(u).IntersectsID(c.ID())
}

// Point is a single location as a Region.
type Point cell.Point

// ContainsCell implements Region. A point never contains a cell.
func (p Point) ContainsCell(cell.Cell) bool { return false }

// IntersectsCell implements Region.
func (p Point) IntersectsCell(c cell.Cell) bool {
	return c.ContainsPoint(cell.Point(p))
}
