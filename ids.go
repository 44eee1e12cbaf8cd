package geoterm

import (
	"strconv"

	"github.com/hupe1980/geoterm/cell"
	"github.com/hupe1980/geoterm/earth"
	"github.com/hupe1980/geoterm/wkt"
)

// The helpers in this file operate on plain id lists as they arrive from
// storage or other services. Lists need not be normalized.

// CheckIntersect reports whether any cell of a intersects any cell of b.
func CheckIntersect(a, b []uint64) bool {
	return cell.UnionFromUint64s(a).Intersects(cell.UnionFromUint64s(b))
}

// IntersectIDs returns the normalized intersection of two id lists.
func IntersectIDs(a, b []uint64) []uint64 {
	return cell.IntersectionOf(cell.UnionFromUint64s(a), cell.UnionFromUint64s(b)).IDs()
}

// DenormalizeIDs expands every cell coarser than level into its
// descendants at level. Finer cells are kept.
func DenormalizeIDs(ids []uint64, level int) ([]uint64, error) {
	if level < 0 || level > cell.MaxLevel {
		return nil, &cell.ErrLevel{Level: -1, Requested: level}
	}
	out := cell.UnionFromUint64s(ids).Denormalize(level)
	return cell.UnionFromNormalized(out).IDs(), nil
}

// CellIntersect returns the finer of two cells when one contains the other.
// ok is false when the cells are disjoint.
func CellIntersect(a, b uint64) (id uint64, ok bool) {
	c, ok := cell.Intersection(cell.ID(a), cell.ID(b))
	return uint64(c), ok
}

// CellIntersect3 is CellIntersect over three cells.
func CellIntersect3(a, b, c uint64) (id uint64, ok bool) {
	r, ok := cell.Intersection3(cell.ID(a), cell.ID(b), cell.ID(c))
	return uint64(r), ok
}

// HighLevelCell returns the cell at level that contains the centroid of u.
func HighLevelCell(u cell.Union, level int) (cell.ID, error) {
	if len(u) == 0 {
		return 0, ErrNoRegion
	}
	return cell.IDFromPoint(u.Centroid()).Parent(level)
}

// CentroidWKT returns the area-weighted centroid of u as a WKT POINT.
func CentroidWKT(u cell.Union) string {
	return wkt.FormatPoint(cell.LatLngFromPoint(u.Centroid()))
}

// ExactArea returns the exact area of the cells in ids in square meters.
func ExactArea(ids []uint64) float64 {
	return earth.UnionArea(cell.UnionFromUint64s(ids))
}

// ApproxArea returns the approximate area of the cells in ids in square
// meters.
func ApproxArea(ids []uint64) float64 {
	return earth.UnionApproxArea(cell.UnionFromUint64s(ids))
}

// TokenToDecimal converts a cell token to its decimal id string.
func TokenToDecimal(token string) (string, error) {
	id, err := cell.IDFromToken(token)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(uint64(id), 10), nil
}
