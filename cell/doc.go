// Package cell implements the hierarchical cell model used by geoterm.
//
// The sphere is projected onto the six faces of a cube. Each face is
// recursively split into four quadrants, up to 30 levels, and the quadrants
// are ordered along a Hilbert curve so that cells which are close in ID are
// usually close on the sphere.
//
// Points, positions and cell bounds are the types of github.com/golang/geo/s2.
// IDs use the same bit layout as s2.CellID, so ID.CellID converts without
// loss and the two can be mixed freely.
//
// # Cell IDs
//
// An ID packs a cell into 64 bits:
//
//	face (3 bits) | child positions (2 bits per level) | 1 | 0...
//
// The trailing sentinel bit encodes the level. All descendants of a cell
// occupy the contiguous interval [RangeMin, RangeMax], so containment and
// intersection are two integer comparisons:
//
//	a.Contains(b)   == a.RangeMin() <= b && b <= a.RangeMax()
//	a.Intersects(b) == b.RangeMin() <= a.RangeMax() && b.RangeMax() >= a.RangeMin()
//
// IDs serialize to tokens: lowercase hex with trailing zeros removed. The
// zero ID serializes to "X".
//
// # Unions
//
// A Union is a sorted set of IDs. Normalize makes it canonical: no entry
// contains another and no four siblings are present. Most set operations
// require normalized inputs and produce normalized outputs.
//
//	u := cell.UnionFromIDs(ids)
//	if u.Intersects(other) {
//	    overlap := cell.IntersectionOf(u, other)
//	    _ = overlap.Tokens()
//	}
package cell
