// Package coverer approximates regions by sets of cells.
//
// A covering is built top-down. Starting from the six faces, cells that
// intersect the region are kept as candidates in a priority queue: coarse
// cells are refined first, and among cells of one level those with fewer
// intersecting children come first. A candidate becomes terminal when it is
// contained in the region, reaches the finest allowed level, or when refining
// it would exceed the cell budget.
//
// The raw result is then canonicalized: levels are aligned to the
// MinLevel/LevelMod stride and neighbouring cells are merged into their
// deepest common ancestor until the budget holds.
//
//	u := coverer.Covering(poly, coverer.Options{MaxCells: 25, MinLevel: 18, MaxLevel: 25, LevelMod: 2})
//
// Coverings are sound: every point of the region lies in some cell of the
// result. They are not minimal.
package coverer
