// Package terms converts cell coverings into string terms for a
// conventional inverted index, so that a term lookup finds every indexed
// region whose covering intersects a query covering.
//
// Each cell yields two kinds of term:
//
//   - an ancestor term, the cell token, emitted at index time for every
//     covering cell and all of its ancestors down to MinLevel;
//   - a covering term, the token prefixed with Marker, emitted at index time
//     for every covering cell.
//
// A query emits the ancestor term of each of its cells, which finds indexed
// regions that are smaller, and the covering terms of each cell's ancestors,
// which finds indexed regions that are larger. Two coverings intersect
// exactly when their term sets do, as long as both were built with the same
// level options. Signature identifies those options so that stores can
// refuse to mix them.
//
// Cells at TrueMaxLevel never get a covering term: no query cell can be a
// proper descendant of them.
package terms
