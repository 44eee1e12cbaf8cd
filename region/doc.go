// Package region provides the regions that can be covered by cells.
//
// A Region answers two questions about a cell: does the region contain it
// entirely, and does the region intersect it at all. The coverer only needs
// those two predicates; it never looks at the geometry itself.
//
// Polygon is the main implementation, backed by an s2.Polygon. Its loops
// are combined with the even-odd rule, so holes and multi-part polygons
// need no orientation convention. A polygon must fit inside an open hemisphere.
package region
