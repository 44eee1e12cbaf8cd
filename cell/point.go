package cell

import (
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// Point is a location on the unit sphere.
type Point = s2.Point

// LatLng is a geographic position.
type LatLng = s2.LatLng

// LatLngFromDegrees builds a LatLng from degrees.
func LatLngFromDegrees(lat, lng float64) LatLng {
	return s2.LatLngFromDegrees(lat, lng)
}

// LatLngFromPoint returns the position of p. p need not be unit length.
func LatLngFromPoint(p Point) LatLng {
	return s2.LatLngFromPoint(p)
}

// PointFromLatLng returns the unit vector for ll.
func PointFromLatLng(ll LatLng) Point {
	return s2.PointFromLatLng(ll)
}

// PointFromVector normalizes v onto the sphere. The zero vector yields the
// zero Point.
func PointFromVector(v r3.Vector) Point {
	return Point{Vector: v.Normalize()}
}
