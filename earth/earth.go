// Package earth converts unit-sphere areas into square meters on the WGS84
// ellipsoid using the geocentric radius at a latitude.
package earth

import (
	"math"

	"github.com/hupe1980/geoterm/cell"
)

const (
	// EquatorialRadius is the WGS84 semi-major axis in meters.
	EquatorialRadius = 6378137.0
	// PolarRadius is the WGS84 semi-minor axis in meters.
	PolarRadius = 6356752.3141
)

// RadiusAt returns the geocentric radius in meters at a latitude given in
// radians.
func RadiusAt(lat float64) float64 {
	a, b := EquatorialRadius, PolarRadius
	cos, sin := math.Cos(lat), math.Sin(lat)
	num := math.Pow(a*a*cos, 2) + math.Pow(b*b*sin, 2)
	den := math.Pow(a*cos, 2) + math.Pow(b*sin, 2)
	return math.Sqrt(num / den)
}

// Area scales a unit-sphere area to square meters using the radius at lat.
func Area(steradians, lat float64) float64 {
	r := RadiusAt(lat)
	return steradians * r * r
}

// CellArea returns the exact area of id in square meters, using the radius
// at the cell center.
func CellArea(id cell.ID) float64 {
	c := cell.FromID(id)
	return Area(c.ExactArea(), cell.LatLngFromPoint(c.Center()).Lat.Radians())
}

// CellApproxArea returns the average area of cells at id's level in square
// meters, using the radius at the cell center.
func CellApproxArea(id cell.ID) float64 {
	return Area(cell.AverageArea(id.Level()), id.LatLng().Lat.Radians())
}

// UnionArea returns the sum of the exact areas of u's cells in square meters.
func UnionArea(u cell.Union) float64 {
	var total float64
	for _, id := range u {
		total += CellArea(id)
	}
	return total
}

// UnionApproxArea returns the sum of the approximate areas of u's cells.
func UnionApproxArea(u cell.Union) float64 {
	var total float64
	for _, id := range u {
		total += CellApproxArea(id)
	}
	return total
}
