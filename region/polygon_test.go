package region

import (
	"math"
	"testing"

	"github.com/hupe1980/geoterm/cell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(lat, lng, half float64) [][2]float64 {
	return [][2]float64{
		{lng - half, lat - half},
		{lng + half, lat - half},
		{lng + half, lat + half},
		{lng - half, lat + half},
		{lng - half, lat - half},
	}
}

func ll(lat, lng float64) cell.Point {
	return cell.PointFromLatLng(cell.LatLngFromDegrees(lat, lng))
}

func TestPolygon_ContainsPoint(t *testing.T) {
	p, err := FromRings([][][2]float64{square(10, 20, 1)})
	require.NoError(t, err)
	assert.Equal(t, 4, p.NumVertices())

	assert.True(t, p.ContainsPoint(ll(10, 20)))
	assert.True(t, p.ContainsPoint(ll(10.9, 20.9)))
	assert.False(t, p.ContainsPoint(ll(11.2, 20)))
	assert.False(t, p.ContainsPoint(ll(-10, -160)))

	c := p.Centroid()
	assert.InDelta(t, 10, c.Lat.Degrees(), 0.01)
	assert.InDelta(t, 20, c.Lng.Degrees(), 0.01)
}

func TestPolygon_Hole(t *testing.T) {
	p, err := FromRings([][][2]float64{square(0, 0, 2), square(0, 0, 1)})
	require.NoError(t, err)

	assert.False(t, p.ContainsPoint(ll(0, 0)))
	assert.True(t, p.ContainsPoint(ll(1.5, 1.5)))
	assert.False(t, p.ContainsPoint(ll(3, 3)))

	outer, err := FromRings([][][2]float64{square(0, 0, 2)})
	require.NoError(t, err)
	inner, err := FromRings([][][2]float64{square(0, 0, 1)})
	require.NoError(t, err)
	assert.InEpsilon(t, outer.Area()-inner.Area(), p.Area(), 1e-9)
}

func TestPolygon_Errors(t *testing.T) {
	_, err := FromRings(nil)
	assert.ErrorIs(t, err, ErrInvalidLoop)

	_, err = FromRings([][][2]float64{{{0, 0}, {1, 1}, {0, 0}}})
	assert.ErrorIs(t, err, ErrInvalidLoop)

	// Four points around the equator enclose no hemisphere.
	_, err = FromRings([][][2]float64{{{0, 0}, {90, 0}, {180, 0}, {-90, 0}, {0, 0}}})
	assert.ErrorIs(t, err, ErrNotHemispherical)
}

func TestPolygon_Area(t *testing.T) {
	// A 1x1 degree square at the equator is close to the planar value.
	p, err := FromRings([][][2]float64{square(0, 0, 0.5)})
	require.NoError(t, err)
	deg := math.Pi / 180
	assert.InEpsilon(t, deg*deg, p.Area(), 1e-3)
}

func TestPolygon_CellPredicates(t *testing.T) {
	p, err := FromRings([][][2]float64{square(45, 10, 0.5)})
	require.NoError(t, err)

	inside := cell.FromID(cell.IDFromPoint(ll(45, 10)).MustParent(12))
	assert.True(t, p.ContainsCell(inside))
	assert.True(t, p.IntersectsCell(inside))

	outside := cell.FromID(cell.IDFromPoint(ll(40, 10)).MustParent(12))
	assert.False(t, p.ContainsCell(outside))
	assert.False(t, p.IntersectsCell(outside))

	// The face cell contains the whole polygon.
	face := cell.FromID(cell.IDFromPoint(ll(45, 10)).MustParent(0))
	assert.True(t, p.IntersectsCell(face))
	assert.False(t, p.ContainsCell(face))

	// A cell on the boundary intersects but is not contained.
	edge := cell.FromID(cell.IDFromPoint(ll(45.5, 10.5)).MustParent(14))
	assert.True(t, p.IntersectsCell(edge))
	assert.False(t, p.ContainsCell(edge))

	// A thin sliver crossing a cell without any vertex inside it.
	mid := cell.FromID(cell.IDFromPoint(ll(45, 10)).MustParent(10))
	c := cell.LatLngFromPoint(mid.Center())
	lat, lng := c.Lat.Degrees(), c.Lng.Degrees()
	sliver, err := FromRings([][][2]float64{{
		{lng - 0.2, lat - 1e-5}, {lng + 0.2, lat - 1e-5}, {lng + 0.2, lat + 1e-5}, {lng - 0.2, lat + 1e-5},
	}})
	require.NoError(t, err)
	assert.True(t, sliver.IntersectsCell(mid))
	assert.False(t, sliver.ContainsCell(mid))
}

func TestPolygon_Orientation(t *testing.T) {
	ring := square(30, -40, 1)
	rev := make([][2]float64, len(ring))
	for i, c := range ring {
		rev[len(ring)-1-i] = c
	}

	ccw, err := FromRings([][][2]float64{ring})
	require.NoError(t, err)
	cw, err := FromRings([][][2]float64{rev})
	require.NoError(t, err)

	assert.InEpsilon(t, ccw.Area(), cw.Area(), 1e-12)
	assert.True(t, cw.ContainsPoint(ll(30, -40)))
	assert.False(t, cw.ContainsPoint(ll(-30, 140)))
}

func TestCellUnion(t *testing.T) {
	id := cell.IDFromFace(2).ChildBeginAtLevel(6)
	r := CellUnion(cell.Union{id})

	assert.True(t, r.ContainsCell(cell.FromID(id.ChildBegin())))
	assert.True(t, r.IntersectsCell(cell.FromID(id.MustParent(3))))
	assert.False(t, r.ContainsCell(cell.FromID(id.MustParent(3))))
	assert.False(t, r.IntersectsCell(cell.FromID(id.Next())))
}

func TestPoint(t *testing.T) {
	q := ll(12, 34)
	r := Point(q)
	leaf := cell.IDFromPoint(q)
	assert.True(t, r.IntersectsCell(cell.FromID(leaf.MustParent(9))))
	assert.False(t, r.ContainsCell(cell.FromID(leaf)))
	assert.False(t, r.IntersectsCell(cell.FromID(leaf.MustParent(9).Next())))
}
