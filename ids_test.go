package geoterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geoterm/cell"
	"github.com/hupe1980/geoterm/earth"
)

func TestIDHelpers(t *testing.T) {
	parent := cell.IDFromLatLng(cell.LatLngFromDegrees(48.1, 11.6)).MustParent(12)
	children := parent.Children()
	other := cell.IDFromLatLng(cell.LatLngFromDegrees(-33.9, 151.2)).MustParent(12)

	t.Run("CheckIntersect", func(t *testing.T) {
		assert.True(t, CheckIntersect([]uint64{uint64(parent)}, []uint64{uint64(children[2])}))
		assert.False(t, CheckIntersect([]uint64{uint64(children[0])}, []uint64{uint64(children[1])}))
		assert.False(t, CheckIntersect([]uint64{uint64(parent)}, []uint64{uint64(other)}))
		assert.False(t, CheckIntersect(nil, []uint64{uint64(other)}))
	})

	t.Run("IntersectIDs", func(t *testing.T) {
		got := IntersectIDs(
			[]uint64{uint64(parent), uint64(other)},
			[]uint64{uint64(children[1]), uint64(children[3])},
		)
		assert.Equal(t, []uint64{uint64(children[1]), uint64(children[3])}, got)
	})

	t.Run("DenormalizeIDs", func(t *testing.T) {
		got, err := DenormalizeIDs([]uint64{uint64(parent)}, 13)
		require.NoError(t, err)
		want := make([]uint64, 4)
		for i, c := range children {
			want[i] = uint64(c)
		}
		assert.Equal(t, want, got)

		got, err = DenormalizeIDs([]uint64{uint64(children[0])}, 12)
		require.NoError(t, err)
		assert.Equal(t, []uint64{uint64(children[0])}, got)

		_, err = DenormalizeIDs(nil, 31)
		assert.ErrorIs(t, err, cell.ErrInvalidLevel)
	})

	t.Run("CellIntersect", func(t *testing.T) {
		id, ok := CellIntersect(uint64(parent), uint64(children[2]))
		assert.True(t, ok)
		assert.Equal(t, uint64(children[2]), id)

		_, ok = CellIntersect(uint64(children[0]), uint64(children[1]))
		assert.False(t, ok)

		grandchild := children[2].Children()[1]
		id, ok = CellIntersect3(uint64(parent), uint64(grandchild), uint64(children[2]))
		assert.True(t, ok)
		assert.Equal(t, uint64(grandchild), id)

		_, ok = CellIntersect3(uint64(parent), uint64(children[2]), uint64(other))
		assert.False(t, ok)
	})

	t.Run("Areas", func(t *testing.T) {
		ids := []uint64{uint64(parent)}
		assert.InDelta(t, earth.CellArea(parent), ExactArea(ids), 1e-6)
		assert.InDelta(t, earth.CellApproxArea(parent), ApproxArea(ids), 1e-6)

		// Children normalize into the parent.
		var kids []uint64
		for _, c := range children {
			kids = append(kids, uint64(c))
		}
		assert.InDelta(t, ExactArea(ids), ExactArea(kids), 1e-6)
	})

	t.Run("HighLevelCell", func(t *testing.T) {
		id, err := HighLevelCell(cell.UnionFromIDs(children[:]), 12)
		require.NoError(t, err)
		assert.Equal(t, parent, id)

		_, err = HighLevelCell(nil, 12)
		assert.ErrorIs(t, err, ErrNoRegion)
	})

	t.Run("CentroidWKT", func(t *testing.T) {
		assert.Contains(t, CentroidWKT(cell.Union{parent}), "POINT")
	})
}

func TestTokenToDecimal(t *testing.T) {
	dec, err := TokenToDecimal("89c25")
	require.NoError(t, err)
	assert.Equal(t, "9926584489608216576", dec)

	_, err = TokenToDecimal("zz")
	assert.ErrorIs(t, err, cell.ErrInvalidToken)
}
