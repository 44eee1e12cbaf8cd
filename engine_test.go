package geoterm

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geoterm/blobstore"
	"github.com/hupe1980/geoterm/cell"
	"github.com/hupe1980/geoterm/codec"
	"github.com/hupe1980/geoterm/internal/compress"
	"github.com/hupe1980/geoterm/region"
	"github.com/hupe1980/geoterm/terms"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	eng, err := New(opts...)
	require.NoError(t, err)
	return eng
}

func TestEngine_IndexSearch(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	require.NoError(t, eng.Index(ctx, "field", fieldWKT))
	require.NoError(t, eng.Index(ctx, "far", farWKT))
	assert.Equal(t, 2, eng.Len())
	assert.Equal(t, []string{"far", "field"}, eng.Keys())

	keys, err := eng.Search(ctx, overlapWKT)
	require.NoError(t, err)
	assert.Equal(t, []string{"field"}, keys)

	keys, err = eng.Search(ctx, fieldWKT)
	require.NoError(t, err)
	assert.Equal(t, []string{"field"}, keys)

	keys, err = eng.Search(ctx, farWKT)
	require.NoError(t, err)
	assert.Equal(t, []string{"far"}, keys)
}

func TestEngine_Replace(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	require.NoError(t, eng.Index(ctx, "doc", fieldWKT))
	require.NoError(t, eng.Index(ctx, "doc", farWKT))
	assert.Equal(t, 1, eng.Len())

	keys, err := eng.Search(ctx, overlapWKT)
	require.NoError(t, err)
	assert.Empty(t, keys)

	keys, err = eng.Search(ctx, farWKT)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc"}, keys)
}

func TestEngine_Remove(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	require.NoError(t, eng.Index(ctx, "doc", fieldWKT))
	assert.True(t, eng.Contains("doc"))

	tm, err := eng.Terms("doc")
	require.NoError(t, err)
	assert.NotEmpty(t, tm)

	require.NoError(t, eng.Remove(ctx, "doc"))
	assert.False(t, eng.Contains("doc"))
	assert.ErrorIs(t, eng.Remove(ctx, "doc"), ErrNotFound)

	_, err = eng.Terms("doc")
	assert.ErrorIs(t, err, ErrNotFound)

	keys, err := eng.Search(ctx, fieldWKT)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestEngine_Rejections(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	eng := newTestEngine(t, WithMetricsCollector(metrics))

	err := eng.Index(ctx, "flat", "POLYGON((0 0, 1 1, 2 2, 0 0))")
	assert.ErrorIs(t, err, ErrDegenerateRegion)

	var rejected *ErrRejected
	_, err = eng.Search(ctx, "LINESTRING(0 0, 1 1)")
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, RejectParse, rejected.Reason)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.RejectCount)
	assert.Equal(t, int64(1), stats.IndexErrors)
	assert.Equal(t, int64(1), stats.SearchErrors)
	assert.Zero(t, eng.Len())
}

func TestEngine_Points(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	inside := cell.LatLngFromDegrees(48.1005, 11.6005)
	outside := cell.LatLngFromDegrees(48.2, 11.7)

	require.NoError(t, eng.IndexPoint(ctx, "in", inside))
	require.NoError(t, eng.IndexPoint(ctx, "out", outside))
	require.NoError(t, eng.Index(ctx, "field", fieldWKT))

	keys, err := eng.Search(ctx, fieldWKT)
	require.NoError(t, err)
	assert.Equal(t, []string{"field", "in"}, keys)

	keys, err = eng.SearchPoint(ctx, inside)
	require.NoError(t, err)
	assert.Equal(t, []string{"field", "in"}, keys)

	keys, err = eng.SearchPoint(ctx, outside)
	require.NoError(t, err)
	assert.Equal(t, []string{"out"}, keys)
}

func TestEngine_Regions(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	poly, err := region.FromRings([][][2]float64{{
		{11.600, 48.100}, {11.601, 48.100}, {11.601, 48.101}, {11.600, 48.101},
	}})
	require.NoError(t, err)

	require.NoError(t, eng.IndexRegion(ctx, "region", poly))

	keys, err := eng.SearchRegion(ctx, poly)
	require.NoError(t, err)
	assert.Equal(t, []string{"region"}, keys)

	keys, err = eng.Search(ctx, overlapWKT)
	require.NoError(t, err)
	assert.Equal(t, []string{"region"}, keys)
}

func TestEngine_CellLimit(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	eng := newTestEngine(t, WithMetricsCollector(metrics))

	err := eng.Index(ctx, "county", countyWKT)
	assert.ErrorIs(t, err, ErrRegionTooLarge)

	_, err = eng.Search(ctx, countyWKT)
	assert.ErrorIs(t, err, ErrRegionTooLarge)

	poly, err := region.FromRings([][][2]float64{{
		{11.4, 48.0}, {11.6, 48.0}, {11.6, 48.2}, {11.4, 48.2},
	}})
	require.NoError(t, err)

	err = eng.IndexRegion(ctx, "county", poly)
	var rejected *ErrRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, RejectTooLarge, rejected.Reason)

	_, err = eng.SearchRegion(ctx, poly)
	assert.ErrorIs(t, err, ErrRegionTooLarge)

	assert.Zero(t, eng.Len())
	stats := metrics.GetStats()
	assert.Equal(t, int64(4), stats.RejectCount)
	assert.Equal(t, int64(2), stats.IndexErrors)
	assert.Equal(t, int64(2), stats.SearchErrors)

	strict := newTestEngine(t, WithCellLimitFactor(1))
	assert.ErrorIs(t, strict.Index(ctx, "district", districtWKT), ErrRegionTooLarge)
	require.NoError(t, strict.Index(ctx, "field", fieldWKT))

	// A cell union region reports its area too.
	big := cell.UnionFromIDs([]cell.ID{cell.IDFromLatLng(cell.LatLngFromDegrees(48.1, 11.6)).MustParent(8)})
	assert.ErrorIs(t, strict.IndexRegion(ctx, "cells", region.CellUnion(big)), ErrRegionTooLarge)
}

func TestEngine_BatchIndex(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	eng := newTestEngine(t, WithConcurrency(4), WithMetricsCollector(metrics))

	docs := make([]Document, 0, 21)
	for i := range 20 {
		lng := 11.6 + float64(i)*0.01
		docs = append(docs, Document{
			Key: fmt.Sprintf("doc-%02d", i),
			WKT: fmt.Sprintf("POLYGON((%[1]f 48.1, %[2]f 48.1, %[2]f 48.101, %[1]f 48.101, %[1]f 48.1))", lng, lng+0.001),
		})
	}
	docs = append(docs, Document{Key: "bad", WKT: "POINT(1 2)"})

	errs, err := eng.BatchIndex(ctx, docs)
	require.NoError(t, err)
	require.Len(t, errs, len(docs))
	for i := range 20 {
		assert.NoError(t, errs[i], docs[i].Key)
	}
	assert.Error(t, errs[20])
	assert.Equal(t, 20, eng.Len())

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.BatchCount)
	assert.Equal(t, int64(21), stats.BatchItems)
	assert.Equal(t, int64(1), stats.BatchFailed)

	keys, err := eng.Search(ctx, docs[7].WKT)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-07"}, keys)
}

func TestEngine_BatchIndexCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := newTestEngine(t)
	errs, err := eng.BatchIndex(ctx, []Document{{Key: "a", WKT: fieldWKT}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, errs[0], context.Canceled)
	assert.Zero(t, eng.Len())
}

func TestEngine_CoveringCache(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	eng := newTestEngine(t, WithMetricsCollector(metrics))

	first, err := eng.QueryTerms(ctx, fieldWKT)
	require.NoError(t, err)
	second, err := eng.QueryTerms(ctx, fieldWKT)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)

	want := slices.Clone(first)
	first[0] = "changed"
	second[len(second)-1] = "changed"
	third, err := eng.QueryTerms(ctx, fieldWKT)
	require.NoError(t, err)
	assert.Equal(t, want, third)

	noCache := newTestEngine(t, WithCoveringCacheSize(0), WithMetricsCollector(metrics))
	_, err = noCache.QueryTerms(ctx, fieldWKT)
	require.NoError(t, err)
	_, err = noCache.QueryTerms(ctx, fieldWKT)
	require.NoError(t, err)
	assert.Equal(t, int64(2), metrics.GetStats().CacheHits)
}

func TestEngine_SaveLoad(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		store blobstore.BlobStore
		opts  []Option
	}{
		{"memory", blobstore.NewMemoryStore(), nil},
		{"local", blobstore.NewLocalStore(t.TempDir()), []Option{WithCodec(codec.JSON{}), WithCompression(compress.LZ4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithStore(tt.store), WithSnapshotName("fields.snap")}, tt.opts...)

			eng := newTestEngine(t, opts...)
			require.NoError(t, eng.Index(ctx, "field", fieldWKT))
			require.NoError(t, eng.Index(ctx, "far", farWKT))

			n, err := eng.Save(ctx)
			require.NoError(t, err)
			assert.Positive(t, n)

			loaded := newTestEngine(t, opts...)
			require.NoError(t, loaded.Load(ctx))
			assert.Equal(t, eng.Keys(), loaded.Keys())

			want, err := eng.Terms("field")
			require.NoError(t, err)
			got, err := loaded.Terms("field")
			require.NoError(t, err)
			assert.Equal(t, want, got)

			keys, err := loaded.Search(ctx, overlapWKT)
			require.NoError(t, err)
			assert.Equal(t, []string{"field"}, keys)
		})
	}
}

func TestEngine_SnapshotErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("no store", func(t *testing.T) {
		eng := newTestEngine(t)
		_, err := eng.Save(ctx)
		assert.ErrorIs(t, err, ErrNoStore)
		assert.ErrorIs(t, eng.Load(ctx), ErrNoStore)
	})

	t.Run("missing snapshot", func(t *testing.T) {
		eng := newTestEngine(t, WithStore(blobstore.NewMemoryStore()))
		assert.ErrorIs(t, eng.Load(ctx), ErrNotFound)
	})

	t.Run("signature mismatch", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		eng := newTestEngine(t, WithStore(store))
		require.NoError(t, eng.Index(ctx, "field", fieldWKT))
		_, err := eng.Save(ctx)
		require.NoError(t, err)

		o := terms.DefaultOptions()
		o.LevelMod = 1
		other := newTestEngine(t, WithStore(store), WithTerms(o))
		assert.ErrorIs(t, other.Load(ctx), ErrSignatureMismatch)
		assert.Zero(t, other.Len())
	})
}

func TestNew_InvalidTerms(t *testing.T) {
	o := terms.DefaultOptions()
	o.LevelMod = 0
	_, err := New(WithTerms(o))
	assert.ErrorIs(t, err, terms.ErrInvalidOptions)
}
