package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geoterm"
)

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg, "geoterm")
	require.NoError(t, err)

	c.RecordIndex(12, 40, time.Millisecond, nil)
	c.RecordIndex(0, 0, time.Millisecond, errors.New("boom"))
	c.RecordSearch(8, 3, time.Millisecond, nil)
	c.RecordReject(geoterm.RejectZeroArea)
	c.RecordReject(geoterm.RejectZeroArea)
	c.RecordBatchIndex(10, 2, time.Second)
	c.RecordSnapshot("save", 2048, time.Millisecond, nil)
	c.RecordCoveringCache(true)
	c.RecordCoveringCache(false)
	c.RecordCoveringCache(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("index", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("index", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("search", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.rejects.WithLabelValues("zero area")))
	assert.Equal(t, 8.0, testutil.ToFloat64(c.batchItems.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.batchItems.WithLabelValues("error")))
	assert.Equal(t, 2048.0, testutil.ToFloat64(c.snapshotSize.WithLabelValues("save")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.cache.WithLabelValues("miss")))

	assert.Equal(t, 1, testutil.CollectAndCount(c.indexTerms))
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, "geoterm")
	require.NoError(t, err)

	_, err = New(reg, "geoterm")
	assert.Error(t, err)

	_, err = New(reg, "other")
	assert.NoError(t, err)
}

func TestCollector_Engine(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	c, err := New(reg, "geoterm")
	require.NoError(t, err)

	eng, err := geoterm.New(geoterm.WithMetricsCollector(c))
	require.NoError(t, err)

	wkt := "POLYGON((11.600 48.100, 11.601 48.100, 11.601 48.101, 11.600 48.101, 11.600 48.100))"
	require.NoError(t, eng.Index(ctx, "field", wkt))
	_, err = eng.Search(ctx, wkt)
	require.NoError(t, err)
	assert.Error(t, eng.Index(ctx, "bad", "POINT(1 2)"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("index", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("index", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("search", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rejects.WithLabelValues("parse error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cache.WithLabelValues("miss")))
}
