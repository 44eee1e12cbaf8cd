package geoterm

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the prom
// package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordIndex is called after each document is indexed.
	// cells and terms describe the covering and its index terms.
	RecordIndex(cells, terms int, duration time.Duration, err error)

	// RecordBatchIndex is called after each batch.
	// count is the number of documents attempted, failed is the number that failed.
	RecordBatchIndex(count, failed int, duration time.Duration)

	// RecordSearch is called after each search with the number of query
	// terms and matching documents.
	RecordSearch(terms, results int, duration time.Duration, err error)

	// RecordReject is called when a polygon fails the sanity checks.
	RecordReject(reason RejectReason)

	// RecordRemove is called after each removal.
	RecordRemove(duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot save or load.
	// op is "save" or "load".
	RecordSnapshot(op string, bytes int, duration time.Duration, err error)

	// RecordCoveringCache is called on every covering cache lookup.
	RecordCoveringCache(hit bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIndex(int, int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordBatchIndex(int, int, time.Duration)         {}
func (NoopMetricsCollector) RecordSearch(int, int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordReject(RejectReason)                        {}
func (NoopMetricsCollector) RecordRemove(time.Duration, error)                {}
func (NoopMetricsCollector) RecordSnapshot(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCoveringCache(bool)                         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	IndexCount       atomic.Int64
	IndexErrors      atomic.Int64
	IndexTerms       atomic.Int64
	IndexTotalNanos  atomic.Int64
	BatchCount       atomic.Int64
	BatchItems       atomic.Int64
	BatchFailed      atomic.Int64
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchResults    atomic.Int64
	SearchTotalNanos atomic.Int64
	RejectCount      atomic.Int64
	RemoveCount      atomic.Int64
	RemoveErrors     atomic.Int64
	SnapshotCount    atomic.Int64
	SnapshotErrors   atomic.Int64
	CacheHits        atomic.Int64
	CacheMisses      atomic.Int64
}

// RecordIndex implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndex(_, terms int, duration time.Duration, err error) {
	b.IndexCount.Add(1)
	b.IndexTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.IndexErrors.Add(1)
		return
	}
	b.IndexTerms.Add(int64(terms))
}

// RecordBatchIndex implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchIndex(count, failed int, _ time.Duration) {
	b.BatchCount.Add(1)
	b.BatchItems.Add(int64(count))
	b.BatchFailed.Add(int64(failed))
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(_, results int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
		return
	}
	b.SearchResults.Add(int64(results))
}

// RecordReject implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReject(RejectReason) {
	b.RejectCount.Add(1)
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(_ time.Duration, err error) {
	b.RemoveCount.Add(1)
	if err != nil {
		b.RemoveErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(_ string, _ int, _ time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// RecordCoveringCache implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCoveringCache(hit bool) {
	if hit {
		b.CacheHits.Add(1)
	} else {
		b.CacheMisses.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		IndexCount:     b.IndexCount.Load(),
		IndexErrors:    b.IndexErrors.Load(),
		IndexTerms:     b.IndexTerms.Load(),
		IndexAvgNanos:  avg(b.IndexTotalNanos.Load(), b.IndexCount.Load()),
		BatchCount:     b.BatchCount.Load(),
		BatchItems:     b.BatchItems.Load(),
		BatchFailed:    b.BatchFailed.Load(),
		SearchCount:    b.SearchCount.Load(),
		SearchErrors:   b.SearchErrors.Load(),
		SearchResults:  b.SearchResults.Load(),
		SearchAvgNanos: avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		RejectCount:    b.RejectCount.Load(),
		RemoveCount:    b.RemoveCount.Load(),
		RemoveErrors:   b.RemoveErrors.Load(),
		SnapshotCount:  b.SnapshotCount.Load(),
		SnapshotErrors: b.SnapshotErrors.Load(),
		CacheHits:      b.CacheHits.Load(),
		CacheMisses:    b.CacheMisses.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	IndexCount     int64
	IndexErrors    int64
	IndexTerms     int64
	IndexAvgNanos  int64
	BatchCount     int64
	BatchItems     int64
	BatchFailed    int64
	SearchCount    int64
	SearchErrors   int64
	SearchResults  int64
	SearchAvgNanos int64
	RejectCount    int64
	RemoveCount    int64
	RemoveErrors   int64
	SnapshotCount  int64
	SnapshotErrors int64
	CacheHits      int64
	CacheMisses    int64
}
