// Package prom exports engine metrics to Prometheus.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/geoterm"
)

// Collector implements geoterm.MetricsCollector on Prometheus metrics.
type Collector struct {
	opLatency    *prometheus.HistogramVec
	ops          *prometheus.CounterVec
	indexTerms   prometheus.Histogram
	indexCells   prometheus.Histogram
	queryTerms   prometheus.Histogram
	results      prometheus.Histogram
	rejects      *prometheus.CounterVec
	batchItems   *prometheus.CounterVec
	snapshotSize *prometheus.GaugeVec
	cache        *prometheus.CounterVec
}

var _ geoterm.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg. A nil reg
// selects prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	sizeBuckets := prometheus.ExponentialBuckets(1, 2, 12)
	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of engine operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total engine operations",
		}, []string{"op", "status"}),
		indexTerms: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_terms",
			Help:      "Number of index terms per document",
			Buckets:   sizeBuckets,
		}),
		indexCells: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_cells",
			Help:      "Number of covering cells per document",
			Buckets:   sizeBuckets,
		}),
		queryTerms: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_terms",
			Help:      "Number of query terms per search",
			Buckets:   sizeBuckets,
		}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of matching documents per search",
			Buckets:   sizeBuckets,
		}),
		rejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_polygons_total",
			Help:      "Polygons refused by the sanity checks",
		}, []string{"reason"}),
		batchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_documents_total",
			Help:      "Documents submitted through batch indexing",
		}, []string{"status"}),
		snapshotSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_bytes",
			Help:      "Size of the last snapshot written",
		}, []string{"op"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "covering_cache_lookups_total",
			Help:      "Covering cache lookups",
		}, []string{"result"}),
	}

	for _, m := range []prometheus.Collector{
		c.opLatency, c.ops, c.indexTerms, c.indexCells, c.queryTerms,
		c.results, c.rejects, c.batchItems, c.snapshotSize, c.cache,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
	c.ops.WithLabelValues(op, s).Inc()
}

// RecordIndex implements geoterm.MetricsCollector.
func (c *Collector) RecordIndex(cells, terms int, d time.Duration, err error) {
	c.observe("index", d, err)
	if err == nil {
		c.indexCells.Observe(float64(cells))
		c.indexTerms.Observe(float64(terms))
	}
}

// RecordBatchIndex implements geoterm.MetricsCollector.
func (c *Collector) RecordBatchIndex(count, failed int, d time.Duration) {
	c.observe("batch_index", d, nil)
	c.batchItems.WithLabelValues("success").Add(float64(count - failed))
	c.batchItems.WithLabelValues("error").Add(float64(failed))
}

// RecordSearch implements geoterm.MetricsCollector.
func (c *Collector) RecordSearch(terms, results int, d time.Duration, err error) {
	c.observe("search", d, err)
	if err == nil {
		c.queryTerms.Observe(float64(terms))
		c.results.Observe(float64(results))
	}
}

// RecordReject implements geoterm.MetricsCollector.
func (c *Collector) RecordReject(reason geoterm.RejectReason) {
	c.rejects.WithLabelValues(reason.String()).Inc()
}

// RecordRemove implements geoterm.MetricsCollector.
func (c *Collector) RecordRemove(d time.Duration, err error) {
	c.observe("remove", d, err)
}

// RecordSnapshot implements geoterm.MetricsCollector.
func (c *Collector) RecordSnapshot(op string, bytes int, d time.Duration, err error) {
	c.observe("snapshot_"+op, d, err)
	if err == nil && bytes > 0 {
		c.snapshotSize.WithLabelValues(op).Set(float64(bytes))
	}
}

// RecordCoveringCache implements geoterm.MetricsCollector.
func (c *Collector) RecordCoveringCache(hit bool) {
	if hit {
		c.cache.WithLabelValues("hit").Inc()
		return
	}
	c.cache.WithLabelValues("miss").Inc()
}
