package geoterm

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/geoterm/cell"
	"github.com/hupe1980/geoterm/index"
	"github.com/hupe1980/geoterm/internal/cache"
	"github.com/hupe1980/geoterm/internal/hash"
	"github.com/hupe1980/geoterm/region"
	"github.com/hupe1980/geoterm/terms"
)

// Document is one polygon to index.
type Document struct {
	Key string
	WKT string
}

type coveringKey struct {
	sum      uint32
	size     int
	maxCells int
}

type cachedTerms struct {
	wkt   string
	terms []string
}

// Engine indexes polygons and points under string keys and answers
// intersection queries through the term index. It is safe for concurrent
// use.
type Engine struct {
	mu      sync.RWMutex // Protects idx against replacement by Load
	idx     *index.Index
	indexer *terms.Indexer
	cache   *cache.LRU[coveringKey, cachedTerms]
	opts    options
	metrics MetricsCollector
	logger  *Logger
}

// New creates an empty engine.
func New(optFns ...Option) (*Engine, error) {
	opts := applyOptions(optFns)

	indexer, err := terms.New(opts.terms)
	if err != nil {
		return nil, err
	}

	return &Engine{
		idx:     index.New(indexer.Signature()),
		indexer: indexer,
		cache:   cache.NewLRU[coveringKey, cachedTerms](opts.coveringCacheSize),
		opts:    opts,
		metrics: opts.metricsCollector,
		logger:  opts.logger.WithSignature(indexer.Signature()),
	}, nil
}

// Indexer returns the term generator of the engine.
func (e *Engine) Indexer() *terms.Indexer { return e.indexer }

// Signature returns the level signature shared by the engine and its
// snapshots.
func (e *Engine) Signature() string { return e.indexer.Signature() }

func (e *Engine) index() *index.Index {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.idx
}

func (e *Engine) coverConfig(maxCells int) CoverConfig {
	o := e.indexer.Options()
	return CoverConfig{
		MinLevel:        o.MinLevel,
		MaxLevel:        o.MaxLevel,
		LevelMod:        o.LevelMod,
		MaxCells:        maxCells,
		CellLimitFactor: e.opts.cellLimitFactor,
	}
}

// checkRegion applies the size limit to regions that know their area.
func (e *Engine) checkRegion(ctx context.Context, key string, r region.Region, maxCells int) error {
	sized, ok := r.(interface{ Area() float64 })
	if !ok {
		return nil
	}
	if err := e.coverConfig(maxCells).checkSize(sized.Area()); err != nil {
		rej := &ErrRejected{Reason: RejectTooLarge, cause: err}
		e.metrics.RecordReject(RejectTooLarge)
		e.logger.LogReject(ctx, key, RejectTooLarge, rej)
		return rej
	}
	return nil
}

// cover runs the polygon sanity checks and covers text with a budget of
// maxCells.
func (e *Engine) cover(ctx context.Context, key, text string, maxCells int) (cell.Union, error) {
	p := NewProcessor()
	if !p.AddWKT(text, e.coverConfig(maxCells)) {
		e.metrics.RecordReject(p.Reason())
		e.logger.LogReject(ctx, key, p.Reason(), p.Err())
		return nil, p.Err()
	}
	return p.Union(), nil
}

// Index covers the polygon text and stores its index terms under key,
// replacing any previous document with the same key.
func (e *Engine) Index(ctx context.Context, key, text string) error {
	start := time.Now()
	cells, n, err := e.indexWKT(ctx, key, text)
	e.metrics.RecordIndex(cells, n, time.Since(start), err)
	e.logger.LogIndex(ctx, key, cells, n, err)
	return err
}

func (e *Engine) indexWKT(ctx context.Context, key, text string) (cells, n int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	u, err := e.cover(ctx, key, text, e.indexer.Options().MaxCellsIndex)
	if err != nil {
		return 0, 0, err
	}
	t := e.indexer.IndexTerms(u)
	e.index().Add(key, t)
	return len(u), len(t), nil
}

// IndexRegion covers r and stores its index terms under key. Only the size
// limit is checked, and only for regions with an Area method.
func (e *Engine) IndexRegion(ctx context.Context, key string, r region.Region) error {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		e.metrics.RecordIndex(0, 0, time.Since(start), err)
		return err
	}
	maxCells := e.indexer.Options().MaxCellsIndex
	if err := e.checkRegion(ctx, key, r, maxCells); err != nil {
		e.metrics.RecordIndex(0, 0, time.Since(start), err)
		e.logger.LogIndex(ctx, key, 0, 0, err)
		return err
	}
	u := e.indexer.Cover(r, maxCells)
	t := e.indexer.IndexTerms(u)
	e.index().Add(key, t)

	e.metrics.RecordIndex(len(u), len(t), time.Since(start), nil)
	e.logger.LogIndex(ctx, key, len(u), len(t), nil)
	return nil
}

// IndexPoint stores the index terms of a point document under key.
func (e *Engine) IndexPoint(ctx context.Context, key string, ll cell.LatLng) error {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		e.metrics.RecordIndex(0, 0, time.Since(start), err)
		return err
	}
	t := e.indexer.IndexTermsForPoint(cell.PointFromLatLng(ll))
	e.index().Add(key, t)

	e.metrics.RecordIndex(1, len(t), time.Since(start), nil)
	e.logger.LogIndex(ctx, key, 1, len(t), nil)
	return nil
}

// BatchIndex indexes docs concurrently. The returned slice holds the error
// of each document at its position, nil on success. The second result is
// non-nil only when ctx was canceled before the batch completed.
func (e *Engine) BatchIndex(ctx context.Context, docs []Document) ([]error, error) {
	start := time.Now()
	errs := make([]error, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return err
			}
			_, _, errs[i] = e.indexWKT(gctx, doc.Key, doc.WKT)
			return nil
		})
	}
	waitErr := g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	elapsed := time.Since(start)
	e.metrics.RecordBatchIndex(len(docs), failed, elapsed)
	e.logger.LogBatchIndex(ctx, len(docs), failed, elapsed)

	if waitErr != nil {
		return errs, fmt.Errorf("batch index: %w", waitErr)
	}
	return errs, nil
}

// QueryTerms returns the query terms of the polygon text, using the
// covering cache.
func (e *Engine) QueryTerms(ctx context.Context, text string) ([]string, error) {
	maxCells := e.indexer.Options().MaxCellsQuery
	key := coveringKey{sum: hash.CRC32C([]byte(text)), size: len(text), maxCells: maxCells}
	if v, ok := e.cache.Get(key); ok && v.wkt == text {
		e.metrics.RecordCoveringCache(true)
		return slices.Clone(v.terms), nil
	}
	e.metrics.RecordCoveringCache(false)

	u, err := e.cover(ctx, "", text, maxCells)
	if err != nil {
		return nil, err
	}
	t := e.indexer.QueryTerms(u)
	e.cache.Set(key, cachedTerms{wkt: text, terms: t})
	return slices.Clone(t), nil
}

// Search returns the sorted keys of documents whose index terms match the
// query terms of the polygon text.
func (e *Engine) Search(ctx context.Context, text string) ([]string, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := e.QueryTerms(ctx, text)
	if err != nil {
		e.metrics.RecordSearch(0, 0, time.Since(start), err)
		e.logger.LogQuery(ctx, 0, 0, err)
		return nil, err
	}
	return e.search(ctx, t, start), nil
}

// SearchRegion covers r with the query budget and returns the matching keys.
func (e *Engine) SearchRegion(ctx context.Context, r region.Region) ([]string, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	maxCells := e.indexer.Options().MaxCellsQuery
	if err := e.checkRegion(ctx, "", r, maxCells); err != nil {
		e.metrics.RecordSearch(0, 0, time.Since(start), err)
		e.logger.LogQuery(ctx, 0, 0, err)
		return nil, err
	}
	return e.search(ctx, e.indexer.QueryTermsForRegion(r, maxCells), start), nil
}

// SearchPoint returns the keys of documents containing the point.
func (e *Engine) SearchPoint(ctx context.Context, ll cell.LatLng) ([]string, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.search(ctx, e.indexer.QueryTermsForPoint(cell.PointFromLatLng(ll)), start), nil
}

func (e *Engine) search(ctx context.Context, t []string, start time.Time) []string {
	keys := e.index().Search(t)
	e.metrics.RecordSearch(len(t), len(keys), time.Since(start), nil)
	e.logger.LogQuery(ctx, len(t), len(keys), nil)
	return keys
}

// Remove deletes the document stored under key.
func (e *Engine) Remove(ctx context.Context, key string) error {
	start := time.Now()
	err := ctx.Err()
	if err == nil {
		err = translateError(e.index().Remove(key))
	}
	e.metrics.RecordRemove(time.Since(start), err)
	e.logger.LogRemove(ctx, key, err)
	return err
}

// Terms returns the index terms stored under key.
func (e *Engine) Terms(key string) ([]string, error) {
	t, err := e.index().Terms(key)
	return t, translateError(err)
}

// Contains reports whether a document is stored under key.
func (e *Engine) Contains(key string) bool { return e.index().Contains(key) }

// Keys returns the sorted keys of all documents.
func (e *Engine) Keys() []string { return e.index().Keys() }

// Len returns the number of documents.
func (e *Engine) Len() int { return e.index().Len() }

// Save writes a snapshot of the index to the configured blob store.
func (e *Engine) Save(ctx context.Context) (int, error) {
	if e.opts.store == nil {
		return 0, ErrNoStore
	}
	start := time.Now()
	n, err := e.index().Save(ctx, e.opts.store, e.opts.snapshotName, e.opts.snapshot)
	err = translateError(err)
	e.metrics.RecordSnapshot("save", n, time.Since(start), err)
	e.logger.LogSnapshot(ctx, "save", e.opts.snapshotName, n, err)
	return n, err
}

// Load replaces the index with the snapshot in the configured blob store.
// The snapshot must carry the engine's signature.
func (e *Engine) Load(ctx context.Context) error {
	if e.opts.store == nil {
		return ErrNoStore
	}
	start := time.Now()
	ix, err := index.Load(ctx, e.opts.store, e.opts.snapshotName, e.Signature())
	err = translateError(err)
	if err == nil {
		e.mu.Lock()
		e.idx = ix
		e.mu.Unlock()
	}
	e.metrics.RecordSnapshot("load", 0, time.Since(start), err)
	e.logger.LogSnapshot(ctx, "load", e.opts.snapshotName, 0, err)
	return err
}
