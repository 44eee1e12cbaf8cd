// Package geoterm turns polygons and points into cell coverings and string
// terms, so that spatial intersection can be answered by any inverted index
// that matches terms.
//
// The building blocks live in sub-packages:
//
//   - cell: 64-bit hierarchical cell ids on a cube projected onto the sphere,
//     and normalized cell unions with set algebra.
//   - region: polygons, points and cell unions as coverable regions.
//   - coverer: bounded-size coverings of regions.
//   - terms: index and query terms for coverings.
//   - wkt: WKT parsing and formatting of polygons and coverings.
//   - index: an in-memory term index with roaring posting lists and
//     snapshots to a blob store.
//
// This package combines them into a per-request Processor and a
// concurrent Engine.
//
// # Processor
//
// A Processor covers one polygon and exposes the covering in several forms:
//
//	p := geoterm.NewProcessor()
//	if !p.AddWKT(wkt, geoterm.DefaultCoverConfig()) {
//	    log.Printf("rejected: %v", p.Err())
//	}
//	tokens := p.Tokens()
//	indexTerms := p.IndexTerms()
//
// AddWKT rejects polygons without planar area and polygons touching five or
// more cube faces.
//
// # Engine
//
// An Engine keeps a term index of documents and answers intersection
// queries:
//
//	eng, _ := geoterm.New(geoterm.WithStore(blobstore.NewLocalStore("./data")))
//	_ = eng.Index(ctx, "field-1", fieldWKT)
//	keys, _ := eng.Search(ctx, queryWKT)
//	_, _ = eng.Save(ctx)
//
// Index and query terms only match when both sides use the same MinLevel,
// MaxLevel and LevelMod. Snapshots record this triple and Load refuses a
// snapshot with a different one.
package geoterm
