// Package testutil provides deterministic random data for geoterm tests.
//
// This package is intended for use in tests and benchmarks only. It has no
// dependency on the other geoterm packages, so any package may import it
// from its tests.
//
//	rng := testutil.NewRNG(seed)
//	lat, lng := rng.LatLng(44, 45, -93, -92)
//	ring := rng.Ring(lat, lng, 0.01, 8) // closed [lng, lat] ring
package testutil
