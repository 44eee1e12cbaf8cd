package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG wraps a seeded math/rand source. It is safe for concurrent use.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG with the given seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset rewinds the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Range returns a pseudo-random number in [lo, hi).
func (r *RNG) Range(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// LatLng returns a position in degrees uniformly drawn from the given box.
func (r *RNG) LatLng(latMin, latMax, lngMin, lngMax float64) (lat, lng float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lat = latMin + r.rand.Float64()*(latMax-latMin)
	lng = lngMin + r.rand.Float64()*(lngMax-lngMin)
	return lat, lng
}

// UnitVector returns a point drawn uniformly from the unit sphere.
func (r *RNG) UnitVector() [3]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		x := r.rand.Float64()*2 - 1
		y := r.rand.Float64()*2 - 1
		z := r.rand.Float64()*2 - 1
		n := x*x + y*y + z*z
		if n > 1e-6 && n <= 1 {
			n = math.Sqrt(n)
			return [3]float64{x / n, y / n, z / n}
		}
	}
}

// Ring returns a closed ring of n vertices as [lng, lat] pairs in degrees,
// placed on a circle of radiusDeg around the center with jittered radii.
// The ring is counterclockwise and simple.
func (r *RNG) Ring(lat, lng, radiusDeg float64, n int) [][2]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ring := make([][2]float64, 0, n+1)
	for k := 0; k < n; k++ {
		theta := 2 * math.Pi * float64(k) / float64(n)
		rad := radiusDeg * (0.6 + 0.4*r.rand.Float64())
		ring = append(ring, [2]float64{
			lng + rad*math.Cos(theta)/math.Cos(lat*math.Pi/180),
			lat + rad*math.Sin(theta),
		})
	}
	return append(ring, ring[0])
}
