package resource

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds I/O limits. Zero values disable a limit.
type Config struct {
	// MaxConcurrentIO is the number of requests allowed in flight.
	MaxConcurrentIO int64

	// IOLimitBytesPerSec is the maximum throughput across all requests.
	IOLimitBytesPerSec int64
}

// Controller enforces a Config. A nil *Controller enforces nothing.
type Controller struct {
	cfg Config

	ioSem     *semaphore.Weighted // nil if unlimited
	ioLimiter *rate.Limiter       // nil if unlimited
}

// NewController creates a controller for cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MaxConcurrentIO > 0 {
		c.ioSem = semaphore.NewWeighted(cfg.MaxConcurrentIO)
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// Config returns the limits of c.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// Acquire reserves a request slot, blocking until one is free or ctx ends.
func (c *Controller) Acquire(ctx context.Context) error {
	if c == nil || c.ioSem == nil {
		return ctx.Err()
	}
	return c.ioSem.Acquire(ctx, 1)
}

// Release returns a slot reserved by Acquire.
func (c *Controller) Release() {
	if c == nil || c.ioSem == nil {
		return
	}
	c.ioSem.Release(1)
}

// TryAcquire reserves a request slot without blocking.
func (c *Controller) TryAcquire() bool {
	if c == nil || c.ioSem == nil {
		return true
	}
	return c.ioSem.TryAcquire(1)
}

// WaitIO blocks until the rate limit admits n bytes.
func (c *Controller) WaitIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil {
		return ctx.Err()
	}
	burst := c.ioLimiter.Burst()
	for n > 0 {
		step := min(n, burst)
		if err := c.ioLimiter.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

// AllowIO reports whether n bytes are admitted now, consuming the tokens
// if so.
func (c *Controller) AllowIO(n int) bool {
	if c == nil || c.ioLimiter == nil {
		return true
	}
	return c.ioLimiter.AllowN(time.Now(), n)
}
