package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Get("a") // a is now most recent
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Set("c", 3) // evicts b
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Set("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)

	c.Remove("a")
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestLRU_Disabled(t *testing.T) {
	c := NewLRU[int, int](0)
	c.Set(1, 1)
	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[string, int](64)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				key := fmt.Sprintf("k%d", (g*200+i)%100)
				c.Set(key, i)
				c.Get(key)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 64)
}

func TestLRU_RemoveFunc(t *testing.T) {
	c := NewLRU[string, int](8)
	for i := 0; i < 6; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	n := c.RemoveFunc(func(k string) bool { return k == "k1" || k == "k4" })
	assert.Equal(t, 2, n)
	assert.Equal(t, 4, c.Len())

	_, ok := c.Get("k4")
	assert.False(t, ok)
	_, ok = c.Get("k5")
	assert.True(t, ok)
}
