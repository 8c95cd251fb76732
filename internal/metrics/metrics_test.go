package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc()
		}()
	}
	wg.Wait()
	c.Add(5)

	assert.Equal(t, uint64(55), c.Load())
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, timer.Duration(), time.Millisecond)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Counter("wishlist_resync").Inc()
	r.Counter("wishlist_resync").Inc()
	r.Counter("cart_clamped").Add(3)

	assert.Same(t, r.Counter("cart_clamped"), r.Counter("cart_clamped"))
	assert.Equal(t, map[string]uint64{"wishlist_resync": 2, "cart_clamped": 3}, r.Snapshot())
	assert.Equal(t, []string{"cart_clamped", "wishlist_resync"}, r.Names())
}

func TestRegistry_Nil(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() { r.Counter("x").Inc() })
}
