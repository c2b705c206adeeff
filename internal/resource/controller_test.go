package resource

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	// Test with limit
	c := NewController(Config{MemoryLimitBytes: 100})

	// Acquire 50
	err := c.AcquireMemory(50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	// Acquire 40
	err = c.AcquireMemory(40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Acquire 20 (should fail - limit exceeded)
	err = c.AcquireMemory(20)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Release 50
	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	// Now Acquire 20 should succeed
	err = c.AcquireMemory(20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.Equal(t, int64(90), c.PeakMemoryUsage())
	assert.Equal(t, int64(100), c.MemoryLimit())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	err := c.AcquireMemory(1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())
}

func TestController_ZeroAndNegative(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})

	require.NoError(t, c.AcquireMemory(0))
	require.NoError(t, c.AcquireMemory(-5))
	c.ReleaseMemory(0)
	c.ReleaseMemory(-5)
	assert.Equal(t, int64(0), c.MemoryUsage())
}

func TestController_NilChecks(t *testing.T) {
	var c *Controller
	assert.NoError(t, c.AcquireMemory(10))
	assert.True(t, c.AllowRate(10))
	c.ReleaseMemory(10) // Should not panic
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.Equal(t, int64(0), c.PeakMemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())
}

func TestController_Rate(t *testing.T) {
	c := NewController(Config{AllocRateBytesPerSec: 1000})

	// Burst defaults to one second worth of tokens.
	assert.True(t, c.AllowRate(600))
	assert.True(t, c.AllowRate(400))
	assert.False(t, c.AllowRate(500))

	// Unlimited
	c2 := NewController(Config{})
	assert.True(t, c2.AllowRate(1_000_000))
}

func TestController_RateBurst(t *testing.T) {
	c := NewController(Config{AllocRateBytesPerSec: 10, AllocBurstBytes: 4096})
	assert.True(t, c.AllowRate(4096))
	assert.False(t, c.AllowRate(4096))
}

func TestController_ReserveRateCancel(t *testing.T) {
	c := NewController(Config{AllocRateBytesPerSec: 1000})

	cancel, ok := c.ReserveRate(800)
	require.True(t, ok)
	assert.False(t, c.AllowRate(800))

	cancel()
	assert.True(t, c.AllowRate(1000), "cancelled tokens are available again")

	_, ok = c.ReserveRate(500)
	assert.False(t, ok)

	var nilc *Controller
	cancel, ok = nilc.ReserveRate(10)
	assert.True(t, ok)
	assert.NotPanics(t, cancel)
}

func TestController_ConcurrentAcquire(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 1000})

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.AcquireMemory(100) == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, granted)
	assert.Equal(t, int64(1000), c.MemoryUsage())
}
