package fleet

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimiterStore_Basic(t *testing.T) {
	store := NewRateLimiterStore(1, 2)

	limiter := store.GetLimiter("commission-1")
	if assert.NotNil(t, limiter) {
		assert.Equal(t, rate.Limit(1), limiter.Limit())
		assert.Equal(t, 2, limiter.Burst())
	}
}

func TestRateLimiterStore_CustomLimit(t *testing.T) {
	store := NewRateLimiterStore(1, 2)

	store.SetLimiter("bridge", 5, 10)
	limiter := store.GetLimiter("bridge")

	assert.Equal(t, rate.Limit(5), limiter.Limit())
	assert.Equal(t, 10, limiter.Burst())
}

func TestRateLimiterStore_Allow(t *testing.T) {
	store := NewRateLimiterStore(rate.Every(1<<62), 2)
	subject := uuid.NewString()

	assert.True(t, store.Allow(subject))
	assert.True(t, store.Allow(subject))
	assert.False(t, store.Allow(subject))
	assert.True(t, store.Allow(uuid.NewString()), "other subjects keep their own bucket")

	var nilStore *RateLimiterStore
	assert.True(t, nilStore.Allow(subject))
}

func TestRateLimiterStore_Concurrency(t *testing.T) {
	store := NewRateLimiterStore(10, 5)
	subject := uuid.NewString()

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.GetLimiter(subject) == nil {
				t.Error("expected limiter, got nil")
			}
		}()
	}
	wg.Wait()

	assert.Same(t, store.GetLimiter(subject), store.GetLimiter(subject))
}
