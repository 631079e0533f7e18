package fleet

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterStore hands out one token bucket per subject (a device or a
// commission id) so a misbehaving installer app or bridge cannot flood one
// record with writes.
type RateLimiterStore struct {
	limiters     map[string]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func (s *RateLimiterStore) GetLimiter(subject string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[subject]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[subject] = limiter
	}
	return limiter
}

func (s *RateLimiterStore) SetLimiter(subject string, subjectRate rate.Limit, subjectBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[subject] = rate.NewLimiter(subjectRate, subjectBurst)
}

// Allow reports whether subject may proceed. A nil store allows everything.
func (s *RateLimiterStore) Allow(subject string) bool {
	if s == nil {
		return true
	}
	return s.GetLimiter(subject).Allow()
}
