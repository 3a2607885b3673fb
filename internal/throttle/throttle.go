// Package throttle limits repeated attempts per key, such as sign-ins per
// email address.
package throttle

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const maxKeys = 10000

type Limiter struct {
	lock     sync.Mutex
	limit    rate.Limit
	burst    int
	max      int
	limiters map[string]*rate.Limiter
}

// New allows burst attempts per key, refilled at perSecond.
func New(perSecond float64, burst int) *Limiter {
	return &Limiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		max:      maxKeys,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *Limiter) Allow(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))

	l.lock.Lock()
	defer l.lock.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= l.max {
			l.evictIdle()
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}

	return lim.Allow()
}

// evictIdle forgets keys whose bucket refilled completely, as those behave
// exactly like a fresh limiter. Keys still being limited are never dropped,
// so the map outgrows max while that many keys are in use.
func (l *Limiter) evictIdle() {
	now := time.Now()
	for key, lim := range l.limiters {
		if lim.TokensAt(now) >= float64(l.burst) {
			delete(l.limiters, key)
		}
	}
}
