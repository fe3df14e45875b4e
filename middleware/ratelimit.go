package middleware

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterSweepEvery = 5 * time.Minute
	limiterIdleAfter  = 10 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// limiterSet holds one token bucket per client IP.
type limiterSet struct {
	r rate.Limit
	b int
	m sync.Map // ip -> *ipLimiter
}

func (s *limiterSet) get(ip string, now time.Time) *rate.Limiter {
	v, ok := s.m.Load(ip)
	if !ok {
		v, _ = s.m.LoadOrStore(ip, &ipLimiter{limiter: rate.NewLimiter(s.r, s.b)})
	}
	il := v.(*ipLimiter)
	il.lastSeen.Store(now.UnixNano())
	return il.limiter
}

// sweep drops limiters not used since cutoff and reports how many remain.
func (s *limiterSet) sweep(cutoff time.Time) int {
	n := 0
	s.m.Range(func(k, v interface{}) bool {
		if v.(*ipLimiter).lastSeen.Load() < cutoff.UnixNano() {
			s.m.Delete(k)
		} else {
			n++
		}
		return true
	})
	return n
}

func (s *limiterSet) run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sweep(now.Add(-limiterIdleAfter))
		}
	}
}

// RateLimit provides per-IP token-bucket rate limiting.
// r = requests per second, b = burst size. Idle limiters are swept until
// ctx is cancelled.
func RateLimit(ctx context.Context, r rate.Limit, b int) gin.HandlerFunc {
	set := &limiterSet{r: r, b: b}
	go set.run(ctx, limiterSweepEvery)

	return func(c *gin.Context) {
		if !set.get(c.ClientIP(), time.Now()).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
