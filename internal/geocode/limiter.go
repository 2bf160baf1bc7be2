package geocode

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces outbound lookups. Requests are admitted at most once per
// interval, and a request never starts until interval has passed since the
// previous one finished.
type Limiter struct {
	*rate.Limiter

	interval time.Duration

	mu       sync.Mutex
	lastDone time.Time
}

// NewLimiter returns a throttle that admits one request per interval.
// Intervals below MinInterval are raised to it.
func NewLimiter(interval time.Duration) *Limiter {
	if interval < MinInterval {
		interval = MinInterval
	}
	return &Limiter{
		Limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Interval returns the enforced gap between two requests
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Wait blocks until a request may start or ctx is done
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.Limiter.Wait(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	next := l.lastDone.Add(l.interval)
	l.mu.Unlock()

	// token reservations are averaged, so the gap after the last response
	// is enforced separately
	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done records that a request finished now
func (l *Limiter) Done() {
	l.mu.Lock()
	l.lastDone = time.Now()
	l.mu.Unlock()
}
