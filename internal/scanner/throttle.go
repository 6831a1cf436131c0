package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	minBackoff = 500 * time.Millisecond
	maxBackoff = 30 * time.Second
)

// ThrottleConfig configures a Throttler.
type ThrottleConfig struct {
	Delay    time.Duration // fixed pause before every request
	Rate     float64       // requests per second across all workers, 0 = unlimited
	Adaptive bool          // back off on 429/503 and repeated errors
}

// Throttler paces requests. It combines a fixed per-request delay, an
// optional global rate limit and an adaptive back-off that doubles the delay
// on 429/503 responses and halves it again once responses are healthy.
type Throttler struct {
	mu           sync.Mutex
	baseDelay    time.Duration
	currentDelay time.Duration
	consecutive  int
	adaptive     bool
	limiter      *rate.Limiter
	logger       zerolog.Logger
}

// NewThrottler creates a Throttler. A zero config yields a no-op throttler.
func NewThrottler(cfg ThrottleConfig, logger zerolog.Logger) *Throttler {
	t := &Throttler{
		baseDelay:    cfg.Delay,
		currentDelay: cfg.Delay,
		adaptive:     cfg.Adaptive,
		logger:       logger.With().Str("component", "throttle").Logger(),
	}
	if cfg.Rate > 0 {
		burst := int(cfg.Rate)
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), burst)
	}
	return t
}

// Delay returns the current per-request delay.
func (t *Throttler) Delay() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentDelay
}

// Wait blocks until the next request may be sent or ctx is done.
func (t *Throttler) Wait(ctx context.Context) error {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	delay := t.Delay()
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RecordStatus feeds a response status into the adaptive back-off.
func (t *Throttler) RecordStatus(statusCode int) {
	if !t.adaptive {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if statusCode == 429 || statusCode == 503 {
		t.consecutive++
		if t.backoff() {
			t.logger.Warn().Int("status", statusCode).Dur("delay", t.currentDelay).Msg("Rate limited, backing off")
		}
		return
	}
	if t.consecutive == 0 {
		return
	}
	t.consecutive = 0
	next := t.currentDelay / 2
	if next < t.baseDelay {
		next = t.baseDelay
	}
	if next != t.currentDelay {
		t.currentDelay = next
		t.logger.Info().Dur("delay", t.currentDelay).Msg("Recovering")
	}
}

// RecordError counts a transport error. Three in a row trigger a back-off.
func (t *Throttler) RecordError() {
	if !t.adaptive {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.consecutive++
	if t.consecutive >= 3 && t.backoff() {
		t.logger.Warn().Dur("delay", t.currentDelay).Msg("Multiple errors, backing off")
	}
}

// backoff doubles the current delay within bounds. Callers hold mu.
func (t *Throttler) backoff() bool {
	next := t.currentDelay * 2
	if next < minBackoff {
		next = minBackoff
	}
	if next > maxBackoff {
		next = maxBackoff
	}
	if next == t.currentDelay {
		return false
	}
	t.currentDelay = next
	return true
}
