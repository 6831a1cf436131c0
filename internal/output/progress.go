package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Progress counts probes and, when started, renders a status line on w.
type Progress struct {
	total     int64 // -1 when unknown
	completed atomic.Int64
	matched   atomic.Int64
	errors    atomic.Int64
	start     time.Time
	w         io.Writer

	started  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
	stopped  chan struct{}
}

// NewProgress creates a tracker for total candidates.
func NewProgress(total int64, w io.Writer) *Progress {
	return &Progress{
		total:   total,
		start:   time.Now(),
		w:       w,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start prints the status line every interval until Stop.
func (p *Progress) Start(interval time.Duration) {
	p.started.Store(true)
	go func() {
		defer close(p.stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.print()
			case <-p.done:
				p.print()
				fmt.Fprint(p.w, "\n")
				return
			}
		}
	}()
}

func (p *Progress) Increment()        { p.completed.Inc() }
func (p *Progress) IncrementMatched() { p.matched.Inc() }
func (p *Progress) IncrementErrors()  { p.errors.Inc() }

// Stop ends the display and waits for the final line. It is safe to call
// without Start and more than once.
func (p *Progress) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		if p.started.Load() {
			<-p.stopped
		}
	})
}

// ClearLine erases the status line so a result can be printed cleanly.
// Call Redraw afterwards.
func (p *Progress) ClearLine() {
	if p.started.Load() {
		fmt.Fprint(p.w, "\r\033[K")
	}
}

// Redraw prints the status line again after ClearLine.
func (p *Progress) Redraw() {
	if p.started.Load() {
		p.print()
	}
}

// Stats snapshots the counters.
func (p *Progress) Stats() Stats {
	elapsed := time.Since(p.start)
	completed := p.completed.Load()
	s := Stats{
		TotalRequests: completed,
		MatchCount:    p.matched.Load(),
		ErrorCount:    p.errors.Load(),
		Duration:      elapsed,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		s.RequestsPerSec = float64(completed) / secs
	}
	return s
}

func (p *Progress) print() {
	s := p.Stats()
	if p.total < 0 {
		fmt.Fprintf(p.w, "\r\033[K%d | %.0f req/s | Matches: %d | Errors: %d",
			s.TotalRequests, s.RequestsPerSec, s.MatchCount, s.ErrorCount)
		return
	}

	pct := float64(0)
	if p.total > 0 {
		pct = float64(s.TotalRequests) / float64(p.total) * 100
	}
	eta := ""
	if s.RequestsPerSec > 0 && s.TotalRequests < p.total {
		remaining := float64(p.total-s.TotalRequests) / s.RequestsPerSec
		eta = fmt.Sprintf(" | ETA: %s", time.Duration(remaining*float64(time.Second)).Round(time.Second))
	}
	fmt.Fprintf(p.w, "\r\033[K[%3.0f%%] %d/%d | %.0f req/s | Matches: %d | Errors: %d%s",
		pct, s.TotalRequests, p.total, s.RequestsPerSec, s.MatchCount, s.ErrorCount, eta)
}
