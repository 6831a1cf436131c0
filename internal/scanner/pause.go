package scanner

import (
	"context"
	"sync"
	"time"
)

// Pauser is a pause/resume gate for workers. While paused, Wait blocks
// until Toggle resumes the scan or the context ends.
type Pauser struct {
	mu          sync.Mutex
	resume      chan struct{} // closed while running
	pausedSince time.Time
	totalPaused time.Duration
}

// NewPauser creates a Pauser in the running state.
func NewPauser() *Pauser {
	ch := make(chan struct{})
	close(ch)
	return &Pauser{resume: ch}
}

// Wait returns immediately when running.
func (p *Pauser) Wait(ctx context.Context) error {
	p.mu.Lock()
	ch := p.resume
	p.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Toggle flips between paused and running and reports whether the scan is
// now paused.
func (p *Pauser) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.resume:
		p.resume = make(chan struct{})
		p.pausedSince = time.Now()
		return true
	default:
		p.totalPaused += time.Since(p.pausedSince)
		close(p.resume)
		return false
	}
}

// IsPaused reports whether workers are currently held.
func (p *Pauser) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pausedLocked()
}

// PausedDuration returns the total time spent paused, including any pause
// in progress.
func (p *Pauser) PausedDuration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.totalPaused
	if p.pausedLocked() {
		d += time.Since(p.pausedSince)
	}
	return d
}

func (p *Pauser) pausedLocked() bool {
	select {
	case <-p.resume:
		return false
	default:
		return true
	}
}
