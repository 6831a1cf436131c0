package scanner

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/maxvaer/dirprobe/internal/config"
)

// DispatchConfig holds optional pacing for the worker pool. Nil fields are
// skipped.
type DispatchConfig struct {
	Throttler *Throttler
	Pauser    *Pauser
}

// Dispatch probes every candidate received on candidates using exactly
// target.Concurrency() workers and returns a channel of results. Each probe
// is a HEAD request; matches are followed by a GET when the target asks for
// lengths. The returned channel is closed once candidates is drained or ctx
// is cancelled and all workers have returned.
func Dispatch(
	ctx context.Context,
	client Client,
	target *config.Target,
	candidates <-chan string,
	cfg DispatchConfig,
) <-chan ProbeResult {
	workers := target.Concurrency()
	if workers < 1 {
		workers = 1
	}
	resultsCh := make(chan ProbeResult, workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				var candidate string
				var ok bool
				select {
				case candidate, ok = <-candidates:
					if !ok {
						return
					}
				case <-ctx.Done():
					return
				}

				if cfg.Pauser != nil {
					if err := cfg.Pauser.Wait(ctx); err != nil {
						return
					}
				}
				if cfg.Throttler != nil {
					if err := cfg.Throttler.Wait(ctx); err != nil {
						return
					}
				}

				result, ok := probe(ctx, client, target, candidate, cfg.Throttler)
				if !ok {
					return
				}
				select {
				case resultsCh <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	return resultsCh
}

// probe runs the HEAD and optional GET for one candidate. ok is false when
// the failure was caused by ctx being cancelled.
func probe(ctx context.Context, client Client, target *config.Target, candidate string, throttler *Throttler) (ProbeResult, bool) {
	result := ProbeResult{
		Candidate: candidate,
		URL:       target.URLFor(candidate),
	}
	start := time.Now()

	resp, err := client.Do(ctx, http.MethodHead, result.URL)
	if err != nil {
		if ctx.Err() != nil {
			return result, false
		}
		if throttler != nil {
			throttler.RecordError()
		}
		result.Err = &ProbeError{Method: http.MethodHead, URL: result.URL, Err: err}
		result.Duration = time.Since(start)
		return result, true
	}
	if throttler != nil {
		throttler.RecordStatus(resp.StatusCode)
	}

	result.StatusCode = resp.StatusCode
	result.Location = resp.Location
	result.Matched = Classify(resp.StatusCode, target.Accepted())

	if result.Matched && target.ShowLength() {
		full, err := client.Do(ctx, http.MethodGet, result.URL)
		switch {
		case err != nil && ctx.Err() != nil:
			return result, false
		case err != nil:
			result.Err = &ProbeError{Method: http.MethodGet, URL: result.URL, Err: err}
		case full.HasLength:
			result.ContentLength = full.ContentLength
			result.HasLength = true
		}
	}

	result.Duration = time.Since(start)
	return result, true
}
