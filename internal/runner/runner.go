package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/maxvaer/dirprobe/internal/config"
	"github.com/maxvaer/dirprobe/internal/hook"
	"github.com/maxvaer/dirprobe/internal/output"
	"github.com/maxvaer/dirprobe/internal/scanner"
	"github.com/maxvaer/dirprobe/internal/wildcard"
	"github.com/maxvaer/dirprobe/internal/wordlist"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const progressInterval = 500 * time.Millisecond

// Runner ties the pipeline together for one target: baseline check,
// wordlist streaming, dispatch and reporting.
type Runner struct {
	opts   *config.Options
	target *config.Target
	client scanner.Client
	source *wordlist.Source
	logger zerolog.Logger

	stdout      io.Writer
	stderr      io.Writer
	interactive bool // stdin pause toggle and live progress
}

// New validates opts and prepares a Runner. All configuration errors surface
// here, before any request is sent.
func New(opts *config.Options, logger zerolog.Logger) (*Runner, error) {
	target, err := config.Build(opts)
	if err != nil {
		return nil, err
	}
	if opts.Username != "" && opts.BearerToken != "" {
		logger.Debug().Msg("Both basic and bearer credentials given, using basic auth")
	}

	source, err := wordlist.Open(opts.WordlistPath)
	if err != nil {
		return nil, err
	}

	client, err := scanner.NewClient(target)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	return &Runner{
		opts:        opts,
		target:      target,
		client:      client,
		source:      source,
		logger:      logger,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: opts.WordlistPath != wordlist.StdinPath && term.IsTerminal(int(os.Stderr.Fd())),
	}, nil
}

// Run executes the scan with a Runner built from opts.
func Run(ctx context.Context, opts *config.Options, logger zerolog.Logger) error {
	r, err := New(opts, logger)
	if err != nil {
		return err
	}
	_, err = r.Run(ctx)
	return err
}

// Run performs the scan. A wildcard baseline aborts the run with a
// *wildcard.DetectedError unless forced; a baseline transport failure
// always aborts it. Interrupting ctx stops dispatch, flushes what was found
// and returns nil.
func (r *Runner) Run(ctx context.Context) (output.Stats, error) {
	total := int64(-1)
	if n, err := r.source.Count(); err != nil {
		return output.Stats{}, fmt.Errorf("reading wordlist: %w", err)
	} else if n >= 0 {
		total = int64(n)
	}

	if !r.opts.Quiet {
		printBanner(r.stderr, r.target, r.source.Path(), total, r.opts)
	}

	if err := r.checkBaseline(ctx); err != nil {
		return output.Stats{}, err
	}

	out, err := output.New(output.Options{
		Format:  r.opts.OutputFormat,
		File:    r.opts.OutputFile,
		NoColor: r.opts.NoColor,
		Quiet:   r.opts.Quiet,
		Stdout:  r.stdout,
		Stderr:  r.stderr,
	})
	if err != nil {
		return output.Stats{}, fmt.Errorf("creating output writer: %w", err)
	}
	defer out.Close()

	if err := out.WriteHeader(); err != nil {
		return output.Stats{}, err
	}

	var hookRunner *hook.Runner
	if r.opts.OnResultCmd != "" {
		hookRunner = hook.NewRunner(r.opts.OnResultCmd, r.logger)
	}

	var pauser *scanner.Pauser
	if r.interactive {
		var cleanup func()
		pauser, cleanup = startStdinToggle(r.stderr, r.logger)
		defer cleanup()
	}

	throttler := scanner.NewThrottler(scanner.ThrottleConfig{
		Delay:    r.opts.Delay,
		Rate:     r.opts.Rate,
		Adaptive: r.opts.AdaptiveThrottle,
	}, r.logger)

	progress := output.NewProgress(total, r.stderr)
	if r.interactive && !r.opts.Quiet {
		progress.Start(progressInterval)
	}

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	candidates := r.source.Stream(scanCtx, r.target.Concurrency()*2)
	results := scanner.Dispatch(scanCtx, r.client, r.target, candidates, scanner.DispatchConfig{
		Throttler: throttler,
		Pauser:    pauser,
	})

	log := r.logger.With().Str("component", "dispatch").Logger()
	for result := range results {
		progress.Increment()

		if result.Err != nil {
			progress.IncrementErrors()
			log.Debug().Err(result.Err).Str("candidate", result.Candidate).Msg("Probe failed")
		}
		if !result.Matched {
			if result.Err == nil {
				log.Debug().Str("candidate", result.Candidate).Int("status", result.StatusCode).Msg("No match")
			}
			continue
		}

		progress.IncrementMatched()
		progress.ClearLine()
		err := out.WriteResult(&result)
		progress.Redraw()
		if err != nil {
			progress.Stop()
			return progress.Stats(), fmt.Errorf("writing result: %w", err)
		}

		if hookRunner != nil {
			if err := hookRunner.Run(scanCtx, &result); err != nil {
				log.Warn().Err(err).Str("candidate", result.Candidate).Msg("Result hook failed")
			}
		}
	}
	progress.Stop()

	stats := progress.Stats()
	if err := r.source.Err(); err != nil {
		return stats, err
	}
	if ctx.Err() != nil {
		r.logger.Warn().Int64("requests", stats.TotalRequests).Msg("Scan interrupted")
	}
	if err := out.WriteFooter(stats); err != nil {
		return stats, err
	}
	return stats, nil
}

func (r *Runner) checkBaseline(ctx context.Context) error {
	log := r.logger.With().Str("component", "wildcard").Logger()

	baseline, err := wildcard.Probe(ctx, r.client, r.target)
	if err != nil {
		return err
	}

	if baseline.IsWildcard {
		log.Warn().
			Str("url", baseline.URL).
			Int("status", baseline.StatusCode).
			Msg("Wildcard response detected, continuing because the check is forced")
		return nil
	}
	log.Debug().Str("url", baseline.URL).Int("status", baseline.StatusCode).Msg("Baseline ok")
	return nil
}
