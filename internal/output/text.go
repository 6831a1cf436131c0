package output

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/maxvaer/dirprobe/internal/scanner"
)

// TextWriter writes one line per match:
//
//	/admin (Status: 200)
//	/admin (Status: 200 | Content-Length: 1234)
type TextWriter struct {
	w      io.Writer
	closer io.Closer
	stderr io.Writer
	quiet  bool

	green, cyan, yellow, red *color.Color
}

// NewTextWriter creates a text output writer. Colors are disabled for files,
// with NoColor, and when stdout is not a terminal.
func NewTextWriter(opts Options) (*TextWriter, error) {
	w, closer, err := destination(opts.File, opts.Stdout)
	if err != nil {
		return nil, err
	}
	t := &TextWriter{
		w:      w,
		closer: closer,
		stderr: opts.Stderr,
		quiet:  opts.Quiet,
		green:  color.New(color.FgGreen),
		cyan:   color.New(color.FgCyan),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
	}
	if opts.NoColor || opts.File != "" {
		for _, c := range []*color.Color{t.green, t.cyan, t.yellow, t.red} {
			c.DisableColor()
		}
	}
	return t, nil
}

// WriteHeader is a no-op; the banner is printed by the runner.
func (t *TextWriter) WriteHeader() error { return nil }

// WriteResult prints one colored match line.
func (t *TextWriter) WriteResult(result *scanner.ProbeResult) error {
	status := t.colorFor(result.StatusCode).Sprintf("%d", result.StatusCode)
	var err error
	if result.HasLength {
		_, err = fmt.Fprintf(t.w, "/%s (Status: %s | Content-Length: %d)\n", result.Candidate, status, result.ContentLength)
	} else {
		_, err = fmt.Fprintf(t.w, "/%s (Status: %s)\n", result.Candidate, status)
	}
	return err
}

// WriteFooter prints the summary to stderr unless quiet.
func (t *TextWriter) WriteFooter(stats Stats) error {
	if t.quiet {
		return nil
	}
	_, err := fmt.Fprintf(t.stderr,
		"\nCompleted: %d requests | Matches: %d | Errors: %d | Duration: %s | %.1f req/s\n",
		stats.TotalRequests,
		stats.MatchCount,
		stats.ErrorCount,
		stats.Duration.Round(time.Millisecond),
		stats.RequestsPerSec,
	)
	return err
}

// Close closes the output file, if any.
func (t *TextWriter) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

func (t *TextWriter) colorFor(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return t.green
	case code >= 300 && code < 400:
		return t.cyan
	case code >= 400 && code < 500:
		return t.yellow
	default:
		return t.red
	}
}
