package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/maxvaer/dirprobe/internal/scanner"
)

// Stats holds aggregate scan statistics.
type Stats struct {
	TotalRequests  int64
	MatchCount     int64
	ErrorCount     int64
	Duration       time.Duration
	RequestsPerSec float64
}

// Writer is implemented by each output format. WriteResult is only called
// for matched results.
type Writer interface {
	// WriteHeader runs once before the first result.
	WriteHeader() error
	// WriteResult records one match.
	WriteResult(result *scanner.ProbeResult) error
	// WriteFooter runs once after dispatch finishes, interrupted or not.
	WriteFooter(stats Stats) error
	// Close releases the destination. It does not write the footer.
	Close() error
}

// Options selects and configures a Writer.
type Options struct {
	Format  string // text, json, csv or xlsx
	File    string // empty writes to Stdout
	NoColor bool
	Quiet   bool
	Stdout  io.Writer // defaults to os.Stdout
	Stderr  io.Writer // summary line, defaults to os.Stderr
}

// New creates the Writer for opts.Format.
func New(opts Options) (Writer, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	switch opts.Format {
	case "", "text":
		return NewTextWriter(opts)
	case "json":
		return NewJSONWriter(opts)
	case "csv":
		return NewCSVWriter(opts)
	case "xlsx":
		return NewXLSXWriter(opts)
	default:
		return nil, fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// destination returns the file at path, or fallback when path is empty. The
// returned closer is nil for fallback.
func destination(path string, fallback io.Writer) (io.Writer, io.Closer, error) {
	if path == "" {
		return fallback, nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f, nil
}
