package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/maxvaer/dirprobe/internal/scanner"
)

// CSVWriter streams matches as CSV rows.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter creates a CSV output writer.
func NewCSVWriter(opts Options) (*CSVWriter, error) {
	w, closer, err := destination(opts.File, opts.Stdout)
	if err != nil {
		return nil, err
	}
	return &CSVWriter{w: csv.NewWriter(w), closer: closer}, nil
}

// WriteHeader writes the column row.
func (c *CSVWriter) WriteHeader() error {
	return c.w.Write([]string{"candidate", "url", "status", "content_length", "location"})
}

// WriteResult writes and flushes one row.
func (c *CSVWriter) WriteResult(result *scanner.ProbeResult) error {
	length := ""
	if result.HasLength {
		length = strconv.FormatInt(result.ContentLength, 10)
	}
	if err := c.w.Write([]string{
		result.Candidate,
		result.URL,
		strconv.Itoa(result.StatusCode),
		length,
		result.Location,
	}); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

// WriteFooter flushes pending rows. CSV has no trailer.
func (c *CSVWriter) WriteFooter(_ Stats) error {
	c.w.Flush()
	return c.w.Error()
}

// Close closes the output file, if any.
func (c *CSVWriter) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
