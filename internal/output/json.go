package output

import (
	"encoding/json"
	"io"

	"github.com/maxvaer/dirprobe/internal/scanner"
)

// Entry is the serialized form of a match, shared by the json writer and
// the result hook.
type Entry struct {
	Candidate     string `json:"candidate"`
	URL           string `json:"url"`
	StatusCode    int    `json:"status"`
	ContentLength *int64 `json:"content_length,omitempty"`
	Location      string `json:"location,omitempty"`
}

// NewEntry converts a result. ContentLength is nil when no length was
// fetched.
func NewEntry(result *scanner.ProbeResult) Entry {
	e := Entry{
		Candidate:  result.Candidate,
		URL:        result.URL,
		StatusCode: result.StatusCode,
		Location:   result.Location,
	}
	if result.HasLength {
		n := result.ContentLength
		e.ContentLength = &n
	}
	return e
}

// JSONWriter writes matches as a single JSON array once the scan is done.
type JSONWriter struct {
	w       io.Writer
	closer  io.Closer
	entries []Entry
}

// NewJSONWriter creates a JSON output writer.
func NewJSONWriter(opts Options) (*JSONWriter, error) {
	w, closer, err := destination(opts.File, opts.Stdout)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{w: w, closer: closer, entries: []Entry{}}, nil
}

// WriteHeader is a no-op; entries are written as one array at the end.
func (j *JSONWriter) WriteHeader() error { return nil }

// WriteResult buffers the match.
func (j *JSONWriter) WriteResult(result *scanner.ProbeResult) error {
	j.entries = append(j.entries, NewEntry(result))
	return nil
}

// WriteFooter writes the buffered entries, or [] when there are none.
func (j *JSONWriter) WriteFooter(_ Stats) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(j.entries)
}

// Close closes the output file, if any.
func (j *JSONWriter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
