package scanner

import "time"

// ProbeResult holds the outcome of probing a single candidate.
type ProbeResult struct {
	Candidate  string
	URL        string
	StatusCode int
	Location   string

	// ContentLength is only populated for matches when show-length is on.
	ContentLength int64
	HasLength     bool

	Matched  bool
	Err      error // *ProbeError
	Duration time.Duration
}
