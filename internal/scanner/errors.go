package scanner

import (
	"errors"
	"fmt"
)

// ErrTooManyRedirects is wrapped by request errors when the redirect hop
// limit is exceeded.
var ErrTooManyRedirects = errors.New("too many redirects")

// ProbeError is a transport failure for a single candidate. It never aborts
// the run.
type ProbeError struct {
	Method string
	URL    string
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}
