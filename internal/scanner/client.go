package scanner

import (
	"context"
	"fmt"

	"github.com/maxvaer/dirprobe/internal/config"
)

// Client issues single HTTP requests against the target. Implementations
// apply the target's headers, auth and redirect policy to every request and
// must be safe for concurrent use.
type Client interface {
	// Do sends a request with the given method to rawURL. For GET the body is
	// read and its decoded length reported; for HEAD no body is read.
	Do(ctx context.Context, method, rawURL string) (*Response, error)
}

// Response is the subset of an HTTP response the scanner cares about.
type Response struct {
	StatusCode    int
	Location      string
	ContentLength int64
	HasLength     bool
}

// NewClient builds the client selected by the target's transport engine.
func NewClient(target *config.Target) (Client, error) {
	switch engine := target.Transport().Engine; engine {
	case "", "net":
		return NewHTTPClient(target)
	case "fast":
		return NewFastClient(target)
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}
}
