// Package wildcard detects targets that answer every path with an accepted
// status code, which would make every candidate look like a hit.
package wildcard

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/maxvaer/dirprobe/internal/config"
	"github.com/maxvaer/dirprobe/internal/scanner"
	uuid "github.com/satori/go.uuid"
)

// Baseline is the outcome of probing one random, almost certainly
// nonexistent path.
type Baseline struct {
	Candidate  string
	URL        string
	StatusCode int
	IsWildcard bool
}

// DetectedError is returned when the baseline path matched the accepted
// status codes and the wildcard check was not forced.
type DetectedError struct {
	URL        string
	StatusCode int
}

func (e *DetectedError) Error() string {
	return fmt.Sprintf("wildcard response detected: %s (Status: %d)", e.URL, e.StatusCode)
}

// NetworkError wraps a transport failure during the baseline request. It is
// fatal regardless of the force flag.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("baseline request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Token returns a random path segment: a v4 UUID as 32 hex characters.
func Token() string {
	return strings.ReplaceAll(uuid.NewV4().String(), "-", "")
}

// Probe issues a GET for a random path through client, which carries the
// same headers, auth and redirect policy as the scan itself. A wildcard
// baseline is returned together with a *DetectedError unless the target
// forces the scan.
func Probe(ctx context.Context, client scanner.Client, target *config.Target) (*Baseline, error) {
	return probeToken(ctx, client, target, Token())
}

func probeToken(ctx context.Context, client scanner.Client, target *config.Target, token string) (*Baseline, error) {
	b := &Baseline{
		Candidate: token,
		URL:       target.URLFor(token),
	}

	resp, err := client.Do(ctx, http.MethodGet, b.URL)
	if err != nil {
		return nil, &NetworkError{URL: b.URL, Err: err}
	}

	b.StatusCode = resp.StatusCode
	b.IsWildcard = scanner.Classify(resp.StatusCode, target.Accepted())
	if b.IsWildcard && !target.ForceWildcard() {
		return b, &DetectedError{URL: b.URL, StatusCode: b.StatusCode}
	}
	return b, nil
}
