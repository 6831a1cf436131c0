package scanner

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maxvaer/dirprobe/internal/config"
	"github.com/stretchr/testify/require"
)

func newTarget(t *testing.T, baseURL string, mutate func(o *config.Options)) *config.Target {
	t.Helper()
	opts := config.DefaultOptions()
	opts.URL = baseURL
	opts.WordlistPath = "words.txt"
	if mutate != nil {
		mutate(&opts)
	}
	target, err := config.Build(&opts)
	require.NoError(t, err)
	return target
}

type call struct {
	Method string
	URL    string
}

// fakeClient records every request and answers from a handler. It tracks
// the peak number of concurrent requests.
type fakeClient struct {
	delay   time.Duration
	handler func(method, url string) (*Response, error)

	mu          sync.Mutex
	calls       []call
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeClient) Do(ctx context.Context, method, url string) (*Response, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.maxInFlight.Load()
		if n <= peak || f.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, call{Method: method, URL: url})
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.handler == nil {
		return &Response{StatusCode: http.StatusNotFound}, nil
	}
	return f.handler(method, url)
}

func (f *fakeClient) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeClient) CallsFor(url string) []string {
	var methods []string
	for _, c := range f.Calls() {
		if c.URL == url {
			methods = append(methods, c.Method)
		}
	}
	return methods
}

// statusByName answers with a status chosen by the last path segment.
func statusByName(codes map[string]int) func(method, url string) (*Response, error) {
	return func(method, url string) (*Response, error) {
		name := url[strings.LastIndex(url, "/")+1:]
		if name == "boom" {
			return nil, errors.New("connection reset by peer")
		}
		code, ok := codes[name]
		if !ok {
			code = http.StatusNotFound
		}
		resp := &Response{StatusCode: code}
		if method == http.MethodGet {
			resp.ContentLength = int64(len(name) * 10)
			resp.HasLength = true
		}
		return resp, nil
	}
}

func feed(items ...string) <-chan string {
	ch := make(chan string, len(items))
	for _, it := range items {
		ch <- it
	}
	close(ch)
	return ch
}

func collect(ch <-chan ProbeResult) map[string]ProbeResult {
	out := make(map[string]ProbeResult)
	for r := range ch {
		out[r.Candidate] = r
	}
	return out
}
