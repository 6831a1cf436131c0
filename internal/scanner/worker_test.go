package scanner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/maxvaer/dirprobe/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_ConcurrencyBound(t *testing.T) {
	for _, n := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("threads=%d", n), func(t *testing.T) {
			target := newTarget(t, "http://example.test", func(o *config.Options) { o.Threads = n })
			client := &fakeClient{delay: 10 * time.Millisecond}

			items := make([]string, 40)
			for i := range items {
				items[i] = fmt.Sprintf("path%d", i)
			}

			results := collect(Dispatch(context.Background(), client, target, feed(items...), DispatchConfig{}))

			assert.Len(t, results, len(items))
			assert.LessOrEqual(t, int(client.maxInFlight.Load()), n)
			assert.GreaterOrEqual(t, int(client.maxInFlight.Load()), 1)
		})
	}
}

func TestDispatch_SingleWorkerPreservesOrder(t *testing.T) {
	target := newTarget(t, "http://example.test", func(o *config.Options) { o.Threads = 1 })
	client := &fakeClient{}

	var got []string
	for r := range Dispatch(context.Background(), client, target, feed("a", "b", "c", "d"), DispatchConfig{}) {
		got = append(got, r.Candidate)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestDispatch_RequestsPerOutcome(t *testing.T) {
	tests := []struct {
		name       string
		showLength bool
		candidate  string
		wantCalls  []string
		wantMatch  bool
		wantLength bool
	}{
		{name: "non match", candidate: "missing", wantCalls: []string{"HEAD"}},
		{name: "non match with length", showLength: true, candidate: "missing", wantCalls: []string{"HEAD"}},
		{name: "match", candidate: "admin", wantCalls: []string{"HEAD"}, wantMatch: true},
		{name: "match with length", showLength: true, candidate: "admin", wantCalls: []string{"HEAD", "GET"}, wantMatch: true, wantLength: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := newTarget(t, "http://example.test", func(o *config.Options) { o.ShowLength = tt.showLength })
			client := &fakeClient{handler: statusByName(map[string]int{"admin": 200})}

			results := collect(Dispatch(context.Background(), client, target, feed(tt.candidate), DispatchConfig{}))
			require.Contains(t, results, tt.candidate)
			r := results[tt.candidate]

			assert.Equal(t, tt.wantCalls, client.CallsFor("http://example.test/"+tt.candidate))
			assert.Equal(t, tt.wantMatch, r.Matched)
			assert.Equal(t, tt.wantLength, r.HasLength)
			if tt.wantLength {
				assert.Equal(t, int64(50), r.ContentLength)
			}
			assert.NoError(t, r.Err)
		})
	}
}

func TestDispatch_VerbatimURL(t *testing.T) {
	target := newTarget(t, "http://example.test/app/", nil)
	client := &fakeClient{}

	collect(Dispatch(context.Background(), client, target, feed(".git/HEAD"), DispatchConfig{}))
	require.Len(t, client.Calls(), 1)
	assert.Equal(t, "http://example.test/app/.git/HEAD", client.Calls()[0].URL)
}

func TestDispatch_ErrorIsolation(t *testing.T) {
	target := newTarget(t, "http://example.test", func(o *config.Options) { o.Threads = 2 })
	client := &fakeClient{handler: statusByName(map[string]int{"admin": 200, "login": 301})}

	results := collect(Dispatch(context.Background(), client, target, feed("admin", "boom", "login", "nope"), DispatchConfig{}))
	require.Len(t, results, 4)

	failed := results["boom"]
	require.Error(t, failed.Err)
	var probeErr *ProbeError
	require.True(t, errors.As(failed.Err, &probeErr))
	assert.Equal(t, http.MethodHead, probeErr.Method)
	assert.False(t, failed.Matched)

	assert.True(t, results["admin"].Matched)
	assert.True(t, results["login"].Matched)
	assert.False(t, results["nope"].Matched)
	assert.Equal(t, 404, results["nope"].StatusCode)
}

func TestDispatch_LengthFetchFailureKeepsMatch(t *testing.T) {
	target := newTarget(t, "http://example.test", func(o *config.Options) { o.ShowLength = true })
	client := &fakeClient{handler: func(method, url string) (*Response, error) {
		if method == http.MethodGet {
			return nil, errors.New("timeout")
		}
		return &Response{StatusCode: 200}, nil
	}}

	results := collect(Dispatch(context.Background(), client, target, feed("admin"), DispatchConfig{}))
	r := results["admin"]
	assert.True(t, r.Matched)
	assert.False(t, r.HasLength)
	var probeErr *ProbeError
	require.True(t, errors.As(r.Err, &probeErr))
	assert.Equal(t, http.MethodGet, probeErr.Method)
}

func TestDispatch_Cancel(t *testing.T) {
	target := newTarget(t, "http://example.test", func(o *config.Options) { o.Threads = 2 })
	client := &fakeClient{delay: 50 * time.Millisecond}

	candidates := make(chan string)
	ctx, cancel := context.WithCancel(context.Background())
	results := Dispatch(ctx, client, target, candidates, DispatchConfig{})

	go func() {
		for i := 0; ; i++ {
			select {
			case candidates <- fmt.Sprintf("p%d", i):
			case <-ctx.Done():
				return
			}
		}
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		for range results {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("results channel not closed after cancel")
	}
}

func TestDispatch_PausedWorkersDoNotProbe(t *testing.T) {
	target := newTarget(t, "http://example.test", func(o *config.Options) { o.Threads = 2 })
	client := &fakeClient{}
	pauser := NewPauser()
	pauser.Toggle()

	results := Dispatch(context.Background(), client, target, feed("a", "b"), DispatchConfig{Pauser: pauser})

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, client.Calls())

	pauser.Toggle()
	assert.Len(t, collect(results), 2)
}

func TestDispatch_ThrottlerSeesStatuses(t *testing.T) {
	target := newTarget(t, "http://example.test", func(o *config.Options) { o.Threads = 1 })
	client := &fakeClient{handler: statusByName(map[string]int{"slow": 429})}
	throttler := NewThrottler(ThrottleConfig{Adaptive: true}, zerolog.Nop())

	collect(Dispatch(context.Background(), client, target, feed("slow"), DispatchConfig{Throttler: throttler}))
	assert.Equal(t, minBackoff, throttler.Delay())
}
