package scanner

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/maxvaer/dirprobe/internal/config"
	"golang.org/x/net/http2"
)

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	client *http.Client
	target *config.Target
}

// NewHTTPClient creates an HTTPClient for target.
func NewHTTPClient(target *config.Target) (*HTTPClient, error) {
	tr := target.Transport()
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: tr.Insecure},
		DialContext: (&net.Dialer{
			Timeout: target.Timeout(),
		}).DialContext,
		MaxIdleConnsPerHost: target.Concurrency(),
		MaxIdleConns:        target.Concurrency(),
	}

	if tr.Proxy != "" {
		proxyURL, err := url.Parse(tr.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", tr.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	if tr.HTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("configuring HTTP/2: %w", err)
		}
	}

	client := &http.Client{
		Transport:     transport,
		Timeout:       target.Timeout(),
		CheckRedirect: redirectPolicy(target.Redirect()),
	}

	return &HTTPClient{client: client, target: target}, nil
}

func redirectPolicy(r config.Redirect) func(*http.Request, []*http.Request) error {
	if !r.Follow {
		return func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) > r.MaxHops {
			return fmt.Errorf("stopped after %d redirects: %w", r.MaxHops, ErrTooManyRedirects)
		}
		return nil
	}
}

// Do implements Client.
func (c *HTTPClient) Do(ctx context.Context, method, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	c.target.ApplyHeaders(func(key, value string) {
		if strings.EqualFold(key, "Host") {
			req.Host = value
			return
		}
		req.Header.Set(key, value)
	})

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &Response{
		StatusCode: resp.StatusCode,
		Location:   resp.Header.Get("Location"),
	}
	if method == http.MethodHead {
		return out, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	// The transport strips Content-Encoding when it decompressed gzip itself.
	out.ContentLength = decodedLength(resp.Header.Get("Content-Encoding"), body)
	out.HasLength = true
	return out, nil
}
