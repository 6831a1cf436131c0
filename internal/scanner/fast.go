package scanner

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maxvaer/dirprobe/internal/config"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpproxy"
)

// FastClient is the fasthttp implementation of Client. It does not support
// HTTP/2.
type FastClient struct {
	client *fasthttp.Client
	target *config.Target
}

// NewFastClient creates a FastClient for target.
func NewFastClient(target *config.Target) (*FastClient, error) {
	tr := target.Transport()
	client := &fasthttp.Client{
		ReadTimeout:     target.Timeout(),
		WriteTimeout:    target.Timeout(),
		MaxConnsPerHost: target.Concurrency(),
		TLSConfig: &tls.Config{
			InsecureSkipVerify: tr.Insecure,
		},
		MaxIdleConnDuration:      30 * time.Second,
		DisablePathNormalizing:   true,
		NoDefaultUserAgentHeader: true,
	}

	if tr.Proxy != "" {
		switch {
		case strings.HasPrefix(tr.Proxy, "socks5"):
			client.Dial = fasthttpproxy.FasthttpSocksDialer(tr.Proxy)
		case strings.HasPrefix(tr.Proxy, "http"):
			client.Dial = fasthttpproxy.FasthttpHTTPDialerTimeout(tr.Proxy, target.Timeout())
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q", tr.Proxy)
		}
	}

	return &FastClient{client: client, target: target}, nil
}

// Do implements Client. fasthttp has no context support, so the context is
// only checked before sending and its deadline caps the request timeout.
func (c *FastClient) Do(ctx context.Context, method, rawURL string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rawURL)
	req.Header.SetMethod(method)
	c.target.ApplyHeaders(func(key, value string) {
		if strings.EqualFold(key, "Host") {
			req.Header.SetHost(value)
			req.UseHostHeader = true
			return
		}
		req.Header.Set(key, value)
	})
	if method == http.MethodHead {
		resp.SkipBody = true
	}

	deadline := time.Now().Add(c.target.Timeout())
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	var err error
	if redirect := c.target.Redirect(); redirect.Follow {
		err = c.doFollow(req, resp, deadline, redirect.MaxHops)
	} else {
		err = c.client.DoDeadline(req, resp, deadline)
	}
	if err != nil {
		return nil, err
	}

	out := &Response{
		StatusCode: resp.StatusCode(),
		Location:   string(resp.Header.Peek("Location")),
	}
	if method == http.MethodHead {
		return out, nil
	}
	out.ContentLength = decodedLength(string(resp.Header.ContentEncoding()), resp.Body())
	out.HasLength = true
	return out, nil
}

// doFollow follows up to maxHops redirects with every hop bound by the same
// deadline. Leaving the original host drops credentials and any Host
// override, matching net/http.
func (c *FastClient) doFollow(req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time, maxHops int) error {
	origin := hostname(req.URI().Host())
	for hops := 0; ; hops++ {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return err
		}
		if !fasthttp.StatusCodeIsRedirect(resp.StatusCode()) {
			return nil
		}
		location := resp.Header.Peek("Location")
		if len(location) == 0 {
			return nil
		}
		if hops >= maxHops {
			return fmt.Errorf("stopped after %d redirects: %w", maxHops, ErrTooManyRedirects)
		}

		if loc, err := url.Parse(string(location)); err != nil || loc.IsAbs() || loc.Host != "" {
			req.UseHostHeader = false
		}
		req.URI().UpdateBytes(location)
		if dest := hostname(req.URI().Host()); dest != origin && !strings.HasSuffix(dest, "."+origin) {
			req.Header.Del("Authorization")
			req.Header.Del("Cookie")
		}
	}
}

func hostname(hostport []byte) string {
	host := string(hostport)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(host)
}
