package config

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// MaxRedirects is the hop limit used when redirect following is enabled.
const MaxRedirects = 5

// Redirect is the redirect policy shared by every request of a run.
type Redirect struct {
	Follow  bool
	MaxHops int
}

// NoFollow returns responses as-is, including 3xx.
var NoFollow = Redirect{}

// Follow follows up to MaxRedirects hops before failing the request.
func Follow() Redirect {
	return Redirect{Follow: true, MaxHops: MaxRedirects}
}

func (r Redirect) String() string {
	if !r.Follow {
		return "none"
	}
	return fmt.Sprintf("follow (max %d)", r.MaxHops)
}

// AuthMode selects how the Authorization header is built.
type AuthMode int

const (
	AuthNone AuthMode = iota
	AuthBasic
	AuthBearer
)

// Auth holds at most one active credential set.
type Auth struct {
	Mode     AuthMode
	Username string
	Password string
	Token    string
}

// Header returns the Authorization header value, or "" for AuthNone.
func (a Auth) Header() string {
	switch a.Mode {
	case AuthBasic:
		raw := a.Username + ":" + a.Password
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
	case AuthBearer:
		return "Bearer " + a.Token
	default:
		return ""
	}
}

func (a Auth) String() string {
	switch a.Mode {
	case AuthBasic:
		return "basic (" + a.Username + ")"
	case AuthBearer:
		return "bearer"
	default:
		return "none"
	}
}

// Header is a single request header.
type Header struct {
	Key   string
	Value string
}

// Transport holds settings for the underlying HTTP client.
type Transport struct {
	Engine   string
	Proxy    string
	Insecure bool
	HTTP2    bool
}

// Target is the immutable configuration of one run. It is built once by
// Build and then shared read-only by every probe; none of its methods
// mutate it and slices are copied on the way out.
type Target struct {
	baseURL       string
	accepted      StatusSet
	headers       []Header
	userAgent     string
	auth          Auth
	redirect      Redirect
	transport     Transport
	concurrency   int
	timeout       time.Duration
	showLength    bool
	forceWildcard bool
}

// Build validates opts and produces a Target. All failures are *Error.
func Build(opts *Options) (*Target, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	base := NormalizeBaseURL(withScheme(strings.TrimSpace(opts.URL)))
	u, err := url.Parse(base)
	if err != nil {
		return nil, newError("url", opts.URL, "", err)
	}
	if u.Host == "" {
		return nil, newError("url", opts.URL, "missing host", nil)
	}

	codes := opts.StatusCodes
	if strings.TrimSpace(codes) == "" {
		codes = DefaultStatusCodes
	}
	accepted, err := ParseStatusCodes(codes)
	if err != nil {
		return nil, err
	}

	auth := resolveAuth(opts)

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	headers := []Header{{Key: "User-Agent", Value: ua}}
	if opts.Cookie != "" {
		headers = append(headers, Header{Key: "Cookie", Value: opts.Cookie})
	}
	if h := auth.Header(); h != "" {
		headers = append(headers, Header{Key: "Authorization", Value: h})
	}
	for _, line := range opts.Headers {
		h, err := ParseHeader(line)
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}

	redirect := NoFollow
	if opts.FollowRedirects {
		redirect = Follow()
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	engine := opts.Engine
	if engine == "" {
		engine = DefaultEngine
	}

	return &Target{
		baseURL:   base,
		accepted:  accepted,
		headers:   headers,
		userAgent: ua,
		auth:      auth,
		redirect:  redirect,
		transport: Transport{
			Engine:   engine,
			Proxy:    opts.Proxy,
			Insecure: opts.Insecure,
			HTTP2:    opts.HTTP2,
		},
		concurrency:   opts.Threads,
		timeout:       timeout,
		showLength:    opts.ShowLength,
		forceWildcard: opts.ForceWildcard,
	}, nil
}

// resolveAuth picks basic auth whenever a username is present, otherwise
// bearer if a token is present.
func resolveAuth(opts *Options) Auth {
	switch {
	case opts.Username != "":
		return Auth{Mode: AuthBasic, Username: opts.Username, Password: opts.Password}
	case opts.BearerToken != "":
		return Auth{Mode: AuthBearer, Token: opts.BearerToken}
	default:
		return Auth{}
	}
}

// NormalizeBaseURL strips any trailing slashes and appends exactly one.
// It is idempotent. An empty input stays empty.
func NormalizeBaseURL(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimRight(raw, "/") + "/"
}

func withScheme(raw string) string {
	if raw == "" || strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "http://" + raw
}

// ParseHeader parses a "Key: Value" header line.
func ParseHeader(line string) (Header, error) {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
		return Header{}, newError("header", line, "expected 'Key: Value'", nil)
	}
	return Header{Key: strings.TrimSpace(parts[0]), Value: strings.TrimSpace(parts[1])}, nil
}

// BaseURL returns the normalized base URL, always ending in "/".
func (t *Target) BaseURL() string { return t.baseURL }

// URLFor concatenates the base URL and candidate verbatim.
func (t *Target) URLFor(candidate string) string { return t.baseURL + candidate }

// Accepted returns the accepted status set.
func (t *Target) Accepted() StatusSet { return t.accepted }

// Headers returns a copy of the request headers in the order they are set.
func (t *Target) Headers() []Header {
	out := make([]Header, len(t.headers))
	copy(out, t.headers)
	return out
}

// ApplyHeaders calls set for every configured header without allocating.
func (t *Target) ApplyHeaders(set func(key, value string)) {
	for _, h := range t.headers {
		set(h.Key, h.Value)
	}
}

// Auth returns the resolved credentials. Basic wins over bearer.
func (t *Target) Auth() Auth { return t.auth }

// Redirect returns the redirect policy.
func (t *Target) Redirect() Redirect { return t.redirect }

// Transport returns engine, proxy and TLS settings.
func (t *Target) Transport() Transport { return t.transport }

// Concurrency is the exact number of dispatch workers.
func (t *Target) Concurrency() int { return t.concurrency }

// Timeout bounds each request, redirects included.
func (t *Target) Timeout() time.Duration { return t.timeout }

// ShowLength reports whether matches get a follow-up GET for their length.
func (t *Target) ShowLength() bool { return t.showLength }

// ForceWildcard reports whether a wildcard baseline is only a warning.
func (t *Target) ForceWildcard() bool { return t.forceWildcard }

// UserAgent returns the effective User-Agent.
func (t *Target) UserAgent() string { return t.userAgent }
