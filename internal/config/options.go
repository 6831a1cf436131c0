package config

import (
	"time"

	"github.com/maxvaer/dirprobe/pkg/version"
)

// Defaults applied by DefaultOptions and the CLI.
const (
	DefaultStatusCodes = "200,204,301,302,307"
	DefaultThreads     = 100
	DefaultTimeout     = 10 * time.Second
	DefaultEngine      = "net"
	DefaultFormat      = "text"
	DefaultLogFormat   = "console"
)

// DefaultUserAgent is sent when no user agent is configured.
var DefaultUserAgent = "dirprobe/" + version.Version

// Options holds the raw, user-supplied settings for a scan. It is populated
// from CLI flags and an optional YAML file, validated, and then turned into
// an immutable Target by Build.
type Options struct {
	// Target
	URL          string `yaml:"url" validate:"required"`
	WordlistPath string `yaml:"wordlist" validate:"required"`

	// Matchers
	StatusCodes string `yaml:"status_codes"`

	// HTTP
	UserAgent       string   `yaml:"user_agent"`
	Cookie          string   `yaml:"cookies"`
	Username        string   `yaml:"username"`
	Password        string   `yaml:"password"`
	BearerToken     string   `yaml:"bearer"`
	Headers         []string `yaml:"headers" validate:"dive,headerline"`
	FollowRedirects bool     `yaml:"follow_redirects"`
	Proxy           string   `yaml:"proxy" validate:"omitempty,url"`
	Insecure        bool     `yaml:"insecure"`
	HTTP2           bool     `yaml:"http2"`
	Engine          string   `yaml:"engine" validate:"omitempty,oneof=net fast"`

	// Performance
	Threads          int           `yaml:"threads" validate:"gte=1"`
	Timeout          time.Duration `yaml:"timeout" validate:"gte=0"`
	Delay            time.Duration `yaml:"delay" validate:"gte=0"`
	Rate             float64       `yaml:"rate" validate:"gte=0"`
	AdaptiveThrottle bool          `yaml:"adaptive_throttle"`

	// Wildcard
	ForceWildcard bool `yaml:"force_wildcard"`

	// Output
	ShowLength   bool   `yaml:"show_length"`
	OutputFile   string `yaml:"output" validate:"required_if=OutputFormat xlsx"`
	OutputFormat string `yaml:"format" validate:"omitempty,oneof=text json csv xlsx"`
	Quiet        bool   `yaml:"quiet"`
	NoColor      bool   `yaml:"no_color"`
	OnResultCmd  string `yaml:"on_result"`

	// Logging
	Verbose   bool   `yaml:"verbose"`
	LogFile   string `yaml:"log_file"`
	LogFormat string `yaml:"log_format" validate:"omitempty,oneof=console json"`
}

// DefaultOptions returns Options populated with the CLI defaults.
func DefaultOptions() Options {
	return Options{
		StatusCodes:  DefaultStatusCodes,
		Insecure:     true,
		Engine:       DefaultEngine,
		Threads:      DefaultThreads,
		Timeout:      DefaultTimeout,
		OutputFormat: DefaultFormat,
		LogFormat:    DefaultLogFormat,
	}
}
