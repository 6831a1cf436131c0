package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/maxvaer/dirprobe/internal/config"
	"github.com/maxvaer/dirprobe/internal/logger"
	"github.com/maxvaer/dirprobe/internal/runner"
	"github.com/maxvaer/dirprobe/internal/wildcard"
	"github.com/maxvaer/dirprobe/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	opts       = config.DefaultOptions()
	configPath string
)

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"TARGET", []string{"url", "wordlist"}},
	{"MATCHERS", []string{"status-codes"}},
	{"HTTP", []string{"user-agent", "cookies", "username", "password", "bearer", "header", "follow-redirects", "proxy", "insecure", "http2", "engine"}},
	{"RATE-LIMIT", []string{"threads", "timeout", "delay", "rate", "adaptive-throttle"}},
	{"WILDCARD", []string{"force-wildcard"}},
	{"OUTPUT", []string{"show-length", "output", "format", "quiet", "no-color", "on-result"}},
	{"LOGGING", []string{"verbose", "log-file", "log-format"}},
	{"CONFIGURATION", []string{"config"}},
}

var rootCmd = &cobra.Command{
	Use:     "dirprobe -u <url> -w <wordlist> [flags]",
	Short:   "Concurrent HTTP path enumeration",
	Version: version.Version,
	Long: `dirprobe probes a web server for every entry of a wordlist and reports
the paths that answer with one of the accepted status codes. Before the
scan it requests a random path to detect servers that accept everything.`,
	Example: `  dirprobe -u https://example.com -w common.txt
  dirprobe -u https://example.com -w common.txt -s 200,403 -t 50
  dirprobe -u https://example.com -w common.txt -l -r
  dirprobe -u https://example.com -w common.txt -U admin -P secret
  dirprobe -u https://example.com -w - --engine fast < words.txt
  dirprobe -u https://example.com -w common.txt -o hits.xlsx --format xlsx
  dirprobe --config scan.yaml -t 20`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if opts.URL == "" || opts.WordlistPath == "" {
			_ = cmd.Help()
			fmt.Fprintln(os.Stderr)
			return fmt.Errorf("target required: use -u and -w")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logger.New(logger.ConfigFromOptions(&opts))
		if err != nil {
			return fmt.Errorf("setting up logging: %w", err)
		}
		defer log.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runner.Run(ctx, &opts, log.Zerolog())
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Target
	f.StringVarP(&opts.URL, "url", "u", opts.URL, "Target base URL")
	f.StringVarP(&opts.WordlistPath, "wordlist", "w", opts.WordlistPath, "Wordlist path, - for stdin")

	// Matchers
	f.VarP(&statusCodesValue{target: &opts.StatusCodes}, "status-codes", "s", "Accepted status codes (comma-separated)")

	// HTTP
	f.StringVarP(&opts.UserAgent, "user-agent", "a", opts.UserAgent, "User-Agent header (default "+config.DefaultUserAgent+")")
	f.StringVarP(&opts.Cookie, "cookies", "c", opts.Cookie, "Cookie header value")
	f.StringVarP(&opts.Username, "username", "U", opts.Username, "Basic auth username")
	f.StringVarP(&opts.Password, "password", "P", opts.Password, "Basic auth password")
	f.StringVarP(&opts.BearerToken, "bearer", "b", opts.BearerToken, "Bearer token (ignored when a username is set)")
	f.StringArrayVarP(&opts.Headers, "header", "H", opts.Headers, "Extra header 'Key: Value' (repeatable)")
	f.BoolVarP(&opts.FollowRedirects, "follow-redirects", "r", opts.FollowRedirects, "Follow up to 5 redirects")
	f.StringVar(&opts.Proxy, "proxy", opts.Proxy, "HTTP or SOCKS5 proxy URL")
	f.BoolVar(&opts.Insecure, "insecure", opts.Insecure, "Skip TLS certificate verification")
	f.BoolVar(&opts.HTTP2, "http2", opts.HTTP2, "Enable HTTP/2 (net engine only)")
	f.StringVar(&opts.Engine, "engine", opts.Engine, "HTTP engine: net, fast")

	// Performance
	f.IntVarP(&opts.Threads, "threads", "t", opts.Threads, "Number of concurrent requests")
	f.DurationVar(&opts.Timeout, "timeout", opts.Timeout, "HTTP request timeout")
	f.DurationVar(&opts.Delay, "delay", opts.Delay, "Delay before each request per worker")
	f.Float64Var(&opts.Rate, "rate", opts.Rate, "Maximum requests per second (0 = unlimited)")
	f.BoolVar(&opts.AdaptiveThrottle, "adaptive-throttle", opts.AdaptiveThrottle, "Auto back-off on 429/503")

	// Wildcard
	f.BoolVarP(&opts.ForceWildcard, "force-wildcard", "f", opts.ForceWildcard, "Scan even if the server accepts random paths")

	// Output
	f.BoolVarP(&opts.ShowLength, "show-length", "l", opts.ShowLength, "Fetch and print the body length of matches")
	f.StringVarP(&opts.OutputFile, "output", "o", opts.OutputFile, "Output file path")
	f.StringVar(&opts.OutputFormat, "format", opts.OutputFormat, "Output format: text, json, csv, xlsx")
	f.BoolVarP(&opts.Quiet, "quiet", "q", opts.Quiet, "Only print matches")
	f.BoolVar(&opts.NoColor, "no-color", opts.NoColor, "Disable colored output")
	f.StringVar(&opts.OnResultCmd, "on-result", opts.OnResultCmd, "Shell command to run for each match (receives JSON on stdin)")

	// Logging
	f.BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "Log non-matching paths and request errors")
	f.StringVar(&opts.LogFile, "log-file", opts.LogFile, "Also write logs to this file (rotated)")
	f.StringVar(&opts.LogFormat, "log-format", opts.LogFormat, "Log format: console, json")

	// Configuration. Loaded in Execute before flags are parsed.
	f.StringVar(&configPath, "config", "", "YAML config file; flags override its values")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})
}

// Execute runs the root command.
func Execute() {
	// The config file has to land in opts before cobra assigns flag values,
	// so that explicit flags win over the file.
	if path := findConfigArg(os.Args[1:]); path != "" {
		if err := config.LoadFile(path, &opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err, opts.NoColor)
		os.Exit(1)
	}
}

// reportError prints a fatal error to w. A wildcard baseline gets its own
// one-line report instead of the generic prefix.
func reportError(w io.Writer, err error, noColor bool) {
	var detected *wildcard.DetectedError
	if errors.As(err, &detected) {
		red := color.New(color.FgRed)
		if noColor {
			red.DisableColor()
		}
		fmt.Fprintf(w, "%s Wildcard response detected: %s (Status: %d)\n", red.Sprint("[-]"), detected.URL, detected.StatusCode)
		fmt.Fprintln(w, "    Use -f to scan anyway.")
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// findConfigArg returns the value of --config from args, if any.
func findConfigArg(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// statusCodesValue is a pflag.Value that rejects malformed status lists at
// parse time but stores the raw string for config.Build.
type statusCodesValue struct {
	target *string
}

func (v *statusCodesValue) String() string {
	if v.target == nil {
		return ""
	}
	return *v.target
}

func (v *statusCodesValue) Set(s string) error {
	if _, err := config.ParseStatusCodes(s); err != nil {
		return err
	}
	*v.target = s
	return nil
}

func (v *statusCodesValue) Type() string { return "codes" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf("\n  dirprobe %s\n  %s\n\n", ver, strings.Repeat("─", 30))
}
