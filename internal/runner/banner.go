package runner

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/maxvaer/dirprobe/internal/config"
	"github.com/maxvaer/dirprobe/pkg/version"
)

const rule = "──────────────────────────────────────"

// printBanner writes the run configuration to w.
func printBanner(w io.Writer, target *config.Target, wordlistPath string, words int64, opts *config.Options) {
	dim := color.New(color.Faint)
	cyan := color.New(color.FgCyan)
	bold := color.New(color.FgHiWhite)
	if opts.NoColor {
		for _, c := range []*color.Color{dim, cyan, bold} {
			c.DisableColor()
		}
	}

	count := "unknown"
	if words >= 0 {
		count = strconv.FormatInt(words, 10)
	}

	fmt.Fprintf(w, "\n%s %s\n", cyan.Sprint("dirprobe"), dim.Sprint(version.Version))
	fmt.Fprintf(w, "%s\n", dim.Sprint(rule))

	row := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", dim.Sprintf("%-15s", label+":"), bold.Sprint(value))
	}
	row("Url", target.BaseURL())
	row("Wordlist", wordlistPath)
	row("Words", count)
	row("Threads", strconv.Itoa(target.Concurrency()))
	row("Status codes", target.Accepted().String())
	row("Timeout", target.Timeout().String())
	row("Engine", target.Transport().Engine)
	row("Redirects", target.Redirect().String())
	if mode := target.Auth(); mode.Mode != config.AuthNone {
		row("Auth", mode.String())
	}
	if target.ShowLength() {
		row("Show length", "true")
	}
	if target.ForceWildcard() {
		row("Force wildcard", "true")
	}
	if opts.Delay > 0 {
		row("Delay", opts.Delay.String())
	}
	if opts.Rate > 0 {
		row("Rate", strconv.FormatFloat(opts.Rate, 'f', -1, 64)+" req/s")
	}
	if opts.Proxy != "" {
		row("Proxy", opts.Proxy)
	}
	fmt.Fprintf(w, "%s\n\n", dim.Sprint(rule))
}
