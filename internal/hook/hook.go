package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/maxvaer/dirprobe/internal/output"
	"github.com/maxvaer/dirprobe/internal/scanner"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single hook invocation.
const DefaultTimeout = 30 * time.Second

// Runner executes a shell command for each match. The command receives the
// match as JSON on stdin; {url}, {candidate}, {status}, {length} and
// {location} in the command line are replaced first.
type Runner struct {
	cmd     string
	timeout time.Duration
	stdout  io.Writer
	logger  zerolog.Logger
}

// NewRunner creates a hook runner. Hook output is copied to stderr.
func NewRunner(cmd string, logger zerolog.Logger) *Runner {
	return &Runner{
		cmd:     cmd,
		timeout: DefaultTimeout,
		stdout:  os.Stderr,
		logger:  logger.With().Str("component", "hook").Logger(),
	}
}

// Run executes the hook for result. Failures are returned for the caller to
// log; they never stop the scan.
func (r *Runner) Run(ctx context.Context, result *scanner.ProbeResult) error {
	data, err := json.Marshal(output.NewEntry(result))
	if err != nil {
		return fmt.Errorf("marshal hook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	expanded := Expand(r.cmd, result)
	shell, args := shellCommand()
	cmd := exec.CommandContext(ctx, shell, append(args, expanded)...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stderr = os.Stderr
	cmd.WaitDelay = time.Second

	r.logger.Debug().Str("command", expanded).Msg("Running hook")
	out, err := cmd.Output()
	if len(out) > 0 {
		_, _ = r.stdout.Write(out)
	}
	if err != nil {
		return fmt.Errorf("hook %q: %w", expanded, err)
	}
	return nil
}

// Expand substitutes result fields into the command template.
func Expand(template string, result *scanner.ProbeResult) string {
	length := ""
	if result.HasLength {
		length = strconv.FormatInt(result.ContentLength, 10)
	}
	return strings.NewReplacer(
		"{url}", result.URL,
		"{candidate}", result.Candidate,
		"{status}", strconv.Itoa(result.StatusCode),
		"{length}", length,
		"{location}", result.Location,
	).Replace(template)
}

func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "sh", []string{"-c"}
}
