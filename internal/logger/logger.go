package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/maxvaer/dirprobe/internal/config"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how log lines are written.
type Config struct {
	Level      zerolog.Level
	Format     string // "console" or "json"
	NoColor    bool
	FilePath   string // empty disables file logging
	MaxSizeMB  int
	MaxBackups int
	Out        io.Writer // console destination, defaults to os.Stderr
}

// DefaultConfig returns an info-level console logger on stderr.
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     config.DefaultLogFormat,
		MaxSizeMB:  50,
		MaxBackups: 3,
	}
}

// ConfigFromOptions maps scan options onto a logger Config. Verbose enables
// debug output (non-matching candidates, per-candidate errors); quiet keeps
// only warnings and above.
func ConfigFromOptions(opts *config.Options) Config {
	cfg := DefaultConfig()
	switch {
	case opts.Verbose:
		cfg.Level = zerolog.DebugLevel
	case opts.Quiet:
		cfg.Level = zerolog.WarnLevel
	}
	if opts.LogFormat != "" {
		cfg.Format = strings.ToLower(opts.LogFormat)
	}
	cfg.NoColor = opts.NoColor
	cfg.FilePath = opts.LogFile
	return cfg
}

// Logger owns the zerolog instance and any file it writes to.
type Logger struct {
	zerolog zerolog.Logger
	file    *lumberjack.Logger
}

// New builds a Logger from cfg.
func New(cfg Config) (*Logger, error) {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	writers := []io.Writer{consoleWriter(out, cfg.Format, cfg.NoColor)}

	var file *lumberjack.Logger
	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, err
		}
		file = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
		}
		// Files always get JSON lines so they stay machine-readable.
		writers = append(writers, file)
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()

	return &Logger{zerolog: zl, file: file}, nil
}

// Zerolog returns the underlying logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zerolog
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func consoleWriter(out io.Writer, format string, noColor bool) io.Writer {
	if format == "json" {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
	}
}
