package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"docchat/pkg/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace sits below debug and is used for full request/response dumps.
const LevelTrace = slog.Level(-8)

const defaultLogFile = "docchat.log"
const (
	maxLogSizeMB  = 5
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// Options adjusts where Init writes in addition to the rotated file.
type Options struct {
	// Stderr mirrors every record to standard error.
	Stderr io.Writer
}

// Init configures slog to write structured logs to a file.
func Init(cfg config.Config) (*slog.Logger, error) {
	return InitWithOptions(cfg, Options{})
}

// InitWithOptions is Init with an optional extra sink.
func InitWithOptions(cfg config.Config, opts Options) (*slog.Logger, error) {
	level := ParseLevel(cfg.LogLevel)
	handlerOptions := &slog.HandlerOptions{Level: level}

	logPath := strings.TrimSpace(cfg.LogFile)
	if logPath == "" {
		logPath = defaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		var out io.Writer = io.Discard
		if opts.Stderr != nil {
			out = opts.Stderr
		}
		logger := slog.New(newHandler(cfg.LogFormat, out, handlerOptions))
		slog.SetDefault(logger)
		return logger, err
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}
	if opts.Stderr != nil {
		out = io.MultiWriter(out, opts.Stderr)
	}

	logger := slog.New(newHandler(cfg.LogFormat, out, handlerOptions))
	slog.SetDefault(logger)
	return logger, nil
}

func defaultLogPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(homeDir) == "" {
		return filepath.Join(".docchat", "logs", defaultLogFile)
	}
	return filepath.Join(homeDir, ".docchat", "logs", defaultLogFile)
}

// ParseLevel maps a config log level onto a slog level. Unknown values
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text":
		return slog.NewTextHandler(out, opts)
	default:
		return slog.NewJSONHandler(out, opts)
	}
}
