package app

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger writes text to stderr, or JSON to a rotating file when
// cfg.LogFile is set. The returned close func flushes and closes the file.
func NewLogger(cfg Config, stderr io.Writer) (*slog.Logger, func() error, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(stderr, opts)), func() error { return nil }, nil
	}

	file := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    100, // megabytes
		MaxBackups: 30,
		Compress:   true,
	}
	return slog.New(slog.NewJSONHandler(file, opts)), file.Close, nil
}

// NewSessionLogger is the logger for the interactive session. Without a log
// file, stderr shares the terminal with the session, so only an explicit
// debug level writes there; the user already sees every outcome as a message.
func NewSessionLogger(cfg Config, stderr io.Writer) (*slog.Logger, func() error, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if cfg.LogFile == "" && level > slog.LevelDebug {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}
	return NewLogger(cfg, stderr)
}
