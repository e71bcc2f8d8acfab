// Package logger builds the application slog.Logger: leveled JSON or text
// output, optional rotated file output, attribute masking and Sentry
// forwarding for errors.
package logger

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the logger output and level.
type Options struct {
	Level  *slog.LevelVar
	Format string // "json" or "text"

	// FilePath enables rotated file output alongside stdout when set.
	FilePath    string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
	Compress    bool
	SentryTaps  bool // forward error records to Sentry
	Environment string
}

// New constructs the logger. The returned closer flushes file output and
// is a no-op when no file is configured.
func New(opts Options) (*slog.Logger, io.Closer) {
	level := opts.Level
	if level == nil {
		level = new(slog.LevelVar)
	}

	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}

	if opts.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		out = io.MultiWriter(os.Stdout, rotator)
		closer = rotator
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	if opts.Format == "text" {
		base = slog.NewTextHandler(out, handlerOpts)
	} else {
		base = slog.NewJSONHandler(out, handlerOpts)
	}

	handler := slog.Handler(NewMaskingHandler(base))

	if opts.SentryTaps {
		sentryHandler := slogsentry.Option{Level: slog.LevelError}.NewSentryHandler()
		handler = slogmulti.Fanout(handler, sentryHandler)
	}

	return slog.New(handler), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
