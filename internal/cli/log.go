package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// envLogLevel names the environment variable that sets the log level when
// --verbose is not given.
const envLogLevel = "LINEART_LOG_LEVEL"

// newLogger creates a logger with "HH:MM:SS.ms" timestamps that writes to w
// and filters messages below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logLevel resolves the effective level. --verbose wins; otherwise env is
// parsed, and an empty or unrecognized value means info.
func logLevel(verbose bool, env string) log.Level {
	if verbose {
		return log.DebugLevel
	}
	if env != "" {
		if level, err := log.ParseLevel(env); err == nil {
			return level
		}
	}
	return log.InfoLevel
}

// progress logs the completion of a pipeline stage with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond, e.g.
// "Detected regions (12ms)". It returns the elapsed time.
func (p *progress) done(msg string, keyvals ...interface{}) time.Duration {
	elapsed := time.Since(p.start)
	p.logger.Info(msg, append([]interface{}{"elapsed", elapsed.Round(time.Millisecond)}, keyvals...)...)
	return elapsed
}

type ctxKey int

const (
	loggerKey ctxKey = iota
	configKey
)

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
