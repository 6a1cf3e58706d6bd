package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. It writes to w, filters at level, and
// stamps each line with "HH:MM:SS.ms" so long analyses can be followed.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress captures when an operation started so its completion line can
// carry the elapsed time. Sequential use only; concurrent done calls race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts timing an operation. Call done when it completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs the formatted message with the elapsed time appended, rounded
// to the nearest millisecond. Example: "Computed rank for 42 users (1.234s)"
func (p *progress) done(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey keeps this package's context keys from colliding with others'.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches a logger to the context. Commands put the root
// logger here in PersistentPreRunE so every RunE shares one sink.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the attached logger, or log.Default() when
// none is set, so callers never receive nil.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
