package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger writing to w at level, with timestamps
// to the hundredth of a second ("14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stage times one step of a command.
type stage struct {
	logger *log.Logger
	name   string
	start  time.Time
}

func startStage(l *log.Logger, name string) *stage {
	l.Debug(name + " started")
	return &stage{logger: l, name: name, start: time.Now()}
}

// end logs the outcome with the elapsed time and any extra key/value pairs:
//
//	14:32:01.45 INFO render elapsed=12ms files=2
//
// A failed stage is logged at debug level; the command reports the error.
func (s *stage) end(err error, keyvals ...any) time.Duration {
	elapsed := time.Since(s.start).Round(time.Millisecond)
	keyvals = append([]any{"elapsed", elapsed}, keyvals...)
	if err != nil {
		s.logger.Debug(s.name+" failed", append(keyvals, "err", err)...)
	} else {
		s.logger.Info(s.name, keyvals...)
	}
	return elapsed
}

type loggerKey struct{}

// withLogger attaches l to ctx for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
