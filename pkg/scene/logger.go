package scene

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var logger atomic.Pointer[log.Logger]

func init() {
	logger.Store(log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "stackdraw",
		Level:  log.WarnLevel,
	}))
}

// SetLogger replaces the logger used for recoverable geometry problems
// (duplicate adds, degenerate connectors, skipped corner rounding).
// Passing nil silences them.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger.Store(l)
}

// Logger returns the current package logger. It is shared by the shape,
// text and graph packages.
func Logger() *log.Logger {
	return logger.Load()
}
