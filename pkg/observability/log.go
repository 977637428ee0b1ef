package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements all
// three hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) stage(name string, d time.Duration, err error, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", d.Round(time.Microsecond))
	if err != nil {
		keyvals = append(keyvals, "err", err)
	}
	h.logger.Debug(name, keyvals...)
}

func (h *LogHooks) OnParseComplete(_ context.Context, format string, elementCount int, d time.Duration, err error) {
	h.stage("parse", d, err, "format", format, "elements", elementCount)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, entityCount int, d time.Duration, err error) {
	h.stage("build", d, err, "entities", entityCount)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.stage("render", d, err, "formats", formats)
}

func (h *LogHooks) OnCacheHit(_ context.Context, format string) {
	h.logger.Debug("cache hit", "format", format)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, format string) {
	h.logger.Debug("cache miss", "format", format)
}

func (h *LogHooks) OnCacheSet(_ context.Context, format string, size int) {
	h.logger.Debug("cache set", "format", format, "bytes", size)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "elapsed", d.Round(time.Microsecond))
}
