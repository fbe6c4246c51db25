// Package logger builds the structured Kratos logger shared by every layer.
package logger

import (
	"context"

	gclog "github.com/bionicotaku/lingo-utils/gclog"

	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel/trace"
)

// Config 描述日志上的服务标签和最低输出级别。
type Config struct {
	Service string
	Version string
	HostID  string
	Env     string
	// Level is a Kratos level name ("debug", "info", "warn", "error").
	// Empty or unknown names fall back to info.
	Level string
}

// NewLogger 构建 gclog JSON logger，附加 trace_id / span_id 并按 Level 过滤。
func NewLogger(cfg Config) (log.Logger, error) {
	base, err := gclog.NewLogger(
		gclog.WithService(cfg.Service),
		gclog.WithVersion(cfg.Version),
		gclog.WithEnvironment(cfg.Env),
		gclog.WithStaticLabels(map[string]string{"service.id": cfg.HostID}),
		gclog.EnableSourceLocation(),
	)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(WithTraceContext(base), log.FilterLevel(ParseLevel(cfg.Level))), nil
}

// ParseLevel maps a level name to a Kratos level, defaulting to info.
func ParseLevel(name string) log.Level {
	if name == "" {
		return log.LevelInfo
	}
	return log.ParseLevel(name)
}

// WithTraceContext appends trace_id and span_id read from the span in each
// log call's context. Both are "" outside a span.
func WithTraceContext(logger log.Logger) log.Logger {
	return log.With(logger,
		"trace_id", spanField(func(sc trace.SpanContext) string {
			if !sc.HasTraceID() {
				return ""
			}
			return sc.TraceID().String()
		}),
		"span_id", spanField(func(sc trace.SpanContext) string {
			if !sc.HasSpanID() {
				return ""
			}
			return sc.SpanID().String()
		}),
	)
}

func spanField(read func(trace.SpanContext) string) log.Valuer {
	return func(ctx context.Context) interface{} {
		return read(trace.SpanContextFromContext(ctx))
	}
}
