package loader

import (
	"maps"

	obswire "github.com/bionicotaku/lingo-utils/observability"
)

// Normalize 转换为 observability.Init 接受的结构，nil 节点保持 nil。
func (o *Observability) Normalize() obswire.ObservabilityConfig {
	if o == nil {
		return obswire.ObservabilityConfig{}
	}
	return obswire.ObservabilityConfig{
		GlobalAttributes: cloneNonEmpty(o.GlobalAttributes),
		Tracing:          o.Tracing.normalize(),
		Metrics:          o.Metrics.normalize(),
	}
}

func (t *Tracing) normalize() *obswire.TracingConfig {
	if t == nil {
		return nil
	}
	return &obswire.TracingConfig{
		Enabled:            t.Enabled,
		Exporter:           t.Exporter,
		Endpoint:           t.Endpoint,
		Headers:            cloneNonEmpty(t.Headers),
		Insecure:           t.Insecure,
		SamplingRatio:      t.SamplingRatio,
		BatchTimeout:       t.BatchTimeout.Duration,
		ExportTimeout:      t.ExportTimeout.Duration,
		MaxQueueSize:       t.MaxQueueSize,
		MaxExportBatchSize: t.MaxExportBatchSize,
		Required:           t.Required,
		ServiceName:        t.ServiceName,
		ServiceVersion:     t.ServiceVersion,
		Environment:        t.Environment,
		Attributes:         cloneNonEmpty(t.Attributes),
	}
}

// normalize resolves the optional gRPC switches against their defaults.
func (m *Metrics) normalize() *obswire.MetricsConfig {
	if m == nil {
		return nil
	}
	return &obswire.MetricsConfig{
		Enabled:             m.Enabled,
		Exporter:            m.Exporter,
		Endpoint:            m.Endpoint,
		Headers:             cloneNonEmpty(m.Headers),
		Insecure:            m.Insecure,
		Interval:            m.Interval.Duration,
		DisableRuntimeStats: m.DisableRuntimeStats,
		Required:            m.Required,
		ResourceAttributes:  cloneNonEmpty(m.ResourceAttributes),
		GRPCEnabled:         boolOr(m.GRPCEnabled, defaultGRPCMetricsEnabled),
		GRPCIncludeHealth:   boolOr(m.GRPCIncludeHealth, defaultGRPCIncludeHealth),
	}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func cloneNonEmpty(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}
