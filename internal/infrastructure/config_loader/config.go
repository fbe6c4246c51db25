package loader

import (
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Bootstrap is the root of the service configuration file.
type Bootstrap struct {
	Server        *Server        `json:"server"`
	Client        *Client        `json:"client"`
	Observability *Observability `json:"observability"`
}

// Server groups the inbound transports.
type Server struct {
	GRPC *Transport `json:"grpc"`
	HTTP *Transport `json:"http"`
}

// Transport configures a single listener.
type Transport struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

// Client configures the outbound Greeter connection used by the CLI.
type Client struct {
	Target  string   `json:"target"`
	Timeout Duration `json:"timeout"`
}

// Observability mirrors observability.ObservabilityConfig in file form.
type Observability struct {
	GlobalAttributes map[string]string `json:"global_attributes"`
	Tracing          *Tracing          `json:"tracing"`
	Metrics          *Metrics          `json:"metrics"`
}

// Tracing configures the trace exporter.
type Tracing struct {
	Enabled            bool              `json:"enabled"`
	Exporter           string            `json:"exporter"`
	Endpoint           string            `json:"endpoint"`
	Headers            map[string]string `json:"headers"`
	Insecure           bool              `json:"insecure"`
	SamplingRatio      float64           `json:"sampling_ratio"`
	BatchTimeout       Duration          `json:"batch_timeout"`
	ExportTimeout      Duration          `json:"export_timeout"`
	MaxQueueSize       int               `json:"max_queue_size"`
	MaxExportBatchSize int               `json:"max_export_batch_size"`
	Required           bool              `json:"required"`
	ServiceName        string            `json:"service_name"`
	ServiceVersion     string            `json:"service_version"`
	Environment        string            `json:"environment"`
	Attributes         map[string]string `json:"attributes"`
}

// Metrics configures the metric exporter and gRPC instrumentation.
type Metrics struct {
	Enabled             bool              `json:"enabled"`
	Exporter            string            `json:"exporter"`
	Endpoint            string            `json:"endpoint"`
	Headers             map[string]string `json:"headers"`
	Insecure            bool              `json:"insecure"`
	Interval            Duration          `json:"interval"`
	DisableRuntimeStats bool              `json:"disable_runtime_stats"`
	Required            bool              `json:"required"`
	ResourceAttributes  map[string]string `json:"resource_attributes"`
	GRPCEnabled         *bool             `json:"grpc_enabled"`
	GRPCIncludeHealth   *bool             `json:"grpc_include_health"`
}

// GetServer returns the server section or nil.
func (b *Bootstrap) GetServer() *Server {
	if b == nil {
		return nil
	}
	return b.Server
}

// GetClient returns the client section or nil.
func (b *Bootstrap) GetClient() *Client {
	if b == nil {
		return nil
	}
	return b.Client
}

// GetObservability returns the observability section or nil.
func (b *Bootstrap) GetObservability() *Observability {
	if b == nil {
		return nil
	}
	return b.Observability
}

// GetGRPC returns the gRPC listener or nil.
func (s *Server) GetGRPC() *Transport {
	if s == nil {
		return nil
	}
	return s.GRPC
}

// GetHTTP returns the HTTP listener or nil.
func (s *Server) GetHTTP() *Transport {
	if s == nil {
		return nil
	}
	return s.HTTP
}

// GetNetwork returns the listener network or "".
func (t *Transport) GetNetwork() string {
	if t == nil {
		return ""
	}
	return t.Network
}

// GetAddr returns the listener address or "".
func (t *Transport) GetAddr() string {
	if t == nil {
		return ""
	}
	return t.Addr
}

// GetTimeout returns the request timeout or 0.
func (t *Transport) GetTimeout() time.Duration {
	if t == nil {
		return 0
	}
	return t.Timeout.Duration
}

// GetTarget returns the dial target or "".
func (c *Client) GetTarget() string {
	if c == nil {
		return ""
	}
	return c.Target
}

// GetTimeout returns the per-call timeout or 0.
func (c *Client) GetTimeout() time.Duration {
	if c == nil {
		return 0
	}
	return c.Timeout.Duration
}

// Validate checks the constraints the servers rely on at startup.
func (b *Bootstrap) Validate() error {
	listeners := []struct {
		name string
		t    *Transport
	}{
		{"server.grpc", b.GetServer().GetGRPC()},
		{"server.http", b.GetServer().GetHTTP()},
	}
	for _, l := range listeners {
		name, t := l.name, l.t
		if t == nil {
			continue
		}
		if t.Addr != "" {
			if _, _, err := net.SplitHostPort(t.Addr); err != nil {
				return fmt.Errorf("%s.addr: %w", name, err)
			}
		}
		if t.Timeout.Duration < 0 {
			return fmt.Errorf("%s.timeout: must not be negative", name)
		}
	}
	if b.GetClient().GetTimeout() < 0 {
		return fmt.Errorf("client.timeout: must not be negative")
	}
	if obs := b.GetObservability(); obs != nil && obs.Tracing != nil {
		if r := obs.Tracing.SamplingRatio; r < 0 || r > 1 {
			return fmt.Errorf("observability.tracing.sampling_ratio: %v not in [0,1]", r)
		}
	}
	return nil
}

// Duration decodes Go duration strings such as "1s" or "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Duration = 0
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"1s\": %w", err)
	}
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}
