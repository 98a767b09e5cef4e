package observability

import (
	"fmt"
	"time"

	"github.com/gaborage/todo-bricks/config"
)

const (
	// EndpointStdout is a special endpoint value that outputs to stdout (for local development).
	EndpointStdout = "stdout"

	// ProtocolHTTP specifies OTLP over HTTP/protobuf.
	ProtocolHTTP = "http"

	// ProtocolGRPC specifies OTLP over gRPC.
	ProtocolGRPC = "grpc"

	// EnvironmentDevelopment is the default environment name for development mode.
	EnvironmentDevelopment = "development"

	defaultMetricsInterval = 10 * time.Second
	defaultBatchTimeout    = 5 * time.Second
	devBatchTimeout        = 500 * time.Millisecond
)

// BoolPtr returns a pointer to the provided bool value.
func BoolPtr(v bool) *bool {
	return &v
}

// Float64Ptr returns a pointer to the provided float64 value.
func Float64Ptr(v float64) *float64 {
	return &v
}

// Config defines the configuration for observability features. It is read
// from the "observability" section of the application configuration.
type Config struct {
	// Enabled controls whether observability is active.
	// When false, all observability operations become no-ops.
	Enabled bool `koanf:"enabled" mapstructure:"enabled"`

	Service     ServiceConfig `koanf:"service" mapstructure:"service"`
	Environment string        `koanf:"environment" mapstructure:"environment"`
	Trace       TraceConfig   `koanf:"trace" mapstructure:"trace"`
	Metrics     MetricsConfig `koanf:"metrics" mapstructure:"metrics"`
}

// ServiceConfig contains service identification metadata.
type ServiceConfig struct {
	Name    string `koanf:"name" mapstructure:"name"`
	Version string `koanf:"version" mapstructure:"version"`
}

// TraceConfig defines configuration for distributed tracing.
type TraceConfig struct {
	// Enabled: nil applies the default (true when observability is enabled).
	Enabled *bool `koanf:"enabled" mapstructure:"enabled"`

	// Endpoint is "stdout" or an OTLP endpoint ("localhost:4318" for HTTP,
	// "localhost:4317" for gRPC).
	Endpoint string            `koanf:"endpoint" mapstructure:"endpoint"`
	Protocol string            `koanf:"protocol" mapstructure:"protocol"`
	Insecure bool              `koanf:"insecure" mapstructure:"insecure"`
	Headers  map[string]string `koanf:"headers" mapstructure:"headers"`

	// SampleRate is the fraction of traces recorded; nil applies 1.0.
	SampleRate   *float64      `koanf:"samplerate" mapstructure:"samplerate"`
	BatchTimeout time.Duration `koanf:"batchtimeout" mapstructure:"batchtimeout"`
}

// MetricsConfig defines configuration for metrics export. Protocol, TLS and
// headers are shared with TraceConfig.
type MetricsConfig struct {
	Enabled  *bool         `koanf:"enabled" mapstructure:"enabled"`
	Endpoint string        `koanf:"endpoint" mapstructure:"endpoint"`
	Interval time.Duration `koanf:"interval" mapstructure:"interval"`
}

// ApplyDefaults sets default values for any config fields that are not specified.
func (c *Config) ApplyDefaults() {
	if c.Service.Version == "" {
		c.Service.Version = "unknown"
	}
	if c.Environment == "" {
		c.Environment = EnvironmentDevelopment
	}

	if c.Trace.Endpoint == "" {
		c.Trace.Endpoint = EndpointStdout
	}
	if c.Enabled && c.Trace.Enabled == nil {
		c.Trace.Enabled = BoolPtr(true)
	}
	if c.Trace.Protocol == "" {
		c.Trace.Protocol = ProtocolHTTP
	}
	if c.Trace.SampleRate == nil {
		c.Trace.SampleRate = Float64Ptr(1.0)
	}
	if c.Trace.BatchTimeout == 0 {
		// near-instant span visibility while developing
		if c.Environment == EnvironmentDevelopment || c.Trace.Endpoint == EndpointStdout {
			c.Trace.BatchTimeout = devBatchTimeout
		} else {
			c.Trace.BatchTimeout = defaultBatchTimeout
		}
	}

	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = EndpointStdout
	}
	if c.Enabled && c.Metrics.Enabled == nil {
		c.Metrics.Enabled = BoolPtr(true)
	}
	if c.Metrics.Interval == 0 {
		c.Metrics.Interval = defaultMetricsInterval
	}
}

// Validate checks the configuration. Call ApplyDefaults first.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if !c.Enabled {
		return nil
	}

	if c.Service.Name == "" {
		return ErrMissingServiceName
	}
	if c.Trace.SampleRate != nil && (*c.Trace.SampleRate < 0 || *c.Trace.SampleRate > 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidSampleRate, *c.Trace.SampleRate)
	}

	stdoutOnly := c.Trace.Endpoint == EndpointStdout && c.Metrics.Endpoint == EndpointStdout
	if !stdoutOnly && c.Trace.Protocol != ProtocolHTTP && c.Trace.Protocol != ProtocolGRPC {
		return fmt.Errorf("protocol '%s': %w", c.Trace.Protocol, ErrInvalidProtocol)
	}
	return nil
}

func (c *Config) tracingEnabled() bool {
	return c.Enabled && c.Trace.Enabled != nil && *c.Trace.Enabled
}

func (c *Config) metricsEnabled() bool {
	return c.Enabled && c.Metrics.Enabled != nil && *c.Metrics.Enabled
}

// FromConfig reads the "observability" section of the application
// configuration. Service name, version and environment fall back to the app
// section.
func FromConfig(cfg *config.Config) (*Config, error) {
	obs := &Config{}
	if cfg == nil {
		return obs, nil
	}
	if cfg.Exists("observability") {
		if err := cfg.Unmarshal("observability", obs); err != nil {
			return nil, fmt.Errorf("failed to read observability config: %w", err)
		}
	}
	if obs.Service.Name == "" {
		obs.Service.Name = cfg.App.Name
	}
	if obs.Service.Version == "" {
		obs.Service.Version = cfg.App.Version
	}
	if obs.Environment == "" {
		obs.Environment = cfg.App.Env
	}
	return obs, nil
}
