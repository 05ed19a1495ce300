package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Label values and exporter names.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	ServiceTrello = "trello"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterNone       = "none"
)

// Config selects the exporters of a Provider. The zero value disables
// instrumentation.
type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string

	// MetricsExporter is prometheus (default) or otlp. Prometheus series
	// are served by the metrics server of the streamable-http transport.
	MetricsExporter string

	// TracingExporter is otlp or none (default).
	TracingExporter string

	// OTLPEndpoint is host:port of the collector, without scheme.
	OTLPEndpoint string
	// OTLPInsecure sends OTLP over plain HTTP. Development only.
	OTLPInsecure bool

	// TraceSamplingRate is the parent-based ratio of sampled traces.
	TraceSamplingRate float64

	// PrometheusEndpoint is the path of the metrics server.
	PrometheusEndpoint string

	// DetailedLabels adds the board ID to tool invocation metrics.
	DetailedLabels bool

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig controls the tool audit log.
type AuditLoggingConfig struct {
	Enabled bool

	// IncludeArguments logs argument values instead of only their names.
	// Card names and descriptions may be private.
	IncludeArguments bool
}

// DefaultConfig reads the instrumentation settings from the environment.
//
//	INSTRUMENTATION_ENABLED          true
//	OTEL_SERVICE_NAME                trellomcp
//	METRICS_EXPORTER                 prometheus
//	TRACING_EXPORTER                 none
//	OTEL_EXPORTER_OTLP_ENDPOINT
//	OTEL_EXPORTER_OTLP_INSECURE      false
//	OTEL_TRACES_SAMPLER_ARG          0.1
//	PROMETHEUS_ENDPOINT              /metrics
//	METRICS_DETAILED_LABELS          false
//	AUDIT_LOGGING_ENABLED            true
//	AUDIT_LOGGING_INCLUDE_ARGUMENTS  false
func DefaultConfig() Config {
	env := envReader(os.LookupEnv)
	return Config{
		Enabled:            env.getBool("INSTRUMENTATION_ENABLED", true),
		ServiceName:        env.get("OTEL_SERVICE_NAME", "trellomcp"),
		ServiceVersion:     "unknown",
		MetricsExporter:    env.get("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:    env.get("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:       env.get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:       env.getBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate:  env.getFloat("OTEL_TRACES_SAMPLER_ARG", 0.1),
		PrometheusEndpoint: env.get("PROMETHEUS_ENDPOINT", "/metrics"),
		DetailedLabels:     env.getBool("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:          env.getBool("AUDIT_LOGGING_ENABLED", true),
			IncludeArguments: env.getBool("AUDIT_LOGGING_INCLUDE_ARGUMENTS", false),
		},
	}
}

// Validate rejects unknown exporters and OTLP exporters without an endpoint.
// An empty exporter name selects prometheus for metrics and none for traces.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
		}
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterNone:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
		}
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, none", c.TracingExporter)
	}

	return nil
}

// envReader looks up typed environment values. Unset, empty and unparseable
// values yield the default.
type envReader func(key string) (string, bool)

func (lookup envReader) get(key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func (lookup envReader) getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(lookup.get(key, ""))
	if err != nil {
		return def
	}
	return v
}

func (lookup envReader) getFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(lookup.get(key, ""), 64)
	if err != nil {
		return def
	}
	return v
}
