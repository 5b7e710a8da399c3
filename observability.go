// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package canonical

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// DecisionInfo describes one evaluated request for observability purposes.
type DecisionInfo struct {
	Ruleset  string
	Kind     DecisionKind
	Duration time.Duration
}

// ObservabilityRecorder receives one event per evaluated request.
// Implementations may record metrics, add trace events, or ignore them; the
// engine decides identically either way.
//
// Thread safety: RecordDecision must be safe for concurrent use.
type ObservabilityRecorder interface {
	RecordDecision(ctx context.Context, info DecisionInfo)
}

// ObservabilityRecorderFunc is a function adapter for ObservabilityRecorder.
type ObservabilityRecorderFunc func(ctx context.Context, info DecisionInfo)

func (f ObservabilityRecorderFunc) RecordDecision(ctx context.Context, info DecisionInfo) {
	f(ctx, info)
}

// Provider selects the metrics backend for a Recorder.
type Provider string

const (
	// PrometheusProvider exports metrics through a Prometheus registry;
	// expose Recorder.Handler on a scrape endpoint.
	PrometheusProvider Provider = "prometheus"

	// OTLPProvider pushes metrics to an OTLP/HTTP collector endpoint.
	OTLPProvider Provider = "otlp"

	// StdoutProvider prints metrics to stdout; intended for development.
	StdoutProvider Provider = "stdout"
)

// Recorder is the built-in ObservabilityRecorder: an OpenTelemetry meter
// recording a decision counter and an evaluation-duration histogram, plus a
// span event on the request's active span when one is recording.
type Recorder struct {
	provider       Provider
	otlpEndpoint   string
	serviceName    string
	meterProvider  metric.MeterProvider
	customProvider bool

	sdkProvider        *sdkmetric.MeterProvider
	prometheusRegistry *promclient.Registry
	prometheusHandler  http.Handler

	decisions metric.Int64Counter
	duration  metric.Float64Histogram
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithPrometheus selects the Prometheus provider. The recorder uses its own
// registry rather than the global one so multiple recorders can coexist;
// serve Recorder.Handler to expose the metrics.
func WithPrometheus() RecorderOption {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
	}
}

// WithOTLP selects the OTLP provider pushing to the given HTTP endpoint,
// e.g. "http://collector:4318".
func WithOTLP(endpoint string) RecorderOption {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.otlpEndpoint = endpoint
	}
}

// WithStdout selects the stdout provider.
func WithStdout() RecorderOption {
	return func(r *Recorder) {
		r.provider = StdoutProvider
	}
}

// WithMeterProvider supplies a custom OpenTelemetry meter provider. Provider
// options are ignored; the caller owns the provider's lifecycle.
func WithMeterProvider(provider metric.MeterProvider) RecorderOption {
	return func(r *Recorder) {
		r.meterProvider = provider
		r.customProvider = true
	}
}

// WithServiceName sets the service.name attached to recorded metrics.
func WithServiceName(name string) RecorderOption {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// NewRecorder creates the built-in observability recorder. The default
// provider is Prometheus.
func NewRecorder(opts ...RecorderOption) (*Recorder, error) {
	r := &Recorder{
		provider:    PrometheusProvider,
		serviceName: "canonical",
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.initializeProvider(); err != nil {
		return nil, err
	}
	if err := r.initializeInstruments(); err != nil {
		return nil, err
	}

	return r, nil
}

// initializeProvider initializes the metrics provider based on configuration.
func (r *Recorder) initializeProvider() error {
	if r.customProvider {
		if r.meterProvider == nil {
			return fmt.Errorf("custom meter provider is nil")
		}
		return nil
	}

	switch r.provider {
	case PrometheusProvider:
		r.prometheusRegistry = promclient.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(r.prometheusRegistry))
		if err != nil {
			return fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		r.sdkProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
		r.prometheusHandler = promhttp.HandlerFor(r.prometheusRegistry, promhttp.HandlerOpts{})

	case OTLPProvider:
		opts := []otlpmetrichttp.Option{}
		if r.otlpEndpoint != "" {
			endpoint := r.otlpEndpoint
			if strings.HasPrefix(endpoint, "http://") {
				endpoint = strings.TrimPrefix(endpoint, "http://")
				opts = append(opts, otlpmetrichttp.WithInsecure())
			} else {
				endpoint = strings.TrimPrefix(endpoint, "https://")
			}
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		exporter, err := otlpmetrichttp.New(context.Background(), opts...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		r.sdkProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		)

	case StdoutProvider:
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		r.sdkProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		)

	default:
		return fmt.Errorf("unsupported metrics provider: %s", r.provider)
	}

	r.meterProvider = r.sdkProvider
	return nil
}

// initializeInstruments creates the decision instruments.
func (r *Recorder) initializeInstruments() error {
	meter := r.meterProvider.Meter("rivaas.dev/canonical")

	var err error
	r.decisions, err = meter.Int64Counter(
		"canonical_decisions_total",
		metric.WithDescription("Canonicalization decisions by ruleset and kind"),
	)
	if err != nil {
		return fmt.Errorf("failed to create decisions counter: %w", err)
	}

	r.duration, err = meter.Float64Histogram(
		"canonical_evaluation_duration_seconds",
		metric.WithDescription("Time spent evaluating a ruleset against a request"),
		metric.WithExplicitBucketBoundaries(0.00001, 0.0001, 0.001, 0.01, 0.1),
	)
	if err != nil {
		return fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return nil
}

// RecordDecision implements ObservabilityRecorder.
func (r *Recorder) RecordDecision(ctx context.Context, info DecisionInfo) {
	attrs := metric.WithAttributes(
		attribute.String("service.name", r.serviceName),
		attribute.String("ruleset", info.Ruleset),
		attribute.String("decision", info.Kind.String()),
	)

	r.decisions.Add(ctx, 1, attrs)
	r.duration.Record(ctx, info.Duration.Seconds(), attrs)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent("canonical.decision", trace.WithAttributes(
			attribute.String("ruleset", info.Ruleset),
			attribute.String("decision", info.Kind.String()),
		))
	}
}

// Handler returns the Prometheus scrape handler, or nil for non-Prometheus
// providers.
func (r *Recorder) Handler() http.Handler {
	return r.prometheusHandler
}

// Shutdown flushes and stops the built-in meter provider. It is a no-op for
// a custom meter provider, whose lifecycle belongs to the caller.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.sdkProvider == nil {
		return nil
	}
	return r.sdkProvider.Shutdown(ctx)
}
