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

package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// DefaultDurationBuckets are histogram boundaries for navigation
// duration in seconds. Navigations are typically fast; guards doing
// network work push them into the upper buckets.
var DefaultDurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g., failed to export).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event.
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event represents an internal operational event from the telemetry
// package: exporter failures, server lifecycle, configuration warnings.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events. Implementations
// can log events, forward them to monitoring, or ignore them.
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs events to the
// provided slog.Logger. A nil logger yields a no-op handler.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}
	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

// Provider represents the available metric providers.
type Provider string

const (
	// PrometheusProvider uses the Prometheus exporter (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider uses the OTLP HTTP exporter.
	OTLPProvider Provider = "otlp"
	// StdoutProvider uses the stdout exporter (development/testing).
	StdoutProvider Provider = "stdout"
)

// Recorder records navigation telemetry. It implements
// navigator.ObservabilityRecorder and is safe for concurrent use.
//
// By default the recorder does NOT set the global OpenTelemetry meter
// provider, so multiple recorders can coexist in one process.
type Recorder struct {
	meter              metric.Meter
	meterProvider      metric.MeterProvider
	prometheusHandler  http.Handler
	prometheusRegistry *promclient.Registry
	scrapeServer       *http.Server
	eventHandler       EventHandler

	tracer         trace.Tracer
	tracerProvider trace.TracerProvider
	ownTraceSDK    *sdktrace.TracerProvider // shut down only when we built it

	navigationCount    metric.Int64Counter
	navigationDuration metric.Float64Histogram
	activeNavigations  metric.Int64UpDownCounter
	failureCount       metric.Int64Counter

	durationBuckets []float64
	exportInterval  time.Duration

	appName    string
	appVersion string

	appNameAttr    attribute.KeyValue
	appVersionAttr attribute.KeyValue

	otlpEndpoint string
	scrapePort   string
	scrapePath   string

	provider            Provider
	providerSetCount    int
	customMeterProvider bool
	autoStartServer     bool

	isStarted      atomic.Bool
	isShuttingDown atomic.Bool

	validationErrors []error
}

// New creates a [Recorder] with the given options. The metric provider
// initializes eagerly; push exporters (OTLP, stdout) begin exporting on
// [Recorder.Start].
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		appName:         "navigator-app",
		appVersion:      "0.0.0",
		provider:        PrometheusProvider,
		exportInterval:  30 * time.Second,
		scrapePort:      ":9090",
		scrapePath:      "/metrics",
		autoStartServer: true,
		durationBuckets: DefaultDurationBuckets,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	r.appNameAttr = attribute.String("app.name", r.appName)
	r.appVersionAttr = attribute.String("app.version", r.appVersion)

	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	return r, nil
}

// MustNew is like [New] but panics on configuration errors.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("telemetry: %v", err))
	}
	return r
}

func (r *Recorder) validate() error {
	if len(r.validationErrors) > 0 {
		return fmt.Errorf("configuration errors: %v", r.validationErrors)
	}
	if r.providerSetCount > 1 {
		return fmt.Errorf("conflicting provider options: only one of WithPrometheus, WithOTLP, or WithStdout can be used")
	}
	if r.appName == "" {
		return fmt.Errorf("app name cannot be empty")
	}
	if r.exportInterval < time.Second {
		r.emitWarning("export interval is very low, may cause high CPU usage", "interval", r.exportInterval)
	}

	switch r.provider {
	case PrometheusProvider:
		if r.scrapePort == "" || r.scrapePath == "" {
			return fmt.Errorf("scrape port and path cannot be empty for Prometheus provider")
		}
	case OTLPProvider:
		if r.otlpEndpoint == "" {
			r.emitWarning("OTLP endpoint not specified, using default", "default", "http://localhost:4318")
			r.otlpEndpoint = "http://localhost:4318"
		}
	case StdoutProvider:
	default:
		return fmt.Errorf("unsupported telemetry provider: %s", r.provider)
	}
	return nil
}

// Handler returns the Prometheus scrape handler, for serving metrics on
// an existing mux instead of the built-in server.
func (r *Recorder) Handler() (http.Handler, error) {
	if r.provider != PrometheusProvider || r.prometheusHandler == nil {
		return nil, fmt.Errorf("handler only available with Prometheus provider, current provider: %s", r.provider)
	}
	return r.prometheusHandler, nil
}

// Provider returns the configured metric provider.
func (r *Recorder) Provider() Provider { return r.provider }

// ScrapeAddress returns the address of the built-in scrape server, or
// empty when it is disabled or another provider is in use.
func (r *Recorder) ScrapeAddress() string {
	if r.provider != PrometheusProvider || !r.autoStartServer {
		return ""
	}
	return r.scrapePort
}

// Start starts the recorder: the scrape server for the Prometheus
// provider, nothing otherwise. Idempotent.
func (r *Recorder) Start(ctx context.Context) error {
	if !r.isStarted.CompareAndSwap(false, true) {
		return nil
	}
	if r.autoStartServer && r.provider == PrometheusProvider {
		r.startScrapeServer(ctx)
	}
	return nil
}

// Shutdown flushes pending telemetry and releases resources. Idempotent.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}

	var errs []error
	if err := r.stopScrapeServer(ctx); err != nil {
		errs = append(errs, err)
	}
	if r.customMeterProvider {
		r.emitDebug("skipping shutdown of user-managed meter provider")
	} else if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok {
		if err := mp.ForceFlush(ctx); err != nil {
			r.emitWarning("telemetry flush warning", "error", err)
		}
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if r.ownTraceSDK != nil {
		if err := r.ownTraceSDK.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// ForceFlush immediately exports pending metric data. Useful for push
// providers at checkpoints; a no-op for Prometheus.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if r.isShuttingDown.Load() {
		return nil
	}
	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok {
		if err := mp.ForceFlush(ctx); err != nil {
			return fmt.Errorf("telemetry force flush: %w", err)
		}
	}
	return nil
}

func (r *Recorder) emitError(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventError, Message: msg, Args: args})
	}
}

func (r *Recorder) emitWarning(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventWarning, Message: msg, Args: args})
	}
}

func (r *Recorder) emitInfo(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventInfo, Message: msg, Args: args})
	}
}

func (r *Recorder) emitDebug(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventDebug, Message: msg, Args: args})
	}
}
