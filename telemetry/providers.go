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
	"net"
	"net/http"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const meterName = "rivaas.dev/navigator/telemetry"

// initializeProvider initializes the metric provider and, when
// configured, the tracer.
func (r *Recorder) initializeProvider() error {
	if r.customMeterProvider {
		if r.meterProvider == nil {
			return fmt.Errorf("custom meter provider is nil")
		}
		r.meter = r.meterProvider.Meter(meterName)
		if err := r.initInstruments(); err != nil {
			return err
		}
		return r.initTracer()
	}

	var err error
	switch r.provider {
	case PrometheusProvider:
		err = r.initPrometheusProvider()
	case OTLPProvider:
		err = r.initOTLPProvider()
	case StdoutProvider:
		err = r.initStdoutProvider()
	default:
		return fmt.Errorf("unsupported telemetry provider: %s", r.provider)
	}
	if err != nil {
		return err
	}
	return r.initTracer()
}

func (r *Recorder) initPrometheusProvider() error {
	// A private registry keeps instruments out of the global default
	// registry, so multiple recorders can coexist.
	r.prometheusRegistry = promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(r.prometheusRegistry))
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	r.prometheusHandler = promhttp.HandlerFor(r.prometheusRegistry, promhttp.HandlerOpts{})
	r.meter = r.meterProvider.Meter(meterName)
	return r.initInstruments()
}

func (r *Recorder) initOTLPProvider() error {
	opts := []otlpmetrichttp.Option{}
	if r.otlpEndpoint != "" {
		endpoint := r.otlpEndpoint
		insecure := false
		if strings.HasPrefix(endpoint, "http://") {
			endpoint = strings.TrimPrefix(endpoint, "http://")
			insecure = true
		} else {
			endpoint = strings.TrimPrefix(endpoint, "https://")
		}
		if idx := strings.Index(endpoint, "/"); idx != -1 {
			endpoint = endpoint[:idx]
		}
		opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(
		sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval)),
	))
	r.meter = r.meterProvider.Meter(meterName)
	return r.initInstruments()
}

func (r *Recorder) initStdoutProvider() error {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(
		sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval)),
	))
	r.meter = r.meterProvider.Meter(meterName)
	return r.initInstruments()
}

// initTracer resolves the tracer: a user-provided provider wins, the
// stdout trace option builds an SDK provider we own, and without either
// no spans are recorded.
func (r *Recorder) initTracer() error {
	if r.tracerProvider != nil {
		r.tracer = r.tracerProvider.Tracer(meterName)
		return nil
	}
	if r.ownTraceSDK == nil {
		return nil
	}
	r.tracer = r.ownTraceSDK.Tracer(meterName)
	return nil
}

// newStdoutTraceProvider builds the SDK tracer provider behind
// WithStdoutTrace.
func newStdoutTraceProvider() (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter)), nil
}

// startScrapeServer starts the dedicated Prometheus scrape server.
func (r *Recorder) startScrapeServer(ctx context.Context) {
	if r.prometheusHandler == nil || r.isShuttingDown.Load() {
		return
	}

	mux := http.NewServeMux()
	mux.Handle(r.scrapePath, r.prometheusHandler)

	server := &http.Server{
		Addr:         r.scrapePort,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
	r.scrapeServer = server

	go func() {
		r.emitInfo("telemetry scrape server starting", "address", r.scrapePort+r.scrapePath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.emitError("telemetry scrape server error", "error", err)
		}
	}()
}

func (r *Recorder) stopScrapeServer(ctx context.Context) error {
	server := r.scrapeServer
	r.scrapeServer = nil
	if server == nil {
		return nil
	}
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("scrape server shutdown: %w", err)
	}
	return nil
}
