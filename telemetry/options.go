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
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a [Recorder] during construction.
type Option func(*Recorder)

// WithApp sets the application name and version attached to every
// recorded metric and span.
func WithApp(name, version string) Option {
	return func(r *Recorder) {
		r.appName = name
		r.appVersion = version
	}
}

// WithPrometheus selects the Prometheus provider and configures the
// built-in scrape server, e.g. WithPrometheus(":9090", "/metrics").
func WithPrometheus(port, path string) Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
		r.providerSetCount++
		r.scrapePort = port
		r.scrapePath = path
	}
}

// WithOTLP selects the OTLP HTTP provider pushing to the given endpoint.
// An http:// endpoint exports without TLS.
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.providerSetCount++
		r.otlpEndpoint = endpoint
	}
}

// WithStdout selects the stdout provider. Intended for development.
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.providerSetCount++
	}
}

// WithMeterProvider installs a user-managed meter provider instead of a
// built-in one. The recorder never flushes or shuts it down.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = provider
		r.customMeterProvider = true
	}
}

// WithTracerProvider enables navigation spans through a user-managed
// tracer provider. The recorder never shuts it down.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(r *Recorder) { r.tracerProvider = provider }
}

// WithStdoutTrace enables navigation spans through a stdout exporter the
// recorder owns and shuts down. Intended for development.
func WithStdoutTrace() Option {
	return func(r *Recorder) {
		tp, err := newStdoutTraceProvider()
		if err != nil {
			r.validationErrors = append(r.validationErrors, err)
			return
		}
		r.ownTraceSDK = tp
	}
}

// WithExportInterval sets the export interval for push providers.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) {
		if interval <= 0 {
			r.validationErrors = append(r.validationErrors,
				fmt.Errorf("export interval must be positive, got %v", interval))
			return
		}
		r.exportInterval = interval
	}
}

// WithDurationBuckets overrides the navigation duration histogram
// boundaries, in seconds.
func WithDurationBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) == 0 {
			r.validationErrors = append(r.validationErrors,
				fmt.Errorf("duration buckets must not be empty"))
			return
		}
		r.durationBuckets = buckets
	}
}

// WithServerDisabled disables the built-in Prometheus scrape server.
// Serve [Recorder.Handler] on an existing mux instead.
func WithServerDisabled() Option {
	return func(r *Recorder) { r.autoStartServer = false }
}

// WithEventHandler installs a handler for internal operational events.
func WithEventHandler(handler EventHandler) Option {
	return func(r *Recorder) { r.eventHandler = handler }
}

// WithLogger is shorthand for WithEventHandler(DefaultEventHandler(logger)).
func WithLogger(logger *slog.Logger) Option {
	return WithEventHandler(DefaultEventHandler(logger))
}
