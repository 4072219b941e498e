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

// Package telemetry records navigation metrics and traces through
// OpenTelemetry. The [Recorder] implements navigator.ObservabilityRecorder
// and plugs into an engine via navigator.WithObservability.
//
// Three metric exporters are supported: Prometheus (pull, with an
// optional built-in scrape server), OTLP over HTTP (push), and stdout
// for development. Navigation spans are emitted when a tracer provider
// is configured.
//
//	recorder, err := telemetry.New(
//	    telemetry.WithApp("shop-ui", "2.1.0"),
//	    telemetry.WithPrometheus(":9090", "/metrics"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	e := navigator.MustNew(navigator.WithObservability(recorder))
package telemetry
