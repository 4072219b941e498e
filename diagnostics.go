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

package navigator

// DiagnosticEvent represents an engine diagnostic or anomaly.
// These are informational events that may indicate configuration issues
// or unexpected runtime conditions.
//
// Diagnostic events are optional - the engine functions correctly whether
// they are collected or not. They provide visibility into edge cases for
// observability systems.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// DiagNameLeadingSlash is emitted when a route name starting with the
	// path separator is corrected at registration time.
	DiagNameLeadingSlash DiagnosticKind = "route_name_leading_slash"

	// DiagRedirectLimit is emitted when a navigation trips the redirect
	// limit and terminates with an exception status.
	DiagRedirectLimit DiagnosticKind = "redirect_limit_reached"

	// DiagHistoryOutOfRange is emitted when a go() delta lands outside
	// the available history range and is ignored.
	DiagHistoryOutOfRange DiagnosticKind = "history_go_out_of_range"

	// DiagExternalMismatch is emitted when a backend-originated address
	// does not round-trip through normalization and is replaced.
	DiagExternalMismatch DiagnosticKind = "external_address_mismatch"
)

// DiagnosticHandler receives diagnostic events from the engine.
// Implementations may log, emit metrics, trace events, or ignore them.
//
// This interface is optional - if not provided, diagnostics are silently
// dropped. The engine's behavior is unchanged whether diagnostics are
// collected or not.
//
// Example with logging:
//
//	import "log/slog"
//
//	handler := navigator.DiagnosticHandlerFunc(func(e navigator.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	e := navigator.MustNew(navigator.WithDiagnostics(handler))
type DiagnosticHandler interface {
	// OnDiagnostic is called when a diagnostic event occurs.
	// Implementations must be safe for concurrent use and should not block.
	OnDiagnostic(event DiagnosticEvent)
}

// DiagnosticHandlerFunc adapts a function to the DiagnosticHandler interface.
type DiagnosticHandlerFunc func(event DiagnosticEvent)

// OnDiagnostic implements DiagnosticHandler.
func (f DiagnosticHandlerFunc) OnDiagnostic(event DiagnosticEvent) {
	f(event)
}
