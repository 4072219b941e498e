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

import (
	"log/slog"

	"rivaas.dev/navigator/history"
)

// Mode selects how the engine composes and persists addresses.
type Mode uint8

const (
	// ModeMemory keeps addresses in process memory only. The default.
	ModeMemory Mode = iota

	// ModePath uses real host paths via pushState/replaceState.
	ModePath

	// ModeHash keeps the application address in the URL fragment.
	ModeHash
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case ModeMemory:
		return "memory"
	case ModePath:
		return "path"
	case ModeHash:
		return "hash"
	default:
		return "unknown"
	}
}

// Option configures an [Engine] during construction.
//
// Example:
//
//	e, err := navigator.New(
//	    navigator.WithMode(navigator.ModePath),
//	    navigator.WithHistory(history.NewBrowser(bridge)),
//	    navigator.WithBasePath("/app"),
//	)
type Option func(*Engine)

// WithMode selects the address mode. ModePath and ModeHash require a
// history adapter via [WithHistory]; ModeMemory defaults to an in-memory
// one.
func WithMode(mode Mode) Option {
	return func(e *Engine) { e.mode = mode }
}

// WithHistory installs the history adapter addresses persist through.
func WithHistory(adapter history.Adapter) Option {
	return func(e *Engine) { e.adapter = adapter }
}

// WithBasePath sets the address prefix shared by every composed address.
// It must start with '/' and carries no trailing slash; the empty string
// (the default) means no prefix.
func WithBasePath(base string) Option {
	return func(e *Engine) { e.base = base }
}

// WithStrictCase disables the default case-insensitive matching. With
// strict case, /About and /about are distinct addresses.
func WithStrictCase() Option {
	return func(e *Engine) { e.strictCase = true }
}

// WithDefaultPattern overrides the regex fragment used for dynamic
// variables without a per-variable pattern. The default matches any
// single non-empty segment.
func WithDefaultPattern(pattern string) Option {
	return func(e *Engine) { e.defaultPattern = pattern }
}

// WithSuffix sets the engine-wide default suffix policy for routes that
// do not configure their own. Unconfigured engines accept only
// suffix-less addresses.
func WithSuffix(policy SuffixPolicy) Option {
	return func(e *Engine) { e.defaultSuffix = policy }
}

// WithBeforeGuard installs the global before-guard, run for navigations
// into routes without their own guard and for unmatched navigations.
func WithBeforeGuard(guard BeforeGuard) Option {
	return func(e *Engine) { e.beforeGuard = guard }
}

// WithAfterGuard installs the global after-guard, run once a navigation
// has committed.
func WithAfterGuard(guard AfterGuard) Option {
	return func(e *Engine) { e.afterGuard = guard }
}

// WithFallback installs the view rendered when no route matches. With a
// fallback configured, unmatched navigations commit with StatusSuccess
// and an empty matched chain; without one they terminate with
// StatusNotMatched.
func WithFallback(view ViewFunc) Option {
	return func(e *Engine) { e.fallback = view }
}

// WithScrollBehavior installs the viewport callback invoked after each
// committed navigation.
func WithScrollBehavior(behavior ScrollBehavior) Option {
	return func(e *Engine) { e.scroll = behavior }
}

// WithRedirectLimit caps how many times a single navigation may be
// redirected before terminating with [ErrRedirectLoop]. The default is 16.
func WithRedirectLimit(limit int) Option {
	return func(e *Engine) { e.redirectLimit = limit }
}

// WithLogger sets the structured logger for engine events. Logging is
// disabled by default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObservability installs a telemetry recorder for navigation
// lifecycle events.
func WithObservability(recorder ObservabilityRecorder) Option {
	return func(e *Engine) { e.obs = recorder }
}

// WithDiagnostics installs a handler for engine diagnostic events.
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(e *Engine) { e.diag = handler }
}
