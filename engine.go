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
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"rivaas.dev/navigator/history"
	"rivaas.dev/navigator/pathutil"
)

// noopLogger discards all log output. Used when no logger is configured
// so logging call sites never nil-check.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Engine is the navigation engine: it owns the route registry, the live
// location, and the history adapter, and runs the guarded navigation
// pipeline that connects them.
//
// Construct with [New] or [MustNew], register routes, then call
// [Engine.Start] to establish the initial location and begin listening
// for external address changes.
//
// Engine is safe for concurrent use. Concurrent navigations race by
// design: every navigation claims a fresh task id, and any older
// navigation still in flight when a newer one starts terminates with
// [StatusCancelled] instead of committing stale state.
type Engine struct {
	mu   sync.Mutex
	reg  *registry
	live *Location

	adapter history.Adapter
	mode    Mode
	base    string

	beforeGuard BeforeGuard
	afterGuard  AfterGuard
	fallback    ViewFunc
	scroll      ScrollBehavior

	logger *slog.Logger
	obs    ObservabilityRecorder
	diag   DiagnosticHandler

	redirectLimit int

	strictCase     bool
	defaultPattern string
	defaultSuffix  SuffixPolicy

	// task is the fencing counter: each navigation claims the next id,
	// and only the holder of the latest id may commit.
	task atomic.Uint64

	unsubscribe func()
	started     bool

	// committed flips once the first navigation commits; until then
	// duplicate suppression is disabled so the initial address always
	// resolves.
	committed bool
}

// New creates an engine with the given options.
//
// Example:
//
//	e, err := navigator.New(
//	    navigator.WithFallback(notFoundView),
//	    navigator.WithRedirectLimit(8),
//	)
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		mode:          ModeMemory,
		logger:        noopLogger,
		redirectLimit: 16,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	if e.adapter == nil {
		e.adapter = history.NewMemory("")
	}

	e.reg = newRegistry(e.strictCase, e.defaultPattern, e.defaultSuffix, e.emit)
	e.live = newLocation("/", "/", e.composeFullPath("/", "", ""))
	return e, nil
}

// MustNew is like [New] but panics on configuration errors. Intended for
// static configurations known to be valid.
func MustNew(opts ...Option) *Engine {
	e, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("navigator: %v", err))
	}
	return e
}

func (e *Engine) validate() error {
	if e.base != "" {
		if !strings.HasPrefix(e.base, "/") || strings.HasSuffix(e.base, "/") {
			return fmt.Errorf("%w: %q", ErrBasePathInvalid, e.base)
		}
	}
	if e.redirectLimit < 1 {
		return fmt.Errorf("%w: %d", ErrRedirectLimitInvalid, e.redirectLimit)
	}
	if e.mode != ModeMemory && e.adapter == nil {
		return fmt.Errorf("%w: mode %s", ErrHistoryRequired, e.mode)
	}
	return nil
}

func (e *Engine) emit(kind DiagnosticKind, message string, fields map[string]any) {
	if e.diag != nil {
		e.diag.OnDiagnostic(DiagnosticEvent{Kind: kind, Message: message, Fields: fields})
	}
}

// AddRoute compiles and registers one route spec, including its
// children. Registration is atomic: on error nothing was registered.
func (e *Engine) AddRoute(spec RouteSpec) error {
	return e.reg.add(spec)
}

// AddRoutes registers a batch of route specs atomically: either the
// whole batch registers or none of it does.
func (e *Engine) AddRoutes(specs ...RouteSpec) error {
	return e.reg.add(specs...)
}

// RemoveRoute unregisters the route identified by path template or name,
// together with its subtree. Removal does not touch the live location;
// the current view stays rendered until the next navigation.
func (e *Engine) RemoveRoute(index string) error {
	return e.reg.remove(index)
}

// FindRoute returns the route registered under the given path template
// or name, or nil.
func (e *Engine) FindRoute(index string) *Route {
	return e.reg.find(index)
}

// Routes returns the root routes in registration order.
func (e *Engine) Routes() []*Route {
	return e.reg.routes()
}

// GeneratePath builds a concrete path for the route identified by path
// template or name. Mandatory variables must have a value in params;
// optional variables without one drop their segment.
//
// Example:
//
//	e.GeneratePath("user", map[string]string{"id": "42"}) // "/users/42"
func (e *Engine) GeneratePath(index string, params map[string]string) (string, error) {
	return e.reg.generate(index, params)
}

// CurrentLocation returns the live location. The same instance is
// patched in place on every committed navigation; use
// [Location.Snapshot] for a stable copy.
func (e *Engine) CurrentLocation() *Location {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live
}

// Start establishes the initial location from the history adapter and
// subscribes to external address changes. When the adapter has no
// current address, the engine navigates to the root path.
//
// Start also starts the observability recorder, if one is configured.
func (e *Engine) Start(ctx context.Context) Result {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return Result{Status: StatusDuplicated, Message: "engine already started"}
	}
	e.started = true
	e.mu.Unlock()

	if e.obs != nil {
		if err := e.obs.Start(ctx); err != nil {
			return Result{Status: StatusException, Message: "observability start failed", Err: err}
		}
	}

	unsub := e.adapter.Subscribe(e.handleExternal)
	e.mu.Lock()
	e.unsubscribe = unsub
	e.mu.Unlock()

	if href, ok := e.adapter.Restore(); ok {
		return e.navigateWith(ctx, e.parseAddress(href), navOptions{external: true, externalHref: href})
	}
	return e.navigateWith(ctx, Target{Index: "/", Replace: true}, navOptions{})
}

// Stop unsubscribes from the history adapter and shuts the
// observability recorder down.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	unsub := e.unsubscribe
	e.unsubscribe = nil
	e.started = false
	e.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if e.obs != nil {
		return e.obs.Shutdown(ctx)
	}
	return nil
}

// composeFullPath builds the complete address for the engine's mode from
// a path (suffix attached), an encoded query string, and a normalized
// hash fragment.
func (e *Engine) composeFullPath(path, query, hash string) string {
	var buf strings.Builder
	buf.WriteString(e.base)
	switch e.mode {
	case ModeHash:
		buf.WriteByte('/')
		if query != "" {
			buf.WriteByte('?')
			buf.WriteString(query)
		}
		buf.WriteByte('#')
		buf.WriteString(path)
		buf.WriteString(hash)
	default:
		buf.WriteString(path)
		if query != "" {
			buf.WriteByte('?')
			buf.WriteString(query)
		}
		buf.WriteString(hash)
	}
	return buf.String()
}

// parseAddress decomposes a backend address into a navigation target,
// inverting composeFullPath for the engine's mode. External changes
// always replace: the backend has already moved its history.
func (e *Engine) parseAddress(href string) Target {
	target := Target{Replace: true}
	switch e.mode {
	case ModeHash:
		outer, frag := pathutil.SplitHash(href)
		_, rawQuery, _ := strings.Cut(outer, "?")
		inner := strings.TrimPrefix(frag, "#")
		path, innerHash := pathutil.SplitHash(inner)
		if path == "" {
			path = "/"
		}
		target.Index = path
		target.Query = pathutil.DecodeQuery(rawQuery)
		target.Hash = innerHash
	default:
		rest := strings.TrimPrefix(href, e.base)
		if rest == "" {
			rest = "/"
		}
		target.Index = rest
	}
	return target
}

var (
	defaultMu     sync.Mutex
	defaultEngine *Engine
)

// SetDefault installs the process-wide default engine returned by
// [Default]. It can be set exactly once; a second call fails with
// [ErrAlreadyInitialized].
func SetDefault(e *Engine) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultEngine != nil {
		return ErrAlreadyInitialized
	}
	defaultEngine = e
	return nil
}

// Default returns the process-wide default engine, or nil when none was
// installed.
func Default() *Engine {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultEngine
}
