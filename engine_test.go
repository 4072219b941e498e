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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/navigator/history"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

// diagCollector gathers diagnostic events for assertions.
type diagCollector struct {
	events []DiagnosticEvent
}

func (d *diagCollector) OnDiagnostic(event DiagnosticEvent) {
	d.events = append(d.events, event)
}

func (d *diagCollector) kinds() []DiagnosticKind {
	kinds := make([]DiagnosticKind, 0, len(d.events))
	for _, e := range d.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func TestEnginePushMatchesRoute(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	require.NoError(t, e.AddRoutes(
		RouteSpec{Path: "/", View: testView},
		RouteSpec{Path: "/u/{id}", Name: "user", View: testView},
	))

	res := e.Push(context.Background(), To("/u/42"))
	require.True(t, res.OK(), res.Message)
	assert.Equal(t, "/u/42", res.To.Path)
	assert.Equal(t, "42", res.To.Param("id"))
	assert.Len(t, res.To.Matched, 1)

	live := e.CurrentLocation()
	assert.Equal(t, "/u/42", live.Path)
	assert.Equal(t, "/u/42", live.FullPath)
}

func TestEngineNamedNavigation(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	require.NoError(t, e.AddRoute(RouteSpec{Path: "/users/{id}", Name: "user", View: testView}))

	res := e.Push(context.Background(), Target{Index: "user", Params: map[string]string{"id": "42"}})
	require.True(t, res.OK())
	assert.Equal(t, "/users/42", res.To.Path)
	assert.Equal(t, "42", res.To.Param("id"))
}

func TestEngineNamedNavigationUnknown(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	res := e.Push(context.Background(), Target{Index: "ghost"})
	assert.Equal(t, StatusException, res.Status)
	assert.ErrorIs(t, res.Err, ErrRouteNotFound)
}

func TestEngineDuplicateSuppressed(t *testing.T) {
	t.Parallel()

	adapter := history.NewMemory("")
	e := newTestEngine(t, WithHistory(adapter))
	require.NoError(t, e.AddRoute(RouteSpec{Path: "/a", View: testView}))

	guardRuns := 0
	e.beforeGuard = func(ctx context.Context, to, from *Location) (Decision, error) {
		guardRuns++
		return Continue(), nil
	}

	first := e.Push(context.Background(), To("/a"))
	require.True(t, first.OK())
	second := e.Push(context.Background(), To("/a"))
	assert.Equal(t, StatusDuplicated, second.Status)

	// The duplicate ran no guard and wrote no history entry.
	assert.Equal(t, 1, guardRuns)
	assert.Equal(t, 1, adapter.Len())
}

func TestEngineQueryChangeIsNotDuplicate(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	require.NoError(t, e.AddRoute(RouteSpec{Path: "/a", View: testView}))

	require.True(t, e.Push(context.Background(), To("/a")).OK())
	res := e.Push(context.Background(), Target{Index: "/a", Query: map[string]string{"page": "2"}})
	require.True(t, res.OK())
	assert.Equal(t, "2", res.To.QueryValue("page"))
	assert.Equal(t, "/a?page=2", res.To.FullPath)
}

func TestEngineGuardAbort(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, WithBeforeGuard(func(ctx context.Context, to, from *Location) (Decision, error) {
		if to.Path == "/private" {
			return Abort(), nil
		}
		return Continue(), nil
	}))
	require.NoError(t, e.AddRoutes(
		RouteSpec{Path: "/public", View: testView},
		RouteSpec{Path: "/private", View: testView},
	))

	require.True(t, e.Push(context.Background(), To("/public")).OK())
	res := e.Push(context.Background(), To("/private"))
	assert.Equal(t, StatusAborted, res.Status)
	assert.Equal(t, "/public", e.CurrentLocation().Path)
}

func TestEngineGuardRedirect(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, WithBeforeGuard(func(ctx context.Context, to, from *Location) (Decision, error) {
		if to.Path == "/private" {
			return RedirectTo(To("/login")), nil
		}
		return Continue(), nil
	}))
	require.NoError(t, e.AddRoutes(
		RouteSpec{Path: "/private", View: testView},
		RouteSpec{Path: "/login", View: testView},
	))

	res := e.Push(context.Background(), To("/private"))
	require.True(t, res.OK())
	assert.Equal(t, "/login", res.To.Path)
	require.NotNil(t, res.RedirectFrom)
	assert.Equal(t, "/private", res.RedirectFrom.Index)
}

func TestEngineRouteRedirect(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	require.NoError(t, e.AddRoutes(
		RouteSpec{Path: "/old", Redirect: &Redirect{To: To("/new")}},
		RouteSpec{Path: "/new", View: testView},
	))

	res := e.Push(context.Background(), To("/old"))
	require.True(t, res.OK())
	assert.Equal(t, "/new", res.To.Path)
	require.NotNil(t, res.RedirectFrom)
	assert.Equal(t, "/old", res.RedirectFrom.Index)
}

func TestEngineGroupRedirectDescends(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	require.NoError(t, e.AddRoute(RouteSpec{
		Path: "/admin",
		Children: []RouteSpec{
			{Path: "users", View: testView},
		},
	}))

	res := e.Push(context.Background(), To("/admin"))
	require.True(t, res.OK())
	assert.Equal(t, "/admin/users", res.To.Path)
}

func TestEngineRedirectLoop(t *testing.T) {
	t.Parallel()

	diag := &diagCollector{}
	e := newTestEngine(t, WithRedirectLimit(4), WithDiagnostics(diag))
	require.NoError(t, e.AddRoutes(
		RouteSpec{Path: "/ping", Redirect: &Redirect{To: To("/pong")}},
		RouteSpec{Path: "/pong", Redirect: &Redirect{To: To("/ping")}},
	))

	res := e.Push(context.Background(), To("/ping"))
	assert.Equal(t, StatusException, res.Status)
	assert.ErrorIs(t, res.Err, ErrRedirectLoop)
	assert.Contains(t, diag.kinds(), DiagRedirectLimit)
}

func TestEngineGuardPanicContained(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, WithBeforeGuard(func(ctx context.Context, to, from *Location) (Decision, error) {
		panic("guard exploded")
	}))
	require.NoError(t, e.AddRoute(RouteSpec{Path: "/a", View: testView}))

	res := e.Push(context.Background(), To("/a"))
	assert.Equal(t, StatusException, res.Status)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "panic")
}

func TestEngineGuardError(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, WithBeforeGuard(func(ctx context.Context, to, from *Location) (Decision, error) {
		return Continue(), assert.AnError
	}))
	require.NoError(t, e.AddRoute(RouteSpec{Path: "/a", View: testView}))

	res := e.Push(context.Background(), To("/a"))
	assert.Equal(t, StatusException, res.Status)
	assert.ErrorIs(t, res.Err, assert.AnError)
	assert.Equal(t, "/", e.CurrentLocation().Path)
}

func TestEngineSupersededNavigationCancelled(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})

	e := newTestEngine(t, WithBeforeGuard(func(ctx context.Context, to, from *Location) (Decision, error) {
		if to.Path == "/slow" {
			close(entered)
			<-release
		}
		return Continue(), nil
	}))
	require.NoError(t, e.AddRoutes(
		RouteSpec{Path: "/slow", View: testView},
		RouteSpec{Path: "/fast", View: testView},
	))

	results := make(chan Result, 1)
	go func() {
		results <- e.Push(context.Background(), To("/slow"))
	}()
	<-entered

	fast := e.Push(context.Background(), To("/fast"))
	require.True(t, fast.OK())

	close(release)
	slow := <-results
	assert.Equal(t, StatusCancelled, slow.Status)
	assert.Equal(t, "/fast", e.CurrentLocation().Path)
}

func TestEngineNotMatchedWithoutFallback(t *testing.T) {
	t.Parallel()

	adapter := history.NewMemory("")
	e := newTestEngine(t, WithHistory(adapter))
	require.NoError(t, e.AddRoute(RouteSpec{Path: "/a", View: testView}))

	res := e.Push(context.Background(), To("/ghost"))
	assert.Equal(t, StatusNotMatched, res.Status)
	assert.Empty(t, res.To.Matched)

	// The address still reflects the attempt.
	assert.Equal(t, "/ghost", e.CurrentLocation().Path)
	href, ok := adapter.Restore()
	require.True(t, ok)
	assert.Equal(t, "/ghost", href)
}

func TestEngineFallbackCommitsUnmatched(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, WithFallback(testView))
	res := e.Push(context.Background(), To("/ghost"))
	require.True(t, res.OK())
	assert.Empty(t, res.To.Matched)
	assert.NotNil(t, e.FallbackView())
}

func TestEngineHistoryTraversal(t *testing.T) {
	t.Parallel()

	diag := &diagCollector{}
	e := newTestEngine(t, WithDiagnostics(diag))
	require.NoError(t, e.AddRoutes(
		RouteSpec{Path: "/", View: testView},
		RouteSpec{Path: "/a", View: testView},
		RouteSpec{Path: "/b", View: testView},
	))

	start := e.Start(context.Background())
	require.True(t, start.OK(), start.Message)
	t.Cleanup(func() { _ = e.Stop(context.Background()) })

	require.True(t, e.Push(context.Background(), To("/a")).OK())
	require.True(t, e.Push(context.Background(), To("/b")).OK())

	e.Back()
	assert.Equal(t, "/a", e.CurrentLocation().Path)
	e.Back()
	assert.Equal(t, "/", e.CurrentLocation().Path)
	e.Forward()
	assert.Equal(t, "/a", e.CurrentLocation().Path)

	// Out-of-range traversal is ignored.
	e.Go(-10)
	assert.Equal(t, "/a", e.CurrentLocation().Path)
	assert.Contains(t, diag.kinds(), DiagHistoryOutOfRange)
}

func TestEngineGuardRedirectOnTraversalReplaces(t *testing.T) {
	t.Parallel()

	redirecting := false
	adapter := history.NewMemory("")
	e := newTestEngine(t,
		WithHistory(adapter),
		WithBeforeGuard(func(ctx context.Context, to, from *Location) (Decision, error) {
			if redirecting && to.Path == "/b" {
				return RedirectTo(To("/c")), nil
			}
			return Continue(), nil
		}),
	)
	require.NoError(t, e.AddRoutes(
		RouteSpec{Path: "/", View: testView},
		RouteSpec{Path: "/a", View: testView},
		RouteSpec{Path: "/b", View: testView},
		RouteSpec{Path: "/c", View: testView},
	))

	require.True(t, e.Start(context.Background()).OK())
	t.Cleanup(func() { _ = e.Stop(context.Background()) })

	require.True(t, e.Push(context.Background(), To("/a")).OK())
	require.True(t, e.Push(context.Background(), To("/b")).OK())
	entries := adapter.Len()

	e.Back()
	require.Equal(t, "/a", e.CurrentLocation().Path)

	// Moving forward replays /b, which the guard now redirects. The
	// redirect has to rewrite the entry the backend already moved to,
	// not push a new one on top of it.
	redirecting = true
	e.Forward()
	assert.Equal(t, "/c", e.CurrentLocation().Path)
	assert.Equal(t, entries, adapter.Len())
}

func TestEngineUpdateQueryAndHash(t *testing.T) {
	t.Parallel()

	adapter := history.NewMemory("")
	e := newTestEngine(t, WithHistory(adapter))
	require.NoError(t, e.AddRoute(RouteSpec{Path: "/a", View: testView}))

	require.True(t, e.Push(context.Background(), To("/a")).OK())
	entries := adapter.Len()

	res := e.UpdateQuery(map[string]string{"q": "1"})
	require.True(t, res.OK())
	assert.Equal(t, "1", res.To.QueryValue("q"))
	assert.Equal(t, "/a?q=1", res.To.FullPath)

	res = e.UpdateHash("section")
	require.True(t, res.OK())
	assert.Equal(t, "#section", res.To.Hash)
	assert.Equal(t, "/a?q=1#section", res.To.FullPath)

	// Both updates replaced instead of pushing.
	assert.Equal(t, entries, adapter.Len())
}

func TestEngineHashMode(t *testing.T) {
	t.Parallel()

	bridge := history.NewFakeBridge("/")
	e := newTestEngine(t,
		WithMode(ModeHash),
		WithHistory(history.NewHash(bridge)),
	)
	require.NoError(t, e.AddRoutes(
		RouteSpec{Path: "/", View: testView},
		RouteSpec{Path: "/users/{id}", View: testView},
	))

	start := e.Start(context.Background())
	require.True(t, start.OK(), start.Message)
	t.Cleanup(func() { _ = e.Stop(context.Background()) })

	res := e.Push(context.Background(), To("/users/9"))
	require.True(t, res.OK())
	assert.Equal(t, "/#/users/9", res.To.FullPath)
	assert.Equal(t, "/#/users/9", bridge.Href())

	// A manual fragment edit re-enters the pipeline.
	bridge.SetHash("/users/3")
	assert.Equal(t, "/users/3", e.CurrentLocation().Path)
	assert.Equal(t, "3", e.CurrentLocation().Param("id"))
}

func TestEngineBrowserModeWithBasePath(t *testing.T) {
	t.Parallel()

	bridge := history.NewFakeBridge("/app")
	e := newTestEngine(t,
		WithMode(ModePath),
		WithHistory(history.NewBrowser(bridge)),
		WithBasePath("/app"),
	)
	require.NoError(t, e.AddRoutes(
		RouteSpec{Path: "/", View: testView},
		RouteSpec{Path: "/u/{id}", View: testView},
	))

	start := e.Start(context.Background())
	require.True(t, start.OK(), start.Message)
	t.Cleanup(func() { _ = e.Stop(context.Background()) })

	res := e.Push(context.Background(), To("/u/1"))
	require.True(t, res.OK())
	assert.Equal(t, "/app/u/1", res.To.FullPath)
	assert.Equal(t, "/app/u/1", bridge.Href())

	e.Back()
	assert.Equal(t, "/", e.CurrentLocation().Path)
}

func TestEngineExternalMismatchRewritten(t *testing.T) {
	t.Parallel()

	diag := &diagCollector{}
	adapter := history.NewMemory("/Weird//Path/")
	e := newTestEngine(t, WithHistory(adapter), WithDiagnostics(diag), WithFallback(testView))

	start := e.Start(context.Background())
	require.True(t, start.OK(), start.Message)
	t.Cleanup(func() { _ = e.Stop(context.Background()) })

	assert.Equal(t, "/weird/path", e.CurrentLocation().Path)
	assert.Contains(t, diag.kinds(), DiagExternalMismatch)

	// The backend entry was rewritten in place to the canonical form.
	href, ok := adapter.Restore()
	require.True(t, ok)
	assert.Equal(t, "/weird/path", href)
	assert.Equal(t, 1, adapter.Len())
}

func TestEngineStartTwice(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, WithFallback(testView))
	require.True(t, e.Start(context.Background()).OK())
	t.Cleanup(func() { _ = e.Stop(context.Background()) })

	res := e.Start(context.Background())
	assert.Equal(t, StatusDuplicated, res.Status)
}

func TestEngineAfterGuardAndScroll(t *testing.T) {
	t.Parallel()

	var order []string
	e := newTestEngine(t,
		WithAfterGuard(func(to, from *Location) {
			order = append(order, "after:"+to.Path)
		}),
		WithScrollBehavior(func(to, from *Location) {
			order = append(order, "scroll:"+to.Path)
		}),
	)
	require.NoError(t, e.AddRoute(RouteSpec{Path: "/a", View: testView}))

	require.True(t, e.Push(context.Background(), To("/a")).OK())
	assert.Equal(t, []string{"after:/a", "scroll:/a"}, order)
}

func TestEngineValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
		want error
	}{
		{"base path without slash", []Option{WithBasePath("app")}, ErrBasePathInvalid},
		{"base path trailing slash", []Option{WithBasePath("/app/")}, ErrBasePathInvalid},
		{"zero redirect limit", []Option{WithRedirectLimit(0)}, ErrRedirectLimitInvalid},
		{"path mode without history", []Option{WithMode(ModePath)}, ErrHistoryRequired},
		{"hash mode without history", []Option{WithMode(ModeHash)}, ErrHistoryRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.opts...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustNew(WithRedirectLimit(-1))
	})
}

func TestEngineRemoveRouteKeepsLiveLocation(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	require.NoError(t, e.AddRoute(RouteSpec{Path: "/a", Name: "a", View: testView}))
	require.True(t, e.Push(context.Background(), To("/a")).OK())

	require.NoError(t, e.RemoveRoute("a"))
	assert.Equal(t, "/a", e.CurrentLocation().Path)

	res := e.Push(context.Background(), To("/a"))
	assert.Equal(t, StatusNotMatched, res.Status)
}

func TestEnginePropsInjection(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	require.NoError(t, e.AddRoutes(
		RouteSpec{Path: "/u/{id}", View: testView},
		RouteSpec{
			Path:  "/static",
			Views: map[string]ViewFunc{"default": testView, "sidebar": testView},
			Props: map[string]PropSpec{
				"sidebar": {Static: Props{"width": 240}},
			},
		},
	))

	res := e.Push(context.Background(), To("/u/5"))
	require.True(t, res.OK())
	rt := res.To.Route()
	require.NotNil(t, rt)
	assert.Equal(t, Props{"id": "5"}, rt.Props("default", res.To))

	res = e.Push(context.Background(), To("/static"))
	require.True(t, res.OK())
	rt = res.To.Route()
	require.NotNil(t, rt)
	assert.Equal(t, Props{"width": 240}, rt.Props("sidebar", res.To))
	assert.ElementsMatch(t, []string{"default", "sidebar"}, rt.ViewNames())
}

type fakeRecorder struct {
	started  bool
	shutdown bool
	ends     []Status
}

func (f *fakeRecorder) Start(context.Context) error    { f.started = true; return nil }
func (f *fakeRecorder) Shutdown(context.Context) error { f.shutdown = true; return nil }

func (f *fakeRecorder) OnNavigationStart(ctx context.Context, index string) (context.Context, any) {
	return ctx, index
}

func (f *fakeRecorder) OnNavigationEnd(ctx context.Context, state any, template string, status Status, err error) {
	f.ends = append(f.ends, status)
}

func TestEngineObservabilityHooks(t *testing.T) {
	t.Parallel()

	rec := &fakeRecorder{}
	e := newTestEngine(t, WithObservability(rec), WithFallback(testView))
	require.NoError(t, e.AddRoute(RouteSpec{Path: "/a", View: testView}))

	require.True(t, e.Start(context.Background()).OK())
	assert.True(t, rec.started)

	require.True(t, e.Push(context.Background(), To("/a")).OK())
	dup := e.Push(context.Background(), To("/a"))
	assert.Equal(t, StatusDuplicated, dup.Status)

	require.NoError(t, e.Stop(context.Background()))
	assert.True(t, rec.shutdown)

	// Start navigation, the push, and the duplicate all reported.
	assert.Equal(t, []Status{StatusSuccess, StatusSuccess, StatusDuplicated}, rec.ends)
}

func TestSetDefaultOnce(t *testing.T) {
	e := newTestEngine(t)
	if Default() == nil {
		require.NoError(t, SetDefault(e))
	}
	assert.NotNil(t, Default())
	assert.ErrorIs(t, SetDefault(e), ErrAlreadyInitialized)
}
