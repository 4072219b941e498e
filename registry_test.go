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
)

func testView(loc *Location) any { return loc.Path }

func newTestRegistry(t *testing.T) *registry {
	t.Helper()
	return newRegistry(false, "", SuffixPolicy{}, nil)
}

func TestRegistryStaticMatch(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(RouteSpec{Path: "/about", Name: "about", View: testView}))

	res, ok := reg.match("/about")
	require.True(t, ok)
	assert.Equal(t, "/about", res.route.Path())
	assert.Empty(t, res.params)
	assert.Len(t, res.chain, 1)

	_, ok = reg.match("/missing")
	assert.False(t, ok)
}

func TestRegistryCaseInsensitiveByDefault(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(RouteSpec{Path: "/About", View: testView}))

	_, ok := reg.match("/about")
	assert.True(t, ok)
	_, ok = reg.match("/ABOUT")
	assert.True(t, ok)
}

func TestRegistryStrictCase(t *testing.T) {
	t.Parallel()

	reg := newRegistry(true, "", SuffixPolicy{}, nil)
	require.NoError(t, reg.add(RouteSpec{Path: "/About", View: testView}))

	_, ok := reg.match("/About")
	assert.True(t, ok)
	_, ok = reg.match("/about")
	assert.False(t, ok)
}

func TestRegistryDynamicMatch(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(RouteSpec{Path: "/users/{id}", Name: "user", View: testView}))

	res, ok := reg.match("/users/42")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"id": "42"}, res.params)

	_, ok = reg.match("/users")
	assert.False(t, ok)
	_, ok = reg.match("/users/42/extra")
	assert.False(t, ok)
}

func TestRegistryOptionalVariables(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(RouteSpec{Path: "/files/{name?}", View: testView}))

	res, ok := reg.match("/files/report")
	require.True(t, ok)
	assert.Equal(t, "report", res.params["name"])

	res, ok = reg.match("/files")
	require.True(t, ok)
	_, present := res.params["name"]
	assert.False(t, present, "absent optional must have no params entry")
}

func TestRegistryMandatoryAfterOptionalFails(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	err := reg.add(RouteSpec{Path: "/a/{b?}/{c}", View: testView})
	assert.ErrorIs(t, err, ErrOptionalOrder)
}

func TestRegistryPerVariablePattern(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(RouteSpec{
		Path:     "/orders/{id}",
		Patterns: map[string]string{"id": `\d+`},
		View:     testView,
	}))

	_, ok := reg.match("/orders/1234")
	assert.True(t, ok)
	_, ok = reg.match("/orders/abc")
	assert.False(t, ok)
}

func TestRegistryRegistrationOrderWins(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(
		RouteSpec{Path: "/x/{a}", Name: "first", View: testView},
		RouteSpec{Path: "/x/{b}", Name: "second", View: testView},
	))

	res, ok := reg.match("/x/hit")
	require.True(t, ok)
	assert.Equal(t, "first", res.route.Name())
}

func TestRegistryStaticBeatsDynamic(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(
		RouteSpec{Path: "/users/{id}", Name: "user", View: testView},
		RouteSpec{Path: "/users/new", Name: "new-user", View: testView},
	))

	res, ok := reg.match("/users/new")
	require.True(t, ok)
	assert.Equal(t, "new-user", res.route.Name())
}

func TestRegistrySuffixPolicy(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(RouteSpec{
		Path:   "/report",
		Suffix: SuffixList("json", "xml"),
		View:   testView,
	}))

	res, ok := reg.match("/report.json")
	require.True(t, ok)
	assert.Equal(t, "json", res.suffix)

	res, ok = reg.match("/report")
	require.True(t, ok)
	assert.Empty(t, res.suffix)

	_, ok = reg.match("/report.pdf")
	assert.False(t, ok)
}

func TestRegistryLiteralDotBeatsSuffixSplit(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(
		RouteSpec{Path: "/sitemap.xml", Name: "sitemap", View: testView},
		RouteSpec{Path: "/sitemap", Name: "plain", Suffix: SuffixAny(), View: testView},
	))

	res, ok := reg.match("/sitemap.xml")
	require.True(t, ok)
	assert.Equal(t, "sitemap", res.route.Name())
	assert.Empty(t, res.suffix)
}

func TestRegistryDynamicSuffix(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(RouteSpec{
		Path:   "/data/{set}",
		Suffix: SuffixAny(),
		View:   testView,
	}))

	res, ok := reg.match("/data/prices.csv")
	require.True(t, ok)
	assert.Equal(t, "prices", res.params["set"])
	assert.Equal(t, "csv", res.suffix)
}

func TestRegistryImplicitIndex(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(
		RouteSpec{Path: "/docs/index", Name: "docs-index", View: testView},
		RouteSpec{Path: "/index", Name: "root-index", View: testView},
	))

	res, ok := reg.match("/docs")
	require.True(t, ok)
	assert.Equal(t, "docs-index", res.route.Name())

	res, ok = reg.match("/")
	require.True(t, ok)
	assert.Equal(t, "root-index", res.route.Name())
}

func TestRegistryImplicitIndexStaticOnly(t *testing.T) {
	t.Parallel()

	t.Run("dynamic route never gains an index segment", func(t *testing.T) {
		t.Parallel()

		reg := newTestRegistry(t)
		require.NoError(t, reg.add(RouteSpec{Path: "/x/{p}", View: testView}))

		// /x must not resolve to /x/{p} with a fabricated "index" param.
		_, ok := reg.match("/x")
		assert.False(t, ok)
	})

	t.Run("suffixed address is not retried", func(t *testing.T) {
		t.Parallel()

		reg := newTestRegistry(t)
		require.NoError(t, reg.add(
			RouteSpec{Path: "/{a}/{b}", View: testView},
			RouteSpec{Path: "/files.json/index", View: testView},
		))

		_, ok := reg.match("/files.json")
		assert.False(t, ok)
	})

	t.Run("explicit index address is not retried", func(t *testing.T) {
		t.Parallel()

		reg := newTestRegistry(t)
		require.NoError(t, reg.add(RouteSpec{Path: "/w/index/index", View: testView}))

		_, ok := reg.match("/w/index")
		assert.False(t, ok)
	})
}

func TestRegistryMultipleOptionalVariables(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(RouteSpec{Path: "/a/{b?}/{c?}", View: testView}))

	tests := []struct {
		name string
		path string
		want map[string]string
	}{
		{name: "both absent", path: "/a", want: map[string]string{}},
		{name: "first present", path: "/a/x", want: map[string]string{"b": "x"}},
		{name: "both present", path: "/a/x/y", want: map[string]string{"b": "x", "c": "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, ok := reg.match(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.want, res.params)
		})
	}
}

func TestRegistryNestedChain(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(RouteSpec{
		Path: "/users/{id}",
		View: testView,
		Meta: map[string]any{"section": "users", "layer": "parent"},
		Children: []RouteSpec{
			{
				Path: "posts/{post?}",
				View: testView,
				Meta: map[string]any{"layer": "child"},
			},
		},
	}))

	res, ok := reg.match("/users/7/posts/99")
	require.True(t, ok)
	assert.Len(t, res.chain, 2)
	assert.Equal(t, "/users/{id}", res.chain[0].Path())
	assert.Equal(t, "/users/{id}/posts/{post?}", res.chain[1].Path())
	assert.Equal(t, map[string]string{"id": "7", "post": "99"}, res.params)
	// Leaf metadata overrides the parent's.
	assert.Equal(t, "child", res.meta["layer"])
	assert.Equal(t, "users", res.meta["section"])

	res, ok = reg.match("/users/7/posts")
	require.True(t, ok)
	assert.Len(t, res.chain, 2)
}

func TestRegistryGroupGetsSyntheticRedirect(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(RouteSpec{
		Path: "/admin",
		Children: []RouteSpec{
			{Path: "users", View: testView},
		},
	}))

	res, ok := reg.match("/admin")
	require.True(t, ok)
	require.NotNil(t, res.route.redirect)

	target := res.route.redirect.resolve(&Location{})
	assert.Equal(t, "/admin/users", target.Index)
}

func TestRegistryGroupWithoutRenderableDescendantFails(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	err := reg.add(RouteSpec{
		Path: "/group",
		Children: []RouteSpec{
			{Path: "empty", Children: []RouteSpec{{Path: "leaf", View: testView}}},
		},
	})
	// The nested group resolves through its leaf; the outer one too.
	require.NoError(t, err)

	err = reg.add(RouteSpec{Path: "/bare"})
	assert.ErrorIs(t, err, ErrNoRenderable)
}

func TestRegistryBatchIsAtomic(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(RouteSpec{Path: "/a", Name: "taken", View: testView}))

	err := reg.add(
		RouteSpec{Path: "/b", Name: "fresh", View: testView},
		RouteSpec{Path: "/c", Name: "taken", View: testView},
	)
	require.ErrorIs(t, err, ErrDuplicateName)

	// The valid half of the failed batch must not have registered.
	assert.Nil(t, reg.find("fresh"))
	assert.Nil(t, reg.find("/b"))
	_, ok := reg.match("/b")
	assert.False(t, ok)
}

func TestRegistryDuplicatePath(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(RouteSpec{Path: "/a", View: testView}))
	err := reg.add(RouteSpec{Path: "/a", View: testView})
	assert.ErrorIs(t, err, ErrDuplicatePath)
}

func TestRegistryRemoveCascades(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(RouteSpec{
		Path: "/users",
		Name: "users",
		View: testView,
		Children: []RouteSpec{
			{Path: "{id}", Name: "user", View: testView},
		},
	}))

	require.NoError(t, reg.remove("users"))

	assert.Nil(t, reg.find("users"))
	assert.Nil(t, reg.find("user"))
	_, ok := reg.match("/users")
	assert.False(t, ok)
	_, ok = reg.match("/users/42")
	assert.False(t, ok)

	// The freed names and paths can register again.
	require.NoError(t, reg.add(RouteSpec{Path: "/users/{id}", Name: "user", View: testView}))
	_, ok = reg.match("/users/42")
	assert.True(t, ok)
}

func TestRegistryRemoveUnknown(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	assert.ErrorIs(t, reg.remove("/nope"), ErrRouteNotFound)
}

func TestRegistryGenerate(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.NoError(t, reg.add(
		RouteSpec{Path: "/users/{id}/posts/{post?}", Name: "posts", View: testView},
		RouteSpec{Path: "/about", Name: "about", View: testView},
	))

	path, err := reg.generate("posts", map[string]string{"id": "42", "post": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/users/42/posts/7", path)

	path, err = reg.generate("posts", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/users/42/posts", path)

	_, err = reg.generate("posts", nil)
	assert.ErrorIs(t, err, ErrMissingParam)

	path, err = reg.generate("about", nil)
	require.NoError(t, err)
	assert.Equal(t, "/about", path)

	_, err = reg.generate("ghost", nil)
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestRegistryNameLeadingSlashCorrected(t *testing.T) {
	t.Parallel()

	var events []DiagnosticEvent
	emit := func(kind DiagnosticKind, msg string, fields map[string]any) {
		events = append(events, DiagnosticEvent{Kind: kind, Message: msg, Fields: fields})
	}
	reg := newRegistry(false, "", SuffixPolicy{}, emit)

	require.NoError(t, reg.add(RouteSpec{Path: "/home", Name: "/home", View: testView}))
	require.Len(t, events, 1)
	assert.Equal(t, DiagNameLeadingSlash, events[0].Kind)
	assert.NotNil(t, reg.find("home"))
}

func TestRegistryInheritedGuardAndSuffix(t *testing.T) {
	t.Parallel()

	reg := newRegistry(false, "", SuffixPolicy{}, nil)
	require.NoError(t, reg.add(RouteSpec{
		Path:   "/api",
		Suffix: SuffixList("json"),
		BeforeEnter: func(ctx context.Context, to, from *Location) (Decision, error) {
			return Continue(), nil
		},
		View: testView,
		Children: []RouteSpec{
			{Path: "items", View: testView},
		},
	}))

	res, ok := reg.match("/api/items.json")
	require.True(t, ok)
	assert.Equal(t, "json", res.suffix)
	assert.NotNil(t, res.route.guard)
}
