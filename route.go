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
	"fmt"
	"maps"
	"strings"

	"rivaas.dev/navigator/pathutil"
)

// Route is a compiled route record. Routes are owned exclusively by the
// engine's registry: they are created at registration time, looked up by
// reference during matching, and destroyed on removal. Callers must treat
// them as read-only.
//
// Routes live in a flat arena; the parent relation is an integer index
// into that arena, so child records never keep their parent alive beyond
// the registry's own retention.
type Route struct {
	path    string            // absolute template with ancestor prefixes resolved
	name    string            // globally unique, or empty
	pattern *pathutil.Pattern // compiled template; nil for static routes

	views  map[string]ViewFunc
	props  map[string]func(*Location) Props
	suffix SuffixPolicy // resolved, including inheritance; may be unset
	guard  BeforeGuard  // inherited from the nearest ancestor when unset

	redirect *Redirect
	meta     map[string]any

	patterns map[string]string // per-variable regex fragments, inherited

	id     int // own arena index
	parent int // parent arena index, -1 for roots

	children []*Route
}

// Path returns the absolute route template.
func (r *Route) Path() string { return r.path }

// Name returns the route name, or empty.
func (r *Route) Name() string { return r.name }

// Meta returns the route's own metadata map. Read-only by contract.
func (r *Route) Meta() map[string]any { return r.meta }

// HasViews reports whether the route renders anything itself. A route
// without views is a group node and must forward via a redirect.
func (r *Route) HasViews() bool { return len(r.views) > 0 }

// View returns the component factory for the given named view slot, or
// nil. The single-view convenience form registers under "default".
func (r *Route) View(name string) ViewFunc { return r.views[name] }

// ViewNames returns the registered view slot names.
func (r *Route) ViewNames() []string {
	names := make([]string, 0, len(r.views))
	for name := range r.views {
		names = append(names, name)
	}
	return names
}

// Props resolves the injected props for the given named view at the given
// location. Views without explicit prop configuration inject the matched
// path parameters.
func (r *Route) Props(name string, loc *Location) Props {
	if resolver, ok := r.props[name]; ok {
		return resolver(loc)
	}
	return nil
}

// IsDynamic reports whether the route template contains variables.
func (r *Route) IsDynamic() bool { return r.pattern != nil }

// compileSpec normalizes one RouteSpec node into a Route record,
// inheriting suffix, guard, and pattern settings from the parent.
// Children are compiled by the caller; the synthetic group redirect is
// attached afterwards because it needs the compiled children.
func compileSpec(spec RouteSpec, parent *Route, defaultPattern string, emit func(DiagnosticKind, string, map[string]any)) (*Route, error) {
	trimmed := strings.TrimSpace(spec.Path)
	if trimmed == "" {
		return nil, ErrEmptyPath
	}

	// Resolve ancestor prefixes into one absolute template.
	absolute := pathutil.Normalize(trimmed)
	if parent != nil {
		absolute = pathutil.Normalize(parent.path + "/" + strings.Trim(trimmed, "/"))
	}

	views, err := normalizeViews(spec, absolute)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 && len(spec.Children) == 0 && spec.Redirect == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRenderable, absolute)
	}

	name := spec.Name
	if strings.HasPrefix(name, "/") {
		fixed := strings.TrimLeft(name, "/")
		emit(DiagNameLeadingSlash, "route name must not begin with '/', corrected",
			map[string]any{"name": name, "corrected": fixed})
		name = fixed
	}

	rt := &Route{
		path:     absolute,
		name:     name,
		views:    views,
		suffix:   spec.Suffix,
		guard:    spec.BeforeEnter,
		redirect: spec.Redirect,
		meta:     maps.Clone(spec.Meta),
		parent:   -1,
	}

	// Inherit unset settings from the nearest ancestor.
	if parent != nil {
		if !rt.suffix.IsSet() {
			rt.suffix = parent.suffix
		}
		if rt.guard == nil {
			rt.guard = parent.guard
		}
		rt.patterns = maps.Clone(parent.patterns)
	}
	if len(spec.Patterns) > 0 {
		if rt.patterns == nil {
			rt.patterns = make(map[string]string, len(spec.Patterns))
		}
		maps.Copy(rt.patterns, spec.Patterns)
	}

	if pathutil.IsDynamic(absolute) {
		pattern, err := pathutil.CompilePattern(absolute, rt.patterns, defaultPattern)
		if err != nil {
			return nil, err
		}
		rt.pattern = pattern
	}

	// Normalize prop injection per named view, independently.
	if len(views) > 0 {
		rt.props = make(map[string]func(*Location) Props, len(views))
		for viewName := range views {
			rt.props[viewName] = spec.Props[viewName].resolver()
		}
	}

	return rt, nil
}

// normalizeViews validates the view configuration and folds the
// single-view convenience form into the named-view map.
func normalizeViews(spec RouteSpec, absolute string) (map[string]ViewFunc, error) {
	if spec.View != nil {
		if len(spec.Views) > 0 {
			return nil, fmt.Errorf("%w: %s declares both View and Views", ErrInvalidView, absolute)
		}
		return map[string]ViewFunc{"default": spec.View}, nil
	}
	if len(spec.Views) == 0 {
		// An empty map is treated as absent.
		return nil, nil
	}
	views := make(map[string]ViewFunc, len(spec.Views))
	for name, fn := range spec.Views {
		if fn == nil {
			return nil, fmt.Errorf("%w: view %q of %s", ErrInvalidView, name, absolute)
		}
		views[name] = fn
	}
	return views, nil
}

// attachGroupRedirect gives a group node (children, no views) without an
// explicit redirect a synthetic resolver that descends into the first
// child carrying a redirect or a view. A group with no such descendant
// can never resolve to anything renderable and is a configuration error.
func attachGroupRedirect(rt *Route) error {
	if rt.HasViews() || rt.redirect != nil {
		return nil
	}
	target := firstRenderable(rt)
	if target == nil {
		return fmt.Errorf("%w: %s", ErrNoRedirectTarget, rt.path)
	}
	dest := target.path
	rt.redirect = &Redirect{Func: func(loc *Location) Target {
		return Target{Index: dest, Params: loc.Params, Query: loc.Query, Hash: loc.Hash}
	}}
	return nil
}

// firstRenderable walks the subtree in declaration order and returns the
// first descendant with a redirect of its own or with views.
func firstRenderable(rt *Route) *Route {
	for _, child := range rt.children {
		if child.redirect != nil || child.HasViews() {
			return child
		}
		if found := firstRenderable(child); found != nil {
			return found
		}
	}
	return nil
}
