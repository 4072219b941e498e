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

import "slices"

// ViewFunc produces the component for a named view slot of a matched
// route. The returned value is opaque to the engine; the rendering layer
// decides what to do with it.
type ViewFunc func(loc *Location) any

// Props are the values injected into a view component.
type Props map[string]any

// PropSpec configures prop injection for one named view. Exactly one of
// the three forms should be set; the first set field wins during
// normalization. The zero value means "inject the matched path
// parameters", which is also the default for views without a PropSpec.
type PropSpec struct {
	// FromParams injects the matched path parameters as props.
	FromParams bool

	// Static injects a fixed prop map.
	Static Props

	// Func computes props from the committed location.
	Func func(loc *Location) Props
}

// resolver normalizes a PropSpec into a per-location callback.
func (p PropSpec) resolver() func(*Location) Props {
	switch {
	case p.Func != nil:
		return p.Func
	case p.Static != nil:
		static := p.Static
		return func(*Location) Props { return static }
	default:
		// FromParams and the zero value both inject matched parameters.
		return func(loc *Location) Props {
			props := make(Props, len(loc.Params))
			for k, v := range loc.Params {
				props[k] = v
			}
			return props
		}
	}
}

// SuffixPolicy controls which path suffixes (the substring after the last
// '.' in the final segment) a route accepts. The zero value is "unset"
// and inherits from the nearest ancestor, falling back to the engine
// default, falling back to exact-only.
type SuffixPolicy struct {
	set     bool
	any     bool
	allowed []string
}

// SuffixAny accepts any suffix, including none.
func SuffixAny() SuffixPolicy {
	return SuffixPolicy{set: true, any: true}
}

// SuffixExact accepts only suffix-less paths.
func SuffixExact() SuffixPolicy {
	return SuffixPolicy{set: true}
}

// SuffixList accepts exactly the given suffixes (without the dot), plus
// suffix-less paths.
func SuffixList(suffixes ...string) SuffixPolicy {
	return SuffixPolicy{set: true, allowed: slices.Clone(suffixes)}
}

// IsSet reports whether the policy was explicitly configured.
func (s SuffixPolicy) IsSet() bool { return s.set }

// Allows reports whether the policy accepts the given suffix. The empty
// suffix is always allowed.
func (s SuffixPolicy) Allows(suffix string) bool {
	if suffix == "" || s.any {
		return true
	}
	return slices.Contains(s.allowed, suffix)
}

// Redirect declares where a route forwards instead of rendering. Exactly
// one of To and Func should be set; Func wins when both are.
type Redirect struct {
	// To is a static redirect target.
	To Target

	// Func computes the target from the candidate location.
	Func func(loc *Location) Target
}

func (r *Redirect) resolve(loc *Location) Target {
	if r.Func != nil {
		return r.Func(loc)
	}
	return r.To
}

// RouteSpec is the caller-supplied description of one route. Specs are
// treated as immutable input: registration compiles them into internal
// route records and never retains the spec itself.
type RouteSpec struct {
	// Path is the route template, relative to the parent route's path.
	// Dynamic variables use brace syntax: /users/{id}, /files/{name?}.
	Path string

	// Name optionally registers the route under a globally unique name.
	// Names must not begin with '/'; a leading slash is stripped with a
	// diagnostic warning.
	Name string

	// Patterns supplies per-variable regex fragments for dynamic
	// variables, keyed by variable name. Variables without an entry use
	// the engine's default pattern. Unset entries inherit from ancestors.
	Patterns map[string]string

	// Children are nested route specs whose paths extend this route's.
	Children []RouteSpec

	// Redirect forwards navigation instead of rendering. A group route
	// (children but no views) without an explicit redirect receives a
	// synthetic one that descends into its first renderable child.
	Redirect *Redirect

	// Suffix controls suffix matching. Unset inherits from the nearest
	// ancestor with a policy, then the engine default.
	Suffix SuffixPolicy

	// BeforeEnter runs before navigations into this route commit.
	// Unset inherits from the nearest ancestor with a guard.
	BeforeEnter BeforeGuard

	// View is a convenience for a single default view; it is normalized
	// into Views under the "default" key.
	View ViewFunc

	// Views maps named view slots to their component factories. An empty
	// map is treated as absent.
	Views map[string]ViewFunc

	// Props configures prop injection per named view. Views without an
	// entry inject the matched path parameters.
	Props map[string]PropSpec

	// Meta is arbitrary route metadata, merged root-to-leaf into the
	// committed location.
	Meta map[string]any
}
