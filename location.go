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
	"maps"
	"slices"
)

// Location is the engine's model of the current address. One live
// instance exists per engine; its fields are patched in place at the end
// of each successful navigation, so external observers holding the
// pointer see updates without re-subscribing.
//
// Use [Location.Snapshot] to capture an immutable copy, e.g. for
// comparing before/after states across a navigation.
type Location struct {
	// Index is the raw navigation key that produced this location: the
	// path or route name handed to the engine.
	Index string

	// Path is the normalized, suffix-less path.
	Path string

	// Suffix is the path suffix split off during matching, without the
	// dot. Empty when the address carries no suffix.
	Suffix string

	// Hash is the fragment, including the leading '#', or empty.
	Hash string

	// Query holds the decoded query parameters.
	Query map[string]string

	// Params holds the extracted path parameters. Optional variables
	// absent from the path have no entry.
	Params map[string]string

	// Meta is the route metadata merged root-to-leaf over the matched
	// chain.
	Meta map[string]any

	// FullPath is the complete composed address, derivable from the
	// other fields and the engine's mode and base path.
	FullPath string

	// Matched is the ordered chain, root first, of routes contributing a
	// view to this location. Empty iff nothing matched.
	Matched []*Route
}

func newLocation(index, path, fullPath string) *Location {
	return &Location{
		Index:    index,
		Path:     path,
		FullPath: fullPath,
		Query:    map[string]string{},
		Params:   map[string]string{},
		Meta:     map[string]any{},
	}
}

// Snapshot returns a deep copy of the location. Matched routes are shared
// by reference: they are owned by the registry and never mutated by
// navigation.
func (l *Location) Snapshot() *Location {
	return &Location{
		Index:    l.Index,
		Path:     l.Path,
		Suffix:   l.Suffix,
		Hash:     l.Hash,
		Query:    maps.Clone(l.Query),
		Params:   maps.Clone(l.Params),
		Meta:     maps.Clone(l.Meta),
		FullPath: l.FullPath,
		Matched:  slices.Clone(l.Matched),
	}
}

// patchFrom updates the live location in place from a committed
// candidate. Maps are diffed key by key instead of being replaced
// wholesale, so bindings into the live maps stay valid across
// navigations.
func (l *Location) patchFrom(src *Location) {
	l.Index = src.Index
	l.Path = src.Path
	l.Suffix = src.Suffix
	l.Hash = src.Hash
	l.FullPath = src.FullPath

	patchStringMap(l.Query, src.Query)
	patchStringMap(l.Params, src.Params)
	patchAnyMap(l.Meta, src.Meta)

	l.Matched = l.Matched[:0]
	l.Matched = append(l.Matched, src.Matched...)
}

func patchStringMap(dst, src map[string]string) {
	for k := range dst {
		if _, ok := src[k]; !ok {
			delete(dst, k)
		}
	}
	maps.Copy(dst, src)
}

func patchAnyMap(dst, src map[string]any) {
	for k := range dst {
		if _, ok := src[k]; !ok {
			delete(dst, k)
		}
	}
	maps.Copy(dst, src)
}

// sameAs reports structural identity between two locations: same path,
// suffix, hash, query, params, and deepest matched route. The route
// check keeps a location that stopped matching, e.g. after its route was
// removed, from being suppressed as a duplicate. Used before any guard
// runs.
func (l *Location) sameAs(other *Location) bool {
	return l.Path == other.Path &&
		l.Suffix == other.Suffix &&
		l.Hash == other.Hash &&
		l.Route() == other.Route() &&
		maps.Equal(l.Query, other.Query) &&
		maps.Equal(l.Params, other.Params)
}

// Param returns the named path parameter, or the empty string.
func (l *Location) Param(name string) string { return l.Params[name] }

// QueryValue returns the named query parameter, or the empty string.
func (l *Location) QueryValue(name string) string { return l.Query[name] }

// Route returns the deepest matched route, or nil when nothing matched.
func (l *Location) Route() *Route {
	if len(l.Matched) == 0 {
		return nil
	}
	return l.Matched[len(l.Matched)-1]
}
