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
	"sync"

	"rivaas.dev/navigator/pathutil"
)

// registry owns the compiled route records and the lookup indices over
// them. Static routes resolve through a hash map; dynamic routes are
// bucketed by segment count and scanned in registration order, so the
// first registered match wins.
type registry struct {
	mu sync.RWMutex

	// arena holds every compiled route by id. Removed routes leave a nil
	// slot; ids are never reused, so a stale id can not alias a newer
	// route.
	arena []*Route
	roots []*Route

	byName map[string]*Route
	byPath map[string]*Route // folded template -> route, duplicate detection and find
	static map[string]*Route // folded literal path -> route
	// dynamic buckets one entry per reachable segment count, so a
	// template with trailing optionals is found under every length it
	// can match.
	dynamic map[int][]*Route

	strictCase     bool
	defaultPattern string
	defaultSuffix  SuffixPolicy

	emit func(DiagnosticKind, string, map[string]any)
}

func newRegistry(strictCase bool, defaultPattern string, defaultSuffix SuffixPolicy, emit func(DiagnosticKind, string, map[string]any)) *registry {
	if emit == nil {
		emit = func(DiagnosticKind, string, map[string]any) {}
	}
	return &registry{
		byName:         make(map[string]*Route),
		byPath:         make(map[string]*Route),
		static:         make(map[string]*Route),
		dynamic:        make(map[int][]*Route),
		strictCase:     strictCase,
		defaultPattern: defaultPattern,
		defaultSuffix:  defaultSuffix,
		emit:           emit,
	}
}

// fold canonicalizes a path for index lookup. Matching is
// case-insensitive unless strict case was requested; folding applies to
// the whole address, so extracted parameters are folded too.
func (reg *registry) fold(path string) string {
	if reg.strictCase {
		return path
	}
	return strings.ToLower(path)
}

// effectiveSuffix resolves the suffix policy a route matches under: its
// own when set, otherwise the engine default, otherwise exact-only.
func (reg *registry) effectiveSuffix(rt *Route) SuffixPolicy {
	if rt.suffix.IsSet() {
		return rt.suffix
	}
	return reg.defaultSuffix
}

// add compiles and registers a batch of route specs. The batch commits
// atomically: any validation or compile failure leaves the registry
// exactly as it was.
func (reg *registry) add(specs ...RouteSpec) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	batchNames := make(map[string]struct{})
	batchPaths := make(map[string]struct{})

	staged := make([]*Route, 0, len(specs))
	for _, spec := range specs {
		rt, err := reg.stage(spec, nil, batchNames, batchPaths)
		if err != nil {
			return err
		}
		staged = append(staged, rt)
	}

	for _, rt := range staged {
		reg.commit(rt, -1)
		reg.roots = append(reg.roots, rt)
	}
	return nil
}

// stage compiles one spec subtree and validates it against both the
// registry and the rest of the batch, without touching any index.
func (reg *registry) stage(spec RouteSpec, parent *Route, batchNames, batchPaths map[string]struct{}) (*Route, error) {
	rt, err := compileSpec(spec, parent, reg.defaultPattern, reg.emit)
	if err != nil {
		return nil, err
	}

	pathKey := reg.fold(rt.path)
	if _, exists := reg.byPath[pathKey]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, rt.path)
	}
	if _, exists := batchPaths[pathKey]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, rt.path)
	}
	batchPaths[pathKey] = struct{}{}

	if rt.name != "" {
		if _, exists := reg.byName[rt.name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, rt.name)
		}
		if _, exists := batchNames[rt.name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, rt.name)
		}
		batchNames[rt.name] = struct{}{}
	}

	for _, child := range spec.Children {
		compiled, err := reg.stage(child, rt, batchNames, batchPaths)
		if err != nil {
			return nil, err
		}
		rt.children = append(rt.children, compiled)
	}

	if err := attachGroupRedirect(rt); err != nil {
		return nil, err
	}
	return rt, nil
}

// commit assigns arena ids and populates the indices for a staged
// subtree. Called with the write lock held, after all validation passed.
func (reg *registry) commit(rt *Route, parentID int) {
	rt.id = len(reg.arena)
	rt.parent = parentID
	reg.arena = append(reg.arena, rt)

	pathKey := reg.fold(rt.path)
	reg.byPath[pathKey] = rt
	if rt.name != "" {
		reg.byName[rt.name] = rt
	}

	if rt.pattern == nil {
		reg.static[pathKey] = rt
	} else {
		for _, count := range rt.pattern.SegmentCounts() {
			reg.dynamic[count] = append(reg.dynamic[count], rt)
		}
	}

	for _, child := range rt.children {
		reg.commit(child, rt.id)
	}
}

// remove unregisters the route identified by path template or name,
// together with its entire subtree. Removing an unknown route is an
// error; callers that tolerate absence check with find first.
func (reg *registry) remove(index string) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rt := reg.lookup(index)
	if rt == nil {
		return fmt.Errorf("%w: %s", ErrRouteNotFound, index)
	}

	reg.unregister(rt)

	if rt.parent >= 0 {
		if parent := reg.arena[rt.parent]; parent != nil {
			parent.children = spliceRoute(parent.children, rt)
		}
	} else {
		reg.roots = spliceRoute(reg.roots, rt)
	}
	return nil
}

// unregister clears a subtree from every index, children first.
func (reg *registry) unregister(rt *Route) {
	for _, child := range rt.children {
		reg.unregister(child)
	}
	rt.children = nil

	pathKey := reg.fold(rt.path)
	delete(reg.byPath, pathKey)
	if rt.name != "" {
		delete(reg.byName, rt.name)
	}

	if rt.pattern == nil {
		delete(reg.static, pathKey)
	} else {
		for _, count := range rt.pattern.SegmentCounts() {
			bucket := spliceRoute(reg.dynamic[count], rt)
			if len(bucket) == 0 {
				delete(reg.dynamic, count)
			} else {
				reg.dynamic[count] = bucket
			}
		}
	}

	reg.arena[rt.id] = nil
}

func spliceRoute(routes []*Route, rt *Route) []*Route {
	for i, candidate := range routes {
		if candidate == rt {
			return append(routes[:i], routes[i+1:]...)
		}
	}
	return routes
}

// find returns the route registered under the given path template or
// name, or nil. Indexes beginning with '/' are path templates; anything
// else is a name.
func (reg *registry) find(index string) *Route {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.lookup(index)
}

func (reg *registry) lookup(index string) *Route {
	if strings.HasPrefix(index, "/") {
		return reg.byPath[reg.fold(pathutil.Normalize(index))]
	}
	return reg.byName[index]
}

// generate builds a concrete path for the route identified by path
// template or name, interpolating params into dynamic variables. Missing
// mandatory parameters fail with pathutil.ErrMissingParam; missing
// optionals are dropped together with their segment.
func (reg *registry) generate(index string, params map[string]string) (string, error) {
	rt := reg.find(index)
	if rt == nil {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, index)
	}
	if rt.pattern == nil {
		return rt.path, nil
	}
	return pathutil.Interpolate(rt.path, params)
}

// matchResult is the outcome of resolving a concrete path to a route.
type matchResult struct {
	route  *Route
	params map[string]string
	suffix string

	// chain is the ordered list of view-bearing routes from root to the
	// matched route.
	chain []*Route

	// meta is the route metadata merged root-to-leaf over the full
	// ancestor chain, groups included.
	meta map[string]any
}

// match resolves a normalized path to a route. Resolution order: literal
// static lookup of the whole path, static lookup of the suffix-stripped
// base under the route's suffix policy, dynamic bucket scan in
// registration order, and finally a retry with an implicit "/index"
// segment appended.
func (reg *registry) match(path string) (*matchResult, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	folded := reg.fold(pathutil.Normalize(path))
	if res, ok := reg.matchFolded(folded); ok {
		return res, true
	}

	// Implicit index: /docs resolves to /docs/index when the latter is
	// registered as a literal route and nothing claimed /docs itself.
	// Only static routes participate; a dynamic template must never see a
	// phantom "index" parameter. Addresses carrying a suffix or already
	// ending in /index are not retried.
	if _, suffix := pathutil.SplitSuffix(folded); suffix != "" || strings.HasSuffix(folded, "/index") {
		return nil, false
	}
	key := folded + "/index"
	if folded == "/" {
		key = "/index"
	}
	if rt, ok := reg.static[key]; ok {
		return reg.finish(rt, nil, ""), true
	}
	return nil, false
}

func (reg *registry) matchFolded(path string) (*matchResult, bool) {
	// A literal template wins even when the path carries what looks like
	// a suffix: a route registered as /sitemap.xml matches whole.
	if rt, ok := reg.static[path]; ok {
		return reg.finish(rt, nil, ""), true
	}

	base, suffix := pathutil.SplitSuffix(path)
	if suffix != "" {
		if rt, ok := reg.static[base]; ok && reg.effectiveSuffix(rt).Allows(suffix) {
			return reg.finish(rt, nil, suffix), true
		}
	}

	// Suffix splitting happens inside the final segment, so base and
	// full path always share a bucket.
	for _, rt := range reg.dynamic[pathutil.SegmentCount(path)] {
		candidate := path
		matchedSuffix := ""
		if suffix != "" && reg.effectiveSuffix(rt).Allows(suffix) {
			candidate = base
			matchedSuffix = suffix
		}
		if params, ok := rt.pattern.Match(candidate); ok {
			return reg.finish(rt, params, matchedSuffix), true
		}
	}
	return nil, false
}

// finish assembles the match result: view chain and merged metadata.
// Called with at least the read lock held.
func (reg *registry) finish(rt *Route, params map[string]string, suffix string) *matchResult {
	if params == nil {
		params = map[string]string{}
	}

	// Walk the ancestor chain leaf to root through the arena.
	var ancestry []*Route
	for id := rt.id; id >= 0; {
		node := reg.arena[id]
		if node == nil {
			break
		}
		ancestry = append(ancestry, node)
		id = node.parent
	}

	res := &matchResult{
		route:  rt,
		params: params,
		suffix: suffix,
		meta:   map[string]any{},
	}
	// Reverse order: metadata merges root first so leaves override, and
	// the view chain renders outermost layout first.
	for i := len(ancestry) - 1; i >= 0; i-- {
		node := ancestry[i]
		maps.Copy(res.meta, node.meta)
		if node.HasViews() {
			res.chain = append(res.chain, node)
		}
	}
	return res
}

// routes returns the root routes in registration order. Used by
// introspection and tests.
func (reg *registry) routes() []*Route {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Route, len(reg.roots))
	copy(out, reg.roots)
	return out
}
