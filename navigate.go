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
	"strings"

	"rivaas.dev/navigator/pathutil"
)

// navOptions carries per-navigation flags that are not part of the
// target itself.
type navOptions struct {
	// external marks a navigation replayed from the history backend. The
	// backend already holds the address, so the commit skips Persist
	// unless normalization changed it.
	external     bool
	externalHref string
}

// Push navigates to the target, pushing a new history entry.
//
// Push never returns an error; inspect [Result.Status]. Guards may block
// on ctx-aware work; a navigation superseded while its guard runs
// terminates with [StatusCancelled].
func (e *Engine) Push(ctx context.Context, target Target) Result {
	return e.navigateWith(ctx, target, navOptions{})
}

// Replace navigates to the target, replacing the current history entry.
func (e *Engine) Replace(ctx context.Context, target Target) Result {
	target.Replace = true
	return e.navigateWith(ctx, target, navOptions{})
}

// Go moves relative to the current history entry: negative is back,
// positive is forward. The resulting navigation arrives asynchronously
// through the adapter subscription. Moves past either end of the history
// are ignored, with a diagnostic.
func (e *Engine) Go(delta int) {
	if err := e.adapter.Go(delta); err != nil {
		e.emit(DiagHistoryOutOfRange, "history move out of range, ignored",
			map[string]any{"delta": delta})
	}
}

// Back moves one entry back in history.
func (e *Engine) Back() { e.Go(-1) }

// Forward moves one entry forward in history.
func (e *Engine) Forward() { e.Go(1) }

// UpdateQuery replaces the query parameters of the current location in
// place, without re-running matching or guards: no route transition
// happens, only the search portion of the address changes. The current
// history entry is replaced.
func (e *Engine) UpdateQuery(query map[string]string) Result {
	e.mu.Lock()
	from := e.live.Snapshot()
	fullPath := e.composeFullPath(
		pathutil.JoinSuffix(e.live.Path, e.live.Suffix),
		pathutil.EncodeQuery(query),
		e.live.Hash,
	)
	if err := e.adapter.Persist(fullPath, true); err != nil {
		e.mu.Unlock()
		return Result{Status: StatusException, Message: "history persist failed", From: from, Err: err}
	}
	patchStringMap(e.live.Query, query)
	e.live.FullPath = fullPath
	to := e.live.Snapshot()
	e.mu.Unlock()

	return Result{Status: StatusSuccess, Message: "query updated", To: to, From: from}
}

// UpdateHash replaces the fragment of the current location in place,
// analogous to [Engine.UpdateQuery]. An empty hash clears the fragment.
func (e *Engine) UpdateHash(hash string) Result {
	hash = pathutil.NormalizeHash(hash)

	e.mu.Lock()
	from := e.live.Snapshot()
	fullPath := e.composeFullPath(
		pathutil.JoinSuffix(e.live.Path, e.live.Suffix),
		pathutil.EncodeQuery(e.live.Query),
		hash,
	)
	if err := e.adapter.Persist(fullPath, true); err != nil {
		e.mu.Unlock()
		return Result{Status: StatusException, Message: "history persist failed", From: from, Err: err}
	}
	e.live.Hash = hash
	e.live.FullPath = fullPath
	to := e.live.Snapshot()
	e.mu.Unlock()

	return Result{Status: StatusSuccess, Message: "hash updated", To: to, From: from}
}

// FallbackView returns the configured not-found view, or nil. Rendering
// layers call it when a committed location has an empty matched chain.
func (e *Engine) FallbackView() ViewFunc { return e.fallback }

func (e *Engine) snapshot() *Location {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live.Snapshot()
}

// handleExternal is the adapter subscription callback: history
// traversal and address-bar edits re-enter the pipeline here.
func (e *Engine) handleExternal(href string) {
	e.navigateWith(context.Background(), e.parseAddress(href),
		navOptions{external: true, externalHref: href})
}

// navigateWith claims a task id, wraps the pipeline run with
// observability, and logs the outcome.
func (e *Engine) navigateWith(ctx context.Context, target Target, opts navOptions) Result {
	task := e.task.Add(1)

	var obsState any
	if e.obs != nil {
		ctx, obsState = e.obs.OnNavigationStart(ctx, target.Index)
	}

	res := e.run(ctx, target, task, opts, nil, 0)

	template := ""
	if res.To != nil {
		if rt := res.To.Route(); rt != nil {
			template = rt.Path()
		}
	}
	if e.obs != nil {
		e.obs.OnNavigationEnd(ctx, obsState, template, res.Status, res.Err)
	}
	e.logger.Debug("navigation finished",
		"index", target.Index,
		"status", res.Status.String(),
		"template", template,
		"external", opts.external,
	)
	return res
}

// run executes one pass of the navigation pipeline. Redirects, whether
// from route declarations or guard decisions, recurse with an
// incremented depth; the original target survives as redirectFrom.
func (e *Engine) run(ctx context.Context, target Target, task uint64, opts navOptions, redirectFrom *Target, depth int) Result {
	from := e.snapshot()

	if depth > e.redirectLimit {
		e.emit(DiagRedirectLimit, "redirect limit reached", map[string]any{
			"limit": e.redirectLimit,
			"index": target.Index,
		})
		return Result{
			Status:       StatusException,
			Message:      "redirect limit exceeded",
			From:         from,
			RedirectFrom: redirectFrom,
			Err:          fmt.Errorf("%w: %d redirects", ErrRedirectLoop, depth),
		}
	}

	cand, matched, err := e.buildLocation(target)
	if err != nil {
		return Result{
			Status:       StatusException,
			Message:      "target could not be resolved",
			From:         from,
			RedirectFrom: redirectFrom,
			Err:          err,
		}
	}

	// Route-declared redirect: resolve and restart before any guard.
	if matched != nil && matched.redirect != nil {
		next := matched.redirect.resolve(cand)
		next.Replace = next.Replace || target.Replace
		return e.run(ctx, next, task, opts, firstTarget(redirectFrom, target), depth+1)
	}

	if e.initialized() && cand.sameAs(from) {
		return Result{Status: StatusDuplicated, Message: "already at target", To: cand, From: from}
	}

	guard := e.beforeGuard
	if matched != nil && matched.guard != nil {
		guard = matched.guard
	}
	if guard != nil {
		decision, gerr := runGuard(ctx, guard, cand, from)
		if gerr != nil {
			return Result{
				Status:       StatusException,
				Message:      "before-guard failed",
				To:           cand,
				From:         from,
				RedirectFrom: redirectFrom,
				Err:          gerr,
			}
		}
		// The guard may have blocked; a newer navigation claimed the
		// engine in the meantime.
		if e.task.Load() != task {
			return Result{Status: StatusCancelled, Message: "superseded during guard", To: cand, From: from}
		}
		if decision.IsAbort() {
			return Result{Status: StatusAborted, Message: "rejected by guard", To: cand, From: from, RedirectFrom: redirectFrom}
		}
		if decision.IsRedirect() {
			next := decision.Target()
			next.Replace = next.Replace || target.Replace
			return e.run(ctx, next, task, opts, firstTarget(redirectFrom, target), depth+1)
		}
	}

	return e.commit(cand, from, matched, target.Replace, task, opts, redirectFrom)
}

// commit persists the address and patches the live location, re-checking
// the task fence under the lock so a superseded navigation can never
// overwrite a newer one.
func (e *Engine) commit(cand, from *Location, matched *Route, replace bool, task uint64, opts navOptions, redirectFrom *Target) Result {
	e.mu.Lock()
	if e.task.Load() != task {
		e.mu.Unlock()
		return Result{Status: StatusCancelled, Message: "superseded before commit", To: cand, From: from}
	}

	persist := !opts.external
	if opts.external && opts.externalHref != cand.FullPath {
		// The backend address did not survive normalization; rewrite it
		// in place so the bar shows the canonical form.
		e.emit(DiagExternalMismatch, "external address normalized differently", map[string]any{
			"href":       opts.externalHref,
			"normalized": cand.FullPath,
		})
		persist = true
		replace = true
	}
	if persist {
		if err := e.adapter.Persist(cand.FullPath, replace); err != nil {
			e.mu.Unlock()
			return Result{
				Status:       StatusException,
				Message:      "history persist failed",
				To:           cand,
				From:         from,
				RedirectFrom: redirectFrom,
				Err:          err,
			}
		}
	}

	e.live.patchFrom(cand)
	e.committed = true
	to := e.live
	e.mu.Unlock()

	if e.afterGuard != nil {
		e.afterGuard(to, from)
	}
	if e.scroll != nil {
		e.scroll(to, from)
	}

	status, msg := StatusSuccess, "navigation committed"
	if matched == nil && e.fallback == nil {
		status, msg = StatusNotMatched, "no route matched"
	}
	return Result{Status: status, Message: msg, To: cand, From: from, RedirectFrom: redirectFrom}
}

func (e *Engine) initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committed
}

// buildLocation resolves a target into a candidate location: named
// targets generate their path first, then the address is decomposed,
// normalized, and matched. The returned route is the deepest match,
// group nodes included; it is nil when nothing matched.
func (e *Engine) buildLocation(target Target) (*Location, *Route, error) {
	index := strings.TrimSpace(target.Index)
	if index == "" {
		return nil, nil, ErrEmptyPath
	}

	raw := index
	if !strings.HasPrefix(index, "/") {
		generated, err := e.reg.generate(index, target.Params)
		if err != nil {
			return nil, nil, err
		}
		raw = generated
	}

	// The raw address may carry query and fragment, e.g. when replayed
	// from the history backend.
	base, frag := pathutil.SplitHash(raw)
	pathPart, rawQuery, _ := strings.Cut(base, "?")
	query := pathutil.DecodeQuery(rawQuery)
	for k, v := range target.Query {
		query[k] = v
	}
	hash := pathutil.NormalizeHash(target.Hash)
	if hash == "" {
		hash = frag
	}

	norm := e.reg.fold(pathutil.Normalize(pathPart))

	loc := newLocation(index, norm, "")
	loc.Query = query
	loc.Hash = hash

	var matched *Route
	if res, ok := e.reg.match(norm); ok {
		matched = res.route
		loc.Suffix = res.suffix
		if res.suffix != "" {
			loc.Path = strings.TrimSuffix(norm, "."+res.suffix)
		}
		loc.Params = res.params
		loc.Meta = res.meta
		loc.Matched = res.chain
	}

	loc.FullPath = e.composeFullPath(
		pathutil.JoinSuffix(loc.Path, loc.Suffix),
		pathutil.EncodeQuery(query),
		hash,
	)
	return loc, matched, nil
}

// runGuard invokes a before-guard with panic containment: a panicking
// guard terminates its navigation with an exception instead of taking
// the process down.
func runGuard(ctx context.Context, guard BeforeGuard, to, from *Location) (d Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("before-guard panic: %v", r)
		}
	}()
	return guard(ctx, to, from)
}

// firstTarget keeps the earliest redirect origin across a redirect chain.
func firstTarget(existing *Target, current Target) *Target {
	if existing != nil {
		return existing
	}
	return &current
}
