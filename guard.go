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

import "context"

// Decision is the tagged result of a before-guard: continue, abort, or
// redirect to a different target. The zero value continues.
type Decision struct {
	kind   decisionKind
	target Target
}

type decisionKind uint8

const (
	decisionContinue decisionKind = iota
	decisionAbort
	decisionRedirect
)

// Continue lets the navigation proceed.
func Continue() Decision { return Decision{} }

// Abort terminates the navigation with [StatusAborted].
func Abort() Decision { return Decision{kind: decisionAbort} }

// RedirectTo restarts the navigation pipeline at the given target. The
// original target is preserved as [Result.RedirectFrom].
func RedirectTo(target Target) Decision {
	return Decision{kind: decisionRedirect, target: target}
}

// IsAbort reports whether the decision aborts the navigation.
func (d Decision) IsAbort() bool { return d.kind == decisionAbort }

// IsRedirect reports whether the decision redirects the navigation.
func (d Decision) IsRedirect() bool { return d.kind == decisionRedirect }

// Target returns the redirect target. Only meaningful when IsRedirect.
func (d Decision) Target() Target { return d.target }

// BeforeGuard runs before a navigation commits. It receives the candidate
// location and a snapshot of the current one, and decides whether the
// navigation continues, aborts, or redirects. Guards may block (awaiting
// user confirmation, fetching authorization, ...); the engine re-validates
// that the navigation is still current after the guard returns, so a
// slow guard on a superseded navigation cannot commit stale state.
//
// Returning a non-nil error terminates the navigation with
// [StatusException]; the live location is left unmodified.
type BeforeGuard func(ctx context.Context, to, from *Location) (Decision, error)

// AfterGuard runs after a navigation has committed and the live location
// has been patched. It cannot affect the navigation.
type AfterGuard func(to, from *Location)

// ScrollBehavior is invoked after a committed navigation, once the
// after-guard has run. Implementations typically restore or reset the
// viewport position.
type ScrollBehavior func(to, from *Location)
