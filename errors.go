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
	"errors"

	"rivaas.dev/navigator/pathutil"
)

// Configuration errors fail fast and synchronously at registration or
// path-generation time. Navigation outcomes are never errors; they are
// reported through [Result.Status].
var (
	// ErrEmptyPath indicates a route spec whose path is empty after trimming.
	ErrEmptyPath = errors.New("route path must not be empty")

	// ErrDuplicateName indicates a route name that is already registered.
	ErrDuplicateName = errors.New("duplicate route name")

	// ErrDuplicatePath indicates a route path that is already registered.
	ErrDuplicatePath = errors.New("duplicate route path")

	// ErrInvalidView indicates a nil entry in a route's named-view map.
	ErrInvalidView = errors.New("route view must not be nil")

	// ErrNoRenderable indicates a route with no views, no children, and
	// no redirect: nothing to render and nowhere to forward.
	ErrNoRenderable = errors.New("route has neither views, children, nor redirect")

	// ErrNoRedirectTarget indicates a group route whose descendants carry
	// neither a redirect nor a view, so the group can never resolve to
	// anything renderable.
	ErrNoRedirectTarget = errors.New("group route has no renderable descendant")

	// ErrRouteNotFound indicates that the specified route could not be
	// resolved by path or name.
	ErrRouteNotFound = errors.New("route not found")

	// ErrMissingParam indicates a mandatory template variable without a
	// value during path generation. Aliased from pathutil so callers can
	// match it without importing both packages.
	ErrMissingParam = pathutil.ErrMissingParam

	// ErrOptionalOrder indicates a mandatory variable after an optional
	// one in the same path template. Aliased from pathutil.
	ErrOptionalOrder = pathutil.ErrOptionalOrder

	// ErrRedirectLoop indicates that a navigation exceeded the configured
	// redirect limit.
	ErrRedirectLoop = errors.New("redirect limit exceeded")

	// ErrRedirectLimitInvalid indicates a non-positive redirect limit.
	ErrRedirectLimitInvalid = errors.New("redirect limit must be positive")

	// ErrBasePathInvalid indicates a base path that does not start with
	// the path separator.
	ErrBasePathInvalid = errors.New("base path must start with '/'")

	// ErrHistoryRequired indicates a browser-path or hash mode engine
	// without a history adapter. Only memory mode has a usable default.
	ErrHistoryRequired = errors.New("history adapter required for this mode")

	// ErrAlreadyInitialized indicates a second attempt to install the
	// process-wide default engine.
	ErrAlreadyInitialized = errors.New("default engine already initialized")
)
