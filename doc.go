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

// Package navigator implements client-side navigation for component
// based UIs: a route registry with static and dynamic matching, a
// guarded navigation pipeline, and pluggable session-history backends.
//
// # Routes
//
// Routes are declared as [RouteSpec] trees and registered on an
// [Engine]. Dynamic segments use brace syntax, with '?' marking
// optional trailing variables:
//
//	e := navigator.MustNew()
//	err := e.AddRoute(navigator.RouteSpec{
//	    Path: "/users/{id}",
//	    Name: "user",
//	    View: userView,
//	    Children: []navigator.RouteSpec{
//	        {Path: "posts/{post?}", View: postsView},
//	    },
//	})
//
// Child paths extend their parent's; the route above also registers
// /users/{id}/posts/{post?}. Registration of a batch is atomic: a
// duplicate name or path anywhere in the batch registers nothing.
//
// # Navigation
//
// Navigations go through [Engine.Push] and [Engine.Replace] and report
// their outcome as a [Result] rather than an error:
//
//	res := e.Push(ctx, navigator.To("/users/42"))
//	if res.OK() {
//	    render(res.To)
//	}
//
// Before-guards run ahead of each commit and may continue, abort, or
// redirect the navigation. Guards are free to block; the engine fences
// every navigation with a task id, and a navigation superseded while
// its guard runs terminates with [StatusCancelled] instead of
// committing stale state.
//
// # History
//
// Addresses persist through a history.Adapter. The in-memory backend
// suits tests and server-side use; the browser-path and hash backends
// drive a host environment and replay external address changes
// (back/forward, address-bar edits) through the same pipeline.
package navigator
