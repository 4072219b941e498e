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

// Target is a transient navigation request. It is not retained past the
// navigation call that consumed it, except as [Result.RedirectFrom] when
// a guard or route redirect changed the destination.
type Target struct {
	// Index is the navigation key: an absolute path ("/users/42") or a
	// registered route name ("user").
	Index string

	// Params supplies values for the route's dynamic variables when
	// Index is a route name.
	Params map[string]string

	// Query overrides the query parameters of the destination.
	Query map[string]string

	// Hash overrides the fragment of the destination (with or without
	// the leading '#').
	Hash string

	// Replace requests replacing the current history entry instead of
	// pushing a new one.
	Replace bool
}

// To builds a Target for the given path or route name.
func To(index string) Target { return Target{Index: index} }
