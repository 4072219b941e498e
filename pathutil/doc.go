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

// Package pathutil provides path normalization, suffix handling, query
// encoding, parameter interpolation, and route template compilation for
// the navigator engine.
//
// All functions are pure string transformations with no dependencies on
// the engine itself, which keeps them independently testable and reusable
// from both the registry and the history adapters.
//
// Route templates use brace syntax for dynamic variables:
//
//	/users/{id}          mandatory variable
//	/files/{name?}       optional trailing variable
//	/a/{b?}/{c?}         multiple optional trailing variables
//
// Once an optional variable appears, every later variable in the same
// template must also be optional; [CompilePattern] rejects templates that
// violate this because matching by trailing segment count would otherwise
// be ambiguous.
package pathutil
