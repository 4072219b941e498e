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

// Package history provides the pluggable session-history backends the
// navigation engine persists addresses through.
//
// Three adapters ship with the package: [Memory] keeps an in-process
// entry stack and suits tests and server-side rendering, while [Browser]
// and [Hash] drive a host environment through the [Bridge] interface,
// using real paths or the URL fragment respectively.
//
// Adapters deal in opaque address strings. The engine composes the
// address for its mode; the adapter stores and restores it verbatim.
package history

import "errors"

// ErrOutOfRange indicates a relative history move past either end of the
// entry stack. The stack is left unmodified.
var ErrOutOfRange = errors.New("history: move out of range")

// Adapter persists navigation addresses and replays externally triggered
// address changes back to its subscriber.
//
// Persist returning nil is the durability signal: the engine only
// commits a navigation to its live location after Persist succeeds.
type Adapter interface {
	// Persist records href as the current address, either pushing a new
	// entry or replacing the current one.
	Persist(href string, replace bool) error

	// Restore returns the current address, if the backend has one.
	// Engines use it to establish the initial location.
	Restore() (href string, ok bool)

	// Go moves relative to the current entry: negative is back, positive
	// is forward. Moves past either end return ErrOutOfRange without
	// moving. The resulting address change is delivered asynchronously
	// through Subscribe, exactly like an externally triggered one.
	Go(delta int) error

	// Subscribe registers fn to receive externally triggered address
	// changes (history traversal, manual edits of the address bar). The
	// returned cancel function removes the subscription.
	Subscribe(fn func(href string)) (cancel func())
}
