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

package history

import (
	"strings"
	"sync"
)

// Bridge abstracts the host environment's session history: a browser's
// window.history and window.location in a WASM build, or a test double
// anywhere else. The [Browser] and [Hash] adapters drive their host
// exclusively through this interface.
type Bridge interface {
	// Href returns the current address, path and query and fragment
	// included.
	Href() string

	// PushState records href as a new history entry without reloading.
	PushState(href string)

	// ReplaceState overwrites the current history entry with href.
	ReplaceState(href string)

	// Go moves delta entries through the host history. The resulting
	// address change arrives asynchronously through OnChange.
	Go(delta int)

	// OnChange registers fn for host-initiated address changes: history
	// traversal, link clicks the host routes back, manual address-bar
	// edits. The returned cancel removes the registration.
	OnChange(fn func(href string)) (cancel func())
}

// FakeBridge is an in-process [Bridge] for tests. It mirrors browser
// behavior: PushState and ReplaceState update the address silently, Go
// traverses the entry stack and fires the change callbacks, and
// SetHash simulates a user edit of the fragment.
type FakeBridge struct {
	mu      sync.Mutex
	entries []string
	cursor  int

	subs   map[int]func(string)
	nextID int
}

// NewFakeBridge creates a fake bridge positioned at the given address.
func NewFakeBridge(href string) *FakeBridge {
	return &FakeBridge{
		entries: []string{href},
		subs:    make(map[int]func(string)),
	}
}

// Href implements [Bridge].
func (f *FakeBridge) Href() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[f.cursor]
}

// PushState implements [Bridge].
func (f *FakeBridge) PushState(href string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries[:f.cursor+1], href)
	f.cursor = len(f.entries) - 1
}

// ReplaceState implements [Bridge].
func (f *FakeBridge) ReplaceState(href string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[f.cursor] = href
}

// Go implements [Bridge]. Out-of-range moves are silently ignored, like
// a browser's history.go.
func (f *FakeBridge) Go(delta int) {
	f.mu.Lock()
	target := f.cursor + delta
	if delta == 0 || target < 0 || target >= len(f.entries) {
		f.mu.Unlock()
		return
	}
	f.cursor = target
	href := f.entries[f.cursor]
	f.mu.Unlock()
	f.notify(href)
}

// OnChange implements [Bridge].
func (f *FakeBridge) OnChange(fn func(string)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

// SetHash simulates the user editing the fragment in the address bar: it
// replaces the fragment of the current entry in place and fires the
// change callbacks, like a hashchange event.
func (f *FakeBridge) SetHash(fragment string) {
	fragment = strings.TrimPrefix(fragment, "#")
	f.mu.Lock()
	href := f.entries[f.cursor]
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	href += "#" + fragment
	f.entries[f.cursor] = href
	f.mu.Unlock()
	f.notify(href)
}

// Depth returns the number of stacked entries.
func (f *FakeBridge) Depth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func (f *FakeBridge) notify(href string) {
	f.mu.Lock()
	subs := make([]func(string), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()
	for _, fn := range subs {
		fn(href)
	}
}
