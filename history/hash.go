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

// Hash is a history adapter that keeps the application address in the
// URL fragment, so navigation works without server-side path support.
//
// A host that implements fragment writes via location.hash fires a
// change event for the adapter's own writes; Hash remembers the last
// fragment it wrote and swallows the matching event so the engine only
// sees genuinely external changes.
type Hash struct {
	bridge Bridge

	mu          sync.Mutex
	lastWritten string
}

// NewHash creates a fragment-based adapter over the given bridge. When
// the current address has no fragment, an initial "#/" is written in
// place so the restored address always parses.
func NewHash(bridge Bridge) *Hash {
	h := &Hash{bridge: bridge}
	href := bridge.Href()
	if fragmentOf(href) == "" {
		href = strings.TrimSuffix(href, "#") + "#/"
		bridge.ReplaceState(href)
		h.lastWritten = "/"
	}
	return h
}

// Persist implements [Adapter].
func (h *Hash) Persist(href string, replace bool) error {
	h.mu.Lock()
	h.lastWritten = fragmentOf(href)
	h.mu.Unlock()

	if replace {
		h.bridge.ReplaceState(href)
	} else {
		h.bridge.PushState(href)
	}
	return nil
}

// Restore implements [Adapter].
func (h *Hash) Restore() (string, bool) {
	href := h.bridge.Href()
	return href, href != ""
}

// Go implements [Adapter].
func (h *Hash) Go(delta int) error {
	if delta == 0 {
		return ErrOutOfRange
	}
	h.bridge.Go(delta)
	return nil
}

// Subscribe implements [Adapter]. Change events whose fragment equals
// the adapter's own last write are swallowed.
func (h *Hash) Subscribe(fn func(string)) func() {
	return h.bridge.OnChange(func(href string) {
		h.mu.Lock()
		own := h.lastWritten != "" && h.lastWritten == fragmentOf(href)
		if own {
			h.lastWritten = ""
		}
		h.mu.Unlock()
		if own {
			return
		}
		fn(href)
	})
}

// fragmentOf returns everything after the first '#', or empty.
func fragmentOf(href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		return href[i+1:]
	}
	return ""
}
