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

import "sync"

// Browser is a history adapter over real host paths: addresses persist
// through pushState/replaceState and restore from the full href. It also
// keeps a per-entry scroll position side channel for scroll-restoring
// behaviors.
type Browser struct {
	bridge Bridge

	mu     sync.Mutex
	scroll map[string][2]int
}

// NewBrowser creates a browser-path adapter over the given bridge.
func NewBrowser(bridge Bridge) *Browser {
	return &Browser{bridge: bridge, scroll: make(map[string][2]int)}
}

// Persist implements [Adapter].
func (b *Browser) Persist(href string, replace bool) error {
	if replace {
		b.bridge.ReplaceState(href)
	} else {
		b.bridge.PushState(href)
	}
	return nil
}

// Restore implements [Adapter].
func (b *Browser) Restore() (string, bool) {
	href := b.bridge.Href()
	return href, href != ""
}

// Go implements [Adapter]. Range errors can not be detected through the
// host API; out-of-range moves are silently absorbed by the host and
// never produce a change event.
func (b *Browser) Go(delta int) error {
	if delta == 0 {
		return ErrOutOfRange
	}
	b.bridge.Go(delta)
	return nil
}

// Subscribe implements [Adapter]. pushState never triggers a host change
// event, so every event delivered here is genuinely external.
func (b *Browser) Subscribe(fn func(string)) func() {
	return b.bridge.OnChange(fn)
}

// SaveScroll records the viewport position for the current entry.
func (b *Browser) SaveScroll(x, y int) {
	href := b.bridge.Href()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scroll[href] = [2]int{x, y}
}

// SavedScroll returns the recorded viewport position for the current
// entry, if any.
func (b *Browser) SavedScroll() (x, y int, ok bool) {
	href := b.bridge.Href()
	b.mu.Lock()
	defer b.mu.Unlock()
	pos, ok := b.scroll[href]
	return pos[0], pos[1], ok
}
