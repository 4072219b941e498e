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

// Memory is an in-process history adapter. It keeps a plain entry stack
// with a cursor; pushing while the cursor is not at the top truncates the
// forward entries, matching browser semantics.
//
// Memory is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries []string
	cursor  int

	subs   map[int]func(string)
	nextID int
}

// NewMemory creates a memory adapter. When initial is non-empty it seeds
// the stack as the current entry.
func NewMemory(initial string) *Memory {
	m := &Memory{subs: make(map[int]func(string))}
	if initial != "" {
		m.entries = []string{initial}
	}
	return m
}

// Persist implements [Adapter].
func (m *Memory) Persist(href string, replace bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if replace && len(m.entries) > 0 {
		m.entries[m.cursor] = href
		return nil
	}
	if len(m.entries) > 0 {
		m.entries = append(m.entries[:m.cursor+1], href)
	} else {
		m.entries = []string{href}
	}
	m.cursor = len(m.entries) - 1
	return nil
}

// Restore implements [Adapter].
func (m *Memory) Restore() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		return "", false
	}
	return m.entries[m.cursor], true
}

// Go implements [Adapter]. A successful move notifies subscribers with
// the address at the new cursor.
func (m *Memory) Go(delta int) error {
	m.mu.Lock()
	target := m.cursor + delta
	if delta == 0 || target < 0 || target >= len(m.entries) {
		m.mu.Unlock()
		return ErrOutOfRange
	}
	m.cursor = target
	href := m.entries[m.cursor]
	subs := make([]func(string), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(href)
	}
	return nil
}

// Subscribe implements [Adapter].
func (m *Memory) Subscribe(fn func(string)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Len returns the number of stacked entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Cursor returns the current entry index.
func (m *Memory) Cursor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}
