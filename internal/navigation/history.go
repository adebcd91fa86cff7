// Package navigation tracks the application's location history.
package navigation

import "sync"

// History is an in-process navigation stack. Replace overwrites the current
// entry so the user cannot navigate back into a page they were sent away from.
type History struct {
	mu      sync.RWMutex
	entries []string
	subs    []func(path string, replaced bool)
}

// NewHistory starts the history at start.
func NewHistory(start string) *History {
	if start == "" {
		start = "/"
	}
	return &History{entries: []string{start}}
}

// Push appends path as a new entry.
func (h *History) Push(path string) {
	h.mu.Lock()
	h.entries = append(h.entries, path)
	subs := h.subs
	h.mu.Unlock()
	notify(subs, path, false)
}

// Replace overwrites the current entry with path.
func (h *History) Replace(path string) {
	h.mu.Lock()
	h.entries[len(h.entries)-1] = path
	subs := h.subs
	h.mu.Unlock()
	notify(subs, path, true)
}

// Back pops the current entry and returns the new current location.
// The first entry is never removed.
func (h *History) Back() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) > 1 {
		h.entries = h.entries[:len(h.entries)-1]
	}
	return h.entries[len(h.entries)-1]
}

// Current returns the current location.
func (h *History) Current() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.entries[len(h.entries)-1]
}

// Entries returns a copy of the stack, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.entries...)
}

// OnNavigate registers fn to run after every Push or Replace.
func (h *History) OnNavigate(fn func(path string, replaced bool)) {
	h.mu.Lock()
	h.subs = append(h.subs, fn)
	h.mu.Unlock()
}

func notify(subs []func(string, bool), path string, replaced bool) {
	for _, fn := range subs {
		fn(path, replaced)
	}
}
