// Package initiative keeps the combat turn order. The list is in-memory
// process state, like the original table at the table: it does not survive
// a restart and that is fine.
package initiative

import (
	"sort"
	"strings"
	"sync"
)

// Entry is one combatant in the order.
type Entry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Tracker is a mutex-guarded name-to-initiative map.
type Tracker struct {
	mu     sync.Mutex
	values map[string]int
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{values: make(map[string]int)}
}

// Set adds a combatant or replaces their value.
func (t *Tracker) Set(name string, value int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values[name] = value
}

// Remove deletes the first combatant whose name contains the given
// substring, case-insensitively, and reports whether one was found.
func (t *Tracker) Remove(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	needle := strings.ToLower(name)
	for k := range t.values {
		if strings.Contains(strings.ToLower(k), needle) {
			delete(t.values, k)
			return true
		}
	}
	return false
}

// Clear empties the order.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values = make(map[string]int)
}

// Entries returns the order sorted by value descending, names ascending on
// ties so the output is stable.
func (t *Tracker) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, 0, len(t.values))
	for name, value := range t.values {
		out = append(out, Entry{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}
