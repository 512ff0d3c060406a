// Package errlog keeps the most recent unexpected errors in memory so an
// admin can inspect them from chat without grepping server logs. The buffer
// is capacity-bounded and evicts oldest first.
package errlog

import (
	"sync"
	"time"
)

// DefaultCapacity is how many errors a Log built by New retains.
const DefaultCapacity = 50

// Entry is one recorded error.
type Entry struct {
	Time    time.Time `json:"time"`
	Origin  string    `json:"origin"`  // what was being handled, e.g. method and path
	Message string    `json:"message"` // the error text
}

// Log is a fixed-capacity ring buffer of error entries.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// New returns a Log with DefaultCapacity.
func New() *Log {
	return NewWithCapacity(DefaultCapacity)
}

// NewWithCapacity returns a Log retaining at most capacity entries.
func NewWithCapacity(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{entries: make([]Entry, capacity)}
}

// Record appends an error, evicting the oldest entry when full.
func (l *Log) Record(origin string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[l.next] = Entry{Time: time.Now().UTC(), Origin: origin, Message: err.Error()}
	l.next++
	if l.next == len(l.entries) {
		l.next = 0
		l.full = true
	}
}

// Last returns up to n entries, newest first.
func (l *Log) Last(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	size := l.next
	if l.full {
		size = len(l.entries)
	}
	if n <= 0 || n > size {
		n = size
	}
	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (l.next - i + len(l.entries)) % len(l.entries)
		out = append(out, l.entries[idx])
	}
	return out
}
