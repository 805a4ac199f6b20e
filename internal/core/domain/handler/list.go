package handler

import (
	"opsbot/internal/core/domain"
	"opsbot/internal/core/port"
	"sync"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

type Entry struct {
	ID    uuid.UUID
	Match domain.Predicate
	Logic port.HandlerFunc
}

// List is an ordered, concurrency safe sequence of handler entries.
type List struct {
	mu      sync.Mutex
	entries []Entry
}

func newEntry(match domain.Predicate, logic port.HandlerFunc) Entry {
	id, err := uuid.NewV4()
	if err != nil {
		// only fails when the system random source is broken
		log.Error().Err(err).Msg("failed to generate handler id")
	}

	return Entry{ID: id, Match: match, Logic: logic}
}

func (l *List) Add(match domain.Predicate, logic port.HandlerFunc) uuid.UUID {
	entry := newEntry(match, logic)

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	return entry.ID
}

func (l *List) Remove(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, entry := range l.entries {
		if entry.ID == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return true
		}
	}

	return false
}

// Snapshot returns a copy of the current entries in insertion order.
func (l *List) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)

	return entries
}

// Drain returns the current entries and empties the list in one step, so each entry is
// handed out exactly once even when messages are dispatched concurrently.
func (l *List) Drain() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.entries
	l.entries = nil

	return entries
}

func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}
