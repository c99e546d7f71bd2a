// Package memory is an in-process audit sink for tests and local runs
// without Sheets credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tally/internal/audit"
	ports "tally/internal/sheets"
)

type Store struct {
	mu     sync.Mutex
	events []audit.Event
}

var _ ports.AuditSink = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append stores the event and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, ev audit.Event) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return fmt.Sprintf("mem:%d", len(s.events)), nil
}

// Events returns a copy of everything appended so far.
func (s *Store) Events() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Event(nil), s.events...)
}
