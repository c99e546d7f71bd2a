// Package audit defines the audit-log capability. Recording is
// fire-and-forget: a failing recorder must never fail the ledger
// operation that triggered it, so callers log and continue.
package audit

import (
	"context"
	"time"
)

// Event kinds emitted by the ledger.
const (
	KindTransactionCreated = "transaction.created"
	KindTransactionUpdated = "transaction.updated"
	KindTransactionImport  = "transaction.imported"
	KindSubscriptionBilled = "subscription.billed"
	KindAccountDeleted     = "account.deleted"
)

// Event describes one auditable change.
type Event struct {
	Kind          string    `json:"kind"`
	EntityID      string    `json:"entity_id"`
	ActorID       string    `json:"actor_id"`
	FieldsChanged []string  `json:"fields_changed,omitempty"`
	At            time.Time `json:"at"`
}

// NewEvent stamps an event with the current time.
func NewEvent(kind, entityID, actorID string, fieldsChanged ...string) Event {
	return Event{
		Kind:          kind,
		EntityID:      entityID,
		ActorID:       actorID,
		FieldsChanged: fieldsChanged,
		At:            time.Now().UTC(),
	}
}

// Recorder ships audit events somewhere. Implementations must tolerate
// concurrent calls.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// Nop discards all events.
type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }

// Memory collects events in order, for tests.
type Memory struct {
	Events []Event
}

func (m *Memory) Record(_ context.Context, ev Event) error {
	m.Events = append(m.Events, ev)
	return nil
}
