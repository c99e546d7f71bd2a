package amqp

import (
	"encoding/json"

	"tally/internal/audit"
)

// AuditMessage is the wire form of an audit event. The full entity is not
// shipped; consumers that need more fetch it from the ledger store.
type AuditMessage struct {
	audit.Event
}

// NewAuditMessage wraps an audit event for publishing.
func NewAuditMessage(ev audit.Event) *AuditMessage {
	return &AuditMessage{Event: ev}
}

// ToJSON converts the message to JSON bytes.
func (m *AuditMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AuditMessageFromJSON creates a message from JSON bytes.
func AuditMessageFromJSON(data []byte) (*AuditMessage, error) {
	var msg AuditMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
