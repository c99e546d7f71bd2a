package sheets

import (
	"context"

	"tally/internal/audit"
)

// AuditSink receives audit events for durable external storage. The
// worker drains the audit queue into one of these.
type AuditSink interface {
	Append(ctx context.Context, ev audit.Event) (rowRef string, err error)
}
