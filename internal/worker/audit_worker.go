// Package worker drains the audit queue into an external sink.
package worker

import (
	"context"
	"errors"
	"time"

	"tally/internal/amqp"
	"tally/internal/log"
	"tally/internal/sheets"
)

// AuditWorker consumes audit messages from AMQP and appends them to a
// sink. Delivery is at-least-once: a failed append is requeued by the
// consumer, so sinks must tolerate duplicates.
type AuditWorker struct {
	sink sheets.AuditSink
	log  *log.Logger
}

func NewAuditWorker(sink sheets.AuditSink, logger *log.Logger) *AuditWorker {
	return &AuditWorker{
		sink: sink,
		log:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleAuditMessage appends one audit event to the sink.
func (w *AuditWorker) HandleAuditMessage(ctx context.Context, msg *amqp.AuditMessage) error {
	ref, err := w.sink.Append(ctx, msg.Event)
	if err != nil {
		return err
	}
	w.log.InfoContext(ctx, "audit event stored",
		log.FieldOperation, log.OpConsume,
		log.FieldEventKind, msg.Kind,
		log.FieldEntityID, msg.EntityID,
		"sink_ref", ref)
	return nil
}

// Run consumes until ctx is cancelled, reconnecting with exponential
// backoff when the broker connection drops. connect is called for each
// (re)connection attempt.
func (w *AuditWorker) Run(ctx context.Context, connect func() (*amqp.Client, error)) error {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		client, err := connect()
		if err != nil {
			w.log.ErrorContext(ctx, "broker connection failed",
				log.FieldError, err,
				"attempt", attempt)
			if !sleep(ctx, amqp.Backoff(attempt)) {
				return ctx.Err()
			}
			attempt++
			continue
		}
		attempt = 0

		err = client.ConsumeAuditEvents(ctx, func(msg *amqp.AuditMessage) error {
			return w.HandleAuditMessage(ctx, msg)
		})
		client.Close()

		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return ctx.Err()
		}
		if amqp.IsConnectionError(err) {
			w.log.WarnContext(ctx, "broker connection lost, reconnecting",
				log.FieldError, err)
		} else {
			w.log.ErrorContext(ctx, "consumer stopped, reconnecting",
				log.FieldError, err)
		}
		if !sleep(ctx, amqp.Backoff(attempt)) {
			return ctx.Err()
		}
		attempt++
	}
}

// sleep waits d or until ctx is done, reporting whether the full wait
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
