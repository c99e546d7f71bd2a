package services

import (
	"context"
	"fmt"
	"time"

	"tally/internal/audit"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/secure"
	"tally/internal/storage"
)

// TransactionService is the write path for single transactions. It owns
// the cross-cutting pieces the repository does not: notes encryption,
// modification stamps and audit events.
type TransactionService struct {
	store *storage.SQLiteRepository
	audit audit.Recorder
	enc   secure.Encryptor
	actor string
	log   *log.Logger
}

func NewTransactionService(store *storage.SQLiteRepository, recorder audit.Recorder, enc secure.Encryptor, actor string, logger *log.Logger) *TransactionService {
	return &TransactionService{
		store: store,
		audit: recorder,
		enc:   enc,
		actor: actor,
		log:   logger.WithComponent(log.ComponentLedger),
	}
}

// Create persists a new transaction, sealing its notes and recording the
// audit event. Audit failures are logged, never surfaced: the ledger write
// already happened.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.NotesSealed = s.sealNotes(ctx, tx.Notes)
	tx.ModifiedAt = time.Now().UTC()
	tx.ModifiedBy = s.actor

	release, err := s.store.AcquireWriter(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	defer release()

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.record(ctx, audit.NewEvent(audit.KindTransactionCreated, tx.ID, s.actor))

	s.log.InfoContext(ctx, "transaction created",
		log.FieldOperation, log.OpCreate,
		log.FieldTransaction, tx.ID,
		log.FieldAmount, tx.Amount.String())
	return tx, nil
}

// Update rewrites an existing transaction. The modification stamp and
// sealed notes are re-derived here; fieldsChanged names what the caller
// touched and travels on the audit event.
func (s *TransactionService) Update(ctx context.Context, tx core.Transaction, fieldsChanged ...string) (core.Transaction, error) {
	tx.NotesSealed = s.sealNotes(ctx, tx.Notes)
	tx.ModifiedAt = time.Now().UTC()
	tx.ModifiedBy = s.actor

	release, err := s.store.AcquireWriter(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	defer release()

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.record(ctx, audit.NewEvent(audit.KindTransactionUpdated, tx.ID, s.actor, fieldsChanged...))

	s.log.InfoContext(ctx, "transaction updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldTransaction, tx.ID)
	return tx, nil
}

func (s *TransactionService) record(ctx context.Context, ev audit.Event) {
	if err := s.audit.Record(ctx, ev); err != nil {
		s.log.WarnContext(ctx, "audit record failed",
			log.FieldEventKind, ev.Kind,
			log.FieldEntityID, ev.EntityID,
			log.FieldError, err)
	}
}

func (s *TransactionService) sealNotes(ctx context.Context, notes string) []byte {
	if notes == "" {
		return nil
	}
	sealed, err := s.enc.Encrypt([]byte(notes))
	if err != nil {
		s.log.ErrorContext(ctx, "notes encryption failed",
			log.FieldOperation, log.OpEncrypt,
			log.FieldError, err)
		return nil
	}
	return sealed
}
