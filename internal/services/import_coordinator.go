package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tally/internal/audit"
	"tally/internal/core"
	"tally/internal/importer"
	"tally/internal/log"
	"tally/internal/secure"
	"tally/internal/storage"
)

// ImportResult summarizes one import run. Errors are row-scoped: a failed
// row never aborts the run, and Success reports whether every row landed.
type ImportResult struct {
	Success              bool
	TransactionsImported int
	Errors               []error
	Warnings             []importer.Warning
}

// Importer drives the CSV import pipeline: tokenize, map columns, convert
// rows, resolve references and persist, isolating per-row failures.
type Importer struct {
	store *storage.SQLiteRepository
	audit audit.Recorder
	enc   secure.Encryptor
	actor string
	log   *log.Logger
}

func NewImporter(store *storage.SQLiteRepository, recorder audit.Recorder, enc secure.Encryptor, actor string, logger *log.Logger) *Importer {
	return &Importer{
		store: store,
		audit: recorder,
		enc:   enc,
		actor: actor,
		log:   logger.WithComponent(log.ComponentImport),
	}
}

// ImportFile opens path and runs the import pipeline on its contents.
func (im *Importer) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, &importer.FileAccessError{Path: path, Err: err}
	}
	defer f.Close()
	return im.ImportReader(ctx, f)
}

// ImportReader runs the import pipeline on r. File-level problems (empty
// input, unmappable header) fail the whole run; everything after the
// header is handled row by row, collecting errors and warnings per line.
func (im *Importer) ImportReader(ctx context.Context, r io.Reader) (ImportResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return ImportResult{}, fmt.Errorf("read import input: %w", err)
	}
	if len(lines) == 0 || (len(lines) == 1 && strings.TrimSpace(lines[0]) == "") {
		return ImportResult{}, importer.ErrEmptyFile
	}

	cm := importer.MapHeader(importer.SplitLine(lines[0]))
	if missing := cm.Missing(); len(missing) > 0 {
		return ImportResult{}, &importer.MissingFieldError{Field: missing[0]}
	}

	release, err := im.store.AcquireWriter(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	defer release()

	result := ImportResult{}
	for i, line := range lines[1:] {
		lineNo := i + 2 // 1-based file line, header is line 1
		if strings.TrimSpace(line) == "" {
			continue
		}
		warning, err := im.importRow(ctx, cm, line, lineNo)
		if warning != nil {
			result.Warnings = append(result.Warnings, *warning)
		}
		if err != nil {
			im.log.WarnContext(ctx, "row rejected",
				log.FieldOperation, log.OpImport,
				log.FieldRow, lineNo,
				log.FieldError, err)
			result.Errors = append(result.Errors, &importer.RowError{Line: lineNo, Err: err})
			continue
		}
		result.TransactionsImported++
	}
	result.Success = len(result.Errors) == 0

	im.log.InfoContext(ctx, "import finished",
		log.FieldOperation, log.OpImport,
		log.FieldRowCount, result.TransactionsImported,
		log.FieldSuccess, result.Success)
	return result, nil
}

func (im *Importer) importRow(ctx context.Context, cm importer.ColumnMap, line string, lineNo int) (*importer.Warning, error) {
	row, warning, err := importer.ConvertRow(cm, importer.SplitLine(line), lineNo)
	if err != nil {
		return warning, err
	}

	tx := core.NewTransaction(row.Title, row.Amount, row.Date, row.Type)
	tx.Notes = row.Notes
	tx.NotesSealed = im.sealNotes(ctx, row.Notes)
	tx.ModifiedBy = im.actor

	if row.AccountName != "" {
		account, err := im.store.GetAccountByName(ctx, row.AccountName)
		switch {
		case err == nil:
			tx.AccountID = account.ID
			tx.CurrencyCode = account.CurrencyCode
		case errors.Is(err, storage.ErrNotFound):
			// Unknown reference: the transaction stays unassigned.
		default:
			return warning, err
		}
	}
	if row.CategoryName != "" {
		category, err := im.store.GetCategoryByName(ctx, row.CategoryName)
		switch {
		case err == nil:
			tx.CategoryID = category.ID
		case errors.Is(err, storage.ErrNotFound):
		default:
			return warning, err
		}
	}

	if err := tx.Validate(); err != nil {
		return warning, err
	}
	if err := im.store.CreateTransaction(ctx, tx); err != nil {
		return warning, err
	}

	if err := im.audit.Record(ctx, audit.NewEvent(audit.KindTransactionImport, tx.ID, im.actor)); err != nil {
		im.log.WarnContext(ctx, "audit record failed",
			log.FieldOperation, log.OpImport,
			log.FieldTransaction, tx.ID,
			log.FieldError, err)
	}
	return warning, nil
}

// sealNotes encrypts notes for persistence. Encryption failure is logged
// and yields nil: a transaction is never lost over its notes.
func (im *Importer) sealNotes(ctx context.Context, notes string) []byte {
	if notes == "" {
		return nil
	}
	sealed, err := im.enc.Encrypt([]byte(notes))
	if err != nil {
		im.log.ErrorContext(ctx, "notes encryption failed",
			log.FieldOperation, log.OpEncrypt,
			log.FieldError, err)
		return nil
	}
	return sealed
}
