package services

import (
	"context"
	"fmt"
	"os"

	"tally/internal/core"
	"tally/internal/export"
	"tally/internal/log"
	"tally/internal/secure"
	"tally/internal/storage"
)

// ExportService assembles the export projection from storage, resolving
// weak references to names and unsealing notes, then hands it to the
// serializer. The output optionally gets encrypted as a whole.
type ExportService struct {
	store *storage.SQLiteRepository
	enc   secure.Encryptor
	log   *log.Logger
}

func NewExportService(store *storage.SQLiteRepository, enc secure.Encryptor, logger *log.Logger) *ExportService {
	return &ExportService{
		store: store,
		enc:   enc,
		log:   logger.WithComponent(log.ComponentExport),
	}
}

// Export serializes the requested sections for [opts.From, opts.To).
func (s *ExportService) Export(ctx context.Context, opts export.Options) ([]byte, error) {
	data, err := s.collect(ctx, opts)
	if err != nil {
		return nil, err
	}

	out, err := export.Serialize(opts, data)
	if err != nil {
		return nil, err
	}
	if opts.Encrypt {
		out, err = s.enc.Encrypt(out)
		if err != nil {
			return nil, fmt.Errorf("encrypt export: %w", err)
		}
	}

	s.log.InfoContext(ctx, "export finished",
		log.FieldOperation, log.OpExport,
		log.FieldFormat, opts.Format,
		log.FieldRowCount, len(data.Transactions))
	return out, nil
}

// ExportToFile writes an export next to path, appending the extension for
// the chosen format when path carries none.
func (s *ExportService) ExportToFile(ctx context.Context, opts export.Options, path string) (string, error) {
	ext, err := export.FileExtension(opts.Format)
	if err != nil {
		return "", err
	}
	out, err := s.Export(ctx, opts)
	if err != nil {
		return "", err
	}
	if len(path) < len(ext) || path[len(path)-len(ext):] != ext {
		path += ext
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

func (s *ExportService) collect(ctx context.Context, opts export.Options) (export.Data, error) {
	var data export.Data

	accountNames := map[string]string{}
	categoryNames := map[string]string{}
	if opts.Transactions || opts.Accounts {
		accounts, err := s.store.ListAccounts(ctx)
		if err != nil {
			return data, fmt.Errorf("list accounts: %w", err)
		}
		for _, a := range accounts {
			accountNames[a.ID] = a.Name
		}
		if opts.Accounts {
			data.Accounts = accounts
		}
	}
	if opts.Transactions || opts.Categories || opts.Budgets {
		categories, err := s.store.ListCategories(ctx)
		if err != nil {
			return data, fmt.Errorf("list categories: %w", err)
		}
		for _, c := range categories {
			categoryNames[c.ID] = c.Name
		}
		if opts.Categories {
			data.Categories = categories
		}
	}

	if opts.Transactions {
		txs, err := s.store.ListTransactionsBetween(ctx, opts.From, opts.To)
		if err != nil {
			return data, fmt.Errorf("list transactions: %w", err)
		}
		for _, tx := range txs {
			data.Transactions = append(data.Transactions, export.TransactionRow{
				Transaction:  tx,
				Notes:        s.unsealNotes(ctx, tx),
				CategoryName: categoryNames[tx.CategoryID],
				AccountName:  accountNames[tx.AccountID],
			})
		}
	}

	if opts.Budgets {
		budgets, err := s.store.ListBudgets(ctx)
		if err != nil {
			return data, fmt.Errorf("list budgets: %w", err)
		}
		for _, b := range budgets {
			data.Budgets = append(data.Budgets, export.BudgetRow{
				Budget:       b,
				CategoryName: categoryNames[b.CategoryID],
			})
		}
	}
	return data, nil
}

// unsealNotes decrypts a transaction's sealed notes. Decryption failure
// degrades to empty notes so an export never dies over one record.
func (s *ExportService) unsealNotes(ctx context.Context, tx core.Transaction) string {
	if len(tx.NotesSealed) == 0 {
		return ""
	}
	plain, err := s.enc.Decrypt(tx.NotesSealed)
	if err != nil {
		s.log.WarnContext(ctx, "notes decryption failed",
			log.FieldTransaction, tx.ID,
			log.FieldError, err)
		return ""
	}
	return string(plain)
}
