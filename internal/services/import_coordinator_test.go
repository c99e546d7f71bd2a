package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"tally/internal/audit"
	"tally/internal/core"
	"tally/internal/importer"
	"tally/internal/log"
	"tally/internal/secure"
	"tally/internal/storage"
)

func newTestStore(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "tally.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTestImporter(t *testing.T, store *storage.SQLiteRepository, rec audit.Recorder) *Importer {
	t.Helper()
	if rec == nil {
		rec = audit.Nop{}
	}
	return NewImporter(store, rec, secure.Noop{}, "tester", log.New(log.DefaultConfig()))
}

func TestImportReaderCleanFile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	checking := core.NewAccount("Checking", core.Checking, "USD")
	checking.Balance = core.MustMoney("100")
	if err := store.CreateAccount(ctx, checking); err != nil {
		t.Fatalf("create account: %v", err)
	}
	groceries := core.NewCategory("Groceries", "cart")
	if err := store.CreateCategory(ctx, groceries); err != nil {
		t.Fatalf("create category: %v", err)
	}

	rec := &audit.Memory{}
	im := newTestImporter(t, store, rec)

	input := strings.Join([]string{
		"Date,Description,Amount,Type,Account,Category",
		"2024-03-01,Salary,2500.00,income,Checking,",
		"2024-03-02,Weekly shop,-45.50,expense,Checking,Groceries",
	}, "\n")

	result, err := im.ImportReader(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !result.Success || result.TransactionsImported != 2 {
		t.Fatalf("expected clean import of 2 rows, got %+v", result)
	}
	if len(result.Errors) != 0 || len(result.Warnings) != 0 {
		t.Fatalf("unexpected errors/warnings: %+v", result)
	}

	got, err := store.GetAccount(ctx, checking.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !got.Balance.Equal(core.MustMoney("2554.50")) {
		t.Fatalf("expected balance 2554.50, got %s", got.Balance)
	}

	txs, err := store.ListTransactionsByAccount(ctx, checking.ID)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	var shop core.Transaction
	for _, tx := range txs {
		if tx.Title == "Weekly shop" {
			shop = tx
		}
	}
	if shop.CategoryID != groceries.ID {
		t.Fatalf("expected category resolved, got %q", shop.CategoryID)
	}
	if !shop.Amount.Equal(core.MustMoney("45.50")) {
		t.Fatalf("amount must be stored as magnitude, got %s", shop.Amount)
	}
	if len(rec.Events) != 2 {
		t.Fatalf("expected 2 audit events, got %d", len(rec.Events))
	}
	if rec.Events[0].Kind != audit.KindTransactionImport {
		t.Fatalf("unexpected audit kind %q", rec.Events[0].Kind)
	}
}

func TestImportReaderIsolatesBadRows(t *testing.T) {
	ctx := context.Background()
	im := newTestImporter(t, newTestStore(t), nil)

	input := strings.Join([]string{
		"date,title,amount",
		"2024-03-01,Coffee,4.50",
		"not-a-date,Broken,10.00",
		"2024-03-03,Books,22.00",
	}, "\n")

	result, err := im.ImportReader(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Success {
		t.Fatalf("run with a bad row must not report success")
	}
	if result.TransactionsImported != 2 {
		t.Fatalf("good rows must survive, imported %d", result.TransactionsImported)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 row error, got %d", len(result.Errors))
	}
	var rowErr *importer.RowError
	if !errors.As(result.Errors[0], &rowErr) {
		t.Fatalf("expected RowError, got %T", result.Errors[0])
	}
	if rowErr.Line != 3 {
		t.Fatalf("expected failure at line 3, got %d", rowErr.Line)
	}
	var dateErr *importer.DateFormatError
	if !errors.As(rowErr, &dateErr) {
		t.Fatalf("expected DateFormatError inside, got %v", rowErr)
	}
}

func TestImportReaderWarnsOnUnrecognizedType(t *testing.T) {
	ctx := context.Background()
	im := newTestImporter(t, newTestStore(t), nil)

	input := strings.Join([]string{
		"date,title,amount,type",
		"2024-03-01,Refund,15.00,reversal",
	}, "\n")

	result, err := im.ImportReader(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !result.Success || result.TransactionsImported != 1 {
		t.Fatalf("tolerated row must import, got %+v", result)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Line != 2 {
		t.Fatalf("expected one warning at line 2, got %+v", result.Warnings)
	}
}

func TestImportReaderFileLevelFailures(t *testing.T) {
	ctx := context.Background()
	im := newTestImporter(t, newTestStore(t), nil)

	if _, err := im.ImportReader(ctx, strings.NewReader("")); !errors.Is(err, importer.ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}

	_, err := im.ImportReader(ctx, strings.NewReader("title,notes\nCoffee,good"))
	var missing *importer.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
}

func TestImportFileMissingPath(t *testing.T) {
	im := newTestImporter(t, newTestStore(t), nil)
	_, err := im.ImportFile(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	var access *importer.FileAccessError
	if !errors.As(err, &access) {
		t.Fatalf("expected FileAccessError, got %v", err)
	}
}

func TestImportReaderUnknownReferencesStayUnassigned(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	im := newTestImporter(t, store, nil)

	input := strings.Join([]string{
		"date,title,amount,account,category",
		"2024-03-01,Coffee,4.50,NoSuchAccount,NoSuchCategory",
	}, "\n")

	result, err := im.ImportReader(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !result.Success || result.TransactionsImported != 1 {
		t.Fatalf("unknown references must not fail the row, got %+v", result)
	}
	txs, err := store.ListTransactionsBetween(ctx, core.MustDate("2024-03-01"), core.MustDate("2024-03-02"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || txs[0].AccountID != "" || txs[0].CategoryID != "" {
		t.Fatalf("expected one unassigned transaction, got %+v", txs)
	}
}
