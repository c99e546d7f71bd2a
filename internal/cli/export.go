package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"tally/internal/core"
	"tally/internal/export"
	"tally/internal/services"
)

type exportCmd struct {
	app *App

	from    string
	to      string
	format  string
	out     string
	encrypt bool

	transactions bool
	accounts     bool
	categories   bool
	budgets      bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export ledger data to a file" }
func (*exportCmd) Usage() string {
	return `tally export -from <date> -to <date> [-format csv] [-o <file>] [sections...]

  Exports the selected sections for the half-open date range [from, to).
  Without section flags every section is included.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Start date (yyyy-MM-dd), inclusive.")
	f.StringVar(&c.to, "to", "", "End date (yyyy-MM-dd), exclusive.")
	f.StringVar(&c.format, "format", export.FormatCSV, "Output format.")
	f.StringVar(&c.out, "o", "tally-export", "Output file; the format extension is appended when missing.")
	f.BoolVar(&c.encrypt, "encrypt", false, "Encrypt the output with the configured key.")
	f.BoolVar(&c.transactions, "transactions", false, "Include the transactions section.")
	f.BoolVar(&c.accounts, "accounts", false, "Include the accounts section.")
	f.BoolVar(&c.categories, "categories", false, "Include the categories section.")
	f.BoolVar(&c.budgets, "budgets", false, "Include the budgets section.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, err := core.ParseDate(c.from)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing -from:", err)
		return subcommands.ExitUsageError
	}
	to, err := core.ParseDate(c.to)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing -to:", err)
		return subcommands.ExitUsageError
	}

	opts := export.Options{
		From:         from,
		To:           to,
		Transactions: c.transactions,
		Accounts:     c.accounts,
		Categories:   c.categories,
		Budgets:      c.budgets,
		Format:       c.format,
		Encrypt:      c.encrypt,
	}
	if !c.transactions && !c.accounts && !c.categories && !c.budgets {
		opts.Transactions, opts.Accounts, opts.Categories, opts.Budgets = true, true, true, true
	}

	svc := services.NewExportService(c.app.Store, c.app.Enc, c.app.Log)
	path, err := svc.ExportToFile(ctx, opts, c.out)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Exported to", path)
	return subcommands.ExitSuccess
}
