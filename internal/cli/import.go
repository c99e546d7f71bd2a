package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"tally/internal/services"
)

type importCmd struct {
	app *App
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a CSV file" }
func (*importCmd) Usage() string {
	return `tally import <file.csv>

  Imports transactions from a CSV export. Rows that fail validation are
  reported with their line number; the remaining rows still import.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one file argument.")
		return subcommands.ExitUsageError
	}

	im := services.NewImporter(c.app.Store, c.app.Audit, c.app.Enc, c.app.Cfg.ActorID, c.app.Log)
	result, err := im.ImportFile(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d transactions from %s\n", result.TransactionsImported, f.Arg(0))
	for _, w := range result.Warnings {
		fmt.Printf("  warning: line %d: %s\n", w.Line, w.Message)
	}
	for _, rowErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "  error: %v\n", rowErr)
	}
	if !result.Success {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
