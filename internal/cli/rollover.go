package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"tally/internal/core"
	"tally/internal/services"
)

type rolloverCmd struct {
	app *App

	asOf string
}

func (*rolloverCmd) Name() string     { return "rollover" }
func (*rolloverCmd) Synopsis() string { return "close the budget month and carry unspent amounts" }
func (*rolloverCmd) Usage() string {
	return `tally rollover [-as-of <date>]

  Creates next-month budgets for every budget of the month containing the
  given date (default today), carrying capped unspent amounts forward.
`
}

func (c *rolloverCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asOf, "as-of", "", "Date inside the month to close (yyyy-MM-dd), default today.")
}

func (c *rolloverCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf := core.Today()
	if c.asOf != "" {
		parsed, err := core.ParseDate(c.asOf)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error parsing -as-of:", err)
			return subcommands.ExitUsageError
		}
		asOf = parsed
	}

	reports := services.NewReportService(c.app.Store, c.app.Cfg.ReportCacheTTL, c.app.Log)
	proc := services.NewRolloverProcessor(c.app.Store, reports, c.app.Log)
	created, err := proc.RollPeriod(ctx, asOf)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Rolled %d budgets into %s\n", created, asOf.NextMonthStart())
	return subcommands.ExitSuccess
}
