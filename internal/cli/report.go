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

type reportCmd struct {
	app *App

	month string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "show income, spending and commitments for a month" }
func (*reportCmd) Usage() string {
	return `tally report [-month <date>]

  Prints the month's income, expenses, net movement and the monthly
  equivalent cost of active subscriptions.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Any date inside the month (yyyy-MM-dd), default today.")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	anchor := core.Today()
	if c.month != "" {
		parsed, err := core.ParseDate(c.month)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error parsing -month:", err)
			return subcommands.ExitUsageError
		}
		anchor = parsed
	}
	from := anchor.MonthStart()
	to := from.NextMonthStart()

	reports := services.NewReportService(c.app.Store, c.app.Cfg.ReportCacheTTL, c.app.Log)
	totals, err := reports.Totals(ctx, from, to)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	commitments, err := reports.MonthlyCommitments(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Month %s\n", from)
	fmt.Printf("  income:       %s\n", totals.Income.StringFixed())
	fmt.Printf("  expenses:     %s\n", totals.Expense.StringFixed())
	fmt.Printf("  net:          %s\n", totals.Net.StringFixed())
	fmt.Printf("  subscriptions: %s/month\n", commitments.StringFixed())
	return subcommands.ExitSuccess
}
