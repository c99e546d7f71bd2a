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

type billCmd struct {
	app *App

	asOf string
}

func (*billCmd) Name() string     { return "bill" }
func (*billCmd) Synopsis() string { return "bill every subscription that is due" }
func (*billCmd) Usage() string {
	return `tally bill [-as-of <date>]

  Records one payment for every active subscription due as of the given
  date (default today) and advances its next due date one cycle.
`
}

func (c *billCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asOf, "as-of", "", "Billing date (yyyy-MM-dd), default today.")
}

func (c *billCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	now := core.Today()
	if c.asOf != "" {
		parsed, err := core.ParseDate(c.asOf)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error parsing -as-of:", err)
			return subcommands.ExitUsageError
		}
		now = parsed
	}

	proc := services.NewBillingProcessor(c.app.Store, c.app.Audit, c.app.Cfg.ActorID, c.app.Log)
	billed, err := proc.ProcessDue(ctx, now)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Billed %d subscriptions as of %s\n", billed, now)
	return subcommands.ExitSuccess
}
