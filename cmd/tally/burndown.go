package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dmaas/tally/internal/budget"
	"github.com/dmaas/tally/internal/cli"
	"github.com/dmaas/tally/internal/common"
)

func burndownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "burndown",
		Short: "Project spending against a budget window",
		Long: `Track remaining budget across a fixed date window. The configured
periodic cost (typically rent) is smoothed evenly across the window
instead of hitting the burndown on its payment date.`,
		RunE: runBurndown,
	}

	addInputFlags(cmd)
	cmd.Flags().String("today", "", "Treat this date (YYYY-MM-DD) as today")
	cmd.Flags().Bool("series", false, "Print the full day-by-day burndown series")
	cmd.Flags().String("window-start", "", "Budget window start (YYYY-MM-DD)")
	cmd.Flags().String("window-end", "", "Budget window end (YYYY-MM-DD)")
	cmd.Flags().String("periodic-cost", "", "Total periodic cost for the window")
	cmd.Flags().String("income", "", "Income budget for the window")
	_ = viper.BindPFlag("burndown.today", cmd.Flags().Lookup("today"))
	_ = viper.BindPFlag("burndown.series", cmd.Flags().Lookup("series"))
	_ = viper.BindPFlag("budget.window_start", cmd.Flags().Lookup("window-start"))
	_ = viper.BindPFlag("budget.window_end", cmd.Flags().Lookup("window-end"))
	_ = viper.BindPFlag("budget.periodic_cost", cmd.Flags().Lookup("periodic-cost"))
	_ = viper.BindPFlag("budget.income", cmd.Flags().Lookup("income"))

	return cmd
}

func budgetWindow() (budget.Window, error) {
	start, err := parseConfigDate("budget.window_start")
	if err != nil {
		return budget.Window{}, err
	}
	end, err := parseConfigDate("budget.window_end")
	if err != nil {
		return budget.Window{}, err
	}
	if start == nil || end == nil {
		return budget.Window{}, fmt.Errorf("%w: budget.window_start and budget.window_end are required", common.ErrMissingConfig)
	}
	if end.Before(*start) {
		return budget.Window{}, fmt.Errorf("%w: budget window ends before it starts", common.ErrInvalidConfig)
	}

	cost, err := decimal.NewFromString(viper.GetString("budget.periodic_cost"))
	if err != nil {
		return budget.Window{}, fmt.Errorf("%w: budget.periodic_cost must be a number", common.ErrInvalidConfig)
	}
	income, err := decimal.NewFromString(viper.GetString("budget.income"))
	if err != nil {
		return budget.Window{}, fmt.Errorf("%w: budget.income must be a number", common.ErrInvalidConfig)
	}

	return budget.Window{
		Start:        *start,
		End:          *end,
		PeriodicCost: cost,
		IncomeBudget: income,
	}, nil
}

func runBurndown(cmd *cobra.Command, _ []string) error {
	window, err := budgetWindow()
	if err != nil {
		return err
	}

	today := time.Now()
	if raw := viper.GetString("burndown.today"); raw != "" {
		today, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid --today %q: expected YYYY-MM-DD", raw)
		}
	}

	led, _, err := loadLedger(cmd.Context())
	if err != nil {
		return err
	}

	keywords := viper.GetStringSlice("budget.periodic_keywords")
	p := budget.Project(led.Transactions(), window, budget.KeywordPredicate(keywords), today)

	content := fmt.Sprintf(`Window: %s to %s (%d days, %d elapsed)
Periodic cost: %s (%s/day, %s allocated so far)
Direct spend: %s
Income received: %s
Net spend: %s
Remaining budget: %s
Projected total at window end: %s`,
		window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"),
		p.WindowDays, p.ElapsedDays,
		cli.Money(window.PeriodicCost), cli.Money(p.DailyPeriodicRate), cli.Money(p.AllocatedPeriodicCost),
		cli.Money(p.NonPeriodicExpense),
		cli.Money(p.IncomeReceived),
		cli.Money(p.ActualNetSpend),
		cli.Money(p.RemainingBudget),
		cli.Money(p.ProjectedEndTotal))
	fmt.Println(cli.RenderBox("Budget burndown", content))

	if p.RemainingBudget.IsNegative() {
		fmt.Println(cli.FormatWarning("Over budget for this window"))
	}

	if viper.GetBool("burndown.series") {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tIDEAL\tACTUAL")
		for _, point := range p.Series {
			actual := "-"
			if point.ActualRemaining != nil {
				actual = cli.Money(*point.ActualRemaining)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				point.Date.Format("2006-01-02"), cli.Money(point.IdealRemaining), actual)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	return nil
}
