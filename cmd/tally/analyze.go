package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dmaas/tally/internal/cli"
	"github.com/dmaas/tally/internal/common"
	"github.com/dmaas/tally/internal/insights"
	"github.com/dmaas/tally/internal/model"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Ingest configured statements and report spending insights",
		Long: `Parse every configured statement, merge them into one ledger,
categorize each transaction, and print the spending breakdown.`,
		RunE: runAnalyze,
	}

	addInputFlags(cmd)
	cmd.Flags().IntP("top", "n", 10, "Number of top merchants to show")
	_ = viper.BindPFlag("analyze.top", cmd.Flags().Lookup("top"))

	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	led, stats, err := loadLedger(cmd.Context())
	if err != nil {
		return err
	}
	if led.Len() == 0 {
		return common.NewUserError(
			"every transaction was filtered out; check the analysis window", common.ErrEmptyLedger)
	}

	fmt.Println(cli.FormatTitle("Ledger"))
	for _, origin := range []model.Origin{model.OriginCard, model.OriginPeer} {
		s, ok := stats.ByOrigin[origin]
		if !ok {
			continue
		}
		fmt.Printf("  %-6s %d parsed, %d kept\n", origin, s.Before, s.After)
	}
	if stats.WindowExcluded > 0 {
		fmt.Printf("  %d outside the analysis window\n", stats.WindowExcluded)
	}
	if stats.PaymentsExcluded > 0 {
		fmt.Printf("  %d credit-card payments excluded\n", stats.PaymentsExcluded)
	}
	fmt.Println()

	analyzer := insights.NewAnalyzer(led)
	summary := analyzer.Summary()
	printSummary(summary)

	txns := led.Transactions()

	fmt.Println(cli.FormatTitle("Spending by category"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tNET\tCOUNT")
	for _, row := range insights.CategorySummary(txns) {
		fmt.Fprintf(w, "%s\t%s\t%d\n", row.Category, cli.Money(row.Total), row.Count)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	fmt.Println(cli.FormatTitle("Monthly breakdown"))
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tEXPENSE\tINCOME\tNET\tCOUNT")
	for _, row := range insights.MonthlySummary(txns) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			row.Month, cli.Money(row.Expense), cli.Money(row.Income.Neg()), cli.Money(row.Net), row.Count)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	top := viper.GetInt("analyze.top")
	merchants := insights.TopMerchants(txns, top)
	if len(merchants) > 0 {
		fmt.Println(cli.FormatTitle(fmt.Sprintf("Top %d merchants", len(merchants))))
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "MERCHANT\tSPENT\tCOUNT")
		for _, m := range merchants {
			fmt.Fprintf(w, "%s\t%s\t%d\n", m.Description, cli.Money(m.Total), m.Count)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	return nil
}

func printSummary(s insights.Summary) {
	content := fmt.Sprintf(`Transactions: %d
Total spent: %s
Total income: %s
Net: %s
Average transaction: %s`,
		s.TotalTransactions,
		cli.Money(s.Totals.TotalExpense),
		cli.Money(s.Totals.TotalIncome),
		cli.Money(s.Totals.Net),
		cli.Money(s.AverageTransaction))

	if s.LargestExpense != nil {
		content += fmt.Sprintf("\nLargest expense: %s (%s)",
			s.LargestExpense.Description, cli.Money(s.LargestExpense.Amount))
	}
	if s.MostFrequentMerchant != "" {
		content += "\nMost frequent merchant: " + s.MostFrequentMerchant
	}
	if s.TopExpenseCategory != "" {
		content += "\nTop expense category: " + s.TopExpenseCategory
	}
	if s.HighestNetMonth != "" {
		content += "\nHighest-spend month: " + s.HighestNetMonth
	}
	if s.HighestNetWeekday != "" {
		content += "\nHighest-spend weekday: " + s.HighestNetWeekday
	}

	fmt.Println(cli.RenderBox("Summary", content))
	fmt.Println()
}
