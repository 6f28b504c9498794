package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dmaas/tally/internal/cli"
	"github.com/dmaas/tally/internal/insights"
	"github.com/dmaas/tally/internal/model"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export ledger tables for a spreadsheet or accountant",
		Long: `Write the normalized ledger and its summaries to files: the full
transaction table, the per-category breakdown, the monthly breakdown,
and the headline summary.`,
		RunE: runReport,
	}

	addInputFlags(cmd)
	cmd.Flags().StringP("out", "o", "reports", "Output directory")
	cmd.Flags().String("format", "csv", "Output format (csv, json)")
	_ = viper.BindPFlag("report.out", cmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("report.format", cmd.Flags().Lookup("format"))

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	outDir := viper.GetString("report.out")
	format := viper.GetString("report.format")
	if format != "csv" && format != "json" {
		return fmt.Errorf("invalid format %q: expected csv or json", format)
	}

	led, _, err := loadLedger(cmd.Context())
	if err != nil {
		return err
	}
	txns := led.Transactions()

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	reports := []struct {
		write func(path string) error
		name  string
	}{
		{name: "transactions", write: func(p string) error { return writeTransactions(p, format, txns) }},
		{name: "categories", write: func(p string) error { return writeCategories(p, format, txns) }},
		{name: "monthly", write: func(p string) error { return writeMonthly(p, format, txns) }},
		{name: "merchants", write: func(p string) error { return writeMerchants(p, format, txns) }},
		{name: "summary", write: func(p string) error { return writeSummary(p, format, txns) }},
	}

	for _, r := range reports {
		path := filepath.Join(outDir, r.name+"."+format)
		if err := r.write(path); err != nil {
			return fmt.Errorf("failed to write %s report: %w", r.name, err)
		}
		fmt.Println(cli.FormatSuccess("wrote " + path))
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeTransactions(path, format string, txns []model.Transaction) error {
	table := insights.TransactionTable(txns)
	if format == "json" {
		return writeJSON(path, table)
	}

	rows := make([][]string, 0, len(table))
	for _, r := range table {
		rows = append(rows, []string{
			r.Date.Format("2006-01-02"),
			r.PostDate.Format("2006-01-02"),
			r.ID,
			r.Description,
			r.Category,
			string(r.Origin),
			r.Amount.StringFixed(2),
		})
	}
	return writeCSV(path, []string{"Date", "Post Date", "ID", "Description", "Category", "Origin", "Amount"}, rows)
}

func writeCategories(path, format string, txns []model.Transaction) error {
	table := insights.CategorySummary(txns)
	if format == "json" {
		return writeJSON(path, table)
	}

	rows := make([][]string, 0, len(table))
	for _, r := range table {
		rows = append(rows, []string{r.Category, r.Total.StringFixed(2), fmt.Sprint(r.Count)})
	}
	return writeCSV(path, []string{"Category", "Net", "Count"}, rows)
}

func writeMonthly(path, format string, txns []model.Transaction) error {
	table := insights.MonthlySummary(txns)
	if format == "json" {
		return writeJSON(path, table)
	}

	rows := make([][]string, 0, len(table))
	for _, r := range table {
		rows = append(rows, []string{
			r.Month,
			r.Expense.StringFixed(2),
			r.Income.StringFixed(2),
			r.Net.StringFixed(2),
			fmt.Sprint(r.Count),
		})
	}
	return writeCSV(path, []string{"Month", "Expense", "Income", "Net", "Count"}, rows)
}

func writeMerchants(path, format string, txns []model.Transaction) error {
	table := insights.TopMerchants(txns, 0)
	if format == "json" {
		return writeJSON(path, table)
	}

	rows := make([][]string, 0, len(table))
	for _, r := range table {
		rows = append(rows, []string{r.Description, r.Total.StringFixed(2), fmt.Sprint(r.Count)})
	}
	return writeCSV(path, []string{"Merchant", "Spent", "Count"}, rows)
}

func writeSummary(path, format string, txns []model.Transaction) error {
	summary := insights.Summarize(txns)
	if format == "json" {
		return writeJSON(path, summary)
	}

	rows := [][]string{
		{"Total transactions", fmt.Sprint(summary.TotalTransactions)},
		{"Total expense", summary.Totals.TotalExpense.StringFixed(2)},
		{"Total income", summary.Totals.TotalIncome.StringFixed(2)},
		{"Net", summary.Totals.Net.StringFixed(2)},
		{"Average transaction", summary.AverageTransaction.StringFixed(2)},
		{"Most frequent merchant", summary.MostFrequentMerchant},
		{"Top expense category", summary.TopExpenseCategory},
		{"Top revenue category", summary.TopRevenueCategory},
		{"Highest-spend month", summary.HighestNetMonth},
		{"Highest-spend weekday", summary.HighestNetWeekday},
	}
	return writeCSV(path, []string{"Metric", "Value"}, rows)
}
