package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dmaas/tally/internal/cli"
)

func progressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Manage manual categorization progress",
	}
	cmd.AddCommand(progressStatsCmd())
	cmd.AddCommand(progressExportCmd())
	return cmd
}

func progressStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many transactions have manual categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openProgressStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%d transactions manually categorized\n", n)
			return nil
		},
	}
}

func progressExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export manually categorized peer transactions as CSV",
		Long: `Write every peer transaction that has a manual category to a CSV
file. The export uses the peer-native sign convention and feeds back
into analysis through the inputs.categorized setting.`,
		RunE: runProgressExport,
	}
	addInputFlags(cmd)
	cmd.Flags().StringP("out", "o", "categorized.csv", "Output file")
	_ = viper.BindPFlag("progress.export_out", cmd.Flags().Lookup("out"))
	return cmd
}

func runProgressExport(cmd *cobra.Command, _ []string) error {
	out := viper.GetString("progress.export_out")

	led, _, err := loadLedger(cmd.Context())
	if err != nil {
		return err
	}

	store, err := openProgressStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	written, err := store.Export(cmd.Context(), f, led.Transactions())
	if err != nil {
		return err
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("exported %d transactions to %s", written, out)))
	return nil
}
