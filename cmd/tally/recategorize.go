package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmaas/tally/internal/cli"
)

func recategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recategorize <transaction-id> <category>",
		Short: "Record a manual category for a transaction",
		Long: `Assign a category to a transaction by ID. The assignment is recorded
in the progress database and overrides the rule-derived category on the
next analysis. Assigning again replaces the earlier decision; history
is kept.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, category := args[0], args[1]

			store, err := openProgressStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Put(cmd.Context(), id, category); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("recorded %s -> %s", id, category)))
			return nil
		},
	}
}
