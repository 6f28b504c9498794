package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmaas/tally/internal/cli"
	"github.com/dmaas/tally/internal/model"
	"github.com/dmaas/tally/internal/rules"
)

func testTransaction(description, source string) model.Transaction {
	return model.Transaction{Description: description, SourceCategory: source}
}

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect categorization rules",
	}
	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesTestCmd())
	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categorization rules in precedence order",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Println(cli.FormatTitle("Categorization rules"))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tRULE\tCATEGORY\tMATCHES")
			for i, r := range rules.DefaultRules() {
				var preds []string
				if len(r.Keywords) > 0 {
					preds = append(preds, "keywords: "+strings.Join(r.Keywords, ", "))
				}
				if len(r.SourceCategories) > 0 {
					preds = append(preds, "source: "+strings.Join(r.SourceCategories, ", "))
				}
				if len(r.ExcludeKeywords) > 0 {
					preds = append(preds, "except: "+strings.Join(r.ExcludeKeywords, ", "))
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, r.Name, r.Category, strings.Join(preds, "; "))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\nUnmatched transactions keep their source category, then fall back to %q.\n", rules.DefaultCategory)
			return nil
		},
	}
}

func rulesTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <description>",
		Short: "Show which category a description would get",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source-category")

			tx := testTransaction(args[0], source)
			category := rules.Apply(tx, rules.DefaultRules())
			fmt.Printf("%s -> %s\n", args[0], cli.BoldStyle.Render(category))
			return nil
		},
	}
	cmd.Flags().String("source-category", "", "Source category reported by the statement")
	return cmd
}
