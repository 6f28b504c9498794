package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dmaas/tally/internal/common"
	"github.com/dmaas/tally/internal/ingest"
	"github.com/dmaas/tally/internal/ledger"
	"github.com/dmaas/tally/internal/model"
	"github.com/dmaas/tally/internal/progress"
	"github.com/dmaas/tally/internal/rules"
)

// addInputFlags registers the statement-source and window flags shared by
// every pipeline command and binds them to their config keys.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("card", nil, "Card statement CSV file (repeatable)")
	cmd.Flags().StringSlice("peer", nil, "Peer-payment statement CSV file (repeatable)")
	cmd.Flags().StringSlice("categorized", nil, "Categorized peer export CSV file (repeatable)")
	cmd.Flags().StringSlice("ofx", nil, "OFX/QFX statement file (repeatable)")
	cmd.Flags().String("start", "", "Analysis window start (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "Analysis window end (YYYY-MM-DD)")
	cmd.Flags().String("owner", "", "Account holder name on peer statements")

	// Several commands share these keys, so bind at execution time; an
	// init-time bind would leave them pointing at whichever command
	// registered last.
	cmd.PreRunE = func(c *cobra.Command, _ []string) error {
		for key, flag := range map[string]string{
			"inputs.card":        "card",
			"inputs.peer":        "peer",
			"inputs.categorized": "categorized",
			"inputs.ofx":         "ofx",
			"window.start":       "start",
			"window.end":         "end",
			"owner":              "owner",
		} {
			if err := viper.BindPFlag(key, c.Flags().Lookup(flag)); err != nil {
				return err
			}
		}
		return nil
	}
}

func paymentMarkers() []string {
	if viper.IsSet("payments.markers") {
		return viper.GetStringSlice("payments.markers")
	}
	return model.DefaultPaymentMarkers()
}

func progressDBPath() (string, error) {
	if path := viper.GetString("progress.database"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return fmt.Sprintf("%s/.local/share/tally/progress.db", home), nil
}

func openProgressStore() (*progress.Store, error) {
	path, err := progressDBPath()
	if err != nil {
		return nil, err
	}
	return progress.NewStore(path)
}

func parseConfigDate(key string) (*time.Time, error) {
	raw := viper.GetString(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", key, raw)
	}
	return &t, nil
}

type inputFile struct {
	parse func(r io.Reader) (ingest.Result, error)
	path  string
	kind  string
}

// collectInputs builds the ingest plan from configuration. Peer statements
// resolve manual category assignments through the progress store.
func collectInputs(ctx context.Context, store *progress.Store) ([]inputFile, error) {
	markers := paymentMarkers()
	owner := viper.GetString("owner")

	var lookup ingest.CategoryLookup
	if store != nil {
		fn, err := store.Lookup(ctx)
		if err != nil {
			return nil, err
		}
		lookup = fn
	}

	card := ingest.NewCardAdapter(markers, ingest.DefaultCardColumns())
	peer := ingest.NewPeerAdapter(owner, ingest.DefaultPeerColumns(), lookup)
	categorized := ingest.NewCategorizedPeerAdapter(ingest.DefaultCategorizedPeerColumns())
	ofx := ingest.NewOFXAdapter(markers)

	var inputs []inputFile
	add := func(key, kind string, parse func(io.Reader) (ingest.Result, error)) {
		for _, path := range viper.GetStringSlice(key) {
			inputs = append(inputs, inputFile{parse: parse, path: path, kind: kind})
		}
	}
	add("inputs.card", "card", card.Parse)
	add("inputs.peer", "peer", peer.Parse)
	add("inputs.categorized", "categorized peer", categorized.Parse)
	add("inputs.ofx", "ofx", ofx.Parse)

	if len(inputs) == 0 {
		return nil, common.NewUserError(
			"no input files configured: set inputs.card, inputs.peer, inputs.categorized, or inputs.ofx",
			common.ErrMissingConfig)
	}
	return inputs, nil
}

// loadLedger runs the full pipeline: parse every configured statement,
// merge into one ledger, and categorize.
func loadLedger(ctx context.Context) (*ledger.Ledger, ledger.CombineStats, error) {
	store, err := openProgressStore()
	if err != nil {
		return nil, ledger.CombineStats{}, err
	}
	defer func() { _ = store.Close() }()

	inputs, err := collectInputs(ctx, store)
	if err != nil {
		return nil, ledger.CombineStats{}, err
	}

	bar := progressbar.NewOptions(len(inputs),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Reading statements..."),
	)

	var batches [][]model.Transaction
	for _, in := range inputs {
		f, err := os.Open(in.path)
		if err != nil {
			return nil, ledger.CombineStats{}, fmt.Errorf("failed to open %s statement %s: %w", in.kind, in.path, err)
		}
		result, err := in.parse(f)
		_ = f.Close()
		if err != nil {
			return nil, ledger.CombineStats{}, fmt.Errorf("failed to parse %s statement %s: %w", in.kind, in.path, err)
		}
		if result.Skipped > 0 {
			common.LogWarn("skipped malformed rows", common.Fields{
				"file":    in.path,
				"skipped": result.Skipped,
			})
		}
		if len(result.Transactions) == 0 && result.Skipped == 0 {
			return nil, ledger.CombineStats{}, fmt.Errorf("%s statement %s: %w", in.kind, in.path, common.ErrEmptyFile)
		}
		batches = append(batches, result.Transactions)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	start, err := parseConfigDate("window.start")
	if err != nil {
		return nil, ledger.CombineStats{}, err
	}
	end, err := parseConfigDate("window.end")
	if err != nil {
		return nil, ledger.CombineStats{}, err
	}

	led, stats := ledger.Combine(batches, ledger.CombineOptions{
		Start:          start,
		End:            end,
		PaymentMarkers: paymentMarkers(),
	})
	led.SetCategories(rules.Categorize(led.Transactions(), rules.DefaultRules()))
	return led, stats, nil
}
