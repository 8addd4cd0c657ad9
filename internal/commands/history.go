package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ynabimport/ynabimport/internal/history"
)

func newHistoryCommand() *cobra.Command {
	var repoDir string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently submitted transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := absRepo(repoDir)
			if err != nil {
				return err
			}
			return runHistory(cmd.Context(), cmd.OutOrStdout(), absDir, limit)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")
	cmd.Flags().IntVar(&limit, "limit", 20, "number of submissions to show (0 for all)")

	return cmd
}

func runHistory(ctx context.Context, out io.Writer, repoRoot string, limit int) error {
	cfg, err := loadConfig(repoRoot)
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.HistoryPath(repoRoot))
	if err != nil {
		return err
	}
	defer store.Close()

	subs, err := store.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Fprintln(out, "No submissions recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SUBMITTED\tDATE\tAMOUNT\tPAYEE\tSOURCE\tIMPORT ID")
	for _, s := range subs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.SubmittedAt.Local().Format(time.DateTime),
			s.Date,
			decimal.New(s.Amount, -3).StringFixed(2),
			s.Payee,
			s.Source,
			s.ImportID,
		)
	}
	return tw.Flush()
}
