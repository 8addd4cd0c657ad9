package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFormatsCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List configured bank formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := absRepo(repoDir)
			if err != nil {
				return err
			}
			return runFormats(cmd.OutOrStdout(), absDir)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")

	return cmd
}

func runFormats(out io.Writer, repoRoot string) error {
	cfg, err := loadConfig(repoRoot)
	if err != nil {
		return err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}

	if cat.Len() == 0 {
		fmt.Fprintln(out, "No bank formats configured.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tPAYEE\tAMOUNT\tDATE\tDATE FORMAT\tSIGN\tACCOUNT")
	for _, name := range cat.Names() {
		d, err := cat.DescriptorFor(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Name, d.Payee, d.Amount, d.Date, d.DatePattern, d.Sign, d.AccountID)
	}
	return tw.Flush()
}
