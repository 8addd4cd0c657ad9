package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ynabimport/ynabimport/internal/buildinfo"
	"github.com/ynabimport/ynabimport/internal/config"
	"github.com/ynabimport/ynabimport/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:     "ynabimport",
		Short:   "Import bank exports into YNAB",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(logger.WithContext(cmd.Context(), logger.New(debug)))
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newFormatsCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}

// loadConfig reads ynabimport.yaml from the repo root.
func loadConfig(repoRoot string) (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(repoRoot, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", config.FileName, err)
	}
	return cfg, nil
}

func absRepo(repoDir string) (string, error) {
	absDir, err := filepath.Abs(repoDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return absDir, nil
}
