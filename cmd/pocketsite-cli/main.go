package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Populated via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cli struct {
	configPath string
	verbose    bool
	logger     *zap.Logger
}

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pocketsite-cli:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. A nil logger is replaced by a
// production logger when a command runs.
func newRootCmd(logger *zap.Logger) *cobra.Command {
	c := &cli{logger: logger}
	root := &cobra.Command{
		Use:   "pocketsite-cli",
		Short: "Merge pocket and active site predictions and render their views",
		Long: `pocketsite-cli joins a PRANK residue CSV with a GASS active site TSV on
chain and residue number, then filters, plots or highlights the result.

Examples:
	# Merge and write the common table
	pocketsite-cli merge --prank prank.csv --gass gass.tsv --out common.csv

	# Keep only hydrolases with a high pocket probability
	pocketsite-cli merge --prank prank.csv --gass gass.tsv --where EC1=3 --range PROB.POCKET=0.5:1 --stdout

	# Render the merged residues on a structure
	pocketsite-cli view --pdb model.pdb --prank prank.csv --gass gass.tsv --out view.html`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			if c.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.Version = fmt.Sprintf("%s (%s) %s", version, commit, date)
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to config.json or config.yaml (default: ./config.json)")
	root.PersistentFlags().BoolVar(&c.verbose, "verbose", false, "Enable debug logging")

	root.AddCommand(
		c.newMergeCmd(),
		c.newPlotCmd(),
		c.newViewCmd(),
		c.newReduceChainsCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pocketsite-cli %s\ncommit: %s\nbuilt:  %s\n", version, commit, date)
		},
	}
}
