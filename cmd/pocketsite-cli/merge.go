package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yashubustudio/pocketsite/pocketsite"
)

type mergeOptions struct {
	inputs    inputFlags
	outPath   string
	outputDir string
	stdout    bool
	head      int
}

func (c *cli) newMergeCmd() *cobra.Command {
	var opts mergeOptions
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Join residue and active site predictions into the common table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMerge(cmd, opts)
		},
	}
	opts.inputs.register(cmd)
	cmd.Flags().StringVar(&opts.outPath, "out", "", "CSV file to write (default uses --output-dir/common_df_*.csv)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "csv", "Directory where the CSV is written when --out is omitted")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Print a preview of the filtered table to STDOUT")
	cmd.Flags().IntVar(&opts.head, "head", 0, "Rows to preview with --stdout (default from config)")
	return cmd
}

func (c *cli) runMerge(cmd *cobra.Command, opts mergeOptions) error {
	tables, err := c.loadTables(&opts.inputs)
	if err != nil {
		return err
	}
	outPath, err := resolveOutputPath(opts.outPath, opts.outputDir, "common_df", ".csv")
	if err != nil {
		return err
	}
	if err := pocketsite.WriteCSVFile(outPath, tables.filtered); err != nil {
		return err
	}
	c.logger.Info("wrote merged table", zap.String("path", outPath), zap.Int("rows", tables.filtered.Len()))

	w := cmd.OutOrStdout()
	printMergeSummary(w, tables)
	fmt.Fprintf(w, "Saved %d rows to %s\n", tables.filtered.Len(), outPath)
	if opts.stdout {
		head := opts.head
		if head <= 0 {
			head = tables.service.Config().HeadRows
		}
		fmt.Fprintln(w)
		if err := printTable(w, tables.filtered.Head(head)); err != nil {
			return err
		}
	}
	return nil
}

// resolveOutputPath returns path made absolute, or a timestamped file in dir
// when path is empty. Parent directories are created.
func resolveOutputPath(path, dir, prefix, ext string) (string, error) {
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve output path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
		return absPath, nil
	}
	if dir == "" {
		dir = "csv"
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	filename := fmt.Sprintf("%s_%s%s", prefix, time.Now().Format("20060102150405"), ext)
	return filepath.Join(absDir, filename), nil
}
