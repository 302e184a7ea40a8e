package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot"

	"yashubustudio/pocketsite/internal/charts"
	"yashubustudio/pocketsite/pocketsite"
)

type plotOptions struct {
	inputs  inputFlags
	outPath string
}

func (c *cli) newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render statistics of the merged table as PNG",
	}
	cmd.AddCommand(c.newHistCmd(), c.newScatterCmd(), c.newHeatmapCmd())
	return cmd
}

func (o *plotOptions) register(cmd *cobra.Command) {
	o.inputs.register(cmd)
	cmd.Flags().StringVar(&o.outPath, "out", "", "PNG file to write (required)")
}

func (c *cli) newHistCmd() *cobra.Command {
	var opts plotOptions
	var column string
	var bins int
	cmd := &cobra.Command{
		Use:   "hist",
		Short: "Histogram of one column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlot(cmd, opts, charts.DefaultSize, func(t *loadedTables) (*plot.Plot, error) {
				if bins <= 0 {
					bins = t.service.Config().HistogramBins
				}
				return charts.Histogram(t.filtered, column, bins)
			})
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&column, "column", pocketsite.ColProbability, "Column to plot")
	cmd.Flags().IntVar(&bins, "bins", 0, "Number of bins for numeric columns (default from config)")
	return cmd
}

func (c *cli) newScatterCmd() *cobra.Command {
	var opts plotOptions
	var x, y string
	cmd := &cobra.Command{
		Use:   "scatter",
		Short: "Scatter plot of two columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlot(cmd, opts, charts.DefaultSize, func(t *loadedTables) (*plot.Plot, error) {
				return charts.Scatter(t.filtered, x, y)
			})
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&x, "x", pocketsite.ColFitness, "X axis column")
	cmd.Flags().StringVar(&y, "y", pocketsite.ColProbability, "Y axis column")
	return cmd
}

func (c *cli) newHeatmapCmd() *cobra.Command {
	var opts plotOptions
	var index, columns, values string
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Mean of a numeric column over two categorical columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlot(cmd, opts, charts.HeatmapSize, func(t *loadedTables) (*plot.Plot, error) {
				pt, err := pocketsite.Pivot(t.filtered, index, columns, values)
				if err != nil {
					return nil, err
				}
				return charts.Heatmap(pt)
			})
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&index, "index", pocketsite.ColPocket, "Row column")
	cmd.Flags().StringVar(&columns, "columns", pocketsite.ColEC, "Column column")
	cmd.Flags().StringVar(&values, "values", pocketsite.ColFitness, "Numeric column to average")
	return cmd
}

func (c *cli) runPlot(cmd *cobra.Command, opts plotOptions, size charts.Size, build func(*loadedTables) (*plot.Plot, error)) error {
	if opts.outPath == "" {
		return errors.New("missing required --out file")
	}
	tables, err := c.loadTables(&opts.inputs)
	if err != nil {
		return err
	}
	p, err := build(tables)
	if err != nil {
		return err
	}
	if err := charts.SavePNG(opts.outPath, p, size); err != nil {
		return err
	}
	c.logger.Info("wrote chart", zap.String("path", opts.outPath), zap.Int("rows", tables.filtered.Len()))
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", opts.outPath)
	return nil
}
