package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yashubustudio/pocketsite/internal/structure"
	"yashubustudio/pocketsite/pocketsite"
)

type viewOptions struct {
	inputs   inputFlags
	pdbPath  string
	residues string
	chains   string
	color    string
	radius   float64
	outPath  string
}

func (c *cli) newViewCmd() *cobra.Command {
	var opts viewOptions
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Write a 3D viewer page highlighting residues on a PDB structure",
		Long: `Write a standalone HTML page that shows the structure as a cartoon and the
selected residues as spheres.

Residues come from --residues/--chains, or from the filtered merged table when
--prank and --gass are given instead. The two sources cannot be combined.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd, opts)
		},
	}
	opts.inputs.register(cmd)
	cmd.Flags().StringVar(&opts.pdbPath, "pdb", "", "PDB structure file (required)")
	cmd.Flags().StringVar(&opts.residues, "residues", "", "Comma separated residue numbers")
	cmd.Flags().StringVar(&opts.chains, "chains", "", "Comma separated chains, one per residue")
	cmd.Flags().StringVar(&opts.color, "color", "", "Highlight color: red, blue or green (default from config)")
	cmd.Flags().Float64Var(&opts.radius, "radius", 0, "Highlight sphere radius, 0.1 to 5.0 (default from config)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "HTML file to write (required)")
	return cmd
}

func (c *cli) runView(cmd *cobra.Command, opts viewOptions) error {
	if opts.pdbPath == "" {
		return errors.New("missing required --pdb file")
	}
	if opts.outPath == "" {
		return errors.New("missing required --out file")
	}
	explicit := opts.residues != "" || opts.chains != ""
	if explicit && opts.inputs.provided() {
		return errors.New("--residues/--chains cannot be combined with --prank, --gass, --where or --range")
	}
	cfg, err := pocketsite.LoadConfig(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	data, err := os.ReadFile(opts.pdbPath)
	if err != nil {
		return fmt.Errorf("read pdb: %w", err)
	}
	model, err := structure.ParseFile(opts.pdbPath)
	if err != nil {
		return err
	}

	var sels []structure.Selection
	if !explicit && opts.inputs.provided() {
		tables, err := c.loadTables(&opts.inputs)
		if err != nil {
			return err
		}
		for _, h := range pocketsite.Highlights(tables.filtered) {
			sels = append(sels, structure.Selection{Residue: h.ResidueID, Chain: h.Chain})
		}
	} else {
		sels, err = structure.ParseSelection(opts.residues, opts.chains)
		if err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if missing := structure.Missing(model, sels); len(missing) > 0 {
		res, ch := structure.FormatSelection(missing)
		color.New(color.FgYellow).Fprintf(w, "Not in structure: residues %s, chains %s\n", res, ch)
	}

	viewOpts := structure.ViewOptions{
		Title:  filepath.Base(opts.pdbPath),
		Color:  cfg.Viewer.Color,
		Radius: cfg.Viewer.Radius,
		Width:  cfg.Viewer.Width,
		Height: cfg.Viewer.Height,
	}
	if opts.color != "" {
		viewOpts.Color = opts.color
	}
	if opts.radius != 0 {
		viewOpts.Radius = opts.radius
	}
	if err := structure.WriteViewerFile(opts.outPath, string(data), sels, viewOpts); err != nil {
		return err
	}
	c.logger.Info("wrote viewer", zap.String("path", opts.outPath), zap.Int("highlights", len(sels)))
	fmt.Fprintf(w, "Saved %s (%d highlighted residues)\n", opts.outPath, len(sels))
	return nil
}

func (c *cli) newReduceChainsCmd() *cobra.Command {
	var maxChains int
	cmd := &cobra.Command{
		Use:   "reduce-chains INPUT OUTPUT",
		Short: "Keep at most --max chains of the first model of a PDB file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxChains <= 0 {
				cfg, err := pocketsite.LoadConfig(c.configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				maxChains = cfg.MaxChains
			}
			keep, err := structure.ReduceFile(args[0], args[1], maxChains)
			if err != nil {
				return err
			}
			c.logger.Info("reduced chains", zap.String("in", args[0]), zap.String("out", args[1]), zap.Strings("kept", keep))
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s with chains %v\n", args[1], keep)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxChains, "max", 0, "Maximum number of chains (default from config)")
	return cmd
}
