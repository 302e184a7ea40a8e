// Package charts renders statistical plots of a merged prediction table.
package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"yashubustudio/pocketsite/pocketsite"
)

// Size is a figure size.
type Size struct {
	Width  vg.Length
	Height vg.Length
}

var (
	// DefaultSize matches the statistics tab figures.
	DefaultSize = Size{Width: 10 * vg.Inch, Height: 7 * vg.Inch}
	// HeatmapSize leaves room for long tick labels.
	HeatmapSize = Size{Width: 14 * vg.Inch, Height: 10 * vg.Inch}
)

// Histogram plots the distribution of a column. Numeric columns are binned;
// categorical columns are drawn as one bar per value.
func Histogram(t *pocketsite.MergedTable, col string, bins int) (*plot.Plot, error) {
	if t.Len() == 0 {
		return nil, fmt.Errorf("%w: nothing to plot", pocketsite.ErrNoData)
	}
	p := plot.New()
	p.Title.Text = "Histogram of " + col
	p.X.Label.Text = col
	p.Y.Label.Text = "Count"

	if pocketsite.IsNumericColumn(col) {
		values, err := t.NumericColumn(col)
		if err != nil {
			return nil, err
		}
		if bins <= 0 {
			bins = 20
		}
		h, err := plotter.NewHist(plotter.Values(values), bins)
		if err != nil {
			return nil, fmt.Errorf("histogram %s: %w", col, err)
		}
		h.FillColor = color.RGBA{R: 76, G: 114, B: 176, A: 255}
		p.Add(h)
		return p, nil
	}

	labels, counts, err := countValues(t, col)
	if err != nil {
		return nil, err
	}
	bars, err := plotter.NewBarChart(plotter.Values(counts), vg.Points(18))
	if err != nil {
		return nil, fmt.Errorf("histogram %s: %w", col, err)
	}
	bars.Color = color.RGBA{R: 76, G: 114, B: 176, A: 255}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

func countValues(t *pocketsite.MergedTable, col string) ([]string, []float64, error) {
	values, err := t.Column(col)
	if err != nil {
		return nil, nil, err
	}
	counts := make(map[string]float64)
	for _, v := range values {
		counts[v]++
	}
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	pocketsite.SortLabels(labels)
	out := make([]float64, len(labels))
	for i, l := range labels {
		out[i] = counts[l]
	}
	return labels, out, nil
}

// Scatter plots column y against column x. Categorical axes are laid out at
// ordinal positions with labelled ticks.
func Scatter(t *pocketsite.MergedTable, x, y string) (*plot.Plot, error) {
	if t.Len() == 0 {
		return nil, fmt.Errorf("%w: nothing to plot", pocketsite.ErrNoData)
	}
	xs, xTicks, err := axisValues(t, x)
	if err != nil {
		return nil, err
	}
	ys, yTicks, err := axisValues(t, y)
	if err != nil {
		return nil, err
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter %s/%s: %w", x, y, err)
	}
	s.GlyphStyle.Color = color.RGBA{R: 76, G: 114, B: 176, A: 200}
	s.GlyphStyle.Radius = vg.Points(3)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", y, x)
	p.X.Label.Text = x
	p.Y.Label.Text = y
	if xTicks != nil {
		p.X.Tick.Marker = xTicks
	}
	if yTicks != nil {
		p.Y.Tick.Marker = yTicks
	}
	p.Add(s)
	return p, nil
}

func axisValues(t *pocketsite.MergedTable, col string) ([]float64, plot.Ticker, error) {
	if pocketsite.IsNumericColumn(col) {
		values, err := t.NumericColumn(col)
		return values, nil, err
	}
	raw, err := t.Column(col)
	if err != nil {
		return nil, nil, err
	}
	labels, err := t.UniqueValues(col)
	if err != nil {
		return nil, nil, err
	}
	pocketsite.SortLabels(labels)
	pos := make(map[string]float64, len(labels))
	for i, l := range labels {
		pos[l] = float64(i)
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = pos[v]
	}
	return out, labelTicks(labels), nil
}

func labelTicks(labels []string) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(labels))
	for i, l := range labels {
		ticks[i] = plot.Tick{Value: float64(i), Label: l}
	}
	return ticks
}

type pivotGrid struct {
	p *pocketsite.PivotTable
}

func (g pivotGrid) Dims() (c, r int)   { return len(g.p.ColLabels), len(g.p.RowLabels) }
func (g pivotGrid) Z(c, r int) float64 { return g.p.Cells[r][c] }
func (g pivotGrid) X(c int) float64    { return float64(c) }
func (g pivotGrid) Y(r int) float64    { return float64(r) }

const heatmapColors = 12

// heatmapPalette is a perceptually uniform dark-to-light ramp.
func heatmapPalette() palette.Palette {
	return moreland.Kindlmann().Palette(heatmapColors)
}

// Heatmap draws a pivot table with one cell per index/columns combination.
// Combinations without data are left blank.
func Heatmap(pt *pocketsite.PivotTable) (*plot.Plot, error) {
	lo, hi, ok := pt.Range()
	if !ok {
		return nil, fmt.Errorf("%w: pivot table has no values", pocketsite.ErrNoData)
	}
	h := plotter.NewHeatMap(pivotGrid{p: pt}, heatmapPalette())
	h.NaN = color.Transparent
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	h.Min, h.Max = lo, hi

	p := plot.New()
	p.Title.Text = fmt.Sprintf("mean %s (%.3g to %.3g)", pt.Values, lo, hi)
	p.X.Label.Text = pt.Columns
	p.Y.Label.Text = pt.Index
	p.X.Tick.Marker = labelTicks(pt.ColLabels)
	p.Y.Tick.Marker = labelTicks(pt.RowLabels)
	p.Add(h)
	return p, nil
}

// RenderPNG encodes the plot as PNG.
func RenderPNG(p *plot.Plot, size Size) ([]byte, error) {
	wt, err := p.WriterTo(size.Width, size.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	return buf.Bytes(), nil
}

// SavePNG writes the plot to path.
func SavePNG(path string, p *plot.Plot, size Size) error {
	data, err := RenderPNG(p, size)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
