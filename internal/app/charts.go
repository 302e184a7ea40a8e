package app

import (
	"bytes"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
	"gonum.org/v1/plot"

	"yashubustudio/pocketsite/internal/charts"
	"yashubustudio/pocketsite/pocketsite"
)

var chartMinSize = fyne.NewSize(720, 500)

func setHolder(holder *fyne.Container, obj fyne.CanvasObject) {
	holder.Objects = []fyne.CanvasObject{obj}
	holder.Refresh()
}

func noDataLabel() fyne.CanvasObject {
	return widget.NewLabel("Upload both prediction files to see this chart")
}

func chartImage(name string, data []byte) *canvas.Image {
	img := canvas.NewImageFromReader(bytes.NewReader(data), name+".png")
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(chartMinSize)
	return img
}

// renderChart builds and rasterizes a plot off the UI goroutine and swaps the
// image into holder when done. Charts already drawn for the same parameters
// are taken from the cache. A render that finishes after the merged table
// changed is discarded.
func (u *uiState) renderChart(holder *fyne.Container, name string, params []string, size charts.Size, build func() (*plot.Plot, error)) {
	if u.merged == nil {
		setHolder(holder, noDataLabel())
		return
	}
	table := u.merged
	key := chartKey(append([]string{name}, params...)...)
	if data, ok := u.chartCache.get(key); ok {
		setHolder(holder, chartImage(name, data))
		return
	}
	go func() {
		var data []byte
		p, err := build()
		if err == nil {
			data, err = charts.RenderPNG(p, size)
		}
		if err == nil && !u.chartCache.put(table, key, data) {
			return
		}
		fyne.Do(func() {
			if u.merged != table || !u.chartCache.current(table) {
				return
			}
			if err != nil {
				u.logger.Warn("render chart failed", zap.String("chart", name), zap.Error(err))
				setHolder(holder, widget.NewLabel(err.Error()))
				return
			}
			setHolder(holder, chartImage(name, data))
		})
	}()
}

type statsTab struct {
	u             *uiState
	histSel       *widget.Select
	xSel          *widget.Select
	ySel          *widget.Select
	histHolder    *fyne.Container
	scatterHolder *fyne.Container
	content       fyne.CanvasObject
}

func newStatsTab(u *uiState) *statsTab {
	cols := pocketsite.MergedColumns()
	t := &statsTab{u: u}
	t.histHolder = container.NewStack(noDataLabel())
	t.scatterHolder = container.NewStack(noDataLabel())

	t.histSel = widget.NewSelect(cols, nil)
	t.histSel.SetSelected(pocketsite.ColProbability)
	t.histSel.OnChanged = func(string) { t.renderHistogram() }
	t.xSel = widget.NewSelect(cols, nil)
	t.xSel.SetSelected(pocketsite.ColFitness)
	t.xSel.OnChanged = func(string) { t.renderScatter() }
	t.ySel = widget.NewSelect(cols, nil)
	t.ySel.SetSelected(pocketsite.ColProbability)
	t.ySel.OnChanged = func(string) { t.renderScatter() }

	t.content = container.NewVScroll(container.NewVBox(
		heading("Histogram Analysis"),
		widget.NewForm(widget.NewFormItem("Column", t.histSel)),
		t.histHolder,
		widget.NewSeparator(),
		heading("Scatter Plot Analysis"),
		widget.NewForm(
			widget.NewFormItem("X axis", t.xSel),
			widget.NewFormItem("Y axis", t.ySel),
		),
		t.scatterHolder,
	))
	return t
}

func (t *statsTab) refresh() {
	t.renderHistogram()
	t.renderScatter()
}

func (t *statsTab) renderHistogram() {
	table, col, bins := t.u.merged, t.histSel.Selected, t.u.service.Config().HistogramBins
	params := []string{col, strconv.Itoa(bins)}
	t.u.renderChart(t.histHolder, "histogram", params, charts.DefaultSize, func() (*plot.Plot, error) {
		return charts.Histogram(table, col, bins)
	})
}

func (t *statsTab) renderScatter() {
	table, x, y := t.u.merged, t.xSel.Selected, t.ySel.Selected
	t.u.renderChart(t.scatterHolder, "scatter", []string{x, y}, charts.DefaultSize, func() (*plot.Plot, error) {
		return charts.Scatter(table, x, y)
	})
}

type heatmapTab struct {
	u          *uiState
	indexSel   *widget.Select
	columnsSel *widget.Select
	valuesSel  *widget.Select
	holder     *fyne.Container
	content    fyne.CanvasObject
}

func newHeatmapTab(u *uiState) *heatmapTab {
	t := &heatmapTab{u: u}
	t.holder = container.NewStack(noDataLabel())

	t.indexSel = widget.NewSelect(pocketsite.CategoricalColumns(), nil)
	t.columnsSel = widget.NewSelect(nil, nil)
	t.valuesSel = widget.NewSelect([]string{pocketsite.ColFitness, pocketsite.ColProbability}, nil)
	t.indexSel.SetSelected(pocketsite.ColPocket)
	t.syncColumnOptions()
	t.columnsSel.SetSelected(pocketsite.ColEC)
	t.valuesSel.SetSelected(pocketsite.ColFitness)

	t.indexSel.OnChanged = func(string) {
		t.syncColumnOptions()
		t.render()
	}
	t.columnsSel.OnChanged = func(string) { t.render() }
	t.valuesSel.OnChanged = func(string) { t.render() }

	t.content = container.NewVScroll(container.NewVBox(
		heading("Heatmap Analysis"),
		widget.NewForm(
			widget.NewFormItem("Index", t.indexSel),
			widget.NewFormItem("Columns", t.columnsSel),
			widget.NewFormItem("Values", t.valuesSel),
		),
		t.holder,
	))
	return t
}

// syncColumnOptions keeps the index column out of the columns choices.
func (t *heatmapTab) syncColumnOptions() {
	opts := columnChoices(t.indexSel.Selected)
	t.columnsSel.Options = opts
	t.columnsSel.Refresh()
	for _, o := range opts {
		if o == t.columnsSel.Selected {
			return
		}
	}
	if len(opts) > 0 {
		t.columnsSel.Selected = opts[0]
		t.columnsSel.Refresh()
	}
}

func columnChoices(index string) []string {
	var out []string
	for _, c := range pocketsite.CategoricalColumns() {
		if c != index {
			out = append(out, c)
		}
	}
	return out
}

func (t *heatmapTab) refresh() {
	t.render()
}

func (t *heatmapTab) render() {
	table, index, columns, values := t.u.merged, t.indexSel.Selected, t.columnsSel.Selected, t.valuesSel.Selected
	t.u.renderChart(t.holder, "heatmap", []string{index, columns, values}, charts.HeatmapSize, func() (*plot.Plot, error) {
		pt, err := pocketsite.Pivot(table, index, columns, values)
		if err != nil {
			return nil, err
		}
		return charts.Heatmap(pt)
	})
}
