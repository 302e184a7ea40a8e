package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"yashubustudio/pocketsite/pocketsite"
)

type uiState struct {
	app     fyne.App
	service *pocketsite.Service
	logger  *zap.Logger
	cfgPath string

	w          fyne.Window
	statusBind binding.String
	logBind    binding.String
	summary    *widget.Label

	merged   *pocketsite.MergedTable
	filtered *pocketsite.MergedTable
	filter   *pocketsite.Filter

	headTitle    *widget.Label
	headView     *tableView
	filteredView *tableView
	filterCols   *widget.CheckGroup
	filterBox    *fyne.Container
	filteredInfo *widget.Label
	exportBtn    *widget.Button

	stats      *statsTab
	heat       *heatmapTab
	structure  *structureTab
	chartCache *chartCache
}

func buildUI(a fyne.App, svc *pocketsite.Service, logBind binding.String) *uiState {
	u := &uiState{
		app:        a,
		service:    svc,
		logger:     svc.Logger(),
		filter:     pocketsite.NewFilter(),
		chartCache: newChartCache(),
	}
	u.w = a.NewWindow("PocketSite - pocket and active site explorer")

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set("Upload both prediction files")
	u.logBind = logBind
	if u.logBind == nil {
		u.logBind = binding.NewString()
	}

	prankBtn := widget.NewButtonWithIcon("PRANK residue CSV", theme.FolderOpenIcon(), func() { u.onOpenPrank() })
	gassBtn := widget.NewButtonWithIcon("GASS predictions", theme.FolderOpenIcon(), func() { u.onOpenGass() })
	settingsBtn := widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), func() { u.openSettings() })

	logEntry := widget.NewEntryWithData(u.logBind)
	logEntry.MultiLine = true
	logEntry.Wrapping = fyne.TextWrapWord
	logEntry.SetPlaceHolder("Log")
	logEntry.Disable()

	status := widget.NewLabelWithData(u.statusBind)
	status.Wrapping = fyne.TextWrapWord
	u.summary = widget.NewLabel("")
	u.summary.Wrapping = fyne.TextWrapWord

	sidebar := container.NewBorder(
		container.NewVBox(
			heading("Upload your files"),
			prankBtn,
			gassBtn,
			settingsBtn,
			widget.NewSeparator(),
			heading("Status"),
			status,
			u.summary,
			widget.NewSeparator(),
			heading("Log"),
		),
		nil, nil, nil,
		logEntry,
	)

	u.stats = newStatsTab(u)
	u.heat = newHeatmapTab(u)
	u.structure = newStructureTab(u)
	tabs := container.NewAppTabs(
		container.NewTabItem("Main", u.buildMainTab()),
		container.NewTabItem("Statistics of Data", u.stats.content),
		container.NewTabItem("Heatmap Analysis", u.heat.content),
		container.NewTabItem("Visualize Results on PDB", u.structure.content),
	)

	split := container.NewHSplit(sidebar, tabs)
	split.Offset = 0.25
	u.w.SetContent(split)
	u.w.Resize(fyne.NewSize(1280, 820))
	u.updateSummary()
	return u
}

func heading(text string) *widget.Label {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

func (u *uiState) buildMainTab() fyne.CanvasObject {
	u.headTitle = heading("")
	u.headView = newTableView()
	u.filteredView = newTableView()

	u.filterCols = widget.NewCheckGroup(pocketsite.MergedColumns(), nil)
	u.filterCols.Horizontal = true
	u.filterCols.OnChanged = func([]string) { u.rebuildFilterControls() }
	u.filterBox = container.NewVBox()
	filterScroll := container.NewVScroll(u.filterBox)
	filterScroll.SetMinSize(fyne.NewSize(0, 180))

	clearBtn := widget.NewButtonWithIcon("Clear filters", theme.ContentClearIcon(), func() {
		u.filterCols.SetSelected(nil)
		u.rebuildFilterControls()
	})
	u.exportBtn = widget.NewButtonWithIcon("Export CSV", theme.DocumentSaveIcon(), func() { u.onExport() })
	u.exportBtn.Disable()
	u.filteredInfo = widget.NewLabel("")

	upper := container.NewBorder(u.headTitle, nil, nil, nil, u.headView.widget)
	lower := container.NewBorder(
		container.NewVBox(
			heading("Filter table"),
			widget.NewLabel("Select columns to filter"),
			u.filterCols,
			filterScroll,
			container.NewHBox(clearBtn, u.exportBtn),
			u.filteredInfo,
		),
		nil, nil, nil,
		u.filteredView.widget,
	)
	split := container.NewVSplit(upper, lower)
	split.Offset = 0.3
	u.setHeadTitle()
	return split
}

func (u *uiState) setHeadTitle() {
	u.headTitle.SetText(fmt.Sprintf("First %d rows of the common table", u.service.Config().HeadRows))
}

// tableView renders a merged table with a bold header row.
type tableView struct {
	table  *pocketsite.MergedTable
	cols   []string
	widget *widget.Table
}

func newTableView() *tableView {
	v := &tableView{cols: pocketsite.MergedColumns()}
	v.widget = widget.NewTable(
		func() (int, int) { return v.table.Len() + 1, len(v.cols) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
			} else {
				lbl.TextStyle = fyne.TextStyle{}
			}
			lbl.SetText(v.cell(id.Row, id.Col))
		},
	)
	for i, col := range v.cols {
		v.widget.SetColumnWidth(i, columnWidth(col))
	}
	return v
}

func (v *tableView) cell(row, col int) string {
	if col < 0 || col >= len(v.cols) {
		return ""
	}
	if row == 0 {
		return v.cols[col]
	}
	if row-1 >= v.table.Len() {
		return ""
	}
	val, _ := v.table.Value(row-1, v.cols[col])
	return val
}

func (v *tableView) setTable(t *pocketsite.MergedTable) {
	v.table = t
	v.widget.Refresh()
}

func columnWidth(col string) float32 {
	switch col {
	case pocketsite.ColEC, pocketsite.ColProbability, pocketsite.ColFitness:
		return 110
	case pocketsite.ColResidue:
		return 100
	case pocketsite.ColEC1, pocketsite.ColEC2, pocketsite.ColChain:
		return 60
	}
	return 80
}

func (u *uiState) setStatus(text string) {
	_ = u.statusBind.Set(text)
}

func (u *uiState) showError(err error) {
	u.logger.Error("operation failed", zap.Error(err))
	dialog.ShowError(err, u.w)
}

func (u *uiState) onOpenPrank() {
	u.openTable([]string{".csv"}, u.service.LoadResidues, func(cfg *pocketsite.Config, path string) {
		cfg.LastPrankPath = path
	})
}

func (u *uiState) onOpenGass() {
	u.openTable([]string{".csv", ".tsv", ".txt"}, u.service.LoadActiveSites, func(cfg *pocketsite.Config, path string) {
		cfg.LastGassPath = path
	})
}

func (u *uiState) openTable(exts []string, load func(string, io.Reader) error, remember func(*pocketsite.Config, string)) {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			u.showError(err)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()
		if err := load(rc.URI().Name(), rc); err != nil {
			u.showError(err)
			u.refresh()
			return
		}
		cfg := u.service.Config()
		remember(&cfg, rc.URI().Path())
		u.updateConfig(cfg)
		u.refresh()
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter(exts))
	fd.Show()
}

// restoreSession reloads the inputs of the previous run. Failures are logged
// only; the user can upload the files again.
func (u *uiState) restoreSession() {
	cfg := u.service.Config()
	if cfg.LastPrankPath != "" && fileExists(cfg.LastPrankPath) {
		if err := u.service.LoadResiduesFile(cfg.LastPrankPath); err != nil {
			u.logger.Warn("restore residue predictions failed", zap.Error(err))
		}
	}
	if cfg.LastGassPath != "" && fileExists(cfg.LastGassPath) {
		if err := u.service.LoadActiveSitesFile(cfg.LastGassPath); err != nil {
			u.logger.Warn("restore active site predictions failed", zap.Error(err))
		}
	}
	if cfg.LastPDBPath != "" && fileExists(cfg.LastPDBPath) {
		if err := u.structure.loadFile(cfg.LastPDBPath); err != nil {
			u.logger.Warn("restore structure failed", zap.Error(err))
		}
	}
	u.refresh()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// refresh pulls the merged table from the service and redraws every tab.
func (u *uiState) refresh() {
	table, stats, err := u.service.Merged()
	if err != nil {
		u.merged = nil
		u.setStatus(waitingStatus(u.service.Session(), err))
	} else {
		u.merged = table
		u.setStatus(fmt.Sprintf("Merged %d rows (%d of %d active site residues matched)",
			stats.Rows, stats.Matched, stats.Triples))
	}
	u.setHeadTitle()
	u.headView.setTable(u.merged.Head(u.service.Config().HeadRows))
	u.rebuildFilterControls()
	u.chartCache.reset(u.merged)
	u.stats.refresh()
	u.heat.refresh()
	u.updateSummary()
}

func waitingStatus(s pocketsite.Session, err error) string {
	switch {
	case s.PrankSource == "" && s.GassSource == "":
		return "Upload both prediction files"
	case s.PrankSource == "":
		return "Waiting for PRANK residue predictions"
	case s.GassSource == "":
		return "Waiting for GASS predictions"
	case errors.Is(err, pocketsite.ErrNotLoaded):
		return "Merge failed, see log"
	}
	return err.Error()
}

func (u *uiState) updateSummary() {
	s := u.service.Session()
	lines := []string{"Session " + shortID(s.ID)}
	if s.PrankSource != "" {
		lines = append(lines, fmt.Sprintf("PRANK: %s (%d rows)", s.PrankSource, len(s.Residues)))
	}
	if s.GassSource != "" {
		lines = append(lines, fmt.Sprintf("GASS: %s (%d rows)", s.GassSource, len(s.Sites)))
	}
	if s.Stats.Malformed > 0 {
		lines = append(lines, fmt.Sprintf("Skipped %d malformed active site entries", s.Stats.Malformed))
	}
	u.summary.SetText(strings.Join(lines, "\n"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (u *uiState) updateConfig(cfg pocketsite.Config) {
	cfg, err := u.service.UpdateConfig(cfg)
	if err != nil {
		u.showError(err)
	}
	if err := pocketsite.SaveConfig(u.cfgPath, cfg); err != nil {
		u.logger.Warn("save config failed", zap.Error(err))
	}
}

func (u *uiState) onExport() {
	if u.filtered.Len() == 0 {
		dialog.ShowInformation("Export", "There are no rows to export", u.w)
		return
	}
	table := u.filtered
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			u.showError(err)
			return
		}
		if uc == nil {
			return
		}
		defer uc.Close()
		if err := pocketsite.WriteCSV(uc, table); err != nil {
			u.showError(fmt.Errorf("export csv: %w", err))
			return
		}
		cfg := u.service.Config()
		cfg.LastExportPath = uc.URI().Path()
		u.updateConfig(cfg)
		u.logger.Info("exported table", zap.String("path", uc.URI().Path()), zap.Int("rows", table.Len()))
	}, u.w)
	fd.SetFileName("common_df.csv")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	fd.Show()
}

func (u *uiState) openSettings() {
	cfg := u.service.Config()
	headEntry := widget.NewEntry()
	headEntry.SetText(strconv.Itoa(cfg.HeadRows))
	binsEntry := widget.NewEntry()
	binsEntry.SetText(strconv.Itoa(cfg.HistogramBins))
	chainsEntry := widget.NewEntry()
	chainsEntry.SetText(strconv.Itoa(cfg.MaxChains))
	skipCheck := widget.NewCheck("Skip malformed active site entries", nil)
	skipCheck.SetChecked(cfg.SkipMalformed)

	form := &widget.Form{Items: []*widget.FormItem{
		{Text: "Preview rows", Widget: headEntry},
		{Text: "Histogram bins", Widget: binsEntry},
		{Text: "Max chains", Widget: chainsEntry},
		{Text: "Merge", Widget: skipCheck},
	}}
	dialog.NewCustomConfirm("Settings", "OK", "Cancel", form, func(ok bool) {
		if !ok {
			return
		}
		next := cfg
		if v, err := strconv.Atoi(strings.TrimSpace(headEntry.Text)); err == nil {
			next.HeadRows = v
		}
		if v, err := strconv.Atoi(strings.TrimSpace(binsEntry.Text)); err == nil {
			next.HistogramBins = v
		}
		if v, err := strconv.Atoi(strings.TrimSpace(chainsEntry.Text)); err == nil {
			next.MaxChains = v
		}
		next.SkipMalformed = skipCheck.Checked
		u.updateConfig(next)
		u.refresh()
		u.structure.refresh()
		u.logger.Info("settings updated")
	}, u.w).Show()
}
