package app

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"yashubustudio/pocketsite/internal/structure"
	"yashubustudio/pocketsite/pocketsite"
)

type structureTab struct {
	u *uiState

	pdbName string
	pdbText string
	model   *structure.Structure

	info        *widget.Label
	residues    *widget.Entry
	chains      *widget.Entry
	color       *widget.Select
	radius      *widget.Slider
	radiusLabel *widget.Label
	reduceBtn   *widget.Button
	viewBtn     *widget.Button
	content     fyne.CanvasObject
}

func newStructureTab(u *uiState) *structureTab {
	cfg := u.service.Config()
	t := &structureTab{u: u}
	t.info = widget.NewLabel("Upload the PDB file to visualize the results")
	t.info.Wrapping = fyne.TextWrapWord

	openBtn := widget.NewButtonWithIcon("Open PDB file", theme.FolderOpenIcon(), func() { t.onOpen() })
	t.reduceBtn = widget.NewButtonWithIcon("Reduce chains", theme.ContentCutIcon(), func() { t.onReduce() })
	t.reduceBtn.Disable()

	t.residues = widget.NewEntry()
	t.residues.SetPlaceHolder("57,102,195")
	t.chains = widget.NewEntry()
	t.chains.SetPlaceHolder("A,A,B")
	useFiltered := widget.NewButtonWithIcon("Use filtered rows", theme.ContentPasteIcon(), func() { t.onUseFiltered() })

	t.color = widget.NewSelect(structure.Colors, nil)
	t.color.SetSelected(cfg.Viewer.Color)
	t.radiusLabel = widget.NewLabel("")
	t.radius = widget.NewSlider(structure.MinRadius, structure.MaxRadius)
	t.radius.Step = 0.1
	t.radius.OnChanged = func(v float64) { t.radiusLabel.SetText(fmt.Sprintf("%.1f", v)) }
	t.radius.SetValue(cfg.Viewer.Radius)

	t.viewBtn = widget.NewButtonWithIcon("Open viewer", theme.VisibilityIcon(), func() { t.onView() })
	t.viewBtn.Disable()

	form := widget.NewForm(
		widget.NewFormItem("Residue number(s)", t.residues),
		widget.NewFormItem("Chain(s)", t.chains),
		widget.NewFormItem("Highlight color", t.color),
		widget.NewFormItem("Highlight radius", container.NewBorder(nil, nil, nil, t.radiusLabel, t.radius)),
	)
	t.content = container.NewVScroll(container.NewVBox(
		heading("Visualize Results on PDB"),
		container.NewHBox(openBtn, t.reduceBtn),
		t.info,
		widget.NewSeparator(),
		form,
		container.NewHBox(useFiltered, t.viewBtn),
	))
	return t
}

func (t *structureTab) onOpen() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			t.u.showError(err)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.u.showError(err)
			return
		}
		if err := t.load(rc.URI().Name(), string(data)); err != nil {
			t.u.showError(err)
			return
		}
		cfg := t.u.service.Config()
		cfg.LastPDBPath = rc.URI().Path()
		t.u.updateConfig(cfg)
	}, t.u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdb", ".ent"}))
	fd.Show()
}

func (t *structureTab) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read pdb: %w", err)
	}
	return t.load(filepath.Base(path), string(data))
}

func (t *structureTab) load(name, text string) error {
	model, err := structure.Parse(strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	t.pdbName, t.pdbText, t.model = name, text, model
	t.u.logger.Info("loaded structure",
		zap.String("file", name),
		zap.Int("atoms", model.Len()),
		zap.Strings("chains", model.Chains()))
	t.refresh()
	return nil
}

// refresh updates the structure summary and button states.
func (t *structureTab) refresh() {
	if t.model == nil {
		t.reduceBtn.Disable()
		t.viewBtn.Disable()
		return
	}
	chains := t.model.Chains()
	maxChains := t.u.service.Config().MaxChains
	t.info.SetText(fmt.Sprintf("%s: %d atoms in %d chains (%s)",
		t.pdbName, t.model.Len(), len(chains), strings.Join(chains, ", ")))
	if len(chains) > maxChains {
		t.reduceBtn.Enable()
	} else {
		t.reduceBtn.Disable()
	}
	t.viewBtn.Enable()
}

func (t *structureTab) onReduce() {
	if t.model == nil {
		return
	}
	keep := structure.ReduceChains(t.model.Chains(), t.u.service.Config().MaxChains)
	var buf bytes.Buffer
	if err := structure.WritePDB(&buf, t.model, keep); err != nil {
		t.u.showError(fmt.Errorf("reduce chains: %w", err))
		return
	}
	if err := t.load(t.pdbName, buf.String()); err != nil {
		t.u.showError(err)
		return
	}
	t.u.logger.Info("reduced chains", zap.Strings("kept", keep))
}

func (t *structureTab) onUseFiltered() {
	hl := pocketsite.Highlights(t.u.filtered)
	if len(hl) == 0 {
		dialog.ShowInformation("Highlight", "The filtered table is empty", t.u.w)
		return
	}
	sels := make([]structure.Selection, len(hl))
	for i, h := range hl {
		sels[i] = structure.Selection{Residue: h.ResidueID, Chain: h.Chain}
	}
	res, ch := structure.FormatSelection(sels)
	t.residues.SetText(res)
	t.chains.SetText(ch)
}

func (t *structureTab) onView() {
	path, err := t.writeViewer()
	if err != nil {
		t.u.showError(err)
		return
	}
	if err := t.u.app.OpenURL(&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}); err != nil {
		t.u.showError(fmt.Errorf("open viewer: %w", err))
	}
}

// writeViewer renders the current selection into a page under the temp dir
// and returns its path.
func (t *structureTab) writeViewer() (string, error) {
	if t.model == nil {
		return "", fmt.Errorf("%w: open a PDB file first", pocketsite.ErrNotLoaded)
	}
	sels, err := structure.ParseSelection(t.residues.Text, t.chains.Text)
	if err != nil {
		return "", err
	}
	if missing := structure.Missing(t.model, sels); len(missing) > 0 {
		res, ch := structure.FormatSelection(missing)
		t.u.logger.Warn("residues not found in structure", zap.String("residues", res), zap.String("chains", ch))
	}

	cfg := t.u.service.Config()
	cfg.Viewer.Color = t.color.Selected
	cfg.Viewer.Radius = t.radius.Value
	t.u.updateConfig(cfg)

	opts := structure.ViewOptions{
		Title:  t.pdbName,
		Color:  cfg.Viewer.Color,
		Radius: cfg.Viewer.Radius,
		Width:  cfg.Viewer.Width,
		Height: cfg.Viewer.Height,
	}
	path := filepath.Join(os.TempDir(), "pocketsite", t.u.service.Session().ID+".html")
	if err := structure.WriteViewerFile(path, t.pdbText, sels, opts); err != nil {
		return "", err
	}
	t.u.logger.Info("viewer written", zap.String("path", path), zap.Int("highlights", len(sels)))
	return path, nil
}
