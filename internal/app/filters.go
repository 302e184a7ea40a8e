package app

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/pocketsite/pocketsite"
)

// sliderSteps is the resolution of the numeric range sliders.
const sliderSteps = 100

// rebuildFilterControls recreates one control per selected filter column and
// resets the filter.
func (u *uiState) rebuildFilterControls() {
	u.filter = pocketsite.NewFilter()
	objs := make([]fyne.CanvasObject, 0, len(u.filterCols.Selected))
	if u.merged != nil {
		for _, col := range u.filterCols.Selected {
			objs = append(objs, u.filterControl(col))
		}
	}
	u.filterBox.Objects = objs
	u.filterBox.Refresh()
	u.applyFilter()
}

func (u *uiState) filterControl(col string) fyne.CanvasObject {
	if pocketsite.IsNumericColumn(col) {
		return u.rangeControl(col)
	}
	return u.valuesControl(col)
}

func (u *uiState) rangeControl(col string) fyne.CanvasObject {
	lo, hi, err := u.merged.NumericRange(col)
	if err != nil {
		return widget.NewLabel(err.Error())
	}
	label := widget.NewLabel(rangeLabel(col, lo, hi))
	if hi <= lo {
		return label
	}
	minSlider := widget.NewSlider(lo, hi)
	maxSlider := widget.NewSlider(lo, hi)
	minSlider.Step = (hi - lo) / sliderSteps
	maxSlider.Step = minSlider.Step
	minSlider.SetValue(lo)
	maxSlider.SetValue(hi)

	show := func(float64) {
		label.SetText(rangeLabel(col, math.Min(minSlider.Value, maxSlider.Value), math.Max(minSlider.Value, maxSlider.Value)))
	}
	apply := func(float64) {
		show(0)
		if err := u.filter.SetRange(col, minSlider.Value, maxSlider.Value); err != nil {
			u.showError(err)
			return
		}
		u.applyFilter()
	}
	minSlider.OnChanged = show
	maxSlider.OnChanged = show
	minSlider.OnChangeEnded = apply
	maxSlider.OnChangeEnded = apply
	return container.NewVBox(label, minSlider, maxSlider)
}

func rangeLabel(col string, lo, hi float64) string {
	return fmt.Sprintf("Select values for %s: %.3f to %.3f", col, lo, hi)
}

func (u *uiState) valuesControl(col string) fyne.CanvasObject {
	values, err := u.merged.UniqueValues(col)
	if err != nil {
		return widget.NewLabel(err.Error())
	}
	pocketsite.SortLabels(values)
	group := widget.NewCheckGroup(values, func(selected []string) {
		if err := u.filter.SetValues(col, selected); err != nil {
			u.showError(err)
			return
		}
		u.applyFilter()
	})
	group.Horizontal = len(values) <= 8
	label := widget.NewLabel(fmt.Sprintf("Select values for %s", col))
	if group.Horizontal {
		return container.NewVBox(label, group)
	}
	scroll := container.NewVScroll(group)
	scroll.SetMinSize(fyne.NewSize(0, 140))
	return container.NewBorder(label, nil, nil, nil, scroll)
}

// applyFilter recomputes the filtered table from the merged table.
func (u *uiState) applyFilter() {
	if u.merged == nil {
		u.filtered = nil
		u.filteredView.setTable(nil)
		u.filteredInfo.SetText("")
		u.exportBtn.Disable()
		return
	}
	out, err := u.filter.Apply(u.merged)
	if err != nil {
		u.showError(err)
		return
	}
	u.filtered = out
	u.filteredView.setTable(out)
	u.filteredInfo.SetText(fmt.Sprintf("Filtered table: %d of %d rows", out.Len(), u.merged.Len()))
	if out.Len() == 0 {
		u.exportBtn.Disable()
	} else {
		u.exportBtn.Enable()
	}
}
