package pocketsite

import (
	"fmt"
	"math"
)

// PivotTable is a mean-aggregated cross tabulation of a merged table.
type PivotTable struct {
	Index     string
	Columns   string
	Values    string
	RowLabels []string
	ColLabels []string
	// Cells is indexed [row][col]; combinations without data are NaN.
	Cells [][]float64
}

// Pivot groups rows by the index and columns fields and averages values.
func Pivot(t *MergedTable, index, columns, values string) (*PivotTable, error) {
	for _, col := range []string{index, columns} {
		if !validColumn(col) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		if IsNumericColumn(col) {
			return nil, fmt.Errorf("pivot axis %q must be categorical", col)
		}
	}
	if index == columns {
		return nil, fmt.Errorf("pivot index and columns must differ, both are %q", index)
	}
	if !IsNumericColumn(values) {
		return nil, fmt.Errorf("%w: pivot values %q must be numeric", ErrUnknownColumn, values)
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrNoData)
	}

	type cellKey struct{ row, col string }
	sums := make(map[cellKey]float64)
	counts := make(map[cellKey]int)
	rowSeen := make(map[string]struct{})
	colSeen := make(map[string]struct{})
	var rowLabels, colLabels []string
	for _, r := range t.rows {
		rv, _ := r.Value(index)
		cv, _ := r.Value(columns)
		v, _ := r.Numeric(values)
		if _, ok := rowSeen[rv]; !ok {
			rowSeen[rv] = struct{}{}
			rowLabels = append(rowLabels, rv)
		}
		if _, ok := colSeen[cv]; !ok {
			colSeen[cv] = struct{}{}
			colLabels = append(colLabels, cv)
		}
		k := cellKey{rv, cv}
		sums[k] += v
		counts[k]++
	}
	SortLabels(rowLabels)
	SortLabels(colLabels)

	cells := make([][]float64, len(rowLabels))
	for i, rl := range rowLabels {
		cells[i] = make([]float64, len(colLabels))
		for j, cl := range colLabels {
			k := cellKey{rl, cl}
			if n := counts[k]; n > 0 {
				cells[i][j] = sums[k] / float64(n)
			} else {
				cells[i][j] = math.NaN()
			}
		}
	}
	return &PivotTable{
		Index:     index,
		Columns:   columns,
		Values:    values,
		RowLabels: rowLabels,
		ColLabels: colLabels,
		Cells:     cells,
	}, nil
}

// Range returns the smallest and largest non-NaN cell.
func (p *PivotTable) Range() (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	found := false
	for _, row := range p.Cells {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			found = true
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi, found
}
