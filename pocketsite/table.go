package pocketsite

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// MergedTable is an immutable list of merged rows.
type MergedTable struct {
	rows []MergedRow
}

// NewMergedTable wraps a copy of rows.
func NewMergedTable(rows []MergedRow) *MergedTable {
	cp := make([]MergedRow, len(rows))
	copy(cp, rows)
	return &MergedTable{rows: cp}
}

// Columns returns the column names in display order.
func (t *MergedTable) Columns() []string {
	return MergedColumns()
}

// Len returns the number of rows.
func (t *MergedTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Row returns the i-th row.
func (t *MergedTable) Row(i int) MergedRow {
	return t.rows[i]
}

// Rows returns a copy of all rows.
func (t *MergedTable) Rows() []MergedRow {
	if t == nil {
		return nil
	}
	cp := make([]MergedRow, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Head returns a table with the first n rows.
func (t *MergedTable) Head(n int) *MergedTable {
	if n < 0 || n > t.Len() {
		n = t.Len()
	}
	if t == nil {
		return NewMergedTable(nil)
	}
	return NewMergedTable(t.rows[:n])
}

// Value renders a single cell.
func (t *MergedTable) Value(row int, col string) (string, error) {
	if row < 0 || row >= t.Len() {
		return "", fmt.Errorf("row %d out of range", row)
	}
	return t.rows[row].Value(col)
}

// NumericColumn returns all values of a numeric column.
func (t *MergedTable) NumericColumn(col string) ([]float64, error) {
	if !IsNumericColumn(col) {
		return nil, fmt.Errorf("%w: %q is not numeric", ErrUnknownColumn, col)
	}
	out := make([]float64, t.Len())
	for i := 0; i < t.Len(); i++ {
		out[i], _ = t.rows[i].Numeric(col)
	}
	return out, nil
}

// Column returns the textual values of a column in row order.
func (t *MergedTable) Column(col string) ([]string, error) {
	if !validColumn(col) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	out := make([]string, t.Len())
	for i := 0; i < t.Len(); i++ {
		out[i], _ = t.rows[i].Value(col)
	}
	return out, nil
}

// UniqueValues returns the distinct values of a column in first-seen order.
func (t *MergedTable) UniqueValues(col string) ([]string, error) {
	values, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// NumericRange returns the minimum and maximum of a numeric column.
func (t *MergedTable) NumericRange(col string) (float64, float64, error) {
	values, err := t.NumericColumn(col)
	if err != nil {
		return 0, 0, err
	}
	if len(values) == 0 {
		return 0, 0, fmt.Errorf("%w: column %q is empty", ErrNoData, col)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, nil
}

// Records renders the table as string rows, header first.
func (t *MergedTable) Records() [][]string {
	out := make([][]string, 0, t.Len()+1)
	out = append(out, MergedColumns())
	for i := 0; i < t.Len(); i++ {
		out = append(out, t.rows[i].Record())
	}
	return out
}

func validColumn(col string) bool {
	for _, c := range mergedColumns {
		if c == col {
			return true
		}
	}
	return false
}

// SortLabels orders labels numerically when every label is a number and
// lexically otherwise.
func SortLabels(labels []string) {
	numeric := true
	for _, l := range labels {
		if _, err := strconv.ParseFloat(l, 64); err != nil {
			numeric = false
			break
		}
	}
	sort.SliceStable(labels, func(i, j int) bool {
		if numeric {
			a, _ := strconv.ParseFloat(labels[i], 64)
			b, _ := strconv.ParseFloat(labels[j], 64)
			return a < b
		}
		return labels[i] < labels[j]
	})
}
