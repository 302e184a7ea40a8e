package pocketsite

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Filter narrows a merged table. Numeric columns are filtered by range,
// the others by membership in a value set. An empty value set keeps every row.
type Filter struct {
	Values map[string][]string
	Ranges map[string]Range
}

// NewFilter returns an empty filter.
func NewFilter() *Filter {
	return &Filter{Values: map[string][]string{}, Ranges: map[string]Range{}}
}

// SetValues restricts a categorical column to the given values.
func (f *Filter) SetValues(col string, values []string) error {
	if !validColumn(col) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	if IsNumericColumn(col) {
		return fmt.Errorf("column %q is numeric, use a range", col)
	}
	if f.Values == nil {
		f.Values = map[string][]string{}
	}
	f.Values[col] = cloneStrings(values)
	return nil
}

// SetRange restricts a numeric column to [min, max].
func (f *Filter) SetRange(col string, min, max float64) error {
	if !IsNumericColumn(col) {
		return fmt.Errorf("%w: %q is not numeric", ErrUnknownColumn, col)
	}
	if min > max {
		min, max = max, min
	}
	if f.Ranges == nil {
		f.Ranges = map[string]Range{}
	}
	f.Ranges[col] = Range{Min: min, Max: max}
	return nil
}

// Clear removes the constraint on a column.
func (f *Filter) Clear(col string) {
	delete(f.Values, col)
	delete(f.Ranges, col)
}

// Empty reports whether the filter keeps every row.
func (f *Filter) Empty() bool {
	if f == nil {
		return true
	}
	for _, v := range f.Values {
		if len(v) > 0 {
			return false
		}
	}
	return len(f.Ranges) == 0
}

// Apply returns the rows of t that pass every constraint.
func (f *Filter) Apply(t *MergedTable) (*MergedTable, error) {
	if t == nil {
		return NewMergedTable(nil), nil
	}
	if f.Empty() {
		return NewMergedTable(t.Rows()), nil
	}
	sets := make(map[string]map[string]struct{}, len(f.Values))
	for col, values := range f.Values {
		if !validColumn(col) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		if len(values) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		sets[col] = set
	}
	for col := range f.Ranges {
		if !IsNumericColumn(col) {
			return nil, fmt.Errorf("%w: %q is not numeric", ErrUnknownColumn, col)
		}
	}
	out := make([]MergedRow, 0, t.Len())
	for _, row := range t.rows {
		if f.keep(row, sets) {
			out = append(out, row)
		}
	}
	return &MergedTable{rows: out}, nil
}

func (f *Filter) keep(row MergedRow, sets map[string]map[string]struct{}) bool {
	for col, set := range sets {
		v, _ := row.Value(col)
		if _, ok := set[v]; !ok {
			return false
		}
	}
	for col, r := range f.Ranges {
		v, _ := row.Numeric(col)
		if !r.Contains(v) {
			return false
		}
	}
	return true
}

// Describe renders the active constraints, one per column, sorted by column.
func (f *Filter) Describe() []string {
	if f == nil {
		return nil
	}
	var out []string
	for col, values := range f.Values {
		if len(values) == 0 {
			continue
		}
		out = append(out, fmt.Sprintf("%s in [%s]", col, strings.Join(values, ", ")))
	}
	for col, r := range f.Ranges {
		out = append(out, fmt.Sprintf("%s in %s..%s", col, formatFloat(r.Min), formatFloat(r.Max)))
	}
	sort.Strings(out)
	return out
}

// ParseValuesExpr parses "COL=a,b,c".
func ParseValuesExpr(expr string) (string, []string, error) {
	col, rest, ok := strings.Cut(expr, "=")
	col = strings.TrimSpace(col)
	if !ok || col == "" {
		return "", nil, fmt.Errorf("invalid filter %q, want COL=v1,v2", expr)
	}
	var values []string
	for _, v := range strings.Split(rest, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return col, values, nil
}

// ParseRangeExpr parses "COL=min:max".
func ParseRangeExpr(expr string) (string, Range, error) {
	col, rest, ok := strings.Cut(expr, "=")
	col = strings.TrimSpace(col)
	if !ok || col == "" {
		return "", Range{}, fmt.Errorf("invalid range %q, want COL=min:max", expr)
	}
	lo, hi, ok := strings.Cut(rest, ":")
	if !ok {
		return "", Range{}, fmt.Errorf("invalid range %q, want COL=min:max", expr)
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return "", Range{}, fmt.Errorf("invalid range minimum %q", lo)
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return "", Range{}, fmt.Errorf("invalid range maximum %q", hi)
	}
	return col, Range{Min: min, Max: max}, nil
}
