package pocketsite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mergedFixture(t *testing.T) *MergedTable {
	t.Helper()
	sites := []ActiveSitePrediction{
		{Fitness: 0.9, ActiveSite: "HIS 57 A;ASP 102 A;SER 195 B", TemplateEC: "3.4.21.4"},
		{Fitness: 0.3, ActiveSite: "ASP 102 A;SER 195 B", TemplateEC: "2.7.11.1"},
	}
	table, _, err := Merge(residues(), sites, MergeOptions{})
	require.NoError(t, err)
	require.Equal(t, 6, table.Len())
	return table
}

func TestFilterApply(t *testing.T) {
	table := mergedFixture(t)

	tests := []struct {
		name  string
		build func(f *Filter) error
		want  int
	}{
		{name: "empty filter keeps all", build: func(f *Filter) error { return nil }, want: 6},
		{name: "value set", build: func(f *Filter) error { return f.SetValues(ColEC1, []string{"2"}) }, want: 2},
		{name: "empty value set ignored", build: func(f *Filter) error { return f.SetValues(ColPocket, nil) }, want: 6},
		{name: "numeric range inclusive", build: func(f *Filter) error { return f.SetRange(ColProbability, 0.65, 0.77) }, want: 4},
		{name: "reversed range", build: func(f *Filter) error { return f.SetRange(ColFitness, 1, 0.5) }, want: 4},
		{
			name: "combined",
			build: func(f *Filter) error {
				if err := f.SetValues(ColChain, []string{"A"}); err != nil {
					return err
				}
				return f.SetRange(ColFitness, 0.5, 1)
			},
			want: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilter()
			require.NoError(t, tt.build(f))
			out, err := f.Apply(table)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Len())
		})
	}
}

func TestFilterRejectsWrongColumnKinds(t *testing.T) {
	f := NewFilter()
	assert.Error(t, f.SetValues(ColFitness, []string{"0.5"}))
	assert.True(t, errors.Is(f.SetRange(ColChain, 0, 1), ErrUnknownColumn))
	assert.True(t, errors.Is(f.SetValues("nope", []string{"x"}), ErrUnknownColumn))

	f.Values["bogus"] = []string{"x"}
	_, err := f.Apply(mergedFixture(t))
	assert.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestFilterClearAndDescribe(t *testing.T) {
	f := NewFilter()
	require.NoError(t, f.SetValues(ColChain, []string{"A", "B"}))
	require.NoError(t, f.SetRange(ColFitness, 0.25, 0.5))
	assert.Equal(t, []string{"FITNESS in 0.25..0.5", "chain in [A, B]"}, f.Describe())

	f.Clear(ColChain)
	f.Clear(ColFitness)
	assert.True(t, f.Empty())
}

func TestParseFilterExpressions(t *testing.T) {
	col, values, err := ParseValuesExpr("EC1 = 3, 2 ,")
	require.NoError(t, err)
	assert.Equal(t, "EC1", col)
	assert.Equal(t, []string{"3", "2"}, values)

	col, r, err := ParseRangeExpr("FITNESS=0.5:1")
	require.NoError(t, err)
	assert.Equal(t, ColFitness, col)
	assert.Equal(t, Range{Min: 0.5, Max: 1}, r)

	_, _, err = ParseRangeExpr("FITNESS=0.5")
	assert.Error(t, err)
	_, _, err = ParseValuesExpr("=a")
	assert.Error(t, err)
}
