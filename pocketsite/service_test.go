package pocketsite

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServiceMergesOnceBothTablesLoaded(t *testing.T) {
	svc := NewService(Config{}, zap.NewNop())
	id := svc.Session().ID
	require.NotEmpty(t, id)

	require.NoError(t, svc.LoadResidues("prank.csv", strings.NewReader(prankCSV)))
	assert.False(t, svc.Ready())
	_, _, err := svc.Merged()
	assert.True(t, errors.Is(err, ErrNotLoaded))

	require.NoError(t, svc.LoadActiveSites("gass.tsv", strings.NewReader(gassTSV)))
	require.True(t, svc.Ready())
	table, stats, err := svc.Merged()
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 5, stats.Triples)
	assert.Equal(t, "prank.csv", svc.Session().PrankSource)

	svc.Reset()
	assert.False(t, svc.Ready())
	assert.NotEqual(t, id, svc.Session().ID)
}

func TestServiceLoadErrorKeepsPreviousTable(t *testing.T) {
	svc := NewService(Config{}, nil)
	require.NoError(t, svc.LoadResidues("prank.csv", strings.NewReader(prankCSV)))
	require.NoError(t, svc.LoadActiveSites("gass.tsv", strings.NewReader(gassTSV)))

	err := svc.LoadResidues("broken.csv", strings.NewReader("x,y\n1,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.csv")
	assert.True(t, svc.Ready())
}

const malformedGassTSV = "h1\th2\th3\th4\th5\th6\th7\n0.5\tHIS 57 A;oops\tx\tx\t1.1.1.1\tx\tx\n"

func TestServiceSkipMalformedToggle(t *testing.T) {
	svc := NewService(Config{}, zap.NewNop())
	require.NoError(t, svc.LoadResidues("prank.csv", strings.NewReader(prankCSV)))
	err := svc.LoadActiveSites("gass.tsv", strings.NewReader(malformedGassTSV))
	require.ErrorIs(t, err, ErrMalformedActiveSite)
	assert.False(t, svc.Ready())
	assert.Nil(t, svc.Session().Sites)

	cfg := svc.Config()
	cfg.SkipMalformed = true
	_, err = svc.UpdateConfig(cfg)
	require.NoError(t, err)
	require.NoError(t, svc.LoadActiveSites("gass.tsv", strings.NewReader(malformedGassTSV)))
	table, stats, err := svc.Merged()
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 1, stats.Malformed)

	cfg.SkipMalformed = false
	got, err := svc.UpdateConfig(cfg)
	require.ErrorIs(t, err, ErrMalformedActiveSite)
	assert.True(t, got.SkipMalformed)
	assert.True(t, svc.Config().SkipMalformed)
	assert.True(t, svc.Ready())
}

func TestServiceMergeErrorKeepsPreviousTable(t *testing.T) {
	svc := NewService(Config{}, zap.NewNop())
	require.NoError(t, svc.LoadResidues("prank.csv", strings.NewReader(prankCSV)))
	require.NoError(t, svc.LoadActiveSites("gass.tsv", strings.NewReader(gassTSV)))
	before, _, err := svc.Merged()
	require.NoError(t, err)

	err = svc.LoadActiveSites("bad.tsv", strings.NewReader(malformedGassTSV))
	require.ErrorIs(t, err, ErrMalformedActiveSite)

	sess := svc.Session()
	assert.Equal(t, "gass.tsv", sess.GassSource)
	assert.Len(t, sess.Sites, 2)
	after, _, err := svc.Merged()
	require.NoError(t, err)
	assert.Same(t, before, after)
}

func TestServiceConfigColumns(t *testing.T) {
	defer SetColumnCandidates(ColumnCandidates{})
	cfg := Config{Columns: ColumnCandidates{ResidueLabel: []string{"res_no"}}}
	svc := NewService(cfg, zap.NewNop())
	assert.Equal(t, []string{"res_no"}, svc.Config().Columns.ResidueLabel)
	assert.Equal(t, DefaultColumnCandidates().Chain, svc.Config().Columns.Chain)

	csv := "chain,res_no,residue_name,probability,pocket\nA,57,HIS,0.9,1\n"
	require.NoError(t, svc.LoadResidues("custom.csv", strings.NewReader(csv)))
	assert.Equal(t, "A_57", svc.Session().Residues[0].Key())

	_, err := svc.UpdateConfig(Config{})
	require.NoError(t, err)
	err = svc.LoadResidues("custom.csv", strings.NewReader(csv))
	assert.Error(t, err)
}

func TestServiceFiltered(t *testing.T) {
	svc := NewService(Config{}, zap.NewNop())
	_, err := svc.Filtered(NewFilter())
	assert.ErrorIs(t, err, ErrNotLoaded)

	require.NoError(t, svc.LoadResidues("prank.csv", strings.NewReader(prankCSV)))
	require.NoError(t, svc.LoadActiveSites("gass.tsv", strings.NewReader(gassTSV)))
	f := NewFilter()
	require.NoError(t, f.SetValues(ColChain, []string{"B"}))
	out, err := svc.Filtered(f)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}
