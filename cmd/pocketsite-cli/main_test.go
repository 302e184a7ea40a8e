package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"yashubustudio/pocketsite/internal/structure"
)

const prankCSV = `chain,residue_label,residue_name,probability,pocket
A,57,HIS,0.910,1
A,57,HIS,0.420,3
A,102,ASP,0.770,1
B,195,SER,0.650,2
`

const gassTSV = "FITNESS\tACTIVE_SITE\tTEMPLATE_PDB\tTEMPLATE\tEC\tUNIPROT\tRES\t#\n" +
	"0.83\tHIS 57 A;ASP 102 A;SER 195 B\t1a0j\tTRYP\t3.4.21.4\tP00760\t1.7\t1\n" +
	"0.41\tCYS 25 A;HIS 159 A\t1ppn\tPAPA\t2.7.11.1\tP00784\t1.6\t2\n"

type fixture struct {
	dir   string
	prank string
	gass  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{dir: dir, prank: filepath.Join(dir, "prank.csv"), gass: filepath.Join(dir, "gass.tsv")}
	require.NoError(t, os.WriteFile(f.prank, []byte(prankCSV), 0o644))
	require.NoError(t, os.WriteFile(f.gass, []byte(gassTSV), 0o644))
	return f
}

func (f fixture) path(name string) string { return filepath.Join(f.dir, name) }

func (f fixture) args(extra ...string) []string {
	return append([]string{"--config", f.path("config.json"), "--prank", f.prank, "--gass", f.gass}, extra...)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(zap.NewNop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func pdbText(chains ...string) string {
	var b strings.Builder
	serial := 1
	for _, c := range chains {
		for _, res := range []int{57, 102, 195} {
			fmt.Fprintf(&b, "ATOM  %5d  CA  ALA %1s%4d    %8.3f%8.3f%8.3f  1.00  0.00           C\n",
				serial, c, res, 1.0, 2.0, 3.0)
			serial++
		}
		b.WriteString("TER\n")
	}
	b.WriteString("END\n")
	return b.String()
}

func TestMergeWritesCSV(t *testing.T) {
	f := newFixture(t)
	out := f.path("common.csv")
	args := append([]string{"merge"}, f.args("--out", out, "--stdout")...)
	stdout, err := execute(t, args...)
	require.NoError(t, err)

	records := readCSV(t, out)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"POCKET", "RESIDUE", "EC", "FITNESS", "PROB.POCKET", "res_name", "res_id", "chain", "EC2", "EC1"}, records[0])
	assert.Equal(t, []string{"1", "A_57", "3.4.21.4", "0.83", "0.91", "HIS", "57", "A", "3.4", "3"}, records[1])
	assert.Equal(t, "3", records[2][0])

	assert.Contains(t, stdout, "Matched residues:        3 of 5")
	assert.Contains(t, stdout, "Unmatched residues:      2 (dropped)")
	assert.Contains(t, stdout, "Merged rows:             4")
	assert.Contains(t, stdout, "A_102")
}

func TestMergeFilters(t *testing.T) {
	f := newFixture(t)
	out := f.path("filtered.csv")
	args := append([]string{"merge"}, f.args("--out", out, "--where", "chain=A", "--range", "PROB.POCKET=0.5:1")...)
	stdout, err := execute(t, args...)
	require.NoError(t, err)

	records := readCSV(t, out)
	require.Len(t, records, 3)
	assert.Equal(t, "A_57", records[1][1])
	assert.Equal(t, "A_102", records[2][1])
	assert.Contains(t, stdout, "Filtered rows:           2")
}

func TestMergeRejectsBadFilters(t *testing.T) {
	f := newFixture(t)
	for _, extra := range [][]string{
		{"--where", "FITNESS=0.8"},
		{"--range", "chain=0:1"},
		{"--range", "FITNESS=low:high"},
		{"--where", "nope=1"},
	} {
		args := append([]string{"merge"}, f.args(append([]string{"--out", f.path("x.csv")}, extra...)...)...)
		_, err := execute(t, args...)
		assert.Error(t, err, "%v", extra)
	}
}

func TestMergeMalformedActiveSite(t *testing.T) {
	f := newFixture(t)
	bad := gassTSV + "0.20\tHIS 57\t1xyz\tX\t1.1.1.1\tP1\t2.0\t3\n"
	require.NoError(t, os.WriteFile(f.gass, []byte(bad), 0o644))

	args := append([]string{"merge"}, f.args("--out", f.path("bad.csv"))...)
	_, err := execute(t, args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HIS 57")

	args = append([]string{"merge"}, f.args("--out", f.path("ok.csv"), "--skip-malformed")...)
	stdout, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Malformed entries:       1 (skipped)")
}

func TestMergeRequiresInputs(t *testing.T) {
	_, err := execute(t, "merge", "--prank", "x.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--gass")
}

func TestPlotCommands(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		args []string
	}{
		{name: "hist", args: []string{"plot", "hist", "--column", "EC1"}},
		{name: "scatter", args: []string{"plot", "scatter", "--x", "chain", "--y", "FITNESS"}},
		{name: "heatmap", args: []string{"plot", "heatmap", "--index", "POCKET", "--columns", "res_name", "--values", "PROB.POCKET"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := f.path(tt.name + ".png")
			_, err := execute(t, append(tt.args, f.args("--out", out)...)...)
			require.NoError(t, err)
			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
		})
	}

	_, err := execute(t, append([]string{"plot", "hist"}, f.args()...)...)
	assert.Error(t, err)
}

func TestViewFromMergedTable(t *testing.T) {
	f := newFixture(t)
	pdb := f.path("model.pdb")
	require.NoError(t, os.WriteFile(pdb, []byte(pdbText("A")), 0o644))
	out := f.path("view.html")

	args := append([]string{"view", "--pdb", pdb, "--color", "green"}, f.args("--out", out)...)
	stdout, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "3 highlighted residues")
	assert.Contains(t, stdout, "Not in structure: residues 195, chains B")

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), "green")
}

func TestViewSelectionMismatch(t *testing.T) {
	dir := t.TempDir()
	pdb := filepath.Join(dir, "model.pdb")
	require.NoError(t, os.WriteFile(pdb, []byte(pdbText("A")), 0o644))
	_, err := execute(t, "view", "--config", filepath.Join(dir, "config.json"), "--pdb", pdb,
		"--residues", "57,102", "--chains", "A", "--out", filepath.Join(dir, "v.html"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "should be the same")
}

func TestViewRejectsResiduesWithMergeInputs(t *testing.T) {
	f := newFixture(t)
	pdb := f.path("model.pdb")
	require.NoError(t, os.WriteFile(pdb, []byte(pdbText("A")), 0o644))

	args := append([]string{"view", "--pdb", pdb, "--residues", "57", "--chains", "A"}, f.args("--out", f.path("v.html"))...)
	_, err := execute(t, args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be combined")

	_, err = execute(t, "view", "--config", f.path("config.json"), "--pdb", pdb,
		"--residues", "57", "--chains", "A", "--where", "EC1=3", "--out", f.path("w.html"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be combined")
	_, statErr := os.Stat(f.path("w.html"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestReduceChains(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "big.pdb")
	out := filepath.Join(dir, "small.pdb")
	require.NoError(t, os.WriteFile(in, []byte(pdbText("A", "B", "C", "D")), 0o644))

	stdout, err := execute(t, "reduce-chains", "--config", filepath.Join(dir, "config.json"), "--max", "2", in, out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "[B C]")

	reduced, err := structure.ParseFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, reduced.Chains())
	assert.Equal(t, []string{"57", "102", "195"}, reduced.Residues("B"))
	assert.Equal(t, 6, reduced.Len())
}

func TestVersion(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pocketsite-cli dev")
}

func TestResolveOutputPathDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := resolveOutputPath("", dir, "common_df", ".csv")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "common_df_"))
	assert.DirExists(t, dir)
}
