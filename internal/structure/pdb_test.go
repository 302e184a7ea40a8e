package structure

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atomLine(serial int, chain string, resSeq int) string {
	return fmt.Sprintf("ATOM  %5d  CA  ALA %1s%4d    %8.3f%8.3f%8.3f  1.00  0.00           C",
		serial, chain, resSeq, 1.0, 2.0, 3.0)
}

func samplePDB(chains ...string) string {
	var b strings.Builder
	b.WriteString("HEADER    TEST STRUCTURE\n")
	serial := 1
	for _, c := range chains {
		for res := 1; res <= 2; res++ {
			b.WriteString(atomLine(serial, c, res))
			b.WriteByte('\n')
			serial++
		}
		b.WriteString("TER\n")
	}
	b.WriteString("END\n")
	return b.String()
}

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(samplePDB("A", "B")))
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []string{"A", "B"}, s.Chains())
	assert.Equal(t, []string{"1", "2"}, s.Residues("B"))
	assert.True(t, s.HasResidue("A", "2"))
	assert.True(t, s.HasResidue("", "1"))
	assert.False(t, s.HasResidue("A", "3"))
	assert.False(t, s.HasResidue("A", "x"))

	atoms := s.Atoms()
	require.Len(t, atoms, 4)
	a := atoms[2]
	assert.Equal(t, 3, a.Serial)
	assert.Equal(t, "CA", a.Name)
	assert.Equal(t, "ALA", a.ResName)
	assert.Equal(t, "B", a.Chain)
	assert.Equal(t, "1", a.ResSeq)
	assert.InDelta(t, 1.0, a.X, 1e-6)
	assert.InDelta(t, 3.0, a.Z, 1e-6)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("HEADER only\n"))
	assert.True(t, errors.Is(err, ErrNoAtoms))

	_, err = Parse(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrNoAtoms))
}

func TestReduceChains(t *testing.T) {
	tests := []struct {
		name   string
		chains []string
		max    int
		want   []string
	}{
		{name: "under budget", chains: []string{"A", "B"}, max: 8, want: []string{"A", "B"}},
		{name: "odd surplus", chains: strings.Split("ABCDEFGHIJK", ""), max: 8, want: strings.Split("BCDEFGHI", "")},
		{name: "even surplus", chains: strings.Split("ABCDEFGHIJ", ""), max: 8, want: strings.Split("BCDEFGHI", "")},
		{name: "default budget", chains: strings.Split("ABCDEFGHI", ""), max: 0, want: strings.Split("ABCDEFGH", "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReduceChains(tt.chains, tt.max))
		})
	}
}

func TestWritePDB(t *testing.T) {
	s, err := Parse(strings.NewReader(samplePDB("A", "B", "C")))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePDB(&buf, s, []string{"A", "C"}))
	assert.NotContains(t, buf.String(), " B   1")

	again, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, again.Chains())
	assert.Equal(t, 4, again.Len())
	assert.Equal(t, []string{"1", "2"}, again.Residues("C"))
	for _, a := range again.Atoms() {
		assert.InDelta(t, 2.0, a.Y, 1e-3)
	}
}

func TestWritePDBNoKeptChains(t *testing.T) {
	s, err := Parse(strings.NewReader(samplePDB("A")))
	require.NoError(t, err)
	err = WritePDB(&bytes.Buffer{}, s, []string{"Z"})
	assert.True(t, errors.Is(err, ErrNoAtoms))
}

func TestReduceFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdb")
	out := filepath.Join(dir, "out", "reduced.pdb")
	require.NoError(t, os.WriteFile(in, []byte(samplePDB("A", "B", "C", "D")), 0o644))

	kept, err := ReduceFile(in, out, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, kept)

	s, err := ParseFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, s.Chains())
}
