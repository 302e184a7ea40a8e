package structure

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	chem "github.com/rmera/gochem"
	v3 "github.com/rmera/gochem/v3"
)

// DefaultMaxChains is the chain budget used when none is configured.
const DefaultMaxChains = 8

// ReduceChains selects at most max chains. Surplus chains are trimmed from
// both ends of the list, the leading end losing the smaller half.
func ReduceChains(chains []string, max int) []string {
	if max <= 0 {
		max = DefaultMaxChains
	}
	if len(chains) <= max {
		out := make([]string, len(chains))
		copy(out, chains)
		return out
	}
	remove := len(chains) - max
	start := remove / 2
	end := len(chains) - (remove - start)
	out := make([]string, end-start)
	copy(out, chains[start:end])
	return out
}

// chainAtoms is the atom subset handed to the gochem writer.
type chainAtoms []*chem.Atom

func (c chainAtoms) Atom(i int) *chem.Atom { return c[i] }
func (c chainAtoms) Len() int             { return len(c) }

// WritePDB writes the atoms of the kept chains with first-model coordinates.
func WritePDB(w io.Writer, s *Structure, keep []string) error {
	allowed := make(map[string]struct{}, len(keep))
	for _, c := range keep {
		allowed[c] = struct{}{}
	}
	var (
		atoms chainAtoms
		index []int
	)
	for i := 0; i < s.mol.Len(); i++ {
		a := s.mol.Atom(i)
		if _, ok := allowed[a.Chain]; !ok {
			continue
		}
		atoms = append(atoms, a)
		index = append(index, i)
	}
	if len(atoms) == 0 {
		return ErrNoAtoms
	}
	coords := v3.Zeros(len(index))
	coords.SomeVecs(s.mol.Coords[0], index)
	bfactors := make([]float64, len(index))
	if len(s.mol.Bfactors) > 0 && len(s.mol.Bfactors[0]) == s.mol.Len() {
		for j, i := range index {
			bfactors[j] = s.mol.Bfactors[0][i]
		}
	}
	if err := chem.PDBWrite(w, coords, atoms, bfactors); err != nil {
		return fmt.Errorf("write pdb: %w", err)
	}
	return nil
}

// ReduceFile rewrites a PDB file keeping at most max chains and returns the
// kept chain identifiers.
func ReduceFile(in, out string, max int) ([]string, error) {
	s, err := ParseFile(in)
	if err != nil {
		return nil, err
	}
	keep := ReduceChains(s.Chains(), max)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", filepath.Base(out), err)
	}
	if err := WritePDB(f, s, keep); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s: %w", filepath.Base(out), err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return keep, nil
}
