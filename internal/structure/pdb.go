// Package structure reads PDB coordinate files and renders them in an
// interactive 3D viewer page.
package structure

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	chem "github.com/rmera/gochem"
)

// ErrNoAtoms is returned for input without coordinate records.
var ErrNoAtoms = errors.New("no ATOM or HETATM records")

// Atom is a read-only view of one coordinate record.
type Atom struct {
	Serial  int
	Name    string
	ResName string
	Chain   string
	ResSeq  string
	Het     bool
	X, Y, Z float64
}

// Structure holds a parsed PDB file. Coordinates come from the first model.
type Structure struct {
	mol    *chem.Molecule
	chains []string
}

// Len returns the number of atoms.
func (s *Structure) Len() int {
	return s.mol.Len()
}

// Atoms returns every atom with first-model coordinates.
func (s *Structure) Atoms() []Atom {
	coords := s.mol.Coords[0]
	out := make([]Atom, s.mol.Len())
	for i := range out {
		a := s.mol.Atom(i)
		out[i] = Atom{
			Serial:  a.ID,
			Name:    a.Name,
			ResName: a.MolName,
			Chain:   a.Chain,
			ResSeq:  strconv.Itoa(a.MolID),
			Het:     a.Het,
			X:       coords.At(i, 0),
			Y:       coords.At(i, 1),
			Z:       coords.At(i, 2),
		}
	}
	return out
}

// Chains returns chain identifiers in file order.
func (s *Structure) Chains() []string {
	out := make([]string, len(s.chains))
	copy(out, s.chains)
	return out
}

// Residues returns the residue numbers of a chain in file order.
func (s *Structure) Residues(chain string) []string {
	seen := make(map[int]struct{})
	var out []string
	for i := 0; i < s.mol.Len(); i++ {
		a := s.mol.Atom(i)
		if a.Chain != chain {
			continue
		}
		if _, ok := seen[a.MolID]; ok {
			continue
		}
		seen[a.MolID] = struct{}{}
		out = append(out, strconv.Itoa(a.MolID))
	}
	return out
}

// HasResidue reports whether any atom belongs to the residue. An empty chain
// matches every chain.
func (s *Structure) HasResidue(chain, resSeq string) bool {
	id, err := strconv.Atoi(resSeq)
	if err != nil {
		return false
	}
	for i := 0; i < s.mol.Len(); i++ {
		a := s.mol.Atom(i)
		if a.MolID == id && (chain == "" || a.Chain == chain) {
			return true
		}
	}
	return false
}

// ParseFile reads a PDB file from disk.
func ParseFile(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// Parse reads a PDB stream with gochem.
func Parse(r io.Reader) (*Structure, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdb: %w", err)
	}
	if !hasCoordinates(data) {
		return nil, ErrNoAtoms
	}
	mol, err := chem.PDBRead(bytes.NewReader(data), false)
	if err != nil {
		return nil, fmt.Errorf("read pdb: %w", err)
	}
	if mol == nil || mol.Len() == 0 || len(mol.Coords) == 0 {
		return nil, ErrNoAtoms
	}
	s := &Structure{mol: mol}
	seen := make(map[string]struct{})
	for i := 0; i < mol.Len(); i++ {
		c := mol.Atom(i).Chain
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		s.chains = append(s.chains, c)
	}
	return s, nil
}

// hasCoordinates reports whether any line is an ATOM or HETATM record.
func hasCoordinates(data []byte) bool {
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("ATOM  ")) || bytes.HasPrefix(line, []byte("HETATM")) {
			return true
		}
	}
	return false
}
