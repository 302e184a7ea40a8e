package structure

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSelectionMismatch is returned when residue and chain lists differ in length.
var ErrSelectionMismatch = errors.New("number of residue numbers and chains should be the same")

// Selection identifies a residue to highlight. An empty Chain matches any chain.
type Selection struct {
	Residue string `json:"resi"`
	Chain   string `json:"chain,omitempty"`
}

// ParseSelection pairs comma separated residue numbers with comma separated
// chain identifiers position by position. Pairs without a residue number are
// skipped.
func ParseSelection(residues, chains string) ([]Selection, error) {
	resList := splitList(residues)
	chainList := splitList(chains)
	if len(resList) != len(chainList) {
		return nil, fmt.Errorf("%w (%d residues, %d chains)", ErrSelectionMismatch, len(resList), len(chainList))
	}
	out := make([]Selection, 0, len(resList))
	for i, res := range resList {
		if res == "" {
			continue
		}
		out = append(out, Selection{Residue: res, Chain: chainList[i]})
	}
	return out, nil
}

// FormatSelection renders selections back into residue and chain lists.
func FormatSelection(sels []Selection) (string, string) {
	residues := make([]string, len(sels))
	chains := make([]string, len(sels))
	for i, s := range sels {
		residues[i] = s.Residue
		chains[i] = s.Chain
	}
	return strings.Join(residues, ","), strings.Join(chains, ",")
}

// Missing returns the selections that match no atom of s.
func Missing(s *Structure, sels []Selection) []Selection {
	var out []Selection
	for _, sel := range sels {
		if !s.HasResidue(sel.Chain, sel.Residue) {
			out = append(out, sel)
		}
	}
	return out
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
