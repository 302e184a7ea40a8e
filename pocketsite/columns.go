package pocketsite

import (
	"strings"
	"sync"
)

// ColumnCandidates defines accepted header names for the residue prediction CSV.
type ColumnCandidates struct {
	Chain        []string `json:"chain" yaml:"chain"`
	ResidueLabel []string `json:"residueLabel" yaml:"residueLabel"`
	ResidueName  []string `json:"residueName" yaml:"residueName"`
	Probability  []string `json:"probability" yaml:"probability"`
	Pocket       []string `json:"pocket" yaml:"pocket"`
}

var (
	columnCandidatesMu  sync.RWMutex
	activeColumnOptions = defaultColumnCandidates()
)

func defaultColumnCandidates() ColumnCandidates {
	return ColumnCandidates{
		Chain:        []string{"chain"},
		ResidueLabel: []string{"residue_label", "residue", "resi"},
		ResidueName:  []string{"residue_name", "resn"},
		Probability:  []string{"probability", "prob"},
		Pocket:       []string{"pocket"},
	}
}

// DefaultColumnCandidates returns the built-in column detection candidates.
func DefaultColumnCandidates() ColumnCandidates {
	return defaultColumnCandidates().clone()
}

// SetColumnCandidates updates the header names used to locate residue CSV columns.
// Empty fields fall back to the built-in defaults.
func SetColumnCandidates(candidates ColumnCandidates) {
	columnCandidatesMu.Lock()
	defer columnCandidatesMu.Unlock()
	activeColumnOptions = candidates.withDefaults()
}

func getColumnCandidates() ColumnCandidates {
	columnCandidatesMu.RLock()
	defer columnCandidatesMu.RUnlock()
	return activeColumnOptions.clone()
}

func (c ColumnCandidates) withDefaults() ColumnCandidates {
	defaults := defaultColumnCandidates()
	return ColumnCandidates{
		Chain:        pickStrings(c.Chain, defaults.Chain),
		ResidueLabel: pickStrings(c.ResidueLabel, defaults.ResidueLabel),
		ResidueName:  pickStrings(c.ResidueName, defaults.ResidueName),
		Probability:  pickStrings(c.Probability, defaults.Probability),
		Pocket:       pickStrings(c.Pocket, defaults.Pocket),
	}
}

func (c ColumnCandidates) clone() ColumnCandidates {
	return ColumnCandidates{
		Chain:        cloneStrings(c.Chain),
		ResidueLabel: cloneStrings(c.ResidueLabel),
		ResidueName:  cloneStrings(c.ResidueName),
		Probability:  cloneStrings(c.Probability),
		Pocket:       cloneStrings(c.Pocket),
	}
}

func pickStrings(custom, fallback []string) []string {
	if len(custom) == 0 {
		return cloneStrings(fallback)
	}
	return cloneStrings(custom)
}

func findColumn(header []string, candidates []string) int {
	for _, cand := range candidates {
		for i, col := range header {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}
