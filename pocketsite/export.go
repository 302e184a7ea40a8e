package pocketsite

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteCSV writes the table with a header row.
func WriteCSV(w io.Writer, t *MergedTable) error {
	writer := csv.NewWriter(w)
	for i, record := range t.Records() {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the table to path, creating parent directories.
func WriteCSVFile(path string, t *MergedTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Highlight is a residue/chain pair to emphasise in the structure view.
type Highlight struct {
	ResidueID string
	Chain     string
}

// Highlights returns the distinct residue/chain pairs of a table in row order.
func Highlights(t *MergedTable) []Highlight {
	seen := make(map[string]struct{})
	var out []Highlight
	for i := 0; i < t.Len(); i++ {
		r := t.rows[i]
		key := residueKey(r.Chain, r.ResID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Highlight{ResidueID: r.ResID, Chain: r.Chain})
	}
	return out
}
