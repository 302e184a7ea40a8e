package pocketsite

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// activeSiteColumns is the positional layout of the active-site TSV. The
// trailing "#" column of the predictor output is dropped.
var activeSiteColumns = []string{
	"FITNESS", "ACTIVE_SITE", "TEMPLATE_PDB", "TEMPLATE", "TEMPLATE_EC",
	"TEMPLATE_UNIPROT", "TEMPLATE_RESOLUTION",
}

// LoadResiduePredictionsFile reads a residue-level pocket prediction CSV.
func LoadResiduePredictionsFile(path string) ([]ResiduePrediction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	preds, err := readResiduePredictions(f, ',')
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return preds, nil
}

// LoadResiduePredictions reads a comma separated residue prediction table.
// Header names are trimmed before lookup.
func LoadResiduePredictions(r io.Reader) ([]ResiduePrediction, error) {
	return readResiduePredictions(r, ',')
}

func readResiduePredictions(r io.Reader, comma rune) ([]ResiduePrediction, error) {
	rows, err := readDelimited(r, comma)
	if err != nil {
		return nil, err
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	candidates := getColumnCandidates()
	chainCol, err := requireColumn(header, "chain", candidates.Chain)
	if err != nil {
		return nil, err
	}
	labelCol, err := requireColumn(header, "residue_label", candidates.ResidueLabel)
	if err != nil {
		return nil, err
	}
	probCol, err := requireColumn(header, "probability", candidates.Probability)
	if err != nil {
		return nil, err
	}
	pocketCol, err := requireColumn(header, "pocket", candidates.Pocket)
	if err != nil {
		return nil, err
	}
	nameCol := findColumn(header, candidates.ResidueName)

	preds := make([]ResiduePrediction, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		line := i + 1
		pred := ResiduePrediction{
			Chain:        cellAt(row, chainCol),
			ResidueLabel: cellAt(row, labelCol),
			Pocket:       cellAt(row, pocketCol),
		}
		if nameCol >= 0 {
			pred.ResidueName = cellAt(row, nameCol)
		}
		prob, err := parseFloatCell(cellAt(row, probCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: probability: %w", line, err)
		}
		pred.Probability = prob
		preds = append(preds, pred)
	}
	return preds, nil
}

// LoadActiveSitePredictionsFile reads an active-site prediction table. The
// predictor writes tab separated values regardless of the file extension.
func LoadActiveSitePredictionsFile(path string) ([]ActiveSitePrediction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	preds, err := readActiveSitePredictions(f, '\t')
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return preds, nil
}

// LoadActiveSitePredictions reads a tab separated active-site table. Columns
// are assigned by position and the header row is skipped.
func LoadActiveSitePredictions(r io.Reader) ([]ActiveSitePrediction, error) {
	return readActiveSitePredictions(r, '\t')
}

func readActiveSitePredictions(r io.Reader, comma rune) ([]ActiveSitePrediction, error) {
	rows, err := readDelimited(r, comma)
	if err != nil {
		return nil, err
	}
	preds := make([]ActiveSitePrediction, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		line := i + 1
		if len(row) < len(activeSiteColumns) {
			return nil, fmt.Errorf("row %d: %w: got %d columns, want at least %d",
				line, ErrMissingColumn, len(row), len(activeSiteColumns))
		}
		fitness, err := parseFloatCell(cellAt(row, 0))
		if err != nil {
			return nil, fmt.Errorf("row %d: fitness: %w", line, err)
		}
		preds = append(preds, ActiveSitePrediction{
			Fitness:            fitness,
			ActiveSite:         cellAt(row, 1),
			TemplatePDB:        cellAt(row, 2),
			Template:           cellAt(row, 3),
			TemplateEC:         cellAt(row, 4),
			TemplateUniprot:    cellAt(row, 5),
			TemplateResolution: cellAt(row, 6),
		})
	}
	return preds, nil
}

func readDelimited(r io.Reader, comma rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrNoData)
	}
	return rows, nil
}

func requireColumn(header []string, name string, candidates []string) (int, error) {
	idx := findColumn(header, candidates)
	if idx < 0 {
		return -1, fmt.Errorf("%w %q (header: %s)", ErrMissingColumn, name, strings.Join(header, ", "))
	}
	return idx, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cleanCell(row[idx])
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseFloatCell(v string) (float64, error) {
	if v == "" {
		return 0, errors.New("empty value")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", v)
	}
	return f, nil
}
