package pocketsite

import (
	"encoding/json"
	"fmt"
)

// Merged table column names, in output order.
const (
	ColPocket      = "POCKET"
	ColResidue     = "RESIDUE"
	ColEC          = "EC"
	ColFitness     = "FITNESS"
	ColProbability = "PROB.POCKET"
	ColResName     = "res_name"
	ColResID       = "res_id"
	ColChain       = "chain"
	ColEC2         = "EC2"
	ColEC1         = "EC1"
)

var mergedColumns = []string{
	ColPocket, ColResidue, ColEC, ColFitness, ColProbability,
	ColResName, ColResID, ColChain, ColEC2, ColEC1,
}

// MergedColumns returns the column names of a merged table.
func MergedColumns() []string {
	return cloneStrings(mergedColumns)
}

// IsNumericColumn reports whether the column holds float values.
func IsNumericColumn(col string) bool {
	return col == ColFitness || col == ColProbability
}

// CategoricalColumns returns the merged columns usable as pivot axes.
func CategoricalColumns() []string {
	out := make([]string, 0, len(mergedColumns))
	for _, c := range mergedColumns {
		if !IsNumericColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// ResiduePrediction is one row of the pocket predictor's residue CSV.
type ResiduePrediction struct {
	Chain        string  `json:"chain"`
	ResidueLabel string  `json:"residueLabel"`
	ResidueName  string  `json:"residueName,omitempty"`
	Probability  float64 `json:"probability"`
	Pocket       string  `json:"pocket"`
}

// Key returns the chain_residue composite key.
func (p ResiduePrediction) Key() string {
	return residueKey(p.Chain, p.ResidueLabel)
}

// ActiveSitePrediction is one row of the catalytic-site predictor's TSV.
type ActiveSitePrediction struct {
	Fitness            float64 `json:"fitness"`
	ActiveSite         string  `json:"activeSite"`
	TemplatePDB        string  `json:"templatePdb"`
	Template           string  `json:"template"`
	TemplateEC         string  `json:"templateEc"`
	TemplateUniprot    string  `json:"templateUniprot"`
	TemplateResolution string  `json:"templateResolution"`
}

// ActiveSiteResidue is a single "name id chain" triple of an active site.
type ActiveSiteResidue struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Chain string `json:"chain"`
}

// Key returns the chain_residue composite key.
func (r ActiveSiteResidue) Key() string {
	return residueKey(r.Chain, r.ID)
}

// MergedRow is one (pocket, residue, active site) association.
type MergedRow struct {
	Pocket      string  `json:"pocket"`
	Residue     string  `json:"residue"`
	EC          string  `json:"ec"`
	Fitness     float64 `json:"fitness"`
	Probability float64 `json:"probability"`
	ResName     string  `json:"resName"`
	ResID       string  `json:"resId"`
	Chain       string  `json:"chain"`
	EC2         string  `json:"ec2"`
	EC1         string  `json:"ec1"`
}

// Value renders a column of the row as text.
func (r MergedRow) Value(col string) (string, error) {
	switch col {
	case ColPocket:
		return r.Pocket, nil
	case ColResidue:
		return r.Residue, nil
	case ColEC:
		return r.EC, nil
	case ColFitness:
		return formatFloat(r.Fitness), nil
	case ColProbability:
		return formatFloat(r.Probability), nil
	case ColResName:
		return r.ResName, nil
	case ColResID:
		return r.ResID, nil
	case ColChain:
		return r.Chain, nil
	case ColEC2:
		return r.EC2, nil
	case ColEC1:
		return r.EC1, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, col)
}

// Numeric returns the float value of a numeric column.
func (r MergedRow) Numeric(col string) (float64, error) {
	switch col {
	case ColFitness:
		return r.Fitness, nil
	case ColProbability:
		return r.Probability, nil
	}
	return 0, fmt.Errorf("%w: %q is not numeric", ErrUnknownColumn, col)
}

// Record renders the row in column order.
func (r MergedRow) Record() []string {
	out := make([]string, len(mergedColumns))
	for i, col := range mergedColumns {
		out[i], _ = r.Value(col)
	}
	return out
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	HeadRows       int              `json:"headRows" yaml:"headRows"`
	HistogramBins  int              `json:"histogramBins" yaml:"histogramBins"`
	SkipMalformed  bool             `json:"skipMalformed" yaml:"skipMalformed"`
	MaxChains      int              `json:"maxChains" yaml:"maxChains"`
	Viewer         ViewerConfig     `json:"viewer" yaml:"viewer"`
	// Columns lists accepted residue CSV header names per field.
	Columns        ColumnCandidates `json:"columns" yaml:"columns"`
	LastPrankPath  string           `json:"lastPrankPath,omitempty" yaml:"lastPrankPath,omitempty"`
	LastGassPath   string           `json:"lastGassPath,omitempty" yaml:"lastGassPath,omitempty"`
	LastPDBPath    string           `json:"lastPdbPath,omitempty" yaml:"lastPdbPath,omitempty"`
	LastExportPath string           `json:"lastExportPath,omitempty" yaml:"lastExportPath,omitempty"`
}

// ViewerConfig controls the embedded 3D structure view.
type ViewerConfig struct {
	Color  string  `json:"color" yaml:"color"`
	Radius float64 `json:"radius" yaml:"radius"`
	Width  int     `json:"width" yaml:"width"`
	Height int     `json:"height" yaml:"height"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.HeadRows <= 0 {
		c.HeadRows = 10
	}
	if c.HistogramBins <= 0 {
		c.HistogramBins = 20
	}
	if c.MaxChains <= 0 {
		c.MaxChains = 8
	}
	c.Columns = c.Columns.withDefaults()
	if c.Viewer.Color == "" {
		c.Viewer.Color = "red"
	}
	if c.Viewer.Radius == 0 {
		c.Viewer.Radius = 1.0
	}
	if c.Viewer.Width <= 0 {
		c.Viewer.Width = 800
	}
	if c.Viewer.Height <= 0 {
		c.Viewer.Height = 600
	}
}
