package pocketsite

import (
	"strings"
)

// MergeOptions tunes how malformed active-site strings are handled.
type MergeOptions struct {
	// SkipMalformed drops segments that are not "name id chain" triples
	// instead of failing the whole merge.
	SkipMalformed bool
}

// MergeStats summarises a merge run.
type MergeStats struct {
	ResidueRows    int
	ActiveSiteRows int
	Triples        int
	Matched        int
	Unmatched      int
	Malformed      int
	Rows           int
}

// ParseActiveSite splits an ACTIVE_SITE string ("HIS 57 A;SER 195 A") into
// residue triples. Blank segments are ignored.
func ParseActiveSite(s string) ([]ActiveSiteResidue, error) {
	segments := strings.Split(s, ";")
	out := make([]ActiveSiteResidue, 0, len(segments))
	for _, seg := range segments {
		res, ok, err := parseActiveSiteSegment(seg)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, res)
		}
	}
	return out, nil
}

func parseActiveSiteSegment(seg string) (ActiveSiteResidue, bool, error) {
	fields := strings.Fields(seg)
	switch len(fields) {
	case 0:
		return ActiveSiteResidue{}, false, nil
	case 3:
		return ActiveSiteResidue{Name: fields[0], ID: fields[1], Chain: fields[2]}, true, nil
	}
	return ActiveSiteResidue{}, false, &ActiveSiteError{Segment: strings.TrimSpace(seg), Tokens: len(fields)}
}

type pocketHit struct {
	probability float64
	pocket      string
}

func indexResidues(residues []ResiduePrediction) map[string][]pocketHit {
	idx := make(map[string][]pocketHit, len(residues))
	for _, r := range residues {
		key := r.Key()
		idx[key] = append(idx[key], pocketHit{probability: r.Probability, pocket: r.Pocket})
	}
	return idx
}

// Merge joins residue predictions and active-site predictions on the
// chain_residue key. Every active-site triple fans out to all residue rows
// sharing its key; triples without a match are dropped.
func Merge(residues []ResiduePrediction, sites []ActiveSitePrediction, opts MergeOptions) (*MergedTable, MergeStats, error) {
	stats := MergeStats{ResidueRows: len(residues), ActiveSiteRows: len(sites)}
	idx := indexResidues(residues)
	rows := make([]MergedRow, 0)
	for i, site := range sites {
		for _, seg := range strings.Split(site.ActiveSite, ";") {
			res, ok, err := parseActiveSiteSegment(seg)
			if err != nil {
				if opts.SkipMalformed {
					stats.Malformed++
					continue
				}
				if ase, isASE := err.(*ActiveSiteError); isASE {
					ase.Row = i + 1
				}
				return nil, stats, err
			}
			if !ok {
				continue
			}
			stats.Triples++
			hits, found := idx[res.Key()]
			if !found {
				stats.Unmatched++
				continue
			}
			stats.Matched++
			for _, hit := range hits {
				rows = append(rows, newMergedRow(hit, res, site))
			}
		}
	}
	stats.Rows = len(rows)
	return NewMergedTable(rows), stats, nil
}

func newMergedRow(hit pocketHit, res ActiveSiteResidue, site ActiveSitePrediction) MergedRow {
	return MergedRow{
		Pocket:      hit.pocket,
		Residue:     res.Key(),
		EC:          site.TemplateEC,
		Fitness:     site.Fitness,
		Probability: hit.probability,
		ResName:     res.Name,
		ResID:       res.ID,
		Chain:       res.Chain,
		EC2:         prefix(site.TemplateEC, 3),
		EC1:         prefix(site.TemplateEC, 1),
	}
}
