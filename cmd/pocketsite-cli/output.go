package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"yashubustudio/pocketsite/pocketsite"
)

func printMergeSummary(w io.Writer, tables *loadedTables) {
	bold := color.New(color.Bold)
	ok := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)

	s := tables.stats
	bold.Fprintln(w, "==== Merge summary ====")
	fmt.Fprintf(w, "Residue predictions:     %d rows\n", s.ResidueRows)
	fmt.Fprintf(w, "Active site predictions: %d rows\n", s.ActiveSiteRows)
	ok.Fprintf(w, "Matched residues:        %d of %d\n", s.Matched, s.Triples)
	if s.Unmatched > 0 {
		warn.Fprintf(w, "Unmatched residues:      %d (dropped)\n", s.Unmatched)
	}
	if s.Malformed > 0 {
		warn.Fprintf(w, "Malformed entries:       %d (skipped)\n", s.Malformed)
	}
	ok.Fprintf(w, "Merged rows:             %d\n", tables.merged.Len())
	if !tables.filter.Empty() {
		fmt.Fprintf(w, "Filter:                  %s\n", strings.Join(tables.filter.Describe(), " AND "))
		ok.Fprintf(w, "Filtered rows:           %d\n", tables.filtered.Len())
	}
}

func printTable(w io.Writer, t *pocketsite.MergedTable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rec := range t.Records() {
		fmt.Fprintln(tw, strings.Join(rec, "\t"))
	}
	return tw.Flush()
}
