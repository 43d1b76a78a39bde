// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"
)

// PubMedURL returns the PubMed page for a PMID.
func PubMedURL(pmid string) string {
	return "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/"
}

// titleTags are the inline tags MGI embeds in titles.
var titleTags = strings.NewReplacer("<i>", "", "</i>", "", "<sup>", "", "</sup>", "")

// PlainTitle strips MGI's inline italic and superscript tags.
func PlainTitle(title string) string {
	return titleTags.Replace(title)
}

// FormatTable writes the outcome as a human-readable table to w.
func FormatTable(out *Outcome, w io.Writer) {
	if msg := out.Message(); msg != "" {
		fmt.Fprintf(w, "%s: %s\n", out.Gene, msg)
		return
	}

	rescue := out.Options.RescueFilter
	header := fmt.Sprintf("%-9s  %-4s  %-16s  %-48s  %-30s  %-30s",
		"PMID", "Year", "Author", "Title", "Diseases", "Phenotypes")
	if rescue {
		header += "  Rescue"
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, r := range out.Results.Records() {
		line := fmt.Sprintf("%-9s  %-4s  %-16s  %-48s  %-30s  %-30s",
			r.PMID,
			truncate(r.Year, 4),
			truncate(r.Author, 16),
			truncate(PlainTitle(r.Title), 48),
			truncate(r.DiseaseText, 30),
			truncate(r.PhenotypeText, 30))
		if rescue {
			line += "  " + string(r.Rescue)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "\n%d publications for %s\n", out.Count, out.Gene)
}

// FormatJSON writes the outcome as indented JSON to w.
func FormatJSON(out *Outcome, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// FormatYAML writes the outcome as YAML to w.
func FormatYAML(out *Outcome, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(out)
}

// truncate shortens s to at most max bytes, ending in "..." and never
// splitting a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
