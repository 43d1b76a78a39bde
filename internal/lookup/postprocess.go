// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/clingen/pkg/types"
)

// RescueTerms are the abstract keywords that mark a rescue paper.
var RescueTerms = []string{
	"rescue", "rescued", "rescues",
	"ameliorate", "ameliorated", "ameliorates",
	"transduction", "transduces", "transduce",
	"complementation",
}

var rescueTermSet = func() map[string]bool {
	m := make(map[string]bool, len(RescueTerms))
	for _, t := range RescueTerms {
		m[t] = true
	}
	return m
}()

var (
	punctStripper = strings.NewReplacer(",", "", ".", "", "(", "", ")", "")

	penetranceRewriter = strings.NewReplacer(
		", complete penetrance", " (complete penetrance)",
		", incomplete penetrance", " (incomplete penetrance)",
	)
)

// PostProcess formats every record in place and removes the ones the
// filters reject. Removal happens after all records are formatted, so one
// record's fate never affects another's processing. It returns the number
// of surviving records.
func PostProcess(rs *ResultSet, opts types.FilterOptions) int {
	var rejected []string

	for _, rec := range rs.Records() {
		rec.Diseases = uniqueSorted(rec.Diseases)
		rec.Phenotypes = uniqueSorted(rec.Phenotypes)

		rec.DiseaseText = joinTerms(rec.Diseases, types.NoDiseasesText, nil)
		rec.PhenotypeText = joinTerms(rec.Phenotypes, types.NoPhenotypesText, penetranceRewriter.Replace)

		if opts.RequireDisease && rec.DiseaseText == types.NoDiseasesText {
			rejected = append(rejected, rec.PMID)
		} else if opts.RequirePhenotype && rec.PhenotypeText == types.NoPhenotypesText {
			rejected = append(rejected, rec.PMID)
		}

		if opts.RescueFilter {
			rec.Abstract, rec.Rescue = ClassifyRescue(rec.Abstract)
		}

		if !rec.HasAbstract || strings.TrimSpace(rec.Abstract) == "" {
			rec.Abstract = types.NoAbstractText
		}

		if !opts.IncludeAbstract && rec.Rescue != types.RescueYes {
			rec.Abstract = ""
		}
	}

	rs.Remove(rejected...)
	return rs.Len()
}

// ClassifyRescue scans an abstract for rescue keywords. Matching is
// case-insensitive and ignores commas, periods and parentheses inside a
// word. The returned text is the abstract's words joined by single spaces
// with every matching word wrapped in highlight markers.
func ClassifyRescue(abstract string) (string, types.RescueStatus) {
	words := strings.Fields(abstract)
	status := types.RescueNo
	for i, w := range words {
		if IsRescueTerm(w) {
			words[i] = types.HighlightOpen + w + types.HighlightClose
			status = types.RescueYes
		}
	}
	return strings.Join(words, " "), status
}

// IsRescueTerm reports whether a single abstract word is a rescue keyword.
func IsRescueTerm(word string) bool {
	return rescueTermSet[punctStripper.Replace(strings.ToLower(word))]
}

// uniqueSorted returns terms deduplicated and in ascending byte order.
func uniqueSorted(terms []string) []string {
	out := slices.Clone(terms)
	slices.Sort(out)
	return slices.Compact(out)
}

// joinTerms renders a sorted term list for display: placeholder when empty,
// otherwise the terms comma-separated with only the first capitalized.
func joinTerms(terms []string, placeholder string, rewrite func(string) string) string {
	if len(terms) == 0 {
		return placeholder
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		if rewrite != nil {
			t = rewrite(t)
		}
		parts[i] = t
	}
	parts[0] = capitalize(parts[0])
	return strings.Join(parts, ", ")
}

// capitalize upper-cases the first rune. The rest of the term is left as is.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
