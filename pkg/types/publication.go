// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"net/url"
	"strings"
	"unicode"
)

// ErrEmptyGene is returned when a gene symbol is blank after normalization.
var ErrEmptyGene = errors.New("gene symbol is empty")

// GeneSymbol is a normalized gene symbol: no whitespace, upper case.
// MouseMine matches symbols case-insensitively, so the normalized form is
// only used for display and equality.
type GeneSymbol string

// NormalizeGene strips every whitespace rune from raw and upper-cases the
// remainder.
func NormalizeGene(raw string) (GeneSymbol, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	g := strings.ToUpper(b.String())
	if g == "" {
		return "", ErrEmptyGene
	}
	return GeneSymbol(g), nil
}

// String returns the symbol as a plain string.
func (g GeneSymbol) String() string { return string(g) }

// RescueStatus is the tri-state outcome of the rescue-paper keyword scan.
type RescueStatus string

const (
	// RescueNotApplicable means the scan was not requested.
	RescueNotApplicable RescueStatus = ""
	RescueYes           RescueStatus = "Yes"
	RescueNo            RescueStatus = "No"
)

// Placeholder texts shown in place of missing data.
const (
	NoDiseasesText   = "No associated diseases"
	NoPhenotypesText = "No associated phenotypes"
	NoAbstractText   = "No abstract available for this publication"
)

// HighlightOpen and HighlightClose wrap rescue keywords inside an abstract.
// They are the ASCII STX and ETX control characters, which never occur in
// MGI text. Renderers replace them with their own emphasis markup.
const (
	HighlightOpen  = "\x02"
	HighlightClose = "\x03"
)

var highlightStripper = strings.NewReplacer(HighlightOpen, "", HighlightClose, "")

// StripHighlight removes the highlight markers from s.
func StripHighlight(s string) string {
	return highlightStripper.Replace(s)
}

// FilterOptions are the user-selected switches applied by the record
// post-processor.
type FilterOptions struct {
	// RequireDisease drops publications without an associated disease.
	RequireDisease bool `json:"require_disease" yaml:"require_disease"`

	// RequirePhenotype drops publications without an associated phenotype.
	RequirePhenotype bool `json:"require_phenotype" yaml:"require_phenotype"`

	// RescueFilter classifies each publication as a rescue paper or not.
	RescueFilter bool `json:"rescue_filter" yaml:"rescue_filter"`

	// IncludeAbstract keeps abstracts of non-rescue publications.
	IncludeAbstract bool `json:"include_abstract" yaml:"include_abstract"`
}

// ShowAbstract reports whether the abstract column carries any content.
// Rescue abstracts are always kept so the matched terms stay visible.
func (o FilterOptions) ShowAbstract() bool {
	return o.IncludeAbstract || o.RescueFilter
}

// ParseYesNo maps the form literals "yes"/"no" to a bool. Anything other
// than "yes" (case-insensitive, surrounding space ignored) is false.
func ParseYesNo(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "yes")
}

// Form field names submitted by the lookup page.
const (
	FormGene             = "gene"
	FormRequirePhenotype = "phen"
	FormRequireDisease   = "dis"
	FormRescue           = "rescue"
	FormAbstract         = "abstract"
)

// FilterOptionsFromForm reads the yes/no switches of the lookup form.
// Missing fields are "no".
func FilterOptionsFromForm(form url.Values) FilterOptions {
	return FilterOptions{
		RequireDisease:   ParseYesNo(form.Get(FormRequireDisease)),
		RequirePhenotype: ParseYesNo(form.Get(FormRequirePhenotype)),
		RescueFilter:     ParseYesNo(form.Get(FormRescue)),
		IncludeAbstract:  ParseYesNo(form.Get(FormAbstract)),
	}
}

// PublicationRecord holds everything known about one publication that links
// a gene to a disease or phenotype annotation.
type PublicationRecord struct {
	// PMID is the PubMed identifier in string form; it keys the record.
	PMID string `json:"pmid" yaml:"pmid"`

	// MGIID is the MGI reference accession (e.g. "MGI:3052496").
	MGIID string `json:"mgi_id,omitempty" yaml:"mgi_id,omitempty"`

	Author  string `json:"author" yaml:"author"`
	Title   string `json:"title" yaml:"title"`
	Journal string `json:"journal" yaml:"journal"`
	Year    string `json:"year" yaml:"year"`

	// Abstract is the abstract text. After post-processing it may be blank
	// (abstracts not requested) or carry highlight markers.
	Abstract string `json:"abstract" yaml:"abstract"`

	// HasAbstract is false when the service returned no abstract.
	HasAbstract bool `json:"-" yaml:"-"`

	// Diseases and Phenotypes collect raw ontology term names during
	// aggregation. Post-processing dedupes and sorts them.
	Diseases   []string `json:"diseases" yaml:"diseases"`
	Phenotypes []string `json:"phenotypes" yaml:"phenotypes"`

	// DiseaseText and PhenotypeText are the display strings built from the
	// term lists.
	DiseaseText   string `json:"disease_text" yaml:"disease_text"`
	PhenotypeText string `json:"phenotype_text" yaml:"phenotype_text"`

	// Rescue is set only when the rescue filter ran.
	Rescue RescueStatus `json:"rescue,omitempty" yaml:"rescue,omitempty"`
}
