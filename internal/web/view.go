// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/pdiddy/clingen/internal/lookup"
	"github.com/pdiddy/clingen/pkg/types"
)

// RescueDisplayTerms are the keyword stems listed in the rescue explanation.
var RescueDisplayTerms = []string{"Rescue", "Ameliorate", "Transduce", "Complementation"}

type formView struct {
	Gene    string
	Options types.FilterOptions
	Error   string
}

type messageView struct {
	Gene    string
	Message string
}

type resultsView struct {
	Gene         string
	CountText    string
	ShowAbstract bool
	ShowRescue   bool
	RescueTerms  []string
	Rows         []rowView
}

type rowView struct {
	PMID       string
	URL        string
	MGIID      string
	Author     string
	Title      template.HTML
	Journal    string
	Year       string
	Abstract   template.HTML
	Diseases   string
	Phenotypes string
	Rescue     string
}

func newResultsView(out *lookup.Outcome) resultsView {
	v := resultsView{
		Gene:         out.Gene.String(),
		CountText:    countText(out.Count),
		ShowAbstract: out.Options.ShowAbstract(),
		ShowRescue:   out.Options.RescueFilter,
	}
	if v.ShowRescue {
		v.RescueTerms = RescueDisplayTerms
	}
	for _, r := range out.Results.Records() {
		v.Rows = append(v.Rows, rowView{
			PMID:       r.PMID,
			URL:        lookup.PubMedURL(r.PMID),
			MGIID:      r.MGIID,
			Author:     r.Author,
			Title:      titleHTML(r.Title),
			Journal:    r.Journal,
			Year:       r.Year,
			Abstract:   abstractHTML(r.Abstract),
			Diseases:   r.DiseaseText,
			Phenotypes: r.PhenotypeText,
			Rescue:     string(r.Rescue),
		})
	}
	return v
}

func countText(n int) string {
	if n == 1 {
		return "You are viewing the 1 publication"
	}
	return fmt.Sprintf("You are viewing all %d publications", n)
}

// allowedTitleTags restores the inline markup MGI uses in titles after the
// whole title has been escaped.
var allowedTitleTags = strings.NewReplacer(
	"&lt;i&gt;", "<i>", "&lt;/i&gt;", "</i>",
	"&lt;sup&gt;", "<sup>", "&lt;/sup&gt;", "</sup>",
)

// titleHTML escapes a title, keeping only <i> and <sup>.
func titleHTML(title string) template.HTML {
	return template.HTML(allowedTitleTags.Replace(html.EscapeString(title)))
}

var highlightMarkup = strings.NewReplacer(
	types.HighlightOpen, "<b><mark>",
	types.HighlightClose, "</mark></b>",
)

// abstractHTML escapes an abstract and turns highlight-marked words into
// bold, marked text.
func abstractHTML(abstract string) template.HTML {
	return template.HTML(highlightMarkup.Replace(html.EscapeString(abstract)))
}
