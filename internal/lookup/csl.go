// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/clingen/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-YAML schema so that
// output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	PMID           string    `yaml:"PMID"`
	URL            string    `yaml:"URL"`
	Keyword        string    `yaml:"keyword,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes the outcome's publications as a CSL-YAML list to w.
func FormatCSL(out *Outcome, w io.Writer) error {
	records := out.Results.Records()
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = toCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a publication record to a CSLItem.
func toCSLItem(r *types.PublicationRecord) CSLItem {
	item := CSLItem{
		ID:             "PMID:" + r.PMID,
		Type:           "article-journal",
		Title:          PlainTitle(r.Title),
		ContainerTitle: r.Journal,
		PMID:           r.PMID,
		URL:            PubMedURL(r.PMID),
	}

	if r.Author != "" {
		item.Author = []CSLName{parseMGIAuthor(r.Author)}
	}

	if year, err := strconv.Atoi(strings.TrimSpace(r.Year)); err == nil && year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}

	var keywords []string
	keywords = append(keywords, r.Diseases...)
	keywords = append(keywords, r.Phenotypes...)
	item.Keyword = strings.Join(keywords, ", ")

	if r.Abstract != types.NoAbstractText {
		item.Abstract = types.StripHighlight(r.Abstract)
	}

	return item
}

// parseMGIAuthor splits an MGI first-author string ("Chiang C") into CSL
// family/given parts. MGI puts the surname first and initials last.
// Single-token names use the literal field.
func parseMGIAuthor(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Family: name[:idx],
		Given:  name[idx+1:],
	}
}
