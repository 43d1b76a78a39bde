// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"github.com/pdiddy/clingen/internal/mine"
	"github.com/pdiddy/clingen/pkg/types"
)

// View paths requested by every annotation query, relative to
// OntologyAnnotation.
const (
	PathTermName   = "ontologyTerm.name"
	PathSubject    = "subject.symbol"
	PathPubMedID   = "evidence.publications.pubMedId"
	PathMGIID      = "evidence.publications.mgiId"
	PathAuthor     = "evidence.publications.firstAuthor"
	PathTitle      = "evidence.publications.title"
	PathYear       = "evidence.publications.year"
	PathJournal    = "evidence.publications.journal"
	PathAbstract   = "evidence.publications.abstractText"
	annotationRoot = "OntologyAnnotation"
)

var annotationView = []string{
	PathTermName, PathSubject,
	PathPubMedID, PathMGIID, PathAuthor, PathTitle, PathYear, PathJournal, PathAbstract,
}

// QueryKind tags each annotation query. The kind, not the query's position,
// decides which term list a row contributes to.
type QueryKind int

const (
	KindAllele QueryKind = iota
	KindPhenotype
	KindDisease
)

func (k QueryKind) String() string {
	switch k {
	case KindAllele:
		return "allele"
	case KindPhenotype:
		return "phenotype"
	case KindDisease:
		return "disease"
	default:
		return "unknown"
	}
}

// Category is the term list a query's rows are appended to.
type Category int

const (
	CategoryDisease Category = iota
	CategoryPhenotype
)

// Category returns the list rows of this kind contribute to.
func (k QueryKind) Category() Category {
	if k == KindPhenotype {
		return CategoryPhenotype
	}
	return CategoryDisease
}

// Descriptor is one annotation query paired with its kind.
type Descriptor struct {
	Kind  QueryKind
	Query *mine.Query
}

// BuildQueries returns the allele, phenotype and disease queries for gene,
// in that order. It never fails; an unknown gene simply matches no rows.
func BuildQueries(gene types.GeneSymbol) [3]Descriptor {
	return [3]Descriptor{
		{Kind: KindAllele, Query: alleleQuery(gene)},
		{Kind: KindPhenotype, Query: phenotypeQuery(gene)},
		{Kind: KindDisease, Query: diseaseQuery(gene)},
	}
}

// alleleQuery finds disease annotations made to alleles of the gene. Rows
// that derive from a base annotation are excluded since the disease query
// already reports those.
func alleleQuery(gene types.GeneSymbol) *mine.Query {
	return mine.NewQuery(annotationRoot).
		AddSubclass("subject", "Allele").
		AddSubclass("ontologyTerm", "DOTerm").
		AddView(annotationView...).
		AddConstraint(PathPubMedID, mine.OpIsNotNull, "", "A").
		AddConstraint("subject.feature.symbol", mine.OpEquals, gene.String(), "B").
		AddConstraint("evidence.baseAnnotations", mine.OpIsNull, "", "C").
		SetLogic("A and B and C")
}

func phenotypeQuery(gene types.GeneSymbol) *mine.Query {
	return mine.NewQuery(annotationRoot).
		AddSubclass("subject", "Gene").
		AddSubclass("ontologyTerm", "MPTerm").
		AddView(annotationView...).
		AddConstraint(PathSubject, mine.OpEquals, gene.String(), "A").
		AddConstraint(PathPubMedID, mine.OpIsNotNull, "", "B").
		SetLogic("A and B")
}

func diseaseQuery(gene types.GeneSymbol) *mine.Query {
	return mine.NewQuery(annotationRoot).
		AddSubclass("ontologyTerm", "DOTerm").
		AddView(annotationView...).
		AddConstraint(PathSubject, mine.OpEquals, gene.String(), "A").
		AddConstraint(PathPubMedID, mine.OpIsNotNull, "", "B").
		SetLogic("A and B")
}

// existenceQuery lists the publication IDs attached to the gene.
func existenceQuery(gene types.GeneSymbol) *mine.Query {
	return mine.NewQuery("Gene").
		AddView("publications.pubMedId").
		AddConstraint("symbol", mine.OpEquals, gene.String(), "A")
}
