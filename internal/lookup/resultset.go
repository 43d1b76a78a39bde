// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"encoding/json"

	"github.com/pdiddy/clingen/pkg/types"
)

// ResultSet maps PubMed IDs to publication records and remembers the order
// in which each ID was first seen.
type ResultSet struct {
	order   []string
	records map[string]*types.PublicationRecord
}

// NewResultSet returns an empty set.
func NewResultSet() *ResultSet {
	return &ResultSet{records: make(map[string]*types.PublicationRecord)}
}

// Merge records that pub is annotated with term. The first call for a PMID
// creates the record from pub's metadata; later calls only append the term.
// It reports whether a new record was created. Duplicate terms are kept
// until post-processing.
func (rs *ResultSet) Merge(pub types.PublicationRecord, term string, cat Category) bool {
	rec, ok := rs.records[pub.PMID]
	created := !ok
	if created {
		fresh := pub
		fresh.Diseases = []string{}
		fresh.Phenotypes = []string{}
		rec = &fresh
		rs.records[pub.PMID] = rec
		rs.order = append(rs.order, pub.PMID)
	}

	switch cat {
	case CategoryPhenotype:
		rec.Phenotypes = append(rec.Phenotypes, term)
	default:
		rec.Diseases = append(rec.Diseases, term)
	}
	return created
}

// Add stores a copy of a complete record, replacing any record with the same
// PMID while keeping its position.
func (rs *ResultSet) Add(rec types.PublicationRecord) {
	if _, ok := rs.records[rec.PMID]; !ok {
		rs.order = append(rs.order, rec.PMID)
	}
	r := rec
	rs.records[rec.PMID] = &r
}

// Get returns the record for pmid.
func (rs *ResultSet) Get(pmid string) (*types.PublicationRecord, bool) {
	rec, ok := rs.records[pmid]
	return rec, ok
}

// Len returns the number of records.
func (rs *ResultSet) Len() int { return len(rs.order) }

// IDs returns the PMIDs in first-seen order.
func (rs *ResultSet) IDs() []string {
	out := make([]string, len(rs.order))
	copy(out, rs.order)
	return out
}

// Records returns the records in first-seen order. The pointers are live;
// mutating a record changes the set.
func (rs *ResultSet) Records() []*types.PublicationRecord {
	out := make([]*types.PublicationRecord, len(rs.order))
	for i, id := range rs.order {
		out[i] = rs.records[id]
	}
	return out
}

// Remove deletes the given PMIDs. Unknown IDs are ignored.
func (rs *ResultSet) Remove(pmids ...string) {
	if len(pmids) == 0 {
		return
	}
	drop := make(map[string]bool, len(pmids))
	for _, id := range pmids {
		if _, ok := rs.records[id]; ok {
			drop[id] = true
			delete(rs.records, id)
		}
	}
	if len(drop) == 0 {
		return
	}
	kept := rs.order[:0]
	for _, id := range rs.order {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	rs.order = kept
}

// MarshalJSON encodes the set as an ordered array of records.
func (rs *ResultSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(rs.Records())
}

// MarshalYAML encodes the set as an ordered list of records.
func (rs *ResultSet) MarshalYAML() (any, error) {
	return rs.Records(), nil
}
