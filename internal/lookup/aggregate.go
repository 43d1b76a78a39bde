// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/clingen/internal/mine"
	"github.com/pdiddy/clingen/pkg/types"
)

// Runner executes a path query and returns its rows. *mine.Client is the
// production implementation.
type Runner interface {
	Rows(ctx context.Context, q *mine.Query) ([]mine.Row, error)
}

// queryHook observes each query execution; label names the query.
type queryHook func(label string, elapsed time.Duration, rows int, err error)

// Aggregate runs the descriptors in order and merges their rows into a
// ResultSet keyed by PubMed ID. The first failing query aborts the whole
// aggregation; there is no partial result.
func Aggregate(ctx context.Context, r Runner, descriptors [3]Descriptor) (*ResultSet, error) {
	return aggregate(ctx, r, descriptors, nil)
}

func aggregate(ctx context.Context, r Runner, descriptors [3]Descriptor, hook queryHook) (*ResultSet, error) {
	rs := NewResultSet()
	for _, d := range descriptors {
		start := time.Now()
		rows, err := r.Rows(ctx, d.Query)
		if hook != nil {
			hook(d.Kind.String(), time.Since(start), len(rows), err)
		}
		if err != nil {
			return nil, fmt.Errorf("running %s query: %w", d.Kind, err)
		}

		cat := d.Kind.Category()
		for _, row := range rows {
			pub, ok := publicationFromRow(row)
			if !ok {
				continue
			}
			term, _ := row.String(PathTermName)
			rs.Merge(pub, term, cat)
		}
	}
	return rs, nil
}

// publicationFromRow extracts the publication metadata of a row. Rows
// without a PubMed ID cannot be keyed and are reported as !ok.
func publicationFromRow(row mine.Row) (types.PublicationRecord, bool) {
	pmid, ok := row.String(PathPubMedID)
	if !ok || pmid == "" {
		return types.PublicationRecord{}, false
	}
	pub := types.PublicationRecord{PMID: pmid}
	pub.MGIID, _ = row.String(PathMGIID)
	pub.Author, _ = row.String(PathAuthor)
	pub.Title, _ = row.String(PathTitle)
	pub.Journal, _ = row.String(PathJournal)
	pub.Year, _ = row.String(PathYear)
	pub.Abstract, pub.HasAbstract = row.String(PathAbstract)
	return pub, true
}
