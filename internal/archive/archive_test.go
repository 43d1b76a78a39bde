// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/clingen/internal/lookup"
	"github.com/pdiddy/clingen/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := types.ArchiveConfig{
		Driver: types.ArchiveSQLite,
		DSN:    filepath.Join(t.TempDir(), "archive.db"),
	}
	store, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return store
}

func testOutcome(gene types.GeneSymbol, pmids ...string) *lookup.Outcome {
	rs := lookup.NewResultSet()
	for _, id := range pmids {
		rs.Merge(types.PublicationRecord{
			PMID: id, MGIID: "MGI:" + id, Author: "Chiang C", Title: "<i>Shh</i> title",
			Journal: "Nature", Year: "1996", Abstract: "Some abstract.", HasAbstract: true,
		}, "holoprosencephaly", lookup.CategoryDisease)
	}
	opts := types.FilterOptions{RequireDisease: true, IncludeAbstract: true}
	n := lookup.PostProcess(rs, opts)
	status := lookup.StatusFound
	if n == 0 {
		status = lookup.StatusNoPublications
	}
	return &lookup.Outcome{Gene: gene, Options: opts, Status: status, Count: n, Results: rs}
}

// --- Save / Get ---

func TestSaveAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, testOutcome("SHH", "300", "100"))
	if err != nil {
		t.Fatal(err)
	}
	if id <= 0 {
		t.Fatalf("id = %d, want positive", id)
	}

	rec, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Gene != "SHH" || rec.Status != lookup.StatusFound || rec.Count != 2 {
		t.Errorf("entry = %+v", rec.Entry)
	}
	if !rec.Options.RequireDisease || rec.Options.RequirePhenotype || !rec.Options.IncludeAbstract {
		t.Errorf("options = %+v", rec.Options)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
	if len(rec.Publications) != 2 {
		t.Fatalf("got %d publications, want 2", len(rec.Publications))
	}

	p := rec.Publications[0]
	if p.PMID != "300" {
		t.Errorf("first publication = %s, want insertion order (300)", p.PMID)
	}
	if p.DiseaseText != "Holoprosencephaly" || p.PhenotypeText != types.NoPhenotypesText {
		t.Errorf("texts = %q / %q", p.DiseaseText, p.PhenotypeText)
	}
	if len(p.Diseases) != 1 || p.Diseases[0] != "holoprosencephaly" {
		t.Errorf("diseases = %v", p.Diseases)
	}
	if p.Abstract != "Some abstract." || !p.HasAbstract {
		t.Errorf("abstract = %q has=%v", p.Abstract, p.HasAbstract)
	}
	if p.MGIID != "MGI:300" || p.Author != "Chiang C" || p.Year != "1996" {
		t.Errorf("metadata = %+v", p)
	}
}

func TestSaveOutcomeWithoutPublications(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	out := &lookup.Outcome{Gene: "NOPE", Status: lookup.StatusUnknownGene, Results: lookup.NewResultSet()}
	id, err := store.Save(ctx, out)
	if err != nil {
		t.Fatal(err)
	}

	rec, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != lookup.StatusUnknownGene {
		t.Errorf("status = %s", rec.Status)
	}
	if len(rec.Publications) != 0 {
		t.Errorf("got %d publications, want 0", len(rec.Publications))
	}
}

func TestGetNotFound(t *testing.T) {
	store := testStore(t)
	_, err := store.Get(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// --- List ---

func TestList(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for _, g := range []types.GeneSymbol{"SHH", "PAX6", "SHH"} {
		if _, err := store.Save(ctx, testOutcome(g, "1")); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.List(ctx, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d entries, want 3", len(all))
	}
	if all[0].ID < all[1].ID {
		t.Error("entries not newest first")
	}
	if !all[0].CreatedAt.After(all[2].CreatedAt) {
		t.Error("created_at not increasing with id")
	}

	shh, err := store.List(ctx, "SHH", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(shh) != 2 {
		t.Errorf("got %d SHH entries, want 2", len(shh))
	}

	one, err := store.List(ctx, "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 || one[0].ID != all[0].ID {
		t.Errorf("limit 1 = %+v", one)
	}
}

// --- Export ---

func TestExportYAML(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	store.Save(ctx, testOutcome("SHH", "1", "2"))
	store.Save(ctx, testOutcome("PAX6", "3"))

	var buf bytes.Buffer
	if err := store.Export(ctx, &buf, ExportYAML); err != nil {
		t.Fatal(err)
	}

	var records []struct {
		Gene         string `yaml:"gene"`
		Count        int    `yaml:"count"`
		Publications []struct {
			PMID string `yaml:"pmid"`
		} `yaml:"publications"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Gene != "SHH" || records[1].Gene != "PAX6" {
		t.Errorf("export not oldest first: %s, %s", records[0].Gene, records[1].Gene)
	}
	if len(records[0].Publications) != 2 || records[0].Publications[1].PMID != "2" {
		t.Errorf("publications = %+v", records[0].Publications)
	}
}

func TestExportJSON(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	store.Save(ctx, testOutcome("SHH", "1"))

	var buf bytes.Buffer
	if err := store.Export(ctx, &buf, ExportJSON); err != nil {
		t.Fatal(err)
	}

	var records []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0]["gene"] != "SHH" {
		t.Errorf("gene = %v", records[0]["gene"])
	}
	if _, ok := records[0]["publications"]; !ok {
		t.Error("publications missing from export")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	store := testStore(t)
	if err := store.Export(context.Background(), &bytes.Buffer{}, "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

// --- Open ---

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), types.ArchiveConfig{Driver: "oracle"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestOpenReusesSchema(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "archive.db")
	cfg := types.ArchiveConfig{DSN: dsn}

	first, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.Save(context.Background(), testOutcome("SHH", "1")); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	entries, err := second.List(context.Background(), "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries after reopen, want 1", len(entries))
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		driver types.ArchiveDriver
		in     string
		want   string
	}{
		{types.ArchiveSQLite, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{types.ArchivePostgres, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{types.ArchivePostgres, "SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		s := &Store{driver: tt.driver}
		if got := s.rebind(tt.in); got != tt.want {
			t.Errorf("rebind(%s, %q) = %q, want %q", tt.driver, tt.in, got, tt.want)
		}
	}
}
