// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists completed lookups and their publications in a SQL
// database. SQLite (mattn/go-sqlite3) is the default; PostgreSQL is reached
// through the pgx database/sql driver.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/clingen/internal/lookup"
	"github.com/pdiddy/clingen/pkg/types"
)

// ErrNotFound is returned by Get when no lookup has the requested id.
var ErrNotFound = errors.New("lookup not found in archive")

// DefaultDSN is the SQLite file used when no DSN is configured.
const DefaultDSN = "clingen.db"

const defaultListLimit = 50

// Entry summarizes one saved lookup.
type Entry struct {
	ID        int64                `json:"id" yaml:"id"`
	Gene      types.GeneSymbol     `json:"gene" yaml:"gene"`
	Options   types.FilterOptions  `json:"options" yaml:"options"`
	Status    lookup.OutcomeStatus `json:"status" yaml:"status"`
	Count     int                  `json:"count" yaml:"count"`
	CreatedAt time.Time            `json:"created_at" yaml:"created_at"`
}

// Record is a saved lookup with its publications in display order.
type Record struct {
	Entry        `yaml:",inline"`
	Publications []types.PublicationRecord `json:"publications" yaml:"publications"`
}

// Store manages the archive database.
type Store struct {
	db     *sql.DB
	driver types.ArchiveDriver
	now    func() time.Time
}

// Open connects to the database described by cfg and creates the schema if
// it does not exist.
func Open(ctx context.Context, cfg types.ArchiveConfig) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = types.ArchiveSQLite
	}
	dsn := cfg.DSN
	if dsn == "" {
		dsn = DefaultDSN
	}

	switch driver {
	case types.ArchiveSQLite:
		if !strings.Contains(dsn, "?") {
			dsn += "?_journal_mode=WAL&_foreign_keys=on"
		}
	case types.ArchivePostgres:
	default:
		return nil, fmt.Errorf("unknown archive driver %q (want sqlite3 or pgx)", driver)
	}

	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to archive: %w", err)
	}

	s := &Store{db: db, driver: driver, now: time.Now}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema(ctx context.Context) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == types.ArchivePostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS lookups (
			` + idColumn + `,
			gene TEXT NOT NULL,
			require_disease INTEGER NOT NULL,
			require_phenotype INTEGER NOT NULL,
			rescue_filter INTEGER NOT NULL,
			include_abstract INTEGER NOT NULL,
			status TEXT NOT NULL,
			count INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS publications (
			lookup_id BIGINT NOT NULL REFERENCES lookups(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			pmid TEXT NOT NULL,
			mgi_id TEXT,
			author TEXT,
			title TEXT,
			journal TEXT,
			year TEXT,
			abstract TEXT,
			diseases TEXT,
			phenotypes TEXT,
			disease_text TEXT,
			phenotype_text TEXT,
			rescue TEXT,
			PRIMARY KEY (lookup_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_gene ON lookups(gene)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_pmid ON publications(pmid)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores out and its surviving publications in one transaction and
// returns the new lookup id.
func (s *Store) Save(ctx context.Context, out *lookup.Outcome) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, s.rebind(
		`INSERT INTO lookups (gene, require_disease, require_phenotype, rescue_filter, include_abstract, status, count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		out.Gene.String(),
		boolInt(out.Options.RequireDisease), boolInt(out.Options.RequirePhenotype),
		boolInt(out.Options.RescueFilter), boolInt(out.Options.IncludeAbstract),
		string(out.Status), out.Count,
		s.now().UTC().Format(time.RFC3339Nano),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting lookup: %w", err)
	}

	if out.Results != nil {
		stmt, err := tx.PrepareContext(ctx, s.rebind(
			`INSERT INTO publications (lookup_id, position, pmid, mgi_id, author, title, journal, year, abstract,
				diseases, phenotypes, disease_text, phenotype_text, rescue)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
		if err != nil {
			return 0, fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for i, p := range out.Results.Records() {
			diseases, _ := json.Marshal(p.Diseases)
			phenotypes, _ := json.Marshal(p.Phenotypes)
			_, err := stmt.ExecContext(ctx,
				id, i, p.PMID, p.MGIID, p.Author, p.Title, p.Journal, p.Year, p.Abstract,
				string(diseases), string(phenotypes), p.DiseaseText, p.PhenotypeText, string(p.Rescue),
			)
			if err != nil {
				return 0, fmt.Errorf("inserting publication %s: %w", p.PMID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing lookup: %w", err)
	}
	return id, nil
}

const entryColumns = `id, gene, require_disease, require_phenotype, rescue_filter, include_abstract, status, count, created_at`

// List returns the most recent lookups, newest first. A non-positive limit
// uses the default of 50. A non-empty gene restricts the list to that
// symbol.
func (s *Store) List(ctx context.Context, gene types.GeneSymbol, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT ` + entryColumns + ` FROM lookups`
	args := []any{}
	if gene != "" {
		query += ` WHERE gene = ?`
		args = append(args, gene.String())
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing lookups: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one saved lookup with its publications.
func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+entryColumns+` FROM lookups WHERE id = ?`), id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	pubs, err := s.publications(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Record{Entry: e, Publications: pubs}, nil
}

func (s *Store) publications(ctx context.Context, id int64) ([]types.PublicationRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT pmid, mgi_id, author, title, journal, year, abstract,
			diseases, phenotypes, disease_text, phenotype_text, rescue
		 FROM publications WHERE lookup_id = ? ORDER BY position`), id)
	if err != nil {
		return nil, fmt.Errorf("querying publications: %w", err)
	}
	defer rows.Close()

	pubs := []types.PublicationRecord{}
	for rows.Next() {
		var (
			p                      types.PublicationRecord
			mgiID, author, title   sql.NullString
			journal, year, abs     sql.NullString
			diseases, phenotypes   sql.NullString
			diseaseText, phenoText sql.NullString
			rescue                 sql.NullString
		)
		if err := rows.Scan(&p.PMID, &mgiID, &author, &title, &journal, &year, &abs,
			&diseases, &phenotypes, &diseaseText, &phenoText, &rescue); err != nil {
			return nil, fmt.Errorf("scanning publication: %w", err)
		}
		p.MGIID = mgiID.String
		p.Author = author.String
		p.Title = title.String
		p.Journal = journal.String
		p.Year = year.String
		p.Abstract = abs.String
		p.HasAbstract = abs.String != "" && abs.String != types.NoAbstractText
		p.DiseaseText = diseaseText.String
		p.PhenotypeText = phenoText.String
		p.Rescue = types.RescueStatus(rescue.String)
		if diseases.Valid {
			_ = json.Unmarshal([]byte(diseases.String), &p.Diseases)
		}
		if phenotypes.Valid {
			_ = json.Unmarshal([]byte(phenotypes.String), &p.Phenotypes)
		}
		pubs = append(pubs, p)
	}
	return pubs, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(r scanner) (Entry, error) {
	var (
		e                       Entry
		gene, status, created   string
		reqDis, reqPhen         int
		rescue, includeAbstract int
	)
	if err := r.Scan(&e.ID, &gene, &reqDis, &reqPhen, &rescue, &includeAbstract, &status, &e.Count, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("scanning lookup: %w", err)
	}
	e.Gene = types.GeneSymbol(gene)
	e.Status = lookup.OutcomeStatus(status)
	e.Options = types.FilterOptions{
		RequireDisease:   reqDis != 0,
		RequirePhenotype: reqPhen != 0,
		RescueFilter:     rescue != 0,
		IncludeAbstract:  includeAbstract != 0,
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		e.CreatedAt = t
	}
	return e, nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != types.ArchivePostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
