// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup finds the publications that link a gene to diseases and
// mammalian phenotypes in MouseMine. It builds the three annotation
// queries, merges their rows per publication, and formats and filters the
// resulting records.
package lookup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pdiddy/clingen/pkg/types"
)

// User-facing messages for the negative outcomes.
const (
	MsgUnknownGene    = "This gene does not exist in the MGI database"
	MsgNoPublications = "There are currently 0 publications that show an association between this gene and any diseases or phenotypes"
)

// OutcomeStatus classifies a completed lookup.
type OutcomeStatus string

const (
	StatusFound          OutcomeStatus = "found"
	StatusUnknownGene    OutcomeStatus = "unknown_gene"
	StatusNoPublications OutcomeStatus = "no_publications"
)

// Outcome is the result of a lookup that reached the service successfully.
type Outcome struct {
	Gene    types.GeneSymbol    `json:"gene" yaml:"gene"`
	Options types.FilterOptions `json:"options" yaml:"options"`
	Status  OutcomeStatus       `json:"status" yaml:"status"`
	Count   int                 `json:"count" yaml:"count"`
	Results *ResultSet          `json:"publications" yaml:"publications"`
}

// Message returns the text shown instead of a table, or "" when there are
// results to show.
func (o *Outcome) Message() string {
	switch o.Status {
	case StatusUnknownGene:
		return MsgUnknownGene
	case StatusNoPublications:
		return MsgNoPublications
	default:
		return ""
	}
}

// Observer receives timing and outcome events. The metrics package
// implements it; a nil Observer is allowed.
type Observer interface {
	ObserveQuery(query string, elapsed time.Duration, rows int, err error)
	ObserveLookup(status OutcomeStatus, count int, err error)
}

// Service runs the whole lookup pipeline against a Runner.
type Service struct {
	runner   Runner
	observer Observer
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithLogger sets the logger used for per-query debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService returns a Service that sends its queries through r.
func NewService(r Runner, opts ...Option) *Service {
	s := &Service{
		runner: r,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup checks that gene is known, runs the three annotation queries,
// and post-processes the merged records with opts. An unknown gene or an
// empty filtered set is a normal Outcome; only service failures are
// returned as errors.
func (s *Service) Lookup(ctx context.Context, gene types.GeneSymbol, opts types.FilterOptions) (*Outcome, error) {
	out, err := s.lookup(ctx, gene, opts)
	if s.observer != nil {
		if err != nil {
			s.observer.ObserveLookup("", 0, err)
		} else {
			s.observer.ObserveLookup(out.Status, out.Count, nil)
		}
	}
	return out, err
}

func (s *Service) lookup(ctx context.Context, gene types.GeneSymbol, opts types.FilterOptions) (*Outcome, error) {
	if gene == "" {
		return nil, types.ErrEmptyGene
	}

	out := &Outcome{Gene: gene, Options: opts, Results: NewResultSet()}

	exists, err := geneExists(ctx, s.runner, gene, s.hook)
	if err != nil {
		return nil, err
	}
	if !exists {
		out.Status = StatusUnknownGene
		s.logger.Info("gene not found", "gene", gene)
		return out, nil
	}

	rs, err := aggregate(ctx, s.runner, BuildQueries(gene), s.hook)
	if err != nil {
		return nil, err
	}
	aggregated := rs.Len()

	out.Results = rs
	out.Count = PostProcess(rs, opts)
	out.Status = StatusFound
	if out.Count == 0 {
		out.Status = StatusNoPublications
	}

	s.logger.Info("lookup complete",
		"gene", gene, "aggregated", aggregated, "kept", out.Count, "status", out.Status)
	return out, nil
}

func (s *Service) hook(label string, elapsed time.Duration, rows int, err error) {
	s.logger.Debug("mine query", "query", label, "rows", rows, "elapsed", elapsed, "error", err)
	if s.observer != nil {
		s.observer.ObserveQuery(label, elapsed, rows, err)
	}
}

// GeneExists reports whether MouseMine knows gene, judged by whether any
// publication is attached to it. Transport failures are errors, never a
// silent false.
func GeneExists(ctx context.Context, r Runner, gene types.GeneSymbol) (bool, error) {
	return geneExists(ctx, r, gene, nil)
}

func geneExists(ctx context.Context, r Runner, gene types.GeneSymbol, hook queryHook) (bool, error) {
	start := time.Now()
	rows, err := r.Rows(ctx, existenceQuery(gene))
	if hook != nil {
		hook("exists", time.Since(start), len(rows), err)
	}
	if err != nil {
		return false, fmt.Errorf("checking gene %s: %w", gene, err)
	}
	return len(rows) > 0, nil
}
