// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mine is a small client for InterMine web services such as
// MouseMine. It builds PathQuery XML and streams result rows keyed by
// their view path.
package mine

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Constraint operators used by the lookup queries.
const (
	OpEquals    = "="
	OpIsNull    = "IS NULL"
	OpIsNotNull = "IS NOT NULL"
)

// defaultModel is the data model name served by MouseMine.
const defaultModel = "genomic"

// Constraint restricts a path. A subclass constraint sets Type and leaves
// Op empty; it takes no code and does not take part in the logic
// expression.
type Constraint struct {
	Path  string
	Op    string
	Value string
	Code  string
	Type  string
}

// IsSubclass reports whether c narrows the class of a path rather than
// comparing its value.
func (c Constraint) IsSubclass() bool { return c.Type != "" }

// Query is an InterMine PathQuery. Paths are relative to Root
// (e.g. "subject.symbol" under root "OntologyAnnotation").
type Query struct {
	Root        string
	Model       string
	Views       []string
	Constraints []Constraint
	Logic       string
}

// NewQuery starts a query rooted at the given class.
func NewQuery(root string) *Query {
	return &Query{Root: root, Model: defaultModel}
}

// AddView appends output columns.
func (q *Query) AddView(paths ...string) *Query {
	q.Views = append(q.Views, paths...)
	return q
}

// AddSubclass constrains path to be of class typ.
func (q *Query) AddSubclass(path, typ string) *Query {
	q.Constraints = append(q.Constraints, Constraint{Path: path, Type: typ})
	return q
}

// AddConstraint adds a coded value constraint. Value is ignored for the
// null operators.
func (q *Query) AddConstraint(path, op, value, code string) *Query {
	c := Constraint{Path: path, Op: op, Code: code}
	if op != OpIsNull && op != OpIsNotNull {
		c.Value = value
	}
	q.Constraints = append(q.Constraints, c)
	return q
}

// SetLogic sets the constraint logic over codes (e.g. "A and B and C").
func (q *Query) SetLogic(logic string) *Query {
	q.Logic = logic
	return q
}

// Codes returns the codes of all value constraints in insertion order.
func (q *Query) Codes() []string {
	var codes []string
	for _, c := range q.Constraints {
		if !c.IsSubclass() {
			codes = append(codes, c.Code)
		}
	}
	return codes
}

// Constraint returns the value constraint with the given code.
func (q *Query) Constraint(code string) (Constraint, bool) {
	for _, c := range q.Constraints {
		if !c.IsSubclass() && c.Code == code {
			return c, true
		}
	}
	return Constraint{}, false
}

// Subclass returns the class a path is narrowed to, or "" if unconstrained.
func (q *Query) Subclass(path string) string {
	for _, c := range q.Constraints {
		if c.IsSubclass() && c.Path == path {
			return c.Type
		}
	}
	return ""
}

type xmlQuery struct {
	XMLName     xml.Name        `xml:"query"`
	Model       string          `xml:"model,attr"`
	View        string          `xml:"view,attr"`
	Logic       string          `xml:"constraintLogic,attr,omitempty"`
	Constraints []xmlConstraint `xml:"constraint"`
}

type xmlConstraint struct {
	Path  string `xml:"path,attr"`
	Type  string `xml:"type,attr,omitempty"`
	Op    string `xml:"op,attr,omitempty"`
	Value string `xml:"value,attr,omitempty"`
	Code  string `xml:"code,attr,omitempty"`
}

// XML renders the query in PathQuery XML form with absolute paths.
func (q *Query) XML() (string, error) {
	if q.Root == "" {
		return "", fmt.Errorf("query has no root class")
	}
	if len(q.Views) == 0 {
		return "", fmt.Errorf("query on %s has no view", q.Root)
	}

	model := q.Model
	if model == "" {
		model = defaultModel
	}

	views := make([]string, len(q.Views))
	for i, v := range q.Views {
		views[i] = q.abs(v)
	}

	xq := xmlQuery{
		Model: model,
		View:  strings.Join(views, " "),
		Logic: q.Logic,
	}
	for _, c := range q.Constraints {
		xq.Constraints = append(xq.Constraints, xmlConstraint{
			Path:  q.abs(c.Path),
			Type:  c.Type,
			Op:    c.Op,
			Value: c.Value,
			Code:  c.Code,
		})
	}

	data, err := xml.Marshal(xq)
	if err != nil {
		return "", fmt.Errorf("marshaling path query: %w", err)
	}
	return string(data), nil
}

func (q *Query) abs(path string) string {
	if path == q.Root || strings.HasPrefix(path, q.Root+".") {
		return path
	}
	return q.Root + "." + path
}
