// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/clingen/pkg/types"
)

func mineTestServer(t *testing.T, statusCode int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testQuery() *Query {
	return NewQuery("OntologyAnnotation").
		AddView("ontologyTerm.name", "evidence.publications.pubMedId", "evidence.publications.abstractText").
		AddConstraint("subject.symbol", OpEquals, "SHH", "A")
}

func TestClientRows(t *testing.T) {
	body := `{
	  "results": [
	    ["holoprosencephaly", 12345, "Sonic hedgehog is required..."],
	    ["cyclopia", "67890", null]
	  ],
	  "wasSuccessful": true,
	  "error": null,
	  "statusCode": 200
	}`

	var gotQuery, gotFormat, gotAuth, gotUA string
	ts := mineTestServer(t, http.StatusOK, body, func(r *http.Request) {
		assert.Equal(t, "/service/query/results", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotFormat = r.URL.Query().Get("format")
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
	})

	c := NewClient(ts.Client(), types.MineConfig{
		BaseURL:    ts.URL + "/service/",
		Token:      "tok123",
		HTTPConfig: types.HTTPConfig{UserAgent: "clingen-test"},
	})

	rows, err := c.Rows(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "json", gotFormat)
	assert.Contains(t, gotQuery, `path="OntologyAnnotation.subject.symbol"`)
	assert.Equal(t, "Token tok123", gotAuth)
	assert.Equal(t, "clingen-test", gotUA)

	pmid, ok := rows[0].String("evidence.publications.pubMedId")
	assert.True(t, ok)
	assert.Equal(t, "12345", pmid, "numeric IDs keep their literal form")

	pmid, ok = rows[1].String("evidence.publications.pubMedId")
	assert.True(t, ok)
	assert.Equal(t, "67890", pmid)

	_, ok = rows[1].String("evidence.publications.abstractText")
	assert.False(t, ok, "null fields are absent")

	_, ok = rows[0].String("not.requested")
	assert.False(t, ok)
}

func TestClientRowsEmpty(t *testing.T) {
	ts := mineTestServer(t, http.StatusOK, `{"results": [], "wasSuccessful": true, "statusCode": 200}`, nil)
	c := NewClient(ts.Client(), types.MineConfig{BaseURL: ts.URL})

	rows, err := c.Rows(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClientRowsNoTokenHeader(t *testing.T) {
	ts := mineTestServer(t, http.StatusOK, `{"results": [], "wasSuccessful": true}`, func(r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
	})
	c := NewClient(ts.Client(), types.MineConfig{BaseURL: ts.URL})

	_, err := c.Rows(context.Background(), testQuery())
	require.NoError(t, err)
}

func TestClientRowsErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "http error with json body",
			status:     http.StatusBadRequest,
			body:       `{"error": "Invalid path: OntologyAnnotation.bogus", "wasSuccessful": false, "statusCode": 400}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid path: OntologyAnnotation.bogus",
		},
		{
			name:       "http error with plain body",
			status:     http.StatusServiceUnavailable,
			body:       "down for maintenance\nplease retry",
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "down for maintenance",
		},
		{
			name:       "200 but unsuccessful",
			status:     http.StatusOK,
			body:       `{"results": [], "wasSuccessful": false, "error": "query timed out", "statusCode": 500}`,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "query timed out",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := mineTestServer(t, tt.status, tt.body, nil)
			c := NewClient(ts.Client(), types.MineConfig{BaseURL: ts.URL})

			_, err := c.Rows(context.Background(), testQuery())
			var se *ServiceError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, tt.wantStatus, se.StatusCode)
			assert.Equal(t, tt.wantMsg, se.Message)
		})
	}
}

func TestClientRowsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>oops</html>"},
		{"short row", `{"results": [["only-one"]], "wasSuccessful": true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := mineTestServer(t, http.StatusOK, tt.body, nil)
			c := NewClient(ts.Client(), types.MineConfig{BaseURL: ts.URL})

			_, err := c.Rows(context.Background(), testQuery())
			assert.ErrorContains(t, err, "parsing mine response")
		})
	}
}

func TestClientRowsTransportError(t *testing.T) {
	ts := mineTestServer(t, http.StatusOK, `{}`, nil)
	url := ts.URL
	ts.Close()

	c := NewClient(ts.Client(), types.MineConfig{BaseURL: url})
	_, err := c.Rows(context.Background(), testQuery())
	assert.ErrorContains(t, err, "mine API request")
}

func TestClientDefaults(t *testing.T) {
	c := NewClient(nil, types.MineConfig{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.NotNil(t, c.HTTP)
}

func TestRowString(t *testing.T) {
	r := Row{
		"s":   "text",
		"n":   json.Number("2001"),
		"b":   true,
		"nil": nil,
	}
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"s", "text", true},
		{"n", "2001", true},
		{"b", "true", true},
		{"nil", "", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := r.String(tt.path)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestServiceErrorMessage(t *testing.T) {
	assert.Equal(t, "mine service returned HTTP 502", (&ServiceError{StatusCode: 502}).Error())
	assert.Equal(t, "mine service returned HTTP 400: bad", (&ServiceError{StatusCode: 400, Message: "bad"}).Error())
}
