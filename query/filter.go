package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"freightbroker/apperrors"
)

// Op is a predicate operator the store backends know how to translate.
type Op int

const (
	OpEq Op = iota
	// OpContains is a case-insensitive substring match. The raw value is
	// carried here; each backend escapes it for its own pattern syntax
	// before it touches a query (regex metacharacters for Mongo, LIKE
	// wildcards for Postgres).
	OpContains
	OpGte
	OpLte
)

type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Clause is a disjunction of predicates; clauses themselves are conjoined.
// A plain predicate is a one-element clause.
type Clause struct {
	Or []Predicate
}

type SortField struct {
	Field string
	Desc  bool
}

type Query struct {
	Clauses []Clause
	Sort    []SortField
	Page    int64
	Limit   int64
	Skip    int64
}

type FieldType int

const (
	FieldString FieldType = iota
	FieldNumeric
	FieldDate
)

// EntityFields enumerates every field a request may filter or sort by.
// Anything not listed here never reaches the store; request parameters are
// never spread into a filter wholesale.
type EntityFields struct {
	Fields map[string]FieldType
	// Multi maps a virtual search field to the underlying fields it
	// expands into as an OR, e.g. "name" -> firstName OR lastName.
	Multi map[string][]string
}

// Params is the flat request-parameter vocabulary every listing endpoint
// accepts.
type Params struct {
	Page        string
	Limit       string
	Sort        string
	Search      string
	SearchField string
	DateField   string
	FromDate    string
	ToDate      string
}

func FromValues(v url.Values) Params {
	return Params{
		Page:        v.Get("page"),
		Limit:       v.Get("limit"),
		Sort:        v.Get("sort"),
		Search:      v.Get("search"),
		SearchField: v.Get("searchField"),
		DateField:   v.Get("dateField"),
		FromDate:    v.Get("fromDate"),
		ToDate:      v.Get("toDate"),
	}
}

// Build converts request parameters into a Query. Pagination is permissive
// (bad values fall back to defaults); search against a numeric field with a
// non-numeric value is an InvalidSearch error.
func Build(p Params, fields EntityFields, defaultLimit int64) (*Query, error) {
	q := &Query{Page: 1, Limit: defaultLimit}

	if n, err := strconv.ParseInt(p.Page, 10, 64); err == nil && n >= 1 {
		q.Page = n
	}
	if n, err := strconv.ParseInt(p.Limit, 10, 64); err == nil && n >= 1 {
		q.Limit = n
	}
	q.Skip = (q.Page - 1) * q.Limit

	q.Sort = parseSort(p.Sort, fields)

	if p.Search != "" && p.SearchField != "" {
		clause, err := searchClause(p.Search, p.SearchField, fields)
		if err != nil {
			return nil, err
		}
		if clause != nil {
			q.Clauses = append(q.Clauses, *clause)
		}
	}

	if p.DateField != "" {
		clauses, err := dateClauses(p, fields)
		if err != nil {
			return nil, err
		}
		q.Clauses = append(q.Clauses, clauses...)
	}

	return q, nil
}

func parseSort(raw string, fields EntityFields) []SortField {
	var out []SortField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name := part
		desc := false
		if i := strings.IndexByte(part, ':'); i >= 0 {
			name = part[:i]
			desc = strings.EqualFold(part[i+1:], "desc")
		}
		// Unknown fields are dropped, never passed through.
		if _, ok := fields.Fields[name]; !ok {
			continue
		}
		out = append(out, SortField{Field: name, Desc: desc})
	}
	return out
}

func searchClause(search, field string, fields EntityFields) (*Clause, error) {
	if mapped, ok := fields.Multi[field]; ok {
		clause := Clause{}
		for _, f := range mapped {
			clause.Or = append(clause.Or, Predicate{Field: f, Op: OpContains, Value: search})
		}
		return &clause, nil
	}

	ft, ok := fields.Fields[field]
	if !ok {
		return nil, nil
	}
	switch ft {
	case FieldNumeric:
		n, err := strconv.ParseFloat(search, 64)
		if err != nil {
			return nil, &apperrors.InvalidSearchError{Field: field, Value: search}
		}
		return &Clause{Or: []Predicate{{Field: field, Op: OpEq, Value: n}}}, nil
	default:
		return &Clause{Or: []Predicate{{Field: field, Op: OpContains, Value: search}}}, nil
	}
}

func dateClauses(p Params, fields EntityFields) ([]Clause, error) {
	if ft, ok := fields.Fields[p.DateField]; !ok || ft != FieldDate {
		return nil, nil
	}
	var out []Clause
	if p.FromDate != "" {
		t, err := parseDate(p.FromDate)
		if err != nil {
			return nil, apperrors.NewValidation("fromDate: " + err.Error())
		}
		out = append(out, Clause{Or: []Predicate{{Field: p.DateField, Op: OpGte, Value: t}}})
	}
	if p.ToDate != "" {
		t, err := parseDate(p.ToDate)
		if err != nil {
			return nil, apperrors.NewValidation("toDate: " + err.Error())
		}
		out = append(out, Clause{Or: []Predicate{{Field: p.DateField, Op: OpLte, Value: t}}})
	}
	return out, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
