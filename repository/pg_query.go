package repository

import (
	"fmt"
	"strings"

	"freightbroker/models"
	"freightbroker/query"
)

// pgColumns maps whitelist field names (stored/bson paths) onto columns.
// A field missing here simply cannot be filtered on in the SQL backend.
var pgColumns = map[string]string{
	"load_number":            "load_number",
	"invoice_number":         "invoice_number",
	"wo_number":              "wo_number",
	"status":                 "status",
	"equipment":              "equipment",
	"broker_id":              "broker_id",
	"customer_id":            "customer_id",
	"carrier_id":             "carrier_id",
	"posted_by":              "posted_by",
	"all_in_rate":            "all_in_rate",
	"carrier_fee":            "carrier_fee",
	"weight":                 "weight",
	"length":                 "length",
	"age":                    "age",
	"created_at":             "created_at",
	"invoice_date":           "invoice_date",
	"reference_number":       "reference_number",
	"available_from":         "available_from",
	"shipper.location.str":   "shipper_str",
	"consignee.location.str": "consignee_str",
	"origin.str":             "origin_str",
	"destination.str":        "destination_str",
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func pgPredicate(p query.Predicate, args *[]any) (string, bool) {
	col, ok := pgColumns[p.Field]
	if !ok {
		return "", false
	}
	switch p.Op {
	case query.OpContains:
		s, _ := p.Value.(string)
		*args = append(*args, "%"+escapeLike(s)+"%")
		return fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, col, len(*args)), true
	case query.OpGte:
		*args = append(*args, p.Value)
		return fmt.Sprintf("%s >= $%d", col, len(*args)), true
	case query.OpLte:
		*args = append(*args, p.Value)
		return fmt.Sprintf("%s <= $%d", col, len(*args)), true
	default:
		*args = append(*args, p.Value)
		return fmt.Sprintf("%s = $%d", col, len(*args)), true
	}
}

// pgWhere renders the query's clauses plus any pre-rendered extra conditions
// into a WHERE fragment, appending bind values to args.
func pgWhere(q *query.Query, args *[]any, extra ...string) string {
	conds := append([]string{}, extra...)
	if q != nil {
		for _, clause := range q.Clauses {
			var ors []string
			for _, p := range clause.Or {
				if c, ok := pgPredicate(p, args); ok {
					ors = append(ors, c)
				}
			}
			if len(ors) == 1 {
				conds = append(conds, ors[0])
			} else if len(ors) > 1 {
				conds = append(conds, "("+strings.Join(ors, " OR ")+")")
			}
		}
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func pgOrder(q *query.Query) string {
	if q == nil || len(q.Sort) == 0 {
		return ""
	}
	var parts []string
	for _, s := range q.Sort {
		col, ok := pgColumns[s.Field]
		if !ok {
			continue
		}
		if s.Desc {
			parts = append(parts, col+" DESC")
		} else {
			parts = append(parts, col+" ASC")
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func pgBoxConds(latCol, lngCol string, boxes []models.GeoBounds, args *[]any) string {
	if len(boxes) == 0 {
		return ""
	}
	var ors []string
	for _, b := range boxes {
		*args = append(*args, b.MinLat, b.MaxLat, b.MinLng, b.MaxLng)
		n := len(*args)
		ors = append(ors, fmt.Sprintf("(%s BETWEEN $%d AND $%d AND %s BETWEEN $%d AND $%d)",
			latCol, n-3, n-2, lngCol, n-1, n))
	}
	return "(" + strings.Join(ors, " OR ") + ")"
}
