package repository

import (
	"testing"

	"freightbroker/models"
	"freightbroker/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `wo\_number`, escapeLike("wo_number"))
	assert.Equal(t, `c:\\temp`, escapeLike(`c:\temp`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestPgPredicate_ContainsUsesILike(t *testing.T) {
	var args []any
	cond, ok := pgPredicate(query.Predicate{
		Field: "equipment", Op: query.OpContains, Value: "50% flat",
	}, &args)
	require.True(t, ok)
	assert.Equal(t, `equipment ILIKE $1 ESCAPE '\'`, cond)
	require.Len(t, args, 1)
	assert.Equal(t, `%50\% flat%`, args[0])
}

func TestPgPredicate_UnknownFieldDropped(t *testing.T) {
	var args []any
	_, ok := pgPredicate(query.Predicate{Field: "secret", Op: query.OpEq, Value: 1}, &args)
	assert.False(t, ok)
	assert.Empty(t, args)
}

func TestPgPredicate_NestedPathMapsToColumn(t *testing.T) {
	var args []any
	cond, ok := pgPredicate(query.Predicate{
		Field: "shipper.location.str", Op: query.OpContains, Value: "houston",
	}, &args)
	require.True(t, ok)
	assert.Equal(t, `shipper_str ILIKE $1 ESCAPE '\'`, cond)
}

func TestPgWhere_Composition(t *testing.T) {
	var args []any
	assert.Equal(t, "", pgWhere(nil, &args))
	assert.Equal(t, " WHERE status = $1", pgWhere(nil, &args, "status = $1"))

	args = nil
	q := &query.Query{Clauses: []query.Clause{
		{Or: []query.Predicate{{Field: "equipment", Op: query.OpEq, Value: "Flatbed"}}},
		{Or: []query.Predicate{
			{Field: "origin.str", Op: query.OpContains, Value: "houston"},
			{Field: "destination.str", Op: query.OpContains, Value: "houston"},
		}},
	}}
	where := pgWhere(q, &args)
	assert.Equal(t,
		` WHERE equipment = $1 AND (origin_str ILIKE $2 ESCAPE '\' OR destination_str ILIKE $3 ESCAPE '\')`,
		where)
	assert.Len(t, args, 3)
}

func TestPgOrder(t *testing.T) {
	assert.Equal(t, "", pgOrder(nil))
	assert.Equal(t, "", pgOrder(&query.Query{}))

	q := &query.Query{Sort: []query.SortField{
		{Field: "age", Desc: true},
		{Field: "not_a_column"},
		{Field: "status"},
	}}
	assert.Equal(t, " ORDER BY age DESC, status ASC", pgOrder(q))
}

func TestPgBoxConds(t *testing.T) {
	var args []any
	assert.Equal(t, "", pgBoxConds("origin_lat", "origin_lng", nil, &args))

	boxes := []models.GeoBounds{{MinLat: 28, MaxLat: 31, MinLng: -97, MaxLng: -94}}
	cond := pgBoxConds("origin_lat", "origin_lng", boxes, &args)
	assert.Equal(t,
		"((origin_lat BETWEEN $1 AND $2 AND origin_lng BETWEEN $3 AND $4))",
		cond)
	assert.Equal(t, []any{float64(28), float64(31), float64(-97), float64(-94)}, args)
}
