package repository

import (
	"testing"

	"freightbroker/models"
	"freightbroker/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoPredicate_ContainsEscapesRegex(t *testing.T) {
	p := query.Predicate{Field: "equipment", Op: query.OpContains, Value: "flat.*(bed)"}

	got := mongoPredicate(p)
	inner, ok := got["equipment"].(bson.M)
	require.True(t, ok)
	// Metacharacters in search input must match literally.
	assert.Equal(t, `flat\.\*\(bed\)`, inner["$regex"])
	assert.Equal(t, "i", inner["$options"])
}

func TestMongoPredicate_EqAndRange(t *testing.T) {
	eq := mongoPredicate(query.Predicate{Field: "load_number", Op: query.OpEq, Value: float64(1042)})
	assert.Equal(t, bson.M{"load_number": float64(1042)}, eq)

	gte := mongoPredicate(query.Predicate{Field: "age", Op: query.OpGte, Value: "x"})
	assert.Equal(t, bson.M{"age": bson.M{"$gte": "x"}}, gte)

	lte := mongoPredicate(query.Predicate{Field: "age", Op: query.OpLte, Value: "y"})
	assert.Equal(t, bson.M{"age": bson.M{"$lte": "y"}}, lte)
}

func TestMongoFilter_Composition(t *testing.T) {
	assert.Equal(t, bson.M{}, mongoFilter(nil))

	status := bson.M{"status": "Published"}
	assert.Equal(t, status, mongoFilter(nil, status))

	q := &query.Query{Clauses: []query.Clause{
		{Or: []query.Predicate{{Field: "equipment", Op: query.OpEq, Value: "Flatbed"}}},
	}}
	got := mongoFilter(q, status)
	and, ok := got["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, and, 2)
	assert.Equal(t, status, and[0])
	assert.Equal(t, bson.M{"equipment": "Flatbed"}, and[1])
}

func TestMongoFilter_MultiFieldOr(t *testing.T) {
	q := &query.Query{Clauses: []query.Clause{
		{Or: []query.Predicate{
			{Field: "origin.str", Op: query.OpContains, Value: "houston"},
			{Field: "destination.str", Op: query.OpContains, Value: "houston"},
		}},
	}}
	got := mongoFilter(q)
	or, ok := got["$or"].([]bson.M)
	require.True(t, ok)
	assert.Len(t, or, 2)
}

func TestMongoFindOptions(t *testing.T) {
	q := &query.Query{
		Sort:  []query.SortField{{Field: "age", Desc: true}, {Field: "status"}},
		Limit: 25,
		Skip:  50,
	}
	opts := mongoFindOptions(q)
	assert.Equal(t, int64(50), *opts.Skip)
	assert.Equal(t, int64(25), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "age", Value: -1}, {Key: "status", Value: 1}}, opts.Sort)
}

func TestMongoBoxFilter(t *testing.T) {
	assert.Nil(t, mongoBoxFilter("origin", nil))

	boxes := []models.GeoBounds{{MinLat: 28, MaxLat: 31, MinLng: -97, MaxLng: -94}}
	got := mongoBoxFilter("origin", boxes)
	or, ok := got["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 1)
	assert.Equal(t, bson.M{"$gte": float64(28), "$lte": float64(31)}, or[0]["origin.lat"])
	assert.Equal(t, bson.M{"$gte": float64(-97), "$lte": float64(-94)}, or[0]["origin.lng"])
}
