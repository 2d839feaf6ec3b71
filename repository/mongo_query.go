package repository

import (
	"regexp"

	"freightbroker/models"
	"freightbroker/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoDBName = "freightbroker"

func mongoPredicate(p query.Predicate) bson.M {
	switch p.Op {
	case query.OpContains:
		s, _ := p.Value.(string)
		// QuoteMeta before the value becomes a pattern; search input is
		// never interpreted as a regex.
		return bson.M{p.Field: bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}}
	case query.OpGte:
		return bson.M{p.Field: bson.M{"$gte": p.Value}}
	case query.OpLte:
		return bson.M{p.Field: bson.M{"$lte": p.Value}}
	default:
		return bson.M{p.Field: p.Value}
	}
}

func mongoFilter(q *query.Query, extra ...bson.M) bson.M {
	var and []bson.M
	and = append(and, extra...)
	if q != nil {
		for _, clause := range q.Clauses {
			if len(clause.Or) == 1 {
				and = append(and, mongoPredicate(clause.Or[0]))
				continue
			}
			var or []bson.M
			for _, p := range clause.Or {
				or = append(or, mongoPredicate(p))
			}
			and = append(and, bson.M{"$or": or})
		}
	}
	switch len(and) {
	case 0:
		return bson.M{}
	case 1:
		return and[0]
	default:
		return bson.M{"$and": and}
	}
}

func mongoFindOptions(q *query.Query) *options.FindOptions {
	opts := options.Find().SetSkip(q.Skip).SetLimit(q.Limit)
	if len(q.Sort) > 0 {
		sort := bson.D{}
		for _, s := range q.Sort {
			dir := 1
			if s.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: s.Field, Value: dir})
		}
		opts.SetSort(sort)
	}
	return opts
}

// mongoBoxFilter turns bounding boxes into an $or of range clauses on the
// given location prefix. The boxes are an index hint only; the caller still
// checks great-circle distance.
func mongoBoxFilter(prefix string, boxes []models.GeoBounds) bson.M {
	if len(boxes) == 0 {
		return nil
	}
	var or []bson.M
	for _, b := range boxes {
		or = append(or, bson.M{
			prefix + ".lat": bson.M{"$gte": b.MinLat, "$lte": b.MaxLat},
			prefix + ".lng": bson.M{"$gte": b.MinLng, "$lte": b.MaxLng},
		})
	}
	return bson.M{"$or": or}
}
