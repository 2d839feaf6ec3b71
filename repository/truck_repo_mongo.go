package repository

import (
	"context"
	"errors"
	"time"

	"freightbroker/models"
	"freightbroker/query"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoTruckRepo struct {
	DB *mongo.Client
}

func NewMongoTruckRepo(db *mongo.Client) *MongoTruckRepo {
	return &MongoTruckRepo{DB: db}
}

func (r *MongoTruckRepo) coll() *mongo.Collection {
	return r.DB.Database(mongoDBName).Collection("trucks")
}

func (r *MongoTruckRepo) Create(ctx context.Context, t *models.Truck) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.Age.IsZero() {
		t.Age = now
	}
	_, err := r.coll().InsertOne(ctx, t)
	return err
}

func (r *MongoTruckRepo) GetByID(ctx context.Context, id string) (*models.Truck, error) {
	var t models.Truck
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *MongoTruckRepo) List(ctx context.Context, q *query.Query) ([]*models.Truck, int64, error) {
	filter := mongoFilter(q)
	total, err := r.coll().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := r.coll().Find(ctx, filter, mongoFindOptions(q))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []*models.Truck
	for cur.Next(ctx) {
		var t models.Truck
		if err := cur.Decode(&t); err != nil {
			return nil, 0, err
		}
		out = append(out, &t)
	}
	return out, total, cur.Err()
}

func (r *MongoTruckRepo) Candidates(ctx context.Context, equipment string, boxes []models.GeoBounds) ([]*models.Truck, error) {
	filter := bson.M{"equipment": equipment}
	if box := mongoBoxFilter("origin", boxes); box != nil {
		filter = bson.M{"$and": []bson.M{filter, box}}
	}

	cur, err := r.coll().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Truck
	for cur.Next(ctx) {
		var t models.Truck
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, cur.Err()
}

func (r *MongoTruckRepo) RefreshAge(ctx context.Context, id string, t time.Time) (bool, error) {
	res, err := r.coll().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"age": t, "updated_at": t}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *MongoTruckRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
