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

type MongoDispatchRepo struct {
	DB *mongo.Client
}

func NewMongoDispatchRepo(db *mongo.Client) *MongoDispatchRepo {
	return &MongoDispatchRepo{DB: db}
}

func (r *MongoDispatchRepo) coll() *mongo.Collection {
	return r.DB.Database(mongoDBName).Collection("dispatches")
}

func (r *MongoDispatchRepo) Create(ctx context.Context, d *models.Dispatch) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.Age.IsZero() {
		d.Age = now
	}
	_, err := r.coll().InsertOne(ctx, d)
	return err
}

func (r *MongoDispatchRepo) GetByID(ctx context.Context, id string) (*models.Dispatch, error) {
	var d models.Dispatch
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *MongoDispatchRepo) List(ctx context.Context, q *query.Query) ([]*models.Dispatch, int64, error) {
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

	var out []*models.Dispatch
	for cur.Next(ctx) {
		var d models.Dispatch
		if err := cur.Decode(&d); err != nil {
			return nil, 0, err
		}
		out = append(out, &d)
	}
	return out, total, cur.Err()
}

// ApplyTransition is a single-document conditional update, which is the
// atomicity boundary: status and any identifier assignment land together or
// not at all. Matching on the previous status makes racing writers lose
// cleanly instead of double-applying.
func (r *MongoDispatchRepo) ApplyTransition(ctx context.Context, id string, from models.LoadStatus, upd TransitionUpdate) (bool, error) {
	set := bson.M{
		"status":     upd.Status,
		"updated_at": upd.UpdatedAt,
	}
	if upd.LoadNumber != nil {
		set["load_number"] = *upd.LoadNumber
	}
	if upd.InvoiceNumber != nil {
		set["invoice_number"] = *upd.InvoiceNumber
	}
	if upd.InvoiceDate != nil {
		set["invoice_date"] = *upd.InvoiceDate
	}

	res, err := r.coll().UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *MongoDispatchRepo) Candidates(ctx context.Context, equipment string, boxes []models.GeoBounds) ([]*models.Dispatch, error) {
	filter := bson.M{
		"status":    models.StatusPublished,
		"equipment": equipment,
	}
	if box := mongoBoxFilter("shipper.location", boxes); box != nil {
		filter = bson.M{"$and": []bson.M{filter, box}}
	}

	cur, err := r.coll().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Dispatch
	for cur.Next(ctx) {
		var d models.Dispatch
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}

func (r *MongoDispatchRepo) RefreshAge(ctx context.Context, id string, t time.Time) (bool, error) {
	res, err := r.coll().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"age": t, "updated_at": t}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *MongoDispatchRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
