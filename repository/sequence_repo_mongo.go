package repository

import (
	"context"
	"fmt"

	"freightbroker/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sequenceOwners maps each sequence to the collection and field holding the
// values it issues; ValueInUse checks uniqueness there.
var sequenceOwners = map[string]struct {
	collection string
	field      string
}{
	models.SeqLoadNumber:      {"dispatches", "load_number"},
	models.SeqInvoiceNumber:   {"dispatches", "invoice_number"},
	models.SeqWONumber:        {"dispatches", "wo_number"},
	models.SeqReferenceNumber: {"trucks", "reference_number"},
}

type MongoSequenceRepo struct {
	DB *mongo.Client
}

func NewMongoSequenceRepo(db *mongo.Client) *MongoSequenceRepo {
	return &MongoSequenceRepo{DB: db}
}

func (r *MongoSequenceRepo) db() *mongo.Database {
	return r.DB.Database(mongoDBName)
}

// Next is a single findOneAndUpdate with $inc and upsert, the atomic
// increment-and-get the allocator requires. Two concurrent callers can never
// see the same value.
func (r *MongoSequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	if _, ok := sequenceOwners[name]; !ok {
		return 0, fmt.Errorf("unknown sequence %q", name)
	}

	after := options.After
	var seq models.Sequence
	err := r.db().Collection("sequences").FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		&options.FindOneAndUpdateOptions{Upsert: boolPtr(true), ReturnDocument: &after},
	).Decode(&seq)
	if err != nil {
		return 0, err
	}
	return seq.Value, nil
}

func (r *MongoSequenceRepo) Raise(ctx context.Context, name string, value int64) error {
	if _, ok := sequenceOwners[name]; !ok {
		return fmt.Errorf("unknown sequence %q", name)
	}
	_, err := r.db().Collection("sequences").UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$max": bson.M{"value": value}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *MongoSequenceRepo) ValueInUse(ctx context.Context, name string, value int64) (bool, error) {
	owner, ok := sequenceOwners[name]
	if !ok {
		return false, fmt.Errorf("unknown sequence %q", name)
	}
	n, err := r.db().Collection(owner.collection).CountDocuments(ctx, bson.M{owner.field: value})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func boolPtr(b bool) *bool { return &b }
