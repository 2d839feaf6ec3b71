package repository

import (
	"context"
	"errors"

	"freightbroker/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRoleRepo struct {
	DB *mongo.Client
}

func NewMongoRoleRepo(db *mongo.Client) *MongoRoleRepo {
	return &MongoRoleRepo{DB: db}
}

func (r *MongoRoleRepo) coll() *mongo.Collection {
	return r.DB.Database(mongoDBName).Collection("roles")
}

func (r *MongoRoleRepo) Get(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.coll().FindOne(ctx, bson.M{"_id": name}).Decode(&role)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *MongoRoleRepo) Upsert(ctx context.Context, role *models.Role) error {
	_, err := r.coll().UpdateOne(ctx,
		bson.M{"_id": role.Name},
		bson.M{"$set": bson.M{"permissions": role.Permissions}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *MongoRoleRepo) Delete(ctx context.Context, name string) (bool, error) {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
