package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devcamper/devcamper-api/internal/bootcamp"
	"github.com/devcamper/devcamper-api/internal/query"
	"github.com/devcamper/devcamper-api/internal/validate"
)

// MongoRepo implements Repository on the "bootcamps" collection.
type MongoRepo struct {
	col *mongo.Collection
}

// NewMongoRepo ensures the unique name, owner and 2dsphere location indexes.
func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
	}
	if _, err := col.Indexes().CreateMany(ctx, models); err != nil {
		return nil, fmt.Errorf("create bootcamp indexes: %w", err)
	}
	return &MongoRepo{col: col}, nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}

func (m *MongoRepo) Create(ctx context.Context, b *bootcamp.Bootcamp) error {
	if b.ID == "" {
		b.ID = validate.GenerateID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	_, err := m.col.InsertOne(ctx, b)
	return mapErr(err)
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*bootcamp.Bootcamp, error) {
	var b bootcamp.Bootcamp
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

func (m *MongoRepo) FindByOwner(ctx context.Context, userID string) (*bootcamp.Bootcamp, error) {
	var b bootcamp.Bootcamp
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if err := m.col.FindOne(ctx, bson.M{"user": userID}, opts).Decode(&b); err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

func (m *MongoRepo) Find(ctx context.Context, q query.Query) ([]bson.M, int64, error) {
	total, err := m.col.CountDocuments(ctx, q.Filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count bootcamps: %w", err)
	}
	cur, err := m.col.Find(ctx, q.Filter, q.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("find bootcamps: %w", err)
	}
	defer cur.Close(ctx)
	out := []bson.M{}
	for cur.Next(ctx) {
		var d bson.M
		if err := cur.Decode(&d); err != nil {
			return nil, 0, err
		}
		out = append(out, query.Normalize(d))
	}
	return out, total, cur.Err()
}

func (m *MongoRepo) Update(ctx context.Context, id string, set bson.M) (*bootcamp.Bootcamp, error) {
	if len(set) == 0 {
		return m.Get(ctx, id)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b bootcamp.Bootcamp
	err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&b)
	if err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) WithinRadius(ctx context.Context, lng, lat, radians float64) ([]*bootcamp.Bootcamp, error) {
	filter := bson.M{"location": bson.M{"$geoWithin": bson.M{
		"$centerSphere": bson.A{bson.A{lng, lat}, radians},
	}}}
	cur, err := m.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("radius search: %w", err)
	}
	defer cur.Close(ctx)
	out := []*bootcamp.Bootcamp{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAll removes every bootcamp; used by the seeder.
func (m *MongoRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := m.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
