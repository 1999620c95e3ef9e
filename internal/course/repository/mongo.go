package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devcamper/devcamper-api/internal/course"
	"github.com/devcamper/devcamper-api/internal/query"
	"github.com/devcamper/devcamper-api/internal/validate"
)

// MongoRepo implements Repository on the "courses" collection.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "bootcamp", Value: 1}}}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, fmt.Errorf("create course indexes: %w", err)
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) Create(ctx context.Context, c *course.Course) error {
	if c.ID == "" {
		c.ID = validate.GenerateID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	_, err := m.col.InsertOne(ctx, c)
	return err
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*course.Course, error) {
	var c course.Course
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (m *MongoRepo) Find(ctx context.Context, q query.Query) ([]bson.M, int64, error) {
	total, err := m.col.CountDocuments(ctx, q.Filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	cur, err := m.col.Find(ctx, q.Filter, q.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("find courses: %w", err)
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

func (m *MongoRepo) ListByBootcamp(ctx context.Context, bootcampID string) ([]*course.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{"bootcamp": bootcampID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*course.Course{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) Update(ctx context.Context, id string, set bson.M) (*course.Course, error) {
	if len(set) == 0 {
		return m.Get(ctx, id)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c course.Course
	if err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
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

func (m *MongoRepo) DeleteByBootcamp(ctx context.Context, bootcampID string) (int64, error) {
	res, err := m.col.DeleteMany(ctx, bson.M{"bootcamp": bootcampID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *MongoRepo) AverageTuition(ctx context.Context, bootcampID string) (float64, int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bootcamp": bootcampID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$bootcamp",
			"avg":   bson.M{"$avg": "$tuition"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("average tuition: %w", err)
	}
	defer cur.Close(ctx)
	var rows []struct {
		Avg   float64 `bson:"avg"`
		Count int64   `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Avg, rows[0].Count, nil
}

// DeleteAll removes every course; used by the seeder.
func (m *MongoRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := m.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
