package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/devcamper/devcamper-api/internal/course"
	"github.com/devcamper/devcamper-api/internal/query"
)

var ErrNotFound = errors.New("course not found")

// Repository is the course store.
type Repository interface {
	Create(ctx context.Context, c *course.Course) error
	Get(ctx context.Context, id string) (*course.Course, error)
	Find(ctx context.Context, q query.Query) ([]bson.M, int64, error)
	ListByBootcamp(ctx context.Context, bootcampID string) ([]*course.Course, error)
	Update(ctx context.Context, id string, set bson.M) (*course.Course, error)
	Delete(ctx context.Context, id string) error
	// DeleteByBootcamp removes every course of a bootcamp and reports how
	// many were removed.
	DeleteByBootcamp(ctx context.Context, bootcampID string) (int64, error)
	// AverageTuition returns the mean tuition of a bootcamp's courses and
	// how many there are.
	AverageTuition(ctx context.Context, bootcampID string) (float64, int64, error)
}
