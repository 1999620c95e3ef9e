package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/devcamper/devcamper-api/internal/bootcamp"
	"github.com/devcamper/devcamper-api/internal/query"
)

var (
	ErrNotFound  = errors.New("bootcamp not found")
	ErrDuplicate = errors.New("duplicate bootcamp")
)

// EarthRadiusMiles converts a distance in miles to radians for radius search.
const EarthRadiusMiles = 3963.0

// Repository is the bootcamp store. Implementations return copies; callers
// may modify what they get back.
type Repository interface {
	Create(ctx context.Context, b *bootcamp.Bootcamp) error
	Get(ctx context.Context, id string) (*bootcamp.Bootcamp, error)
	// FindByOwner returns one bootcamp owned by userID or ErrNotFound.
	FindByOwner(ctx context.Context, userID string) (*bootcamp.Bootcamp, error)
	Find(ctx context.Context, q query.Query) ([]bson.M, int64, error)
	// Update applies set to the bootcamp and returns the result.
	Update(ctx context.Context, id string, set bson.M) (*bootcamp.Bootcamp, error)
	Delete(ctx context.Context, id string) error
	// WithinRadius returns bootcamps whose location lies inside the
	// spherical cap of the given angular radius centred on (lng, lat).
	WithinRadius(ctx context.Context, lng, lat, radians float64) ([]*bootcamp.Bootcamp, error)
}
