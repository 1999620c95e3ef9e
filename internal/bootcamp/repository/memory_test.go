package repository

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/devcamper/devcamper-api/internal/bootcamp"
	"github.com/devcamper/devcamper-api/internal/query"
)

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	b := &bootcamp.Bootcamp{Name: "Devworks", Description: "d", User: "u1", Careers: []string{"Business"}, Photo: bootcamp.DefaultPhoto}
	require.NoError(t, r.Create(ctx, b))
	require.NotEmpty(t, b.ID)
	require.False(t, b.CreatedAt.IsZero())

	got, err := r.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, "Devworks", got.Name)

	got.Name = "mutated"
	again, _ := r.Get(ctx, b.ID)
	require.Equal(t, "Devworks", again.Name, "Get returns a copy")

	owned, err := r.FindByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, b.ID, owned.ID)
	_, err = r.FindByOwner(ctx, "u2")
	require.ErrorIs(t, err, ErrNotFound)

	updated, err := r.Update(ctx, b.ID, bson.M{"description": "new", "averageCost": 9000.0})
	require.NoError(t, err)
	require.Equal(t, "new", updated.Description)
	require.Equal(t, 9000.0, updated.AverageCost)
	require.Equal(t, "Devworks", updated.Name)

	_, err = r.Update(ctx, "missing", bson.M{"name": "x"})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Delete(ctx, b.ID))
	_, err = r.Get(ctx, b.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, b.ID), ErrNotFound)
}

func TestMemoryRepoUniqueName(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	require.NoError(t, r.Create(ctx, &bootcamp.Bootcamp{Name: "A"}))
	second := &bootcamp.Bootcamp{Name: "B"}
	require.NoError(t, r.Create(ctx, second))

	require.ErrorIs(t, r.Create(ctx, &bootcamp.Bootcamp{Name: "A"}), ErrDuplicate)
	_, err := r.Update(ctx, second.ID, bson.M{"name": "A"})
	require.ErrorIs(t, err, ErrDuplicate)
	got, _ := r.Get(ctx, second.ID)
	require.Equal(t, "B", got.Name)
}

func TestMemoryRepoFind(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	for _, n := range []string{"A", "B", "C"} {
		require.NoError(t, r.Create(ctx, &bootcamp.Bootcamp{Name: n, Location: &bootcamp.Location{Type: "Point", Coordinates: []float64{0, 0}, State: "MA"}}))
	}
	all, total, err := r.Find(ctx, query.Parse(url.Values{}))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	v, _ := url.ParseQuery("name[in]=A,C&select=name&sort=-name")
	page, total, err := r.Find(ctx, query.Parse(v))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 2)
	assert.Equal(t, "C", page[0]["name"])
	assert.NotContains(t, page[0], "location")
}

func TestAngularDistance(t *testing.T) {
	// one degree of latitude along a meridian
	assert.InDelta(t, 0.0174533, AngularDistance(10, 0, 10, 1), 1e-6)
	assert.Equal(t, 0.0, AngularDistance(-71, 42, -71, 42))
}

func TestMemoryRepoWithinRadius(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	const miles = 100.0
	radians := miles / EarthRadiusMiles
	deg := radians * 180 / 3.141592653589793

	inside := &bootcamp.Bootcamp{Name: "inside", Location: bootcamp.Point(-71, 42+0.9*deg)}
	outside := &bootcamp.Bootcamp{Name: "outside", Location: bootcamp.Point(-71, 42+1.1*deg)}
	centre := &bootcamp.Bootcamp{Name: "centre", Location: bootcamp.Point(-71, 42)}
	noLoc := &bootcamp.Bootcamp{Name: "nowhere"}
	for _, b := range []*bootcamp.Bootcamp{inside, outside, centre, noLoc} {
		require.NoError(t, r.Create(ctx, b))
	}

	got, err := r.WithinRadius(ctx, -71, 42, radians)
	require.NoError(t, err)
	names := []string{}
	for _, b := range got {
		names = append(names, b.Name)
	}
	assert.ElementsMatch(t, []string{"inside", "centre"}, names)

	got, err = r.WithinRadius(ctx, -71, 42, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "centre", got[0].Name)
}
