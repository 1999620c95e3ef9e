package repository

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/devcamper/devcamper-api/internal/course"
	"github.com/devcamper/devcamper-api/internal/query"
)

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	c := &course.Course{Title: "Front End", Bootcamp: "b1", Tuition: 8000, MinimumSkill: "beginner"}
	require.NoError(t, r.Create(ctx, c))
	require.NotEmpty(t, c.ID)

	got, err := r.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Front End", got.Title)

	updated, err := r.Update(ctx, c.ID, bson.M{"tuition": 9000.0})
	require.NoError(t, err)
	require.Equal(t, 9000.0, updated.Tuition)
	require.Equal(t, "b1", updated.Bootcamp)

	require.NoError(t, r.Delete(ctx, c.ID))
	_, err = r.Get(ctx, c.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoBootcampScoped(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	for _, c := range []*course.Course{
		{Title: "a", Bootcamp: "b1", Tuition: 1000},
		{Title: "b", Bootcamp: "b1", Tuition: 2001},
		{Title: "c", Bootcamp: "b2", Tuition: 5000},
	} {
		require.NoError(t, r.Create(ctx, c))
	}

	list, err := r.ListByBootcamp(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	avg, n, err := r.AverageTuition(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	require.Equal(t, 1500.5, avg)
	require.Equal(t, 1510.0, course.AverageCost(avg))

	removed, err := r.DeleteByBootcamp(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, int64(2), removed)

	list, _ = r.ListByBootcamp(ctx, "b1")
	require.Empty(t, list)
	_, n, _ = r.AverageTuition(ctx, "b1")
	require.Zero(t, n)

	rest, total, err := r.Find(ctx, query.Parse(url.Values{}))
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "c", rest[0]["title"])
}
