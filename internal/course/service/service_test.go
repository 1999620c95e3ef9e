package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devcamper/devcamper-api/internal/auth"
	"github.com/devcamper/devcamper-api/internal/bootcamp"
	bootcamprepo "github.com/devcamper/devcamper-api/internal/bootcamp/repository"
	"github.com/devcamper/devcamper-api/internal/course"
	"github.com/devcamper/devcamper-api/internal/course/repository"
	"github.com/devcamper/devcamper-api/pkg/weberr"
)

var (
	owner    = auth.Caller{ID: "owner", Role: auth.RolePublisher}
	stranger = auth.Caller{ID: "stranger", Role: auth.RolePublisher}
	admin    = auth.Caller{ID: "root", Role: auth.RoleAdmin}
)

func setup(t *testing.T) (Service, *repository.MemoryRepo, *bootcamprepo.MemoryRepo, *bootcamp.Bootcamp) {
	t.Helper()
	courses := repository.NewMemoryRepo()
	bootcamps := bootcamprepo.NewMemoryRepo()
	b := &bootcamp.Bootcamp{Name: "Devworks", User: owner.ID}
	require.NoError(t, bootcamps.Create(context.Background(), b))
	return New(courses, bootcamps), courses, bootcamps, b
}

func tuition(v float64) *float64 { return &v }

func input(title string, fee float64) course.Input {
	return course.Input{Title: title, Description: "d", Weeks: "8", Tuition: tuition(fee), MinimumSkill: "beginner"}
}

func kind(t *testing.T, err error) weberr.Kind {
	t.Helper()
	we, ok := weberr.As(err)
	require.True(t, ok, "expected *weberr.Error, got %v", err)
	return we.Kind
}

func TestCreateAuthorizesAgainstParentOwner(t *testing.T) {
	svc, courses, _, b := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, stranger, b.ID, input("Intro", 1000))
	require.Equal(t, weberr.KindUnauthorized, kind(t, err))
	list, _ := courses.ListByBootcamp(ctx, b.ID)
	assert.Empty(t, list)

	c, err := svc.Create(ctx, owner, b.ID, input("Intro", 1000))
	require.NoError(t, err)
	assert.Equal(t, b.ID, c.Bootcamp)
	assert.Equal(t, owner.ID, c.User)

	_, err = svc.Create(ctx, owner, "missing", input("Intro", 1000))
	require.Equal(t, weberr.KindNotFound, kind(t, err))
	assert.EqualError(t, err, "No bootcamp with the id of missing")

	bad := input("x", 1)
	bad.MinimumSkill = "guru"
	_, err = svc.Create(ctx, owner, b.ID, bad)
	assert.Equal(t, weberr.KindValidation, kind(t, err))

	bad = input("x", 1)
	bad.Tuition = nil
	_, err = svc.Create(ctx, owner, b.ID, bad)
	assert.Equal(t, weberr.KindValidation, kind(t, err))
}

func TestCourseCreatorWithoutBootcampOwnershipIsDenied(t *testing.T) {
	svc, courses, _, b := setup(t)
	ctx := context.Background()

	// a course whose creator is not the bootcamp owner
	c := &course.Course{Title: "Legacy", Bootcamp: b.ID, User: stranger.ID, Tuition: 100}
	require.NoError(t, courses.Create(ctx, c))

	title := "Renamed"
	_, err := svc.Update(ctx, stranger, c.ID, course.Patch{Title: &title})
	require.Equal(t, weberr.KindUnauthorized, kind(t, err))
	require.Equal(t, weberr.KindUnauthorized, kind(t, svc.Delete(ctx, stranger, c.ID)))

	got, err := courses.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Legacy", got.Title)

	updated, err := svc.Update(ctx, owner, c.ID, course.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestAverageCostFollowsCourses(t *testing.T) {
	svc, _, bootcamps, b := setup(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, owner, b.ID, input("a", 1000))
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, b.ID, input("b", 2001))
	require.NoError(t, err)
	got, _ := bootcamps.Get(ctx, b.ID)
	assert.Equal(t, 1510.0, got.AverageCost)

	_, err = svc.Update(ctx, owner, first.ID, course.Patch{Tuition: tuition(3001)})
	require.NoError(t, err)
	got, _ = bootcamps.Get(ctx, b.ID)
	assert.Equal(t, 2510.0, got.AverageCost)

	require.NoError(t, svc.Delete(ctx, owner, first.ID))
	got, _ = bootcamps.Get(ctx, b.ID)
	assert.Equal(t, 2010.0, got.AverageCost)

	list, err := svc.ListByBootcamp(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, svc.Delete(ctx, owner, list[0].ID))
	got, _ = bootcamps.Get(ctx, b.ID)
	assert.Zero(t, got.AverageCost)
}

func TestGetAndMissingParent(t *testing.T) {
	svc, courses, bootcamps, b := setup(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "nope")
	assert.EqualError(t, err, "No course with the id of nope")

	c, err := svc.Create(ctx, owner, b.ID, input("a", 10))
	require.NoError(t, err)
	again, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Title, again.Title)

	// parent removed behind the service's back
	require.NoError(t, bootcamps.Delete(ctx, b.ID))
	title := "x"
	_, err = svc.Update(ctx, owner, c.ID, course.Patch{Title: &title})
	assert.Equal(t, weberr.KindNotFound, kind(t, err))
	_, err = courses.Get(ctx, c.ID)
	require.NoError(t, err)
}
