package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devcamper/devcamper-api/internal/bootcamp"
	bootcamprepo "github.com/devcamper/devcamper-api/internal/bootcamp/repository"
	courserepo "github.com/devcamper/devcamper-api/internal/course/repository"
	"github.com/devcamper/devcamper-api/internal/users"
)

func TestLoadShippedFixtures(t *testing.T) {
	d, err := Load(filepath.Join("..", "..", "data"))
	require.NoError(t, err)
	assert.NotEmpty(t, d.Bootcamps)
	assert.NotEmpty(t, d.Courses)
	assert.NotEmpty(t, d.Users)
	for _, b := range d.Bootcamps {
		require.NotNil(t, b.Location, b.Name)
		assert.Len(t, b.Location.Coordinates, 2)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	require.Error(t, err, "bootcamps.json is required")

	require.NoError(t, os.WriteFile(filepath.Join(dir, bootcampsFile), []byte(`[{"name":"Only"}]`), 0o644))
	d, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, d.Bootcamps, 1)
	assert.Empty(t, d.Courses)

	require.NoError(t, os.WriteFile(filepath.Join(dir, coursesFile), []byte(`{broken`), 0o644))
	_, err = Load(dir)
	assert.Error(t, err)
}

func TestImportAndDestroy(t *testing.T) {
	ctx := context.Background()
	d, err := Load(filepath.Join("..", "..", "data"))
	require.NoError(t, err)

	bootcamps := bootcamprepo.NewMemoryRepo()
	courses := courserepo.NewMemoryRepo()
	userRepo := users.NewMemoryUserRepository()
	s := &Seeder{Bootcamps: bootcamps, Courses: courses, Users: userRepo}

	sum, err := s.Import(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, Summary{Bootcamps: len(d.Bootcamps), Courses: len(d.Courses), Users: len(d.Users)}, sum)

	devworks, err := bootcamps.Get(ctx, "5d713995b721c3bb38c1f5d0")
	require.NoError(t, err)
	assert.Equal(t, "devworks-bootcamp", devworks.Slug)
	assert.Equal(t, bootcamp.DefaultPhoto, devworks.Photo)
	assert.Equal(t, 9000.0, devworks.AverageCost)

	admin, err := userRepo.GetBySub(ctx, "5d7a514b5d2c12c7449be042")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "admin", admin.Role)

	_, err = s.Import(ctx, d)
	assert.ErrorIs(t, err, bootcamprepo.ErrDuplicate)

	n, err := Destroy(ctx, courses, bootcamps)
	require.NoError(t, err)
	assert.Equal(t, int64(len(d.Bootcamps)+len(d.Courses)), n)
	list, err := courses.ListByBootcamp(ctx, devworks.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
