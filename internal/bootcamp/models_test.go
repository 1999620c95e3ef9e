package bootcamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/devcamper/devcamper-api/internal/validate"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "devworks-bootcamp", Slugify("Devworks Bootcamp"))
	assert.Equal(t, "modern-tech-bootcamp", Slugify("  Modern  Tech -- Bootcamp! "))
	assert.Equal(t, "ui-ux-2024", Slugify("UI/UX 2024"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestCloneDoesNotShareSlices(t *testing.T) {
	b := &Bootcamp{Careers: []string{"Business"}, Location: Point(-71.1, 42.3)}
	c := b.Clone()
	c.Careers[0] = "Other"
	c.Location.Coordinates[0] = 0
	assert.Equal(t, "Business", b.Careers[0])
	assert.Equal(t, -71.1, b.Location.Lng())
	assert.Equal(t, 42.3, b.Location.Lat())
}

func TestInputValidation(t *testing.T) {
	in := Input{
		Name:        "Devworks Bootcamp",
		Description: "Full stack",
		Address:     "233 Bay State Rd Boston MA 02215",
		Careers:     []string{"Web Development", "UI/UX"},
	}
	require.NoError(t, validate.Check(in))

	bad := in
	bad.Careers = []string{"Astrology"}
	assert.Error(t, validate.Check(bad))

	bad = in
	bad.Address = ""
	assert.Error(t, validate.Check(bad))

	bad = in
	bad.Phone = "012345678901234567890123"
	assert.Error(t, validate.Check(bad))
}

func TestPatchSet(t *testing.T) {
	name := "New Name"
	housing := false
	set := Patch{Name: &name, Housing: &housing}.Set()
	assert.Equal(t, bson.M{"name": "New Name", "slug": "new-name", "housing": false}, set)
	assert.Empty(t, Patch{}.Set())

	rating := 11.0
	assert.Error(t, validate.Check(Patch{AverageRating: &rating}))
	assert.NoError(t, validate.Check(Patch{}))
}
