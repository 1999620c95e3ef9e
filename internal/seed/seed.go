// Package seed loads fixture data from JSON files into the stores.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/devcamper/devcamper-api/internal/bootcamp"
	bootcamprepo "github.com/devcamper/devcamper-api/internal/bootcamp/repository"
	"github.com/devcamper/devcamper-api/internal/course"
	courserepo "github.com/devcamper/devcamper-api/internal/course/repository"
	"github.com/devcamper/devcamper-api/internal/models"
	"github.com/devcamper/devcamper-api/internal/users"
	"github.com/devcamper/devcamper-api/pkg/logger"
)

const (
	bootcampsFile = "bootcamps.json"
	coursesFile   = "courses.json"
	usersFile     = "users.json"
)

// Data is one fixture set.
type Data struct {
	Bootcamps []*bootcamp.Bootcamp
	Courses   []*course.Course
	Users     []*models.User
}

// Load reads the fixture files in dir. bootcamps.json is required; the
// others may be absent.
func Load(dir string) (*Data, error) {
	var d Data
	if err := readJSON(filepath.Join(dir, bootcampsFile), &d.Bootcamps, true); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, coursesFile), &d.Courses, false); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, usersFile), &d.Users, false); err != nil {
		return nil, err
	}
	return &d, nil
}

func readJSON(path string, v interface{}, required bool) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Summary counts what Import wrote.
type Summary struct {
	Bootcamps int
	Courses   int
	Users     int
}

// Seeder writes fixtures through the repositories. Users is optional.
type Seeder struct {
	Bootcamps bootcamprepo.Repository
	Courses   courserepo.Repository
	Users     users.UserRepository
}

// Import inserts d and sets each bootcamp's averageCost from its courses.
func (s *Seeder) Import(ctx context.Context, d *Data) (Summary, error) {
	var sum Summary
	if s.Users != nil {
		for _, u := range d.Users {
			if _, err := s.Users.UpsertBySub(ctx, u); err != nil {
				return sum, fmt.Errorf("user %s: %w", u.Sub, err)
			}
			sum.Users++
		}
	}
	for _, b := range d.Bootcamps {
		if b.Slug == "" {
			b.Slug = bootcamp.Slugify(b.Name)
		}
		if b.Photo == "" {
			b.Photo = bootcamp.DefaultPhoto
		}
		if err := s.Bootcamps.Create(ctx, b); err != nil {
			return sum, fmt.Errorf("bootcamp %q: %w", b.Name, err)
		}
		sum.Bootcamps++
	}
	for _, c := range d.Courses {
		if err := s.Courses.Create(ctx, c); err != nil {
			return sum, fmt.Errorf("course %q: %w", c.Title, err)
		}
		sum.Courses++
	}
	for _, b := range d.Bootcamps {
		avg, n, err := s.Courses.AverageTuition(ctx, b.ID)
		if err != nil {
			return sum, err
		}
		if n == 0 {
			continue
		}
		if _, err := s.Bootcamps.Update(ctx, b.ID, bson.M{"averageCost": course.AverageCost(avg)}); err != nil {
			return sum, fmt.Errorf("average cost of %s: %w", b.ID, err)
		}
	}
	logger.Infof("seeded %d bootcamps, %d courses, %d users", sum.Bootcamps, sum.Courses, sum.Users)
	return sum, nil
}

// Purger empties one collection.
type Purger interface {
	DeleteAll(ctx context.Context) (int64, error)
}

// Destroy empties every store and returns the number of removed documents.
func Destroy(ctx context.Context, stores ...Purger) (int64, error) {
	var total int64
	for _, p := range stores {
		n, err := p.DeleteAll(ctx)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
