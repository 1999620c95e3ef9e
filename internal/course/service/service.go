package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/devcamper/devcamper-api/internal/auth"
	"github.com/devcamper/devcamper-api/internal/bootcamp"
	bootcamprepo "github.com/devcamper/devcamper-api/internal/bootcamp/repository"
	"github.com/devcamper/devcamper-api/internal/course"
	"github.com/devcamper/devcamper-api/internal/course/repository"
	"github.com/devcamper/devcamper-api/internal/query"
	"github.com/devcamper/devcamper-api/internal/validate"
	"github.com/devcamper/devcamper-api/pkg/logger"
	"github.com/devcamper/devcamper-api/pkg/weberr"
)

// Service defines the course operations. Mutations are authorized against
// the owner of the parent bootcamp, never the course creator.
type Service interface {
	Find(ctx context.Context, q query.Query) ([]bson.M, int64, error)
	ListByBootcamp(ctx context.Context, bootcampID string) ([]*course.Course, error)
	Get(ctx context.Context, id string) (*course.Course, error)
	Create(ctx context.Context, caller auth.Caller, bootcampID string, in course.Input) (*course.Course, error)
	Update(ctx context.Context, caller auth.Caller, id string, p course.Patch) (*course.Course, error)
	Delete(ctx context.Context, caller auth.Caller, id string) error
}

func New(courses repository.Repository, bootcamps bootcamprepo.Repository) Service {
	return &service{courses: courses, bootcamps: bootcamps}
}

type service struct {
	courses   repository.Repository
	bootcamps bootcamprepo.Repository
}

func (s *service) Find(ctx context.Context, q query.Query) ([]bson.M, int64, error) {
	docs, total, err := s.courses.Find(ctx, q)
	if err != nil {
		return nil, 0, weberr.Internal(err, "Server Error")
	}
	return docs, total, nil
}

func (s *service) ListByBootcamp(ctx context.Context, bootcampID string) ([]*course.Course, error) {
	list, err := s.courses.ListByBootcamp(ctx, bootcampID)
	if err != nil {
		return nil, weberr.Internal(err, "Server Error")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id string) (*course.Course, error) {
	c, err := s.courses.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, weberr.NotFound("No course with the id of %s", id)
	}
	if err != nil {
		return nil, weberr.Internal(err, "Server Error")
	}
	return c, nil
}

func (s *service) parent(ctx context.Context, caller auth.Caller, bootcampID, action string) (*bootcamp.Bootcamp, error) {
	b, err := s.bootcamps.Get(ctx, bootcampID)
	if errors.Is(err, bootcamprepo.ErrNotFound) {
		return nil, weberr.NotFound("No bootcamp with the id of %s", bootcampID)
	}
	if err != nil {
		return nil, weberr.Internal(err, "Server Error")
	}
	if !auth.Authorize(caller, b.User) {
		return nil, weberr.Unauthorized("User %s is not authorized to %s bootcamp %s", caller.ID, action, b.ID)
	}
	return b, nil
}

func (s *service) Create(ctx context.Context, caller auth.Caller, bootcampID string, in course.Input) (*course.Course, error) {
	if _, err := s.parent(ctx, caller, bootcampID, "add a course to"); err != nil {
		return nil, err
	}
	if err := validate.Check(in); err != nil {
		return nil, weberr.Validation("%s", err.Error())
	}
	c := &course.Course{
		User:                 caller.ID,
		Bootcamp:             bootcampID,
		Title:                in.Title,
		Description:          in.Description,
		Weeks:                in.Weeks,
		Tuition:              *in.Tuition,
		MinimumSkill:         in.MinimumSkill,
		ScholarshipAvailable: in.ScholarshipAvailable,
	}
	if err := s.courses.Create(ctx, c); err != nil {
		return nil, weberr.Internal(err, "Server Error")
	}
	s.recompute(ctx, bootcampID)
	return c, nil
}

func (s *service) Update(ctx context.Context, caller auth.Caller, id string, p course.Patch) (*course.Course, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.parent(ctx, caller, cur.Bootcamp, "update a course of"); err != nil {
		return nil, err
	}
	if err := validate.Check(p); err != nil {
		return nil, weberr.Validation("%s", err.Error())
	}
	set := p.Set()
	if len(set) == 0 {
		return cur, nil
	}
	c, err := s.courses.Update(ctx, id, set)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, weberr.NotFound("No course with the id of %s", id)
	}
	if err != nil {
		return nil, weberr.Internal(err, "Server Error")
	}
	if _, ok := set["tuition"]; ok {
		s.recompute(ctx, c.Bootcamp)
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, caller auth.Caller, id string) error {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.parent(ctx, caller, cur.Bootcamp, "delete a course of"); err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return weberr.NotFound("No course with the id of %s", id)
		}
		return weberr.Internal(err, "Server Error")
	}
	s.recompute(ctx, cur.Bootcamp)
	return nil
}

// recompute refreshes the parent's averageCost. The course mutation has
// already succeeded, so failures are logged rather than returned.
func (s *service) recompute(ctx context.Context, bootcampID string) {
	avg, n, err := s.courses.AverageTuition(ctx, bootcampID)
	if err != nil {
		logger.Errorf("average tuition for %s: %v", bootcampID, err)
		return
	}
	cost := 0.0
	if n > 0 {
		cost = course.AverageCost(avg)
	}
	if _, err := s.bootcamps.Update(ctx, bootcampID, bson.M{"averageCost": cost}); err != nil && !errors.Is(err, bootcamprepo.ErrNotFound) {
		logger.Errorf("update averageCost for %s: %v", bootcampID, err)
	}
}
