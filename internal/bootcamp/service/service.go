package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/devcamper/devcamper-api/internal/auth"
	"github.com/devcamper/devcamper-api/internal/bootcamp"
	"github.com/devcamper/devcamper-api/internal/bootcamp/repository"
	courserepo "github.com/devcamper/devcamper-api/internal/course/repository"
	"github.com/devcamper/devcamper-api/internal/geocoder"
	"github.com/devcamper/devcamper-api/internal/query"
	"github.com/devcamper/devcamper-api/internal/storage"
	"github.com/devcamper/devcamper-api/internal/validate"
	"github.com/devcamper/devcamper-api/pkg/logger"
	"github.com/devcamper/devcamper-api/pkg/metrics"
	"github.com/devcamper/devcamper-api/pkg/weberr"
)

// Upload is one received photo. Body is read at most once.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service defines the bootcamp operations used by the handler layer. Every
// error it returns is a *weberr.Error.
type Service interface {
	Find(ctx context.Context, q query.Query) ([]bson.M, int64, error)
	Get(ctx context.Context, id string) (*bootcamp.Bootcamp, error)
	Create(ctx context.Context, caller auth.Caller, in bootcamp.Input) (*bootcamp.Bootcamp, error)
	Update(ctx context.Context, caller auth.Caller, id string, p bootcamp.Patch) (*bootcamp.Bootcamp, error)
	Delete(ctx context.Context, caller auth.Caller, id string) error
	WithinRadius(ctx context.Context, zipcode, distance string) ([]*bootcamp.Bootcamp, error)
	UploadPhoto(ctx context.Context, caller auth.Caller, id string, up *Upload) (string, error)
}

// Deps are the collaborators of the bootcamp service.
type Deps struct {
	Bootcamps     repository.Repository
	Courses       courserepo.Repository
	Geocoder      geocoder.Geocoder
	Files         storage.Receiver
	MaxFileUpload int64
}

func New(d Deps) Service {
	return &service{Deps: d}
}

// NewMemoryService wires in-memory stores; used by tests and when MongoDB is
// not configured.
func NewMemoryService(geo geocoder.Geocoder, files storage.Receiver, maxUpload int64) Service {
	return New(Deps{
		Bootcamps:     repository.NewMemoryRepo(),
		Courses:       courserepo.NewMemoryRepo(),
		Geocoder:      geo,
		Files:         files,
		MaxFileUpload: maxUpload,
	})
}

type service struct {
	Deps
}

func storeErr(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return weberr.Conflict("Duplicate field value entered")
	}
	return weberr.Internal(err, "Server Error")
}

func (s *service) Find(ctx context.Context, q query.Query) ([]bson.M, int64, error) {
	docs, total, err := s.Bootcamps.Find(ctx, q)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	return docs, total, nil
}

func (s *service) Get(ctx context.Context, id string) (*bootcamp.Bootcamp, error) {
	b, err := s.Bootcamps.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, weberr.NotFound("Bootcamp not found with id of %s", id)
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

// owned fetches a bootcamp and checks caller may mutate it.
func (s *service) owned(ctx context.Context, caller auth.Caller, id string) (*bootcamp.Bootcamp, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.Authorize(caller, b.User) {
		return nil, weberr.Unauthorized("User %s is not authorized to update this bootcamp", caller.ID)
	}
	return b, nil
}

func (s *service) locate(ctx context.Context, address string) (*bootcamp.Location, error) {
	loc, err := geocoder.First(ctx, s.Geocoder, address)
	if errors.Is(err, geocoder.ErrNoResults) {
		return nil, weberr.Validation("Could not geocode address %q", address)
	}
	if err != nil {
		return nil, weberr.Internal(err, "Server Error")
	}
	out := bootcamp.Point(loc.Longitude, loc.Latitude)
	out.FormattedAddress = loc.FormattedAddress
	out.Street = loc.Street
	out.City = loc.City
	out.State = loc.StateCode
	out.Zipcode = loc.Zipcode
	out.Country = loc.CountryCode
	return out, nil
}

func (s *service) Create(ctx context.Context, caller auth.Caller, in bootcamp.Input) (*bootcamp.Bootcamp, error) {
	if caller.ID == "" {
		return nil, weberr.Unauthorized("Not authorized to access this route")
	}
	if !caller.IsAdmin() {
		_, err := s.Bootcamps.FindByOwner(ctx, caller.ID)
		if err == nil {
			return nil, weberr.Conflict("The user with ID %s has already published a bootcamp", caller.ID)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, storeErr(err)
		}
	}
	if err := validate.Check(in); err != nil {
		return nil, weberr.Validation("%s", err.Error())
	}
	loc, err := s.locate(ctx, in.Address)
	if err != nil {
		return nil, err
	}

	b := &bootcamp.Bootcamp{
		User:          caller.ID,
		Name:          in.Name,
		Slug:          bootcamp.Slugify(in.Name),
		Description:   in.Description,
		Website:       in.Website,
		Phone:         in.Phone,
		Email:         in.Email,
		Location:      loc,
		Careers:       in.Careers,
		AverageRating: in.AverageRating,
		Photo:         bootcamp.DefaultPhoto,
		Housing:       in.Housing,
		JobAssistance: in.JobAssistance,
		JobGuarantee:  in.JobGuarantee,
		AcceptGi:      in.AcceptGi,
	}
	if err := s.Bootcamps.Create(ctx, b); err != nil {
		return nil, storeErr(err)
	}
	logger.Infof("bootcamp %s created by %s", b.ID, caller.ID)
	return b, nil
}

func (s *service) Update(ctx context.Context, caller auth.Caller, id string, p bootcamp.Patch) (*bootcamp.Bootcamp, error) {
	cur, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := validate.Check(p); err != nil {
		return nil, weberr.Validation("%s", err.Error())
	}
	set := p.Set()
	if p.Address != nil {
		loc, err := s.locate(ctx, *p.Address)
		if err != nil {
			return nil, err
		}
		set["location"] = loc
	}
	if len(set) == 0 {
		return cur, nil
	}
	b, err := s.Bootcamps.Update(ctx, id, set)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, weberr.NotFound("Bootcamp not found with id of %s", id)
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

// Delete removes the bootcamp's courses first so no course outlives its
// parent even if the final delete fails.
func (s *service) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	n, err := s.Courses.DeleteByBootcamp(ctx, id)
	if err != nil {
		return weberr.Internal(err, "Server Error")
	}
	if err := s.Bootcamps.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return weberr.NotFound("Bootcamp not found with id of %s", id)
		}
		return weberr.Internal(err, "Server Error")
	}
	logger.Infof("bootcamp %s deleted by %s with %d courses", id, caller.ID, n)
	return nil
}

func (s *service) WithinRadius(ctx context.Context, zipcode, distance string) ([]*bootcamp.Bootcamp, error) {
	miles, err := strconv.ParseFloat(distance, 64)
	if err != nil || miles < 0 {
		return nil, weberr.BadRequest("Invalid distance %s", distance)
	}
	loc, err := geocoder.First(ctx, s.Geocoder, zipcode)
	if errors.Is(err, geocoder.ErrNoResults) {
		return nil, weberr.BadRequest("Could not geocode zipcode %s", zipcode)
	}
	if err != nil {
		return nil, weberr.Internal(err, "Server Error")
	}
	out, err := s.Bootcamps.WithinRadius(ctx, loc.Longitude, loc.Latitude, miles/repository.EarthRadiusMiles)
	if err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (s *service) UploadPhoto(ctx context.Context, caller auth.Caller, id string, up *Upload) (string, error) {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return "", err
	}
	if up == nil || up.Body == nil {
		return "", weberr.BadRequest("Please upload a file")
	}
	if !strings.HasPrefix(up.ContentType, "image") {
		metrics.PhotoUploads.WithLabelValues("rejected").Inc()
		return "", weberr.BadRequest("Please upload an image file")
	}
	if up.Size > s.MaxFileUpload {
		metrics.PhotoUploads.WithLabelValues("rejected").Inc()
		return "", weberr.BadRequest("Please upload an image less than %d", s.MaxFileUpload)
	}

	name := fmt.Sprintf("photo_%s%s", id, filepath.Ext(up.Filename))
	if err := s.Files.Store(ctx, name, up.Body, up.Size, up.ContentType); err != nil {
		metrics.PhotoUploads.WithLabelValues("failed").Inc()
		logger.Errorf("store photo %s: %v", name, err)
		return "", weberr.Internal(err, "Problem with file upload")
	}
	if _, err := s.Bootcamps.Update(ctx, id, bson.M{"photo": name}); err != nil {
		metrics.PhotoUploads.WithLabelValues("failed").Inc()
		if errors.Is(err, repository.ErrNotFound) {
			return "", weberr.NotFound("Bootcamp not found with id of %s", id)
		}
		return "", storeErr(err)
	}
	metrics.PhotoUploads.WithLabelValues("stored").Inc()
	return name, nil
}
