package repository

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/devcamper/devcamper-api/internal/bootcamp"
	"github.com/devcamper/devcamper-api/internal/query"
	"github.com/devcamper/devcamper-api/internal/validate"
)

// MemoryRepo is an in-memory bootcamp store used for tests and when MongoDB
// is not configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*bootcamp.Bootcamp
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*bootcamp.Bootcamp)}
}

func (m *MemoryRepo) Create(ctx context.Context, b *bootcamp.Bootcamp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		b.ID = validate.GenerateID()
	}
	if _, ok := m.store[b.ID]; ok {
		return ErrDuplicate
	}
	if m.nameTaken(b.Name, "") {
		return ErrDuplicate
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	m.store[b.ID] = b.Clone()
	return nil
}

func (m *MemoryRepo) nameTaken(name, except string) bool {
	for id, b := range m.store {
		if id != except && b.Name == name {
			return true
		}
	}
	return false
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*bootcamp.Bootcamp, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.store[id]; ok {
		return b.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) FindByOwner(ctx context.Context, userID string) (*bootcamp.Bootcamp, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.sorted() {
		if b.User == userID {
			return b.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// sorted returns stored bootcamps in creation order for deterministic reads.
func (m *MemoryRepo) sorted() []*bootcamp.Bootcamp {
	out := make([]*bootcamp.Bootcamp, 0, len(m.store))
	for _, b := range m.store {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *MemoryRepo) Find(ctx context.Context, q query.Query) ([]bson.M, int64, error) {
	m.mu.RLock()
	docs, err := query.ToDocs(m.sorted())
	m.mu.RUnlock()
	if err != nil {
		return nil, 0, err
	}
	page, total := query.Apply(docs, q)
	return page, total, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id string, set bson.M) (*bootcamp.Bootcamp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := cur.Clone()
	if err := query.ApplySet(next, set); err != nil {
		return nil, err
	}
	if next.Name != cur.Name && m.nameTaken(next.Name, id) {
		return nil, ErrDuplicate
	}
	m.store[id] = next
	return next.Clone(), nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo) WithinRadius(ctx context.Context, lng, lat, radians float64) ([]*bootcamp.Bootcamp, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*bootcamp.Bootcamp{}
	for _, b := range m.sorted() {
		if b.Location == nil || len(b.Location.Coordinates) < 2 {
			continue
		}
		if AngularDistance(lng, lat, b.Location.Lng(), b.Location.Lat()) <= radians {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}

// AngularDistance is the great-circle angle in radians between two points
// given in degrees.
func AngularDistance(lng1, lat1, lng2, lat2 float64) float64 {
	rad := math.Pi / 180
	phi1, phi2 := lat1*rad, lat2*rad
	dPhi := (lat2 - lat1) * rad
	dLambda := (lng2 - lng1) * rad
	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) + math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * math.Asin(math.Min(1, math.Sqrt(h)))
}

// DeleteAll empties the store.
func (m *MemoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.store))
	m.store = make(map[string]*bootcamp.Bootcamp)
	return n, nil
}
