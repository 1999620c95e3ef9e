package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/devcamper/devcamper-api/internal/course"
	"github.com/devcamper/devcamper-api/internal/query"
	"github.com/devcamper/devcamper-api/internal/validate"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*course.Course
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*course.Course)}
}

func (m *MemoryRepo) Create(ctx context.Context, c *course.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = validate.GenerateID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	m.store[c.ID] = c.Clone()
	return nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*course.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.store[id]; ok {
		return c.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) sorted() []*course.Course {
	out := make([]*course.Course, 0, len(m.store))
	for _, c := range m.store {
		out = append(out, c)
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

func (m *MemoryRepo) ListByBootcamp(ctx context.Context, bootcampID string) ([]*course.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*course.Course{}
	for _, c := range m.sorted() {
		if c.Bootcamp == bootcampID {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id string, set bson.M) (*course.Course, error) {
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

func (m *MemoryRepo) DeleteByBootcamp(ctx context.Context, bootcampID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, c := range m.store {
		if c.Bootcamp == bootcampID {
			delete(m.store, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepo) AverageTuition(ctx context.Context, bootcampID string) (float64, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum float64
	var n int64
	for _, c := range m.store {
		if c.Bootcamp == bootcampID {
			sum += c.Tuition
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return sum / float64(n), n, nil
}

func (m *MemoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.store))
	m.store = make(map[string]*course.Course)
	return n, nil
}
