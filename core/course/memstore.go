package course

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/irsalhamdi/course-shop/database"
)

// MemStore keeps courses in memory; it backs the memory database driver.
type MemStore struct {
	mu      sync.RWMutex
	courses map[string]Course
}

func NewMemStore() *MemStore {
	return &MemStore{courses: make(map[string]Course)}
}

func (s *MemStore) Create(ctx context.Context, c Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[c.ID]; ok {
		return fmt.Errorf("inserting course: %w", database.ErrDuplicate)
	}
	s.courses[c.ID] = c
	return nil
}

func (s *MemStore) Fetch(ctx context.Context, id string) (Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return Course{}, fmt.Errorf("fetching course[%s]: %w", id, database.ErrNotFound)
	}
	return c, nil
}

func (s *MemStore) FetchMany(ctx context.Context, ids []string) ([]Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs := []Course{}
	for _, id := range ids {
		if c, ok := s.courses[id]; ok {
			cs = append(cs, c)
		}
	}
	return cs, nil
}

func (s *MemStore) List(ctx context.Context) ([]Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs := make([]Course, 0, len(s.courses))
	for _, c := range s.courses {
		cs = append(cs, c)
	}
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].ID < cs[j].ID
		}
		return cs[i].CreatedAt.Before(cs[j].CreatedAt)
	})
	return cs, nil
}

func (s *MemStore) Update(ctx context.Context, c Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.courses[c.ID]
	if !ok || old.UserID != c.UserID {
		return fmt.Errorf("updating course[%s]: %w", c.ID, database.ErrNotFound)
	}
	old.Title = c.Title
	old.Price = c.Price
	old.ImageURL = c.ImageURL
	old.UpdatedAt = c.UpdatedAt
	s.courses[c.ID] = old
	return nil
}

func (s *MemStore) Delete(ctx context.Context, id string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[id]
	if !ok || c.UserID != userID {
		return fmt.Errorf("deleting course[%s]: %w", id, database.ErrNotFound)
	}
	delete(s.courses, id)
	return nil
}
