package order

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/irsalhamdi/course-shop/database"
)

// MemStore keeps orders in memory; it backs the memory database driver.
type MemStore struct {
	mu     sync.RWMutex
	orders map[string]Order
}

func NewMemStore() *MemStore {
	return &MemStore{orders: make(map[string]Order)}
}

func (s *MemStore) Create(ctx context.Context, o Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[o.ID]; ok {
		return fmt.Errorf("inserting order: %w", database.ErrDuplicate)
	}
	o.Courses = append([]Line{}, o.Courses...)
	s.orders[o.ID] = o
	return nil
}

func (s *MemStore) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ords := []Order{}
	for _, o := range s.orders {
		if o.User.UserID == userID {
			ords = append(ords, o)
		}
	}
	sort.Slice(ords, func(i, j int) bool { return ords[i].Date.After(ords[j].Date) })
	return ords, nil
}

func (s *MemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return fmt.Errorf("deleting order[%s]: %w", id, database.ErrNotFound)
	}
	delete(s.orders, id)
	return nil
}
