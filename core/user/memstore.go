package user

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/irsalhamdi/course-shop/database"
)

// MemStore keeps users in memory; it backs the memory database driver.
type MemStore struct {
	mu      sync.RWMutex
	users   map[string]User
	byEmail map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:   make(map[string]User),
		byEmail: make(map[string]string),
	}
}

func (s *MemStore) Create(ctx context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[u.Email]; ok {
		return fmt.Errorf("inserting user: %w", database.ErrDuplicate)
	}
	if _, ok := s.users[u.ID]; ok {
		return fmt.Errorf("inserting user: %w", database.ErrDuplicate)
	}

	u.Cart = append([]CartItem{}, u.Cart...)
	s.users[u.ID] = u
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *MemStore) Fetch(ctx context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, fmt.Errorf("fetching user[%s]: %w", id, database.ErrNotFound)
	}
	return clone(u), nil
}

func (s *MemStore) FetchByEmail(ctx context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return User{}, fmt.Errorf("fetching user by email: %w", database.ErrNotFound)
	}
	return clone(s.users[id]), nil
}

func (s *MemStore) UpdateProfile(ctx context.Context, id string, name string, avatarURL string) error {
	return s.mutate(id, func(u *User) {
		u.Name = name
		if avatarURL != "" {
			u.AvatarURL = avatarURL
		}
	})
}

func (s *MemStore) AddToCart(ctx context.Context, userID string, courseID string) error {
	return s.mutate(userID, func(u *User) {
		for i := range u.Cart {
			if u.Cart[i].CourseID == courseID {
				u.Cart[i].Count++
				return
			}
		}
		u.Cart = append(u.Cart, CartItem{CourseID: courseID, Count: 1})
	})
}

func (s *MemStore) RemoveFromCart(ctx context.Context, userID string, courseID string) error {
	return s.mutate(userID, func(u *User) {
		for i := range u.Cart {
			if u.Cart[i].CourseID != courseID {
				continue
			}
			if u.Cart[i].Count > 1 {
				u.Cart[i].Count--
				return
			}
			u.Cart = append(u.Cart[:i:i], u.Cart[i+1:]...)
			return
		}
	})
}

func (s *MemStore) ClearCart(ctx context.Context, userID string, lines []CartItem) error {
	return s.mutate(userID, func(u *User) {
		taken := make(map[string]int, len(lines))
		for _, l := range lines {
			taken[l.CourseID] += l.Count
		}

		kept := []CartItem{}
		for _, it := range u.Cart {
			it.Count -= taken[it.CourseID]
			if it.Count > 0 {
				kept = append(kept, it)
			}
		}
		u.Cart = kept
	})
}

func (s *MemStore) mutate(id string, fn func(u *User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("updating user[%s]: %w", id, database.ErrNotFound)
	}
	u = clone(u)
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return nil
}

func clone(u User) User {
	u.Cart = append([]CartItem{}, u.Cart...)
	u.Password = append([]byte(nil), u.Password...)
	return u
}

// Len is the number of stored users.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
