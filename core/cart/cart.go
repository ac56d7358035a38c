package cart

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-shop/core/course"
	"github.com/irsalhamdi/course-shop/core/user"
)

// Cart is the current user's cart joined with its courses.
type Cart struct {
	Items []Item  `json:"courses"`
	Price float64 `json:"price"`
}

type Item struct {
	course.Course
	Count int `json:"count"`
}

// Build resolves the cart lines of u. Lines whose course was deleted
// since it was added are left out.
func Build(ctx context.Context, courses course.Store, u user.User) (Cart, error) {
	ids := make([]string, 0, len(u.Cart))
	for _, it := range u.Cart {
		ids = append(ids, it.CourseID)
	}

	crt := Cart{Items: []Item{}}
	if len(ids) == 0 {
		return crt, nil
	}

	cs, err := courses.FetchMany(ctx, ids)
	if err != nil {
		return Cart{}, fmt.Errorf("fetching cart courses: %w", err)
	}

	byID := make(map[string]course.Course, len(cs))
	for _, c := range cs {
		byID[c.ID] = c
	}

	for _, it := range u.Cart {
		c, ok := byID[it.CourseID]
		if !ok {
			continue
		}
		crt.Items = append(crt.Items, Item{Course: c, Count: it.Count})
		crt.Price += c.Price * float64(it.Count)
	}

	return crt, nil
}
