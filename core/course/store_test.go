package course_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/irsalhamdi/course-shop/core/course"
	"github.com/irsalhamdi/course-shop/database"
	"github.com/irsalhamdi/course-shop/database/dbtest"
)

func TestMain(m *testing.M) {
	os.Exit(dbtest.Run(m))
}

func TestMemStore(t *testing.T) {
	testStore(t, course.NewMemStore())
}

func TestMongoStore(t *testing.T) {
	testStore(t, course.NewMongoStore(dbtest.Open(t)))
}

func testStore(t *testing.T, s course.Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	c1 := course.Course{ID: "c1", Title: "One", Price: 10, ImageURL: "https://example.com/1.png", UserID: "u1", CreatedAt: now, UpdatedAt: now}
	c2 := course.Course{ID: "c2", Title: "Two", Price: 0, ImageURL: "https://example.com/2.png", UserID: "u2", CreatedAt: now.Add(time.Second), UpdatedAt: now}

	for _, c := range []course.Course{c1, c2} {
		if err := s.Create(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	ignoreTimes := cmpopts.IgnoreFields(course.Course{}, "CreatedAt", "UpdatedAt")

	cs, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]course.Course{c1, c2}, cs, ignoreTimes); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	cs, err = s.FetchMany(ctx, []string{"c2", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]course.Course{c2}, cs, ignoreTimes); diff != "" {
		t.Fatalf("fetch many mismatch (-want +got):\n%s", diff)
	}

	foreign := c1
	foreign.UserID = "u2"
	foreign.Title = "Hijacked"
	if err := s.Update(ctx, foreign); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("update by another user: got %v, want ErrNotFound", err)
	}

	c1.Title = "One edited"
	c1.Price = 12.5
	if err := s.Update(ctx, c1); err != nil {
		t.Fatal(err)
	}

	got, err := s.Fetch(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c1, got, ignoreTimes); diff != "" {
		t.Fatalf("fetch mismatch (-want +got):\n%s", diff)
	}

	if err := s.Delete(ctx, "c1", "u2"); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("delete by another user: got %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "c1", "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Fetch(ctx, "c1"); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("fetch deleted: got %v, want ErrNotFound", err)
	}
}
