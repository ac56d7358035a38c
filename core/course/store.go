package course

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-shop/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type Store interface {
	Create(ctx context.Context, c Course) error
	Fetch(ctx context.Context, id string) (Course, error)
	FetchMany(ctx context.Context, ids []string) ([]Course, error)
	List(ctx context.Context) ([]Course, error)
	// Update and Delete only touch a course owned by userID; any other
	// course is reported as database.ErrNotFound.
	Update(ctx context.Context, c Course) error
	Delete(ctx context.Context, id string, userID string) error
}

type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *database.DB) *MongoStore {
	return &MongoStore{col: db.Collection(database.ColCourses)}
}

func (s *MongoStore) Create(ctx context.Context, c Course) error {
	if _, err := s.col.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("inserting course: %w", database.Wrap(err))
	}
	return nil
}

func (s *MongoStore) Fetch(ctx context.Context, id string) (Course, error) {
	c, err := database.FindOne[Course](ctx, s.col, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return Course{}, fmt.Errorf("fetching course[%s]: %w", id, err)
	}
	return c, nil
}

func (s *MongoStore) FetchMany(ctx context.Context, ids []string) ([]Course, error) {
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
	cs, err := database.FindMany[Course](ctx, s.col, filter)
	if err != nil {
		return nil, fmt.Errorf("fetching courses: %w", err)
	}
	return cs, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cs, err := database.FindMany[Course](ctx, s.col, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return cs, nil
}

func (s *MongoStore) Update(ctx context.Context, c Course) error {
	filter := bson.D{{Key: "_id", Value: c.ID}, {Key: "userId", Value: c.UserID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: c.Title},
		{Key: "price", Value: c.Price},
		{Key: "img", Value: c.ImageURL},
		{Key: "updatedAt", Value: c.UpdatedAt},
	}}}

	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("updating course[%s]: %w", c.ID, database.Wrap(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("updating course[%s]: %w", c.ID, database.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string, userID string) error {
	res, err := s.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "userId", Value: userID}})
	if err != nil {
		return fmt.Errorf("deleting course[%s]: %w", id, database.Wrap(err))
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("deleting course[%s]: %w", id, database.ErrNotFound)
	}
	return nil
}
