package order

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-shop/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type Store interface {
	Create(ctx context.Context, o Order) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	Delete(ctx context.Context, id string) error
}

type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *database.DB) *MongoStore {
	return &MongoStore{col: db.Collection(database.ColOrders)}
}

func (s *MongoStore) Create(ctx context.Context, o Order) error {
	if _, err := s.col.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("inserting order: %w", database.Wrap(err))
	}
	return nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	ords, err := database.FindMany[Order](ctx, s.col, bson.D{{Key: "user.userId", Value: userID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing orders of user[%s]: %w", userID, err)
	}
	return ords, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("deleting order[%s]: %w", id, database.Wrap(err))
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("deleting order[%s]: %w", id, database.ErrNotFound)
	}
	return nil
}
