package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/irsalhamdi/course-shop/config"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	ColUsers    = "users"
	ColCourses  = "courses"
	ColOrders   = "orders"
	ColSessions = "sessions"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("document already exists")
)

// DB bundles the client with the database the application works on.
type DB struct {
	Client *mongo.Client
	*mongo.Database
}

func Open(ctx context.Context, cfg config.DB) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging: %w", err)
	}

	db := &DB{Client: client, Database: client.Database(cfg.Name)}
	if err := db.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return db, nil
}

func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}

func (db *DB) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		col   string
		model mongo.IndexModel
	}{
		{ColUsers, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{ColCourses, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}},
		{ColOrders, mongo.IndexModel{Keys: bson.D{{Key: "user.userId", Value: 1}, {Key: "date", Value: -1}}}},
		{ColSessions, mongo.IndexModel{
			Keys:    bson.D{{Key: "expiry", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		}},
	}

	for _, i := range indexes {
		if _, err := db.Collection(i.col).Indexes().CreateOne(ctx, i.model); err != nil {
			return fmt.Errorf("creating index on %s: %w", i.col, err)
		}
	}
	return nil
}

// Wrap maps driver errors onto the package sentinels.
func Wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func FindOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D) (T, error) {
	var v T
	if err := col.FindOne(ctx, filter).Decode(&v); err != nil {
		return v, Wrap(err)
	}
	return v, nil
}

func FindMany[T any](ctx context.Context, col *mongo.Collection, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]T, error) {
	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, Wrap(err)
	}
	defer cur.Close(ctx)

	res := []T{}
	if err := cur.All(ctx, &res); err != nil {
		return nil, err
	}
	return res, nil
}
