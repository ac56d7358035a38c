package user

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/course-shop/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type Store interface {
	// Create fails with database.ErrDuplicate when the email is taken.
	Create(ctx context.Context, u User) error
	Fetch(ctx context.Context, id string) (User, error)
	FetchByEmail(ctx context.Context, email string) (User, error)
	UpdateProfile(ctx context.Context, id string, name string, avatarURL string) error

	// AddToCart increments the line of courseID, appending it when missing.
	AddToCart(ctx context.Context, userID string, courseID string) error
	// RemoveFromCart decrements the line of courseID, dropping it at one.
	RemoveFromCart(ctx context.Context, userID string, courseID string) error
	// ClearCart takes the given lines out of the cart. Counts added after
	// the lines were read stay in the cart.
	ClearCart(ctx context.Context, userID string, lines []CartItem) error
}

type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *database.DB) *MongoStore {
	return &MongoStore{col: db.Collection(database.ColUsers)}
}

func (s *MongoStore) Create(ctx context.Context, u User) error {
	if u.Cart == nil {
		u.Cart = []CartItem{}
	}
	if _, err := s.col.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("inserting user: %w", database.Wrap(err))
	}
	return nil
}

func (s *MongoStore) Fetch(ctx context.Context, id string) (User, error) {
	u, err := database.FindOne[User](ctx, s.col, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return User{}, fmt.Errorf("fetching user[%s]: %w", id, err)
	}
	return u, nil
}

func (s *MongoStore) FetchByEmail(ctx context.Context, email string) (User, error) {
	u, err := database.FindOne[User](ctx, s.col, bson.D{{Key: "email", Value: email}})
	if err != nil {
		return User{}, fmt.Errorf("fetching user by email: %w", err)
	}
	return u, nil
}

func (s *MongoStore) UpdateProfile(ctx context.Context, id string, name string, avatarURL string) error {
	set := bson.D{
		{Key: "name", Value: name},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}
	if avatarURL != "" {
		set = append(set, bson.E{Key: "avatarUrl", Value: avatarURL})
	}

	return s.update(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}}, "updating profile of user[%s]", id)
}

func (s *MongoStore) AddToCart(ctx context.Context, userID string, courseID string) error {
	now := time.Now().UTC()

	inc := func() (bool, error) {
		res, err := s.col.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: userID}, {Key: "cart.courseId", Value: courseID}},
			bson.D{
				{Key: "$inc", Value: bson.D{{Key: "cart.$.count", Value: 1}}},
				{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now}}},
			})
		if err != nil {
			return false, fmt.Errorf("incrementing cart line of user[%s]: %w", userID, database.Wrap(err))
		}
		return res.MatchedCount > 0, nil
	}

	if ok, err := inc(); ok || err != nil {
		return err
	}

	// The $ne guard keeps a concurrent add from pushing a second line.
	res, err := s.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: userID}, {Key: "cart.courseId", Value: bson.D{{Key: "$ne", Value: courseID}}}},
		bson.D{
			{Key: "$push", Value: bson.D{{Key: "cart", Value: CartItem{CourseID: courseID, Count: 1}}}},
			{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now}}},
		})
	if err != nil {
		return fmt.Errorf("appending cart line of user[%s]: %w", userID, database.Wrap(err))
	}
	if res.MatchedCount > 0 {
		return nil
	}

	ok, err := inc()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("adding to cart of user[%s]: %w", userID, database.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) RemoveFromCart(ctx context.Context, userID string, courseID string) error {
	now := time.Now().UTC()

	res, err := s.col.UpdateOne(ctx,
		bson.D{
			{Key: "_id", Value: userID},
			{Key: "cart", Value: bson.D{{Key: "$elemMatch", Value: bson.D{
				{Key: "courseId", Value: courseID},
				{Key: "count", Value: bson.D{{Key: "$gt", Value: 1}}},
			}}}},
		},
		bson.D{
			{Key: "$inc", Value: bson.D{{Key: "cart.$.count", Value: -1}}},
			{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now}}},
		})
	if err != nil {
		return fmt.Errorf("decrementing cart line of user[%s]: %w", userID, database.Wrap(err))
	}
	if res.MatchedCount > 0 {
		return nil
	}

	return s.update(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{
			{Key: "$pull", Value: bson.D{{Key: "cart", Value: bson.D{{Key: "courseId", Value: courseID}}}}},
			{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now}}},
		},
		"removing cart line of user[%s]", userID)
}

func (s *MongoStore) ClearCart(ctx context.Context, userID string, lines []CartItem) error {
	touch := bson.D{{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}}}
	if err := s.update(ctx, bson.D{{Key: "_id", Value: userID}}, touch, "clearing cart of user[%s]", userID); err != nil {
		return err
	}

	for _, l := range lines {
		res, err := s.col.UpdateOne(ctx,
			bson.D{
				{Key: "_id", Value: userID},
				{Key: "cart", Value: bson.D{{Key: "$elemMatch", Value: bson.D{
					{Key: "courseId", Value: l.CourseID},
					{Key: "count", Value: bson.D{{Key: "$gt", Value: l.Count}}},
				}}}},
			},
			bson.D{{Key: "$inc", Value: bson.D{{Key: "cart.$.count", Value: -l.Count}}}})
		if err != nil {
			return fmt.Errorf("clearing cart line of user[%s]: %w", userID, database.Wrap(err))
		}
		if res.MatchedCount > 0 {
			continue
		}

		_, err = s.col.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: userID}},
			bson.D{{Key: "$pull", Value: bson.D{{Key: "cart", Value: bson.D{
				{Key: "courseId", Value: l.CourseID},
				{Key: "count", Value: bson.D{{Key: "$lte", Value: l.Count}}},
			}}}}})
		if err != nil {
			return fmt.Errorf("clearing cart line of user[%s]: %w", userID, database.Wrap(err))
		}
	}
	return nil
}

func (s *MongoStore) update(ctx context.Context, filter, update bson.D, format string, id string) error {
	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf(format+": %w", id, database.Wrap(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf(format+": %w", id, database.ErrNotFound)
	}
	return nil
}
