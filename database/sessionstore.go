package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type sessionDoc struct {
	Token  string    `bson:"_id"`
	Data   []byte    `bson:"data"`
	Expiry time.Time `bson:"expiry"`
}

// SessionStore keeps scs session data in the sessions collection.
// Expired documents are removed by the TTL index; Find also ignores them
// since the TTL monitor only runs once a minute.
type SessionStore struct {
	col *mongo.Collection
}

func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{col: db.Collection(ColSessions)}
}

func (s *SessionStore) Find(token string) ([]byte, bool, error) {
	return s.FindCtx(context.Background(), token)
}

func (s *SessionStore) Commit(token string, b []byte, expiry time.Time) error {
	return s.CommitCtx(context.Background(), token, b, expiry)
}

func (s *SessionStore) Delete(token string) error {
	return s.DeleteCtx(context.Background(), token)
}

func (s *SessionStore) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	doc, err := FindOne[sessionDoc](ctx, s.col, bson.D{
		{Key: "_id", Value: token},
		{Key: "expiry", Value: bson.D{{Key: "$gt", Value: time.Now().UTC()}}},
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return doc.Data, true, nil
}

func (s *SessionStore) CommitCtx(ctx context.Context, token string, b []byte, expiry time.Time) error {
	doc := sessionDoc{Token: token, Data: b, Expiry: expiry.UTC()}
	_, err := s.col.ReplaceOne(ctx, bson.D{{Key: "_id", Value: token}}, doc, options.Replace().SetUpsert(true))
	return Wrap(err)
}

func (s *SessionStore) DeleteCtx(ctx context.Context, token string) error {
	_, err := s.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: token}})
	return Wrap(err)
}
