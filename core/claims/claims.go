package claims

import (
	"context"
	"errors"
)

// Claims identifies the authenticated user of a request.
type Claims struct {
	UserID    string
	Name      string
	Email     string
	AvatarURL string
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}

func IsAuthenticated(ctx context.Context) bool {
	_, err := Get(ctx)
	return err == nil
}

func IsUser(ctx context.Context, id string) bool {
	c, err := Get(ctx)
	if err != nil {
		return false
	}

	return c.UserID == id
}
