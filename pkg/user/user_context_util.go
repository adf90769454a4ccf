package user

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

var ErrNoUser = errors.New("no user in context")

// WithUser returns a copy of ctx carrying the given user. Request handlers
// down the chain read it back via CurrentUser or CurrentId.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func CurrentUser(ctx context.Context) (User, error) {
	u, ok := ctx.Value(userContextKey).(User)
	if !ok {
		log.Trace("No user found in context")
		return User{}, ErrNoUser
	}
	return u, nil
}

func CurrentId(ctx context.Context) (int, error) {
	u, err := CurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	return u.Id, nil
}
