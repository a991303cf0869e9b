package auth

import (
	"context"

	"github.com/2beens/fitnesstracker/internal/users"
)

type userCtxKey struct{}

func ContextWithUser(ctx context.Context, user *users.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// UserFromContext returns the user stored by the auth middleware, if any.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(userCtxKey{}).(*users.User)
	return user, ok && user != nil
}
